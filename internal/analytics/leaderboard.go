// Package analytics loads the leaderboard and its filter options.
package analytics

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Rorical/RoriQuery/internal/api"
)

// DefaultLimit is the number of ranks requested when none is given.
const DefaultLimit = 50

var Categories = []string{api.CategoryAll, api.CategoryMCQ, api.CategoryCoding}

// Source is the part of the API client the leaderboard needs.
type Source interface {
	Leaderboard(ctx context.Context, q api.LeaderboardQuery) ([]api.LeaderboardEntry, error)
	LeaderboardCourses(ctx context.Context, collegeID int64) ([]api.Course, error)
	LeaderboardColleges(ctx context.Context) ([]api.College, error)
	LeaderboardMetadata(ctx context.Context, collegeID int64) (*api.LeaderboardMetadata, error)
}

// Filters are the choices offered by the leaderboard pickers.
type Filters struct {
	Colleges    []api.College
	Courses     []api.Course
	Departments []api.FilterOption
	Batches     []api.FilterOption
	Sections    []api.FilterOption
}

// LoadFilters fetches colleges, courses and metadata concurrently. Colleges
// are admin-only; a forbidden reply leaves that list empty instead of
// failing the whole load.
func LoadFilters(ctx context.Context, src Source, collegeID int64) (*Filters, error) {
	var f Filters
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		colleges, err := src.LeaderboardColleges(ctx)
		if errors.Is(err, api.ErrForbidden) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load colleges: %w", err)
		}
		f.Colleges = colleges
		return nil
	})
	g.Go(func() error {
		courses, err := src.LeaderboardCourses(ctx, collegeID)
		if err != nil {
			return fmt.Errorf("load courses: %w", err)
		}
		f.Courses = courses
		return nil
	})
	g.Go(func() error {
		meta, err := src.LeaderboardMetadata(ctx, collegeID)
		if err != nil {
			return fmt.Errorf("load metadata: %w", err)
		}
		f.Departments = meta.Departments
		f.Batches = meta.Batches
		f.Sections = meta.Sections
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Board is one leaderboard page together with the query that produced it.
type Board struct {
	Query   api.LeaderboardQuery
	Entries []api.LeaderboardEntry
}

// CurrentUser returns the caller's own entry, if ranked.
func (b *Board) CurrentUser() (api.LeaderboardEntry, bool) {
	for _, e := range b.Entries {
		if e.IsCurrentUser {
			return e, true
		}
	}
	return api.LeaderboardEntry{}, false
}

func LoadBoard(ctx context.Context, src Source, q api.LeaderboardQuery) (*Board, error) {
	if q.Category == "" {
		q.Category = api.CategoryAll
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	entries, err := src.Leaderboard(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	return &Board{Query: q, Entries: entries}, nil
}

// NextCategory cycles all -> mcq -> coding.
func NextCategory(c string) string {
	for i, x := range Categories {
		if x == c {
			return Categories[(i+1)%len(Categories)]
		}
	}
	return api.CategoryAll
}
