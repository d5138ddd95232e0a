package api

import (
	"context"
	"fmt"
	"net/http"
)

// Leaderboard categories understood by the backend.
const (
	CategoryAll    = "all"
	CategoryMCQ    = "mcq"
	CategoryCoding = "coding"
)

// LeaderboardQuery filters the ranking. Zero ids are omitted so the backend
// falls back to the caller's own college.
type LeaderboardQuery struct {
	CollegeID    int64  `json:"college_id,omitempty"`
	CourseID     int64  `json:"course_id,omitempty"`
	DepartmentID int64  `json:"department_id,omitempty"`
	BatchID      int64  `json:"batch_id,omitempty"`
	SectionID    int64  `json:"section_id,omitempty"`
	Category     string `json:"category"`
	Limit        int    `json:"limit"`
}

type LeaderboardMetrics struct {
	Score             float64 `json:"score"`
	TotalMarks        float64 `json:"total_marks"`
	QuestionsAttended float64 `json:"questions_attended"`
	Accuracy          string  `json:"accuracy"`
}

type LeaderboardEntry struct {
	Rank          int                `json:"rank"`
	StudentName   string             `json:"student_name"`
	IsCurrentUser bool               `json:"is_current_user"`
	AvatarSeed    string             `json:"avatar_seed"`
	Metrics       LeaderboardMetrics `json:"metrics"`
}

type College struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Course struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// FilterOption is an id/name pair for the department, batch and section pickers.
type FilterOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type LeaderboardMetadata struct {
	Departments []FilterOption `json:"departments"`
	Batches     []FilterOption `json:"batches"`
	Sections    []FilterOption `json:"sections"`
}

func (c *Client) Leaderboard(ctx context.Context, q LeaderboardQuery) ([]LeaderboardEntry, error) {
	if q.Category == "" {
		q.Category = CategoryAll
	}
	var out []LeaderboardEntry
	err := c.do(ctx, call{
		method:        http.MethodPost,
		path:          "/analytics/leaderboard",
		body:          q,
		out:           &out,
		authenticated: true,
	})
	return out, err
}

func (c *Client) LeaderboardCourses(ctx context.Context, collegeID int64) ([]Course, error) {
	path := "/analytics/leaderboard/courses"
	if collegeID != 0 {
		path += fmt.Sprintf("?college_id=%d", collegeID)
	}
	var out []Course
	err := c.do(ctx, call{
		method:        http.MethodGet,
		path:          path,
		out:           &out,
		authenticated: true,
	})
	return out, err
}

// LeaderboardColleges is restricted to admins; students get ErrForbidden.
func (c *Client) LeaderboardColleges(ctx context.Context) ([]College, error) {
	var out []College
	err := c.do(ctx, call{
		method:        http.MethodGet,
		path:          "/analytics/leaderboard/colleges",
		out:           &out,
		authenticated: true,
	})
	return out, err
}

func (c *Client) LeaderboardMetadata(ctx context.Context, collegeID int64) (*LeaderboardMetadata, error) {
	path := "/analytics/leaderboard/metadata"
	if collegeID != 0 {
		path += fmt.Sprintf("?college_id=%d", collegeID)
	}
	var out LeaderboardMetadata
	err := c.do(ctx, call{
		method:        http.MethodGet,
		path:          path,
		out:           &out,
		authenticated: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
