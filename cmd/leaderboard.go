package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/Rorical/RoriQuery/internal/analytics"
	"github.com/Rorical/RoriQuery/internal/api"
	"github.com/Rorical/RoriQuery/ui/components"
	"github.com/Rorical/RoriQuery/ui/styles"
)

var (
	boardQuery   api.LeaderboardQuery
	boardFilters bool
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the student leaderboard",
	Run: func(cmd *cobra.Command, args []string) {
		switch boardQuery.Category {
		case api.CategoryAll, api.CategoryMCQ, api.CategoryCoding:
		default:
			log.Fatalf("Unknown category %q (all, mcq, coding)", boardQuery.Category)
		}

		deps := mustDeps()
		defer deps.Close()
		requireLogin(deps)

		ctx, cancel := commandContext()
		defer cancel()
		theme := styles.Get(deps.Config.GetTheme())

		if boardFilters {
			f, err := analytics.LoadFilters(ctx, deps.Client, boardQuery.CollegeID)
			if err != nil {
				log.Fatalf("Failed to load filters: %v", err)
			}
			printFilters(f)
			return
		}

		board, err := analytics.LoadBoard(ctx, deps.Client, boardQuery)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(components.RenderLeaderboard(board, board.Query.Category, theme))
	},
}

func printFilters(f *analytics.Filters) {
	if len(f.Colleges) > 0 {
		fmt.Println("Colleges:")
		for _, c := range f.Colleges {
			fmt.Printf("  %d  %s\n", c.ID, c.Name)
		}
	}
	fmt.Println("Courses:")
	for _, c := range f.Courses {
		fmt.Printf("  %d  %s\n", c.ID, c.Title)
	}
	for _, group := range []struct {
		name string
		opts []api.FilterOption
	}{
		{"Departments", f.Departments},
		{"Batches", f.Batches},
		{"Sections", f.Sections},
	} {
		fmt.Printf("%s:\n", group.name)
		for _, o := range group.opts {
			fmt.Printf("  %d  %s\n", o.ID, o.Name)
		}
	}
}

func init() {
	flags := leaderboardCmd.Flags()
	flags.StringVarP(&boardQuery.Category, "category", "c", api.CategoryAll, "all, mcq or coding")
	flags.IntVarP(&boardQuery.Limit, "limit", "n", analytics.DefaultLimit, "number of ranks")
	flags.Int64Var(&boardQuery.CollegeID, "college", 0, "college id")
	flags.Int64Var(&boardQuery.CourseID, "course", 0, "course id")
	flags.Int64Var(&boardQuery.DepartmentID, "department", 0, "department id")
	flags.Int64Var(&boardQuery.BatchID, "batch", 0, "batch id")
	flags.Int64Var(&boardQuery.SectionID, "section", 0, "section id")
	flags.BoolVar(&boardFilters, "filters", false, "list the available filter ids instead")
	rootCmd.AddCommand(leaderboardCmd)
}
