package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Rorical/RoriQuery/internal/app"
	"github.com/Rorical/RoriQuery/internal/nav"
)

var (
	verbose   bool
	startPath string
)

const commandTimeout = 2 * time.Minute

var rootCmd = &cobra.Command{
	Use:   "roriquery",
	Short: "Ask your database questions in plain language",
	Long: `RoriQuery is a terminal client for the RoriQuery assistant: ask questions in
plain language, review the generated SQL, confirm changes, chart and export
the results.`,
	Run: func(cmd *cobra.Command, args []string) {
		runApp()
	},
}

func runApp() {
	application, err := app.NewApplication(verbose, startPath)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	defer application.Stop()

	if err := application.Start(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

// mustDeps builds the shared wiring for one-shot commands. A 401 prints a
// hint instead of switching screens.
func mustDeps() *app.Deps {
	deps, err := app.NewDeps(verbose, nav.NavigatorFunc(func(path string) {
		if nav.Resolve(path, false) == nav.Login {
			fmt.Fprintln(os.Stderr, "Session expired. Run 'roriquery login' to sign in again.")
		}
	}))
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	return deps
}

// requireLogin exits when the active profile has no token.
func requireLogin(deps *app.Deps) {
	if !deps.Session.Authenticated() {
		log.Fatalf("Not signed in. Run 'roriquery login' first.")
	}
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), commandTimeout)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution error: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	rootCmd.Flags().StringVar(&startPath, "open", string(nav.Dashboard), "screen to open first (/, /chat, /leaderboard, /super-admin)")
	useCmd.Flags().StringVar(&startPath, "open", string(nav.Dashboard), "screen to open first")

	rootCmd.AddCommand(profileCmd)
}
