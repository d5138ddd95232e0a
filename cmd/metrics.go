package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/Rorical/RoriQuery/internal/api"
	"github.com/Rorical/RoriQuery/ui/components"
	"github.com/Rorical/RoriQuery/ui/styles"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show platform analytics (super admin only)",
	Run: func(cmd *cobra.Command, args []string) {
		deps := mustDeps()
		defer deps.Close()
		requireLogin(deps)

		ctx, cancel := commandContext()
		defer cancel()
		m, err := deps.Client.SuperAdminMetrics(ctx)
		if errors.Is(err, api.ErrForbidden) {
			log.Fatal("Super admin access required. Sign in with a super admin account.")
		}
		if err != nil {
			log.Fatalf("Failed to load metrics: %v", err)
		}
		fmt.Println(components.RenderMetrics(m, styles.Get(deps.Config.GetTheme()), 100))
	},
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}
