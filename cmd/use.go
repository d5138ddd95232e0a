package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/Rorical/RoriQuery/internal/config"
)

var useCmd = &cobra.Command{
	Use:   "use [profile-name]",
	Short: "Switch to a profile and start the app",
	Long:  `Switch to the specified profile and immediately start the terminal UI.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		if err := switchProfile(cfg, args[0]); err != nil {
			log.Fatal(err)
		}

		runApp()
	},
}

func init() {
	rootCmd.AddCommand(useCmd)
}
