package cmd

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/Rorical/RoriQuery/internal/export"
	"github.com/Rorical/RoriQuery/internal/viz"
	"github.com/Rorical/RoriQuery/ui/styles"
)

var conversationsCmd = &cobra.Command{
	Use:     "conversations",
	Aliases: []string{"history"},
	Short:   "Browse saved conversations",
}

var listConversationsCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved conversations",
	Run: func(cmd *cobra.Command, args []string) {
		deps := mustDeps()
		defer deps.Close()
		requireLogin(deps)

		ctx, cancel := commandContext()
		defer cancel()
		convs, err := deps.Store.List(ctx)
		if err != nil {
			log.Fatalf("Failed to list conversations: %v", err)
		}
		if len(convs) == 0 {
			fmt.Println("No conversations yet")
			return
		}
		for _, c := range convs {
			s := c.Summary()
			when := ""
			if !s.Timestamp.IsZero() {
				when = s.Timestamp.Local().Format("2006-01-02 15:04")
			}
			fmt.Printf("%6d  %-50s  %3d msgs  %s\n", s.ID, s.Title, s.Messages, when)
		}
	},
}

var showConversationCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a conversation",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseID(args[0])
		deps := mustDeps()
		defer deps.Close()
		requireLogin(deps)

		ctx, cancel := commandContext()
		defer cancel()
		conv, err := deps.Store.Get(ctx, id)
		if err != nil {
			log.Fatalf("Failed to load conversation: %v", err)
		}

		theme := styles.Get(deps.Config.GetTheme())
		fmt.Printf("# %s\n\n", conv.Title)
		for _, m := range conv.Messages {
			fmt.Printf("[%s]\n", m.Sender)
			printMessage(m, theme, viz.Auto)
			fmt.Println()
		}
	},
}

var deleteConversationCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a conversation",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseID(args[0])
		deps := mustDeps()
		defer deps.Close()
		requireLogin(deps)

		confirmPrompt := promptui.Prompt{
			Label:     fmt.Sprintf("Delete conversation %d? (y/N)", id),
			IsConfirm: true,
		}
		if _, err := confirmPrompt.Run(); err != nil {
			fmt.Println("Deletion cancelled")
			return
		}

		ctx, cancel := commandContext()
		defer cancel()
		if err := deps.Store.Delete(ctx, id); err != nil {
			log.Fatalf("Failed to delete conversation: %v", err)
		}
		fmt.Printf("Conversation %d deleted\n", id)
	},
}

var exportConversationCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Save a conversation as a text transcript",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := parseID(args[0])
		deps := mustDeps()
		defer deps.Close()
		requireLogin(deps)

		ctx, cancel := commandContext()
		defer cancel()
		conv, err := deps.Store.Get(ctx, id)
		if err != nil {
			log.Fatalf("Failed to load conversation: %v", err)
		}

		path, err := export.TranscriptToFile(deps.Config.GetExportDir(), conv.Messages, time.Now())
		if err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		if path == "" {
			fmt.Println("Nothing to export")
			return
		}
		fmt.Printf("Saved to %s\n", path)
	},
}

func parseID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		log.Fatalf("Invalid conversation id %q", s)
	}
	return id
}

func init() {
	conversationsCmd.AddCommand(listConversationsCmd)
	conversationsCmd.AddCommand(showConversationCmd)
	conversationsCmd.AddCommand(deleteConversationCmd)
	conversationsCmd.AddCommand(exportConversationCmd)
	rootCmd.AddCommand(conversationsCmd)
}
