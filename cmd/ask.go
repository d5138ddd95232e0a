package cmd

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/Rorical/RoriQuery/internal/core"
	"github.com/Rorical/RoriQuery/internal/export"
	"github.com/Rorical/RoriQuery/internal/models"
	"github.com/Rorical/RoriQuery/internal/viz"
	"github.com/Rorical/RoriQuery/ui/components"
	"github.com/Rorical/RoriQuery/ui/styles"
)

var (
	askExport string
	askChart  string
	askYes    bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask one question and print the answer",
	Long: `Ask one question and print the answer, the generated SQL and the result.
Queries that change data ask for confirmation first. The exchange is saved to
your conversation history.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, chart := parseAskFlags()

		deps := mustDeps()
		defer deps.Close()
		requireLogin(deps)

		controller := core.NewController(deps.Client, deps.Store, deps.Logger.Named("ask"))
		defer controller.Close()

		if err := controller.SendMessage(strings.Join(args, " ")); err != nil {
			log.Fatal(err)
		}
		controller.Wait()

		if snap := controller.Snapshot(); snap.Pending != nil {
			if !confirmPending(snap.Pending) {
				controller.Cancel()
				fmt.Println("Query cancelled; nothing was changed.")
				return
			}
			if err := controller.Confirm(); err != nil {
				log.Fatal(err)
			}
			controller.Wait()
		}

		msgs := controller.Snapshot().Messages
		last := msgs[len(msgs)-1]
		theme := styles.Get(deps.Config.GetTheme())
		printMessage(last, theme, chart)

		if last.Sender != models.AI {
			return
		}
		if format != "" && last.HasData() {
			path, err := export.ToFile(deps.Config.GetExportDir(), last.Data, format, time.Now())
			if err != nil {
				log.Fatalf("Export failed: %v", err)
			}
			fmt.Printf("\nExported %d rows to %s\n", len(last.Data), path)
		}
	},
}

func parseAskFlags() (export.Format, viz.ChartType) {
	var format export.Format
	if askExport != "" {
		f, err := export.ParseFormat(askExport)
		if err != nil {
			log.Fatal(err)
		}
		format = f
	}
	chart, err := viz.ParseChartType(askChart)
	if err != nil {
		log.Fatal(err)
	}
	return format, chart
}

func confirmPending(p *models.PendingQuery) bool {
	kind := core.ClassifySQL(p.Response.SQL)
	fmt.Printf("%s query: %s.\n", kind.Type, kind.Message)
	if p.Response.SQL != "" {
		fmt.Println(p.Response.SQL)
	}
	if p.Response.AffectedRows > 0 {
		fmt.Printf("Rows affected: %d\n", p.Response.AffectedRows)
	}
	if askYes {
		return true
	}
	prompt := promptui.Prompt{
		Label:     "Run this query",
		IsConfirm: true,
	}
	_, err := prompt.Run()
	return err == nil
}

func printMessage(msg models.Message, theme styles.Theme, chart viz.ChartType) {
	if msg.Sender != models.AI {
		fmt.Println(msg.Text)
		return
	}
	md := components.NewMarkdown(theme.Glamour, 100)
	fmt.Println(md.Render(msg.Text))
	if msg.SQL != "" {
		fmt.Println()
		fmt.Println(components.HighlightSQL(msg.SQL, theme.Chroma))
	}
	if msg.HasData() {
		fmt.Println()
		fmt.Println(components.RenderResult(msg.Data, chart, theme, 100))
	}
}

func init() {
	askCmd.Flags().StringVarP(&askExport, "export", "x", "", "also export the result (csv, xlsx, json, txt)")
	askCmd.Flags().StringVar(&askChart, "chart", "auto", "chart type (auto, bar, line, pie, table)")
	askCmd.Flags().BoolVarP(&askYes, "yes", "y", false, "confirm data-changing queries without asking")
	rootCmd.AddCommand(askCmd)
}
