package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the push-notification history grouped by day",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	groups := dash.hist.GroupedByDay()
	if len(groups) == 0 {
		fmt.Println("no push history")
		return nil
	}

	for _, g := range groups {
		fmt.Println(g.Date)
		for _, e := range g.Entries {
			preview := e.Content
			if len([]rune(preview)) > 60 {
				preview = string([]rune(preview)[:60]) + "..."
			}
			fmt.Printf("  %s  %-14s  %s — %s\n",
				e.Time.In(dash.loc).Format("15:04:05"), e.Type.Label(), e.Title, preview)
		}
	}
	return nil
}
