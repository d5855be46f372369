package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wssxwz/stock-strategy/snapshot"
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Today's signals, positions, win rate, and core cards",
	Args:  cobra.NoArgs,
	RunE:  runOverview,
}

func init() {
	rootCmd.AddCommand(overviewCmd)
}

func runOverview(cmd *cobra.Command, args []string) error {
	s := dash.board.Build(cmd.Context())

	winRate := "--"
	if s.HasWinRate {
		winRate = fmt.Sprintf("%d%%", s.WinRatePct)
	}
	fmt.Printf("signals today: %d   active positions: %d   win rate: %s\n",
		s.TodaySignals, s.ActivePositions, winRate)

	fmt.Println("\ncore holdings")
	for _, card := range s.Cards {
		line := fmt.Sprintf("  %-6s", card.Ticker)
		if card.Quote != nil {
			line += fmt.Sprintf("  $%.2f (%+.2f%%)", card.Quote.Price, card.Quote.ChangePct)
		}
		if card.Signal != nil {
			line += fmt.Sprintf("  score %d", card.Signal.Score)
		}
		if card.Quote == nil && card.Signal == nil {
			line += "  waiting for data"
		}
		fmt.Println(line)
	}
	if s.QuoteStatus != snapshot.Fresh {
		fmt.Printf("  (quotes %s)\n", s.QuoteStatus)
	}

	if len(s.Today) > 0 {
		fmt.Println("\ntoday's pushes")
		for _, e := range s.Today {
			fmt.Printf("  %s  %s\n", e.Time.In(dash.loc).Format("15:04"), e.Title)
		}
	}
	return nil
}
