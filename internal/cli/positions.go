package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wssxwz/stock-strategy/ledger"
)

var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "Track public trades opened from signals",
}

var positionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active and closed positions",
	Args:  cobra.NoArgs,
	RunE:  runPositionsList,
}

var openCmd = &cobra.Command{
	Use:   "open <ticker>",
	Short: "Record a newly opened trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runOpen,
}

var closeCmd = &cobra.Command{
	Use:   "close <position-id>",
	Short: "Close a position as win or loss",
	Args:  cobra.ExactArgs(1),
	RunE:  runClose,
}

var (
	openEntry  float64
	openTP     float64
	openSL     float64
	openNote   string
	openSigID  string
	closeType  string
	closePrice float64
)

func init() {
	rootCmd.AddCommand(positionsCmd)
	positionsCmd.AddCommand(positionsListCmd)
	positionsCmd.AddCommand(openCmd)
	positionsCmd.AddCommand(closeCmd)

	openCmd.Flags().Float64Var(&openEntry, "entry", 0, "entry price (required)")
	openCmd.Flags().Float64Var(&openTP, "tp", 0, "take-profit price")
	openCmd.Flags().Float64Var(&openSL, "sl", 0, "stop-loss price")
	openCmd.Flags().StringVar(&openNote, "note", "", "free-form note")
	openCmd.Flags().StringVar(&openSigID, "signal", "", "originating signal id")
	_ = openCmd.MarkFlagRequired("entry")

	closeCmd.Flags().StringVar(&closeType, "type", "", "exit type: win|loss (required)")
	closeCmd.Flags().Float64Var(&closePrice, "price", 0, "exit price (required)")
	_ = closeCmd.MarkFlagRequired("type")
	_ = closeCmd.MarkFlagRequired("price")
}

func runOpen(cmd *cobra.Command, args []string) error {
	pos, err := dash.ledger.Open(args[0], openEntry, openTP, openSL, openNote, openSigID)
	if err != nil {
		return err
	}
	fmt.Printf("opened %s %s @$%.2f\n", pos.ID, pos.Ticker, pos.EntryPrice)
	return nil
}

func runClose(cmd *cobra.Command, args []string) error {
	exit := ledger.ExitType(closeType)
	if exit != ledger.Win && exit != ledger.Loss {
		return fmt.Errorf("exit type must be win or loss, got %q", closeType)
	}

	pos, ok := dash.ledger.Close(args[0], exit, closePrice)
	if !ok {
		// Unknown or already closed: idempotent-by-absence, not an error.
		fmt.Println("no open position with id", args[0])
		return nil
	}
	fmt.Printf("closed %s @$%.2f, return %+.2f%%\n", pos.Ticker, pos.ExitPrice, pos.Return())
	return nil
}

func runPositionsList(cmd *cobra.Command, args []string) error {
	active := dash.ledger.Active()
	closed := dash.ledger.ClosedPositions()

	fmt.Printf("Active (%d)\n", len(active))
	for _, p := range active {
		fmt.Printf("  %s  %-6s entry $%.2f  tp $%.2f  sl $%.2f  opened %s\n",
			p.ID, p.Ticker, p.EntryPrice, p.TP, p.SL, p.EntryTime.In(dash.loc).Format("2006-01-02 15:04"))
	}

	fmt.Printf("Closed (%d)\n", len(closed))
	for _, p := range closed {
		fmt.Printf("  %s  %-6s entry $%.2f  exit $%.2f  %-4s  %+.2f%%\n",
			p.ID, p.Ticker, p.EntryPrice, p.ExitPrice, p.ExitType, p.Return())
	}

	if pct, ok := dash.ledger.WinRate(); ok {
		fmt.Printf("Win rate: %d%%\n", pct)
	}
	return nil
}
