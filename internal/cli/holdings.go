package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wssxwz/stock-strategy/holdings"
	"github.com/wssxwz/stock-strategy/snapshot"
)

var holdingsCmd = &cobra.Command{
	Use:   "holdings",
	Short: "PIN-gated private holdings book",
}

var holdingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List private holdings with P&L",
	Args:  cobra.NoArgs,
	RunE:  runHoldingsList,
}

var holdingsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh holdings P&L from the quote snapshot",
	Args:  cobra.NoArgs,
	RunE:  runHoldingsSync,
}

var holdingsUnlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Unlock the holdings book for 30 minutes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := dash.gate.Unlock(pinArg); err != nil {
			return fmt.Errorf("%w — try again", err)
		}
		fmt.Println("unlocked")
		return nil
	},
}

var holdingsLockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Lock the holdings book immediately",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		dash.gate.Lock()
		fmt.Println("locked")
	},
}

var holdingsPinSetupCmd = &cobra.Command{
	Use:   "pin",
	Short: "First-time PIN setup",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := dash.gate.Setup(pinArg, pinConfirm); err != nil {
			return err
		}
		fmt.Println("PIN set; holdings unlocked")
		return nil
	},
}

var (
	pinArg       string
	pinConfirm   string
	holdingsSort string
	holdingsFlt  string
)

func init() {
	rootCmd.AddCommand(holdingsCmd)
	holdingsCmd.AddCommand(holdingsListCmd)
	holdingsCmd.AddCommand(holdingsSyncCmd)
	holdingsCmd.AddCommand(holdingsUnlockCmd)
	holdingsCmd.AddCommand(holdingsLockCmd)
	holdingsCmd.AddCommand(holdingsPinSetupCmd)

	holdingsUnlockCmd.Flags().StringVar(&pinArg, "pin", "", "4-digit PIN")
	_ = holdingsUnlockCmd.MarkFlagRequired("pin")

	holdingsPinSetupCmd.Flags().StringVar(&pinArg, "pin", "", "4-digit PIN")
	holdingsPinSetupCmd.Flags().StringVar(&pinConfirm, "confirm", "", "PIN again")
	_ = holdingsPinSetupCmd.MarkFlagRequired("pin")
	_ = holdingsPinSetupCmd.MarkFlagRequired("confirm")

	holdingsListCmd.Flags().StringVar(&holdingsSort, "sort", "pnlPct", "sort: pnlPct|pnlAbs|marketValue|ticker")
	holdingsListCmd.Flags().StringVar(&holdingsFlt, "filter", "all", "filter: all|profit|loss")
}

func runHoldingsList(cmd *cobra.Command, args []string) error {
	if err := dash.requireUnlocked(); err != nil {
		return err
	}
	dash.book.Seed(holdings.DefaultSeed)

	list := dash.book.List(holdings.SortKey(holdingsSort), holdings.Filter(holdingsFlt))
	for _, p := range list {
		extra := ""
		if p.Type == holdings.Options {
			extra = fmt.Sprintf("  %s $%.0f", p.Expiry, p.Strike)
		}
		fmt.Printf("%-6s %-24s %8.1f @ $%-8.2f now $%-8.2f  pnl %+10.2f (%+.2f%%)%s\n",
			p.Ticker, p.Name, p.Shares, p.Cost, p.Price, p.PnL, p.PnLPct, extra)
	}

	s := dash.book.Summarize()
	fmt.Printf("\nTotal P&L %+.2f (%+.2f%%)  market value %.2f  winners %d/%d\n",
		s.TotalPnL, s.ReturnPct, s.MarketValue, s.WinCount, s.Positions)
	return nil
}

func runHoldingsSync(cmd *cobra.Command, args []string) error {
	if err := dash.requireUnlocked(); err != nil {
		return err
	}
	dash.book.Seed(holdings.DefaultSeed)

	quotes, status := dash.cache.CoreHoldings(cmd.Context())
	if status == snapshot.Missing {
		return fmt.Errorf("quote snapshot unavailable; try again later")
	}

	updated := dash.book.Sync(quotes.Prices())
	fmt.Printf("synced %d holdings (%s quotes)\n", updated, status)
	return nil
}
