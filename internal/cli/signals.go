package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wssxwz/stock-strategy/signal"
)

var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "Import, list, and archive buy signals",
}

var signalsImportCmd = &cobra.Command{
	Use:   "import [text]",
	Short: "Parse a pushed signal text and store it",
	Long: `Parse a free-text signal push into a structured signal.

The text is taken from the argument, or from stdin when no argument is
given. Ticker and score are mandatory; other fields default to zero.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSignalsImport,
}

var signalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active (non-archived) signals",
	Args:  cobra.NoArgs,
	RunE:  runSignalsList,
}

var signalsArchiveCmd = &cobra.Command{
	Use:   "archive <signal-id>",
	Short: "Archive a signal (idempotent)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dash.signals.Archive(args[0])
		fmt.Println("archived", args[0])
		return nil
	},
}

var (
	filterType  string
	filterScore int
	filterQuery string
)

func init() {
	rootCmd.AddCommand(signalsCmd)
	signalsCmd.AddCommand(signalsImportCmd)
	signalsCmd.AddCommand(signalsListCmd)
	signalsCmd.AddCommand(signalsArchiveCmd)

	signalsListCmd.Flags().StringVar(&filterType, "type", "all", "signal type filter")
	signalsListCmd.Flags().IntVar(&filterScore, "min-score", 0, "minimum score")
	signalsListCmd.Flags().StringVar(&filterQuery, "query", "", "ticker substring (case-insensitive)")
}

func runSignalsImport(cmd *cobra.Command, args []string) error {
	var raw string
	if len(args) == 1 {
		raw = args[0]
	} else {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		raw = string(b)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("empty signal text")
	}

	sig, err := dash.signals.ImportFromText(raw)
	var perr *signal.ParseError
	if errors.As(err, &perr) {
		return fmt.Errorf("%v — check the pushed text format", perr)
	}
	if err != nil {
		return err
	}

	fmt.Printf("imported %s (score %d)\n", sig.Ticker, sig.Score)
	return nil
}

func runSignalsList(cmd *cobra.Command, args []string) error {
	sigs := dash.signals.List(signal.Filter{
		Type:     filterType,
		MinScore: filterScore,
		Query:    filterQuery,
	})
	if len(sigs) == 0 {
		fmt.Println("no signals")
		return nil
	}

	for _, s := range sigs {
		taken := ""
		if s.PositionTaken {
			taken = "  [position taken]"
		}
		tag := ""
		if s.KBTag != "" {
			tag = "  " + s.KBTag
		}
		fmt.Printf("%s  %-6s score %-3d  price $%.2f  tp $%.2f  sl $%.2f  rsi %.1f%s%s\n",
			s.ID, s.Ticker, s.Score, s.Price, s.TPPrice, s.SLPrice, s.RSI14, tag, taken)
	}
	return nil
}
