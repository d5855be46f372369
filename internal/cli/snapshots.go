package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wssxwz/stock-strategy/snapshot"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage cached market snapshots",
}

var snapshotRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Force-fetch every snapshot now",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := dash.cache.Refresh(cmd.Context()); err != nil {
			// Partial refreshes are fine; report and keep whatever landed.
			fmt.Fprintln(os.Stderr, "refresh incomplete:", err)
		} else {
			fmt.Println("snapshots refreshed")
		}
		return nil
	},
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show cached market state",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotShow,
}

var snapshotWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep snapshots fresh on a cron schedule",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotWatch,
}

var snapshotInvalidateCmd = &cobra.Command{
	Use:   "invalidate-reports",
	Short: "Drop the cached weekly reports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dash.cache.InvalidateReports()
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotRefreshCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
	snapshotCmd.AddCommand(snapshotWatchCmd)
	snapshotCmd.AddCommand(snapshotInvalidateCmd)
}

func runSnapshotShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	market, status := dash.cache.Market(ctx)
	if status == snapshot.Missing {
		fmt.Println("market: unavailable")
	} else {
		fmt.Printf("market %s (%s)\n", market.Date, status)
		for _, q := range market.Indices {
			fmt.Printf("  %-8s %10.2f  %+.2f%%\n", q.Ticker, q.Price, q.ChangePct)
		}
		if market.FearGreed != nil {
			fmt.Printf("  fear&greed %d (%s)\n", market.FearGreed.Score, market.FearGreed.Rating)
		}
	}

	cal, status := dash.cache.Calendar(ctx)
	if status == snapshot.Missing {
		fmt.Println("calendar: unavailable")
	} else {
		fmt.Printf("calendar: %d events this week (%s)\n", len(cal.ThisWeek), status)
		for _, e := range cal.ThisWeek {
			fmt.Printf("  %s  %s (importance %d)\n", e.Date, e.Event, e.Importance)
		}
	}

	reports, status := dash.cache.WeeklyReports(ctx)
	if status == snapshot.Missing {
		fmt.Println("weekly reports: unavailable")
	} else {
		fmt.Printf("weekly reports: %d cached\n", len(reports))
	}
	return nil
}

func runSnapshotWatch(cmd *cobra.Command, args []string) error {
	spec := dash.cfg.Snapshot.RefreshSpec

	c := cron.New(cron.WithSeconds())
	_, err := c.AddFunc(spec, func() {
		if err := dash.cache.Refresh(cmd.Context()); err != nil {
			dash.logger.Warn("scheduled refresh incomplete", zap.Error(err))
		} else {
			dash.logger.Info("snapshots refreshed")
		}
	})
	if err != nil {
		return fmt.Errorf("bad refresh spec %q: %w", spec, err)
	}

	// One refresh up front so the dashboard is warm before the first tick.
	if err := dash.cache.Refresh(cmd.Context()); err != nil {
		dash.logger.Warn("initial refresh incomplete", zap.Error(err))
	}

	dash.logger.Info("watching snapshots", zap.String("spec", spec))
	c.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	<-c.Stop().Done()
	return nil
}
