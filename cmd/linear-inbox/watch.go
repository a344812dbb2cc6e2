package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/roeyazroel/linear-inbox/internal/inbox"
	"github.com/spf13/cobra"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the inbox summary on every auto-refresh",
	Long: `Refresh the inbox now and then on every auto-refresh tick, printing the
section summary each time. The interval defaults to the saved auto-refresh
preference. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval := watchInterval
		if interval == 0 {
			interval = loadPreferences().AutoRefreshInterval()
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watchRun(ctx, inbox.NewController(newAPI(), store), interval)
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Refresh interval (default: saved preference)")
	rootCmd.AddCommand(watchCmd)
}

// watchRun refreshes once, then on every tick until ctx is done.
func watchRun(ctx context.Context, controller *inbox.Controller, interval time.Duration, opts ...inbox.SchedulerOption) error {
	if interval <= 0 {
		return errors.New("auto-refresh is off; pass --interval or enable it in settings")
	}

	printSummary := func() {
		if err := controller.Refresh(ctx); err != nil {
			ui.Error("Refresh failed: %v", err)
			return
		}
		s := controller.State()
		ui.Info("%s: %d issues", s.LastUpdated.Format(time.Kitchen), s.Buckets.Total())
		for _, section := range s.Buckets.Sections() {
			if len(section.Issues) > 0 {
				fmt.Fprintf(ui.Out, "  %-15s %d\n", section.Title(), len(section.Issues))
			}
		}
	}

	printSummary()

	scheduler := inbox.NewScheduler(printSummary, opts...)
	scheduler.SetInterval(interval)
	defer scheduler.Stop()
	ui.VerboseLog("Refreshing every %s", interval)

	<-ctx.Done()
	return nil
}
