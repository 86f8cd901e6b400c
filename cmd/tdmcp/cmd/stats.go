package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/touchdocs/tdmcp/internal/telemetry"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show accumulated search statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd)
		},
	}
}

func runStats(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	metrics := telemetry.NewMetrics()
	if err := metrics.Load(cfg.StatsPath()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	snap := metrics.Snapshot()

	fmt.Fprintf(out, "total queries:   %d\n", snap.TotalQueries)
	if snap.TotalQueries == 0 {
		return nil
	}
	fmt.Fprintf(out, "average latency: %s\n", snap.AverageLatency.Round(time.Microsecond))

	if popular := metrics.PopularQueries(10); len(popular) > 0 {
		fmt.Fprintln(out, "\npopular queries:")
		for _, q := range popular {
			fmt.Fprintf(out, "  %6d  %s\n", snap.QueryCounts[q], q)
		}
	}

	if len(snap.CategoryCounts) > 0 {
		fmt.Fprintln(out, "\nresults by category:")
		for cat, n := range snap.CategoryCounts {
			fmt.Fprintf(out, "  %6d  %s\n", n, cat)
		}
	}

	if len(snap.ZeroResults) > 0 {
		fmt.Fprintf(out, "\nrecent zero-result queries (%d):\n", len(snap.ZeroResults))
		for _, q := range snap.ZeroResults {
			fmt.Fprintf(out, "  %s\n", q)
		}
	}
	return nil
}
