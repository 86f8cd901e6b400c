package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/touchdocs/tdmcp/internal/search"
	"github.com/touchdocs/tdmcp/internal/telemetry"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	category string
	tags     []string
	limit    int
	fuzzy    bool
	format   string // "text", "json"
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the indexed documentation",
		Long: `Search the indexed documentation from the command line.

Examples:
  tdmcp search "noise chop"
  tdmcp search audio --category CHOP --limit 5
  tdmcp search feedback --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.category, "category", "c", "", "Restrict to one operator family (CHOP, TOP, ...)")
	cmd.Flags().StringSliceVarP(&opts.tags, "tag", "t", nil, "Require a tag on every result (repeatable)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Maximum number of results (default: from config)")
	cmd.Flags().BoolVar(&opts.fuzzy, "fuzzy", false, "Enable fuzzy term matching")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, query string, opts searchOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, cleanup, err := setupLogging(cfg, false)
	if err != nil {
		return err
	}
	defer cleanup()

	engine := newEngine(cfg, telemetry.NewMetrics(), logger)
	if err := engine.LoadIndex(); err != nil {
		logger.Warn("snapshot unusable, searching empty index", "error", err)
	}
	if engine.Status().DocumentCount == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "index is empty; run 'tdmcp index' first")
	}

	resp, err := engine.Search(ctx, query, search.Options{
		Category: opts.category,
		Tags:     opts.tags,
		Limit:    opts.limit,
		Fuzzy:    opts.fuzzy,
	})
	if err != nil {
		return err
	}

	if opts.format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	printResults(cmd, query, resp)
	return nil
}

func printResults(cmd *cobra.Command, query string, resp *search.Response) {
	out := cmd.OutOrStdout()
	bold, reset := "", ""
	if f, ok := out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		bold, reset = "\033[1m", "\033[0m"
	}

	if resp.TotalResults == 0 {
		fmt.Fprintf(out, "no results for %q\n", query)
		if len(resp.Suggestions) > 0 {
			fmt.Fprintf(out, "try: %s\n", strings.Join(resp.Suggestions, ", "))
		}
		return
	}

	fmt.Fprintf(out, "%d results (%s)\n\n", resp.TotalResults, resp.SearchTime.Round(time.Microsecond))
	for i, r := range resp.Results {
		fmt.Fprintf(out, "%2d. %s%s%s [%s] (%.1f)\n", i+1, bold, r.Name, reset, r.Category, r.Score)
		if r.Snippet != "" {
			fmt.Fprintf(out, "    %s\n", r.Snippet)
		}
	}
}
