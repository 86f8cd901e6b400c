package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/touchdocs/tdmcp/internal/docs"
	"github.com/touchdocs/tdmcp/internal/telemetry"
)

func newIndexCmd() *cobra.Command {
	var docsDir string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the search index from documentation catalogs",
		Long: `Build the search index.

Reads every JSON catalog in the docs directory, indexes the documents
and writes the snapshot so 'tdmcp serve' starts instantly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd.Context(), cmd, docsDir)
		},
	}

	cmd.Flags().StringVarP(&docsDir, "docs", "d", "", "Documentation catalog directory (default: from config)")
	return cmd
}

func runIndex(ctx context.Context, cmd *cobra.Command, docsDir string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if docsDir != "" {
		cfg.Paths.DocsDir = docsDir
	}

	logger, cleanup, err := setupLogging(cfg, debugMode)
	if err != nil {
		return err
	}
	defer cleanup()

	engine := newEngine(cfg, telemetry.NewMetrics(), logger)
	if err := engine.LoadIndex(); err != nil {
		logger.Warn("previous snapshot unusable, rebuilding from scratch", "error", err)
	}

	loader := docs.NewLoader(cfg.Paths.DocsDir, logger)
	loaded, err := loader.Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	result, err := engine.IndexDocuments(ctx, loaded.Documents, func(done, total, indexed int) {
		fmt.Fprintf(out, "batch %d/%d (%d documents indexed)\n", done, total, indexed)
	})
	if err != nil {
		return err
	}

	if err := engine.SaveIndex(); err != nil {
		return err
	}

	status := engine.Status()
	fmt.Fprintf(out, "indexed %d documents (%d errored, %d skipped) from %d catalog files\n",
		result.Indexed, result.Errored, result.Skipped+loaded.Skipped, loaded.Files)
	fmt.Fprintf(out, "index: %d documents, %d terms -> %s\n",
		status.DocumentCount, status.TermCount, cfg.SnapshotPath())
	return nil
}
