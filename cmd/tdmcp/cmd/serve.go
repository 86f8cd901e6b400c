package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/touchdocs/tdmcp/internal/config"
	"github.com/touchdocs/tdmcp/internal/docs"
	tdmcp "github.com/touchdocs/tdmcp/internal/mcp"
	"github.com/touchdocs/tdmcp/internal/search"
	"github.com/touchdocs/tdmcp/internal/telemetry"
)

func newServeCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Long: `Start the MCP server.

Restores the index from the last snapshot when one exists; otherwise
indexes the documentation catalogs before accepting requests. With
--watch, catalog changes on disk trigger automatic re-indexing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), watch)
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", true, "Re-index automatically when catalog files change")
	return cmd
}

func runServe(ctx context.Context, watch bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// stdout carries the MCP protocol; logs go to the file only.
	logger, cleanup, err := setupLogging(cfg, false)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := telemetry.NewMetrics()
	if err := metrics.Load(cfg.StatsPath()); err != nil {
		logger.Warn("stats load failed, starting fresh", "error", err)
	}
	if cfg.Persist.Enabled && cfg.Persist.FlushInterval > 0 {
		flusher := telemetry.NewFlusher(metrics, cfg.StatsPath(), cfg.Persist.FlushInterval, logger)
		flusher.Start()
		defer flusher.Stop()
	} else {
		defer func() {
			if err := metrics.Save(cfg.StatsPath()); err != nil {
				logger.Warn("final stats save failed", "error", err)
			}
		}()
	}

	engine := newEngine(cfg, metrics, logger)
	if err := engine.LoadIndex(); err != nil {
		logger.Warn("continuing with empty index", "error", err)
	}
	defer func() {
		if err := engine.Close(); err != nil {
			logger.Warn("engine close failed", "error", err)
		}
	}()

	loader := docs.NewLoader(cfg.Paths.DocsDir, logger)

	// An empty index on startup means no snapshot: index the catalogs.
	if engine.Status().DocumentCount == 0 {
		if err := reindex(ctx, engine, loader, logger); err != nil {
			logger.Warn("initial indexing failed, serving empty index", "error", err)
		}
	}
	engine.Start()

	if watch {
		watcher := docs.NewWatcher(cfg.Paths.DocsDir, cfg.Index.WatchDebounce, func(changed []string) {
			if err := reindex(ctx, engine, loader, logger); err != nil {
				logger.Warn("re-indexing failed", "error", err)
			}
		}, logger)
		if err := watcher.Start(ctx); err != nil {
			logger.Warn("catalog watcher unavailable", "error", err)
		} else {
			defer watcher.Stop()
		}
	}

	server, err := tdmcp.NewServer(engine, loader, metrics, logger)
	if err != nil {
		return err
	}
	return server.Serve(ctx, cfg.Server.Transport)
}

// newEngine builds a search engine from configuration.
func newEngine(cfg *config.Config, metrics *telemetry.Metrics, logger *slog.Logger) *search.Engine {
	return search.NewEngine(search.EngineConfig{
		DefaultLimit:   cfg.Search.DefaultLimit,
		MaxLimit:       cfg.Search.MaxLimit,
		CacheSize:      cfg.Search.CacheSize,
		MinQueryLength: cfg.Search.MinQueryLength,
		Fuzzy:          cfg.Search.Fuzzy,
		MaxSuggestions: cfg.Search.MaxSuggestions,
		BatchSize:      cfg.Index.BatchSize,
		Workers:        cfg.Index.Workers,
		SnapshotPath:   cfg.SnapshotPath(),
		PersistEnabled: cfg.Persist.Enabled,
		FlushInterval:  cfg.Persist.FlushInterval,
	}, metrics, logger)
}

// reindex loads the catalogs and bulk-indexes them.
func reindex(ctx context.Context, engine *search.Engine, loader *docs.Loader, logger *slog.Logger) error {
	loaded, err := loader.Load()
	if err != nil {
		return err
	}
	result, err := engine.IndexDocuments(ctx, loaded.Documents, nil)
	if err != nil {
		return err
	}
	logger.Info("catalog indexed",
		"files", loaded.Files,
		"indexed", result.Indexed,
		"errored", result.Errored,
		"skipped", result.Skipped+loaded.Skipped)
	return nil
}
