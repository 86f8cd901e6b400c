package docs

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a docs directory for catalog changes and invokes a
// reload callback after events settle. Bursts of writes from a scraper
// run coalesce into a single reload.
type Watcher struct {
	dir      string
	debounce time.Duration
	onChange func(changed []string)
	logger   *slog.Logger

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewWatcher creates a catalog watcher. onChange receives the set of
// changed catalog paths.
func NewWatcher(dir string, debounce time.Duration, onChange func(changed []string), logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
		pending:  make(map[string]struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins watching. It returns once the underlying watcher is
// installed; events are handled on a background goroutine until the
// context is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fw.Add(w.dir); err != nil {
		_ = fw.Close()
		return err
	}
	w.mu.Lock()
	w.watcher = fw
	w.mu.Unlock()

	go w.run(ctx, fw)
	return nil
}

// Stop stops the watcher. Safe to call multiple times.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher != nil {
		_ = w.watcher.Close()
		w.watcher = nil
	}
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *Watcher) run(ctx context.Context, fw *fsnotify.Watcher) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if !isCatalogEvent(ev) {
				continue
			}
			w.record(ev.Name)
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("catalog watcher error", slog.String("error", err.Error()))
		}
	}
}

// record registers a changed path and (re)arms the debounce timer.
func (w *Watcher) record(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

// flush delivers the coalesced change set to the callback.
func (w *Watcher) flush() {
	w.mu.Lock()
	changed := make([]string, 0, len(w.pending))
	for p := range w.pending {
		changed = append(changed, p)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	if len(changed) == 0 {
		return
	}
	w.logger.Info("catalog change detected", slog.Int("files", len(changed)))
	w.onChange(changed)
}

// isCatalogEvent filters to JSON catalog writes, creates and removes.
func isCatalogEvent(ev fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(ev.Name), ".json") {
		return false
	}
	return ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) ||
		ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename)
}
