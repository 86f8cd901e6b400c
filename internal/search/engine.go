package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/touchdocs/tdmcp/internal/docs"
	tderrors "github.com/touchdocs/tdmcp/internal/errors"
	"github.com/touchdocs/tdmcp/internal/index"
	"github.com/touchdocs/tdmcp/internal/telemetry"
)

// EngineConfig configures the search engine.
type EngineConfig struct {
	// DefaultLimit applies when a search sets no limit.
	DefaultLimit int

	// MaxLimit caps any requested limit.
	MaxLimit int

	// CacheSize bounds the result cache.
	CacheSize int

	// MinQueryLength is the minimum trimmed query length; shorter
	// queries return empty results with suggestions.
	MinQueryLength int

	// Fuzzy enables fuzzy expansion on every query, not only when a
	// query has no exact matches.
	Fuzzy bool

	// MaxSuggestions caps the suggestion list.
	MaxSuggestions int

	// BatchSize and Workers shape bulk indexing.
	BatchSize int
	Workers   int

	// SnapshotPath is where SaveIndex and LoadIndex persist the index.
	// Empty disables persistence.
	SnapshotPath string

	// FlushInterval drives periodic snapshot writes when PersistEnabled.
	PersistEnabled bool
	FlushInterval  time.Duration
}

// DefaultEngineConfig returns engine defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		DefaultLimit:   50,
		MaxLimit:       200,
		CacheSize:      256,
		MinQueryLength: 2,
		MaxSuggestions: 5,
		BatchSize:      100,
		Workers:        4,
		FlushInterval:  5 * time.Minute,
	}
}

// Engine orchestrates the index core behind a single read-write lock.
// Reads (Search, Suggestions, Status) take the read lock; any mutation
// takes the write lock and invalidates the result cache before
// releasing it, so no stale response outlives the write.
type Engine struct {
	cfg        EngineConfig
	logger     *slog.Logger
	metrics    *telemetry.Metrics
	classifier *Classifier
	suggester  *Suggester
	cache      *ResultCache

	mu            sync.RWMutex
	state         State
	inverted      *index.InvertedIndex
	store         *index.DocStore
	facets        *index.FacetTracker
	dirty         bool
	lastIndexedAt time.Time
	lastSavedAt   time.Time

	flushStop chan struct{}
	flushDone chan struct{}
	closeOnce sync.Once
}

// NewEngine creates an engine in the uninitialized state. Call
// LoadIndex (or index documents) before serving searches.
func NewEngine(cfg EngineConfig, metrics *telemetry.Metrics, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = telemetry.NewMetrics()
	}
	def := DefaultEngineConfig()
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = def.DefaultLimit
	}
	if cfg.MaxLimit < cfg.DefaultLimit {
		cfg.MaxLimit = def.MaxLimit
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = def.CacheSize
	}
	if cfg.MinQueryLength <= 0 {
		cfg.MinQueryLength = def.MinQueryLength
	}
	if cfg.MaxSuggestions <= 0 {
		cfg.MaxSuggestions = def.MaxSuggestions
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}

	analyzer := index.NewAnalyzer(index.DefaultAnalyzerConfig())
	e := &Engine{
		cfg:        cfg,
		logger:     logger,
		metrics:    metrics,
		classifier: NewClassifier(DefaultClassifierCacheSize),
		cache:      NewResultCache(cfg.CacheSize),
		state:      StateUninitialized,
		inverted:   index.NewInvertedIndex(analyzer),
		store:      index.NewDocStore(),
		facets:     index.NewFacetTracker(),
	}
	e.suggester = NewSuggester(metrics.PopularQueries, cfg.MaxSuggestions)
	return e
}

// LoadIndex restores the index from the configured snapshot. A missing
// snapshot leaves the engine ready with an empty index. A corrupt or
// incompatible snapshot also leaves the engine ready and empty, with
// the persistence error returned so the caller can report it.
func (e *Engine) LoadIndex() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state = StateLoading

	var loadErr error
	if e.cfg.SnapshotPath != "" {
		snap, err := index.LoadSnapshot(e.cfg.SnapshotPath)
		switch {
		case err != nil:
			e.logger.Warn("snapshot load failed, starting empty",
				"path", e.cfg.SnapshotPath, "error", err)
			loadErr = err
		case snap != nil:
			snap.Restore(e.inverted, e.store, e.facets)
			e.lastSavedAt = snap.SavedAt
			e.logger.Info("index restored from snapshot",
				"path", e.cfg.SnapshotPath,
				"documents", e.store.Len(),
				"terms", e.inverted.TermCount())
		default:
			e.logger.Info("no snapshot found, starting empty", "path", e.cfg.SnapshotPath)
		}
	}

	e.state = StateReady
	e.cache.InvalidateAll()
	return loadErr
}

// Start begins periodic snapshot flushing when persistence is enabled.
func (e *Engine) Start() {
	if !e.cfg.PersistEnabled || e.cfg.SnapshotPath == "" || e.cfg.FlushInterval <= 0 {
		return
	}
	e.flushStop = make(chan struct{})
	e.flushDone = make(chan struct{})
	go func() {
		defer close(e.flushDone)
		ticker := time.NewTicker(e.cfg.FlushInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := e.SaveIndex(); err != nil {
					e.logger.Warn("periodic snapshot failed", "error", err)
				}
			case <-e.flushStop:
				return
			}
		}
	}()
}

// Close stops the flush loop and writes a final snapshot when the
// index changed since the last save.
func (e *Engine) Close() error {
	var err error
	e.closeOnce.Do(func() {
		if e.flushStop != nil {
			close(e.flushStop)
			<-e.flushDone
		}
		if e.cfg.PersistEnabled && e.cfg.SnapshotPath != "" {
			err = e.SaveIndex()
		}
		e.mu.Lock()
		e.state = StateClosed
		e.mu.Unlock()
	})
	return err
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Status reports the engine's shape for diagnostics.
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Status{
		State:         e.state,
		DocumentCount: e.store.Len(),
		TermCount:     e.inverted.TermCount(),
		Facets:        e.facets.Counts(),
		LastIndexedAt: e.lastIndexedAt,
		LastSavedAt:   e.lastSavedAt,
	}
}

// Document returns the indexed document by id, or nil.
func (e *Engine) Document(id string) *docs.Document {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.Get(id)
}

// Categories returns facet counts by category.
func (e *Engine) Categories() map[string]int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.facets.Counts()
}

// IndexDocument adds or replaces one document. An existing document
// with the same id is fully removed first, so re-indexing never leaves
// stale postings behind. The result cache is invalidated before the
// write lock is released.
func (e *Engine) IndexDocument(doc *docs.Document) error {
	if doc == nil {
		return tderrors.ValidationError(tderrors.ErrCodeDocMalformed, "document is nil")
	}
	doc.EnsureID()
	if err := doc.Validate(); err != nil {
		return err
	}

	prepared := e.inverted.Prepare(fieldTextsFor(doc))

	e.mu.Lock()
	defer e.mu.Unlock()
	e.applyLocked(doc, prepared)
	e.afterWriteLocked()
	return nil
}

// RemoveDocument deletes a document from the index. Removing an
// unknown id is a no-op.
func (e *Engine) RemoveDocument(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	existing := e.store.Get(id)
	if existing == nil {
		return
	}
	e.inverted.Remove(id)
	e.facets.Remove(existing.Category)
	e.store.Delete(id)
	e.afterWriteLocked()
}

// IndexDocuments bulk-indexes documents in sequential batches. Within
// a batch, analysis runs concurrently across the configured worker
// count while insertion stays serialized in submission order, so when
// two documents share an id the later one wins. Documents that fail
// validation are counted and logged, never aborting the run.
func (e *Engine) IndexDocuments(ctx context.Context, documents []*docs.Document, progress ProgressFunc) (*BatchResult, error) {
	e.setState(StateIndexing)
	defer e.setState(StateReady)

	result := &BatchResult{}
	totalBatches := (len(documents) + e.cfg.BatchSize - 1) / e.cfg.BatchSize

	for batchNum := 0; batchNum*e.cfg.BatchSize < len(documents); batchNum++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		start := batchNum * e.cfg.BatchSize
		end := start + e.cfg.BatchSize
		if end > len(documents) {
			end = len(documents)
		}
		batch := documents[start:end]

		prepared := make([]index.PreparedDoc, len(batch))
		var g errgroup.Group
		g.SetLimit(e.cfg.Workers)
		for i, doc := range batch {
			if doc == nil {
				result.Skipped++
				continue
			}
			doc.EnsureID()
			if err := doc.Validate(); err != nil {
				result.Errored++
				e.logger.Warn("skipping invalid document", "id", doc.ID, "error", err)
				continue
			}
			g.Go(func() error {
				prepared[i] = e.inverted.Prepare(fieldTextsFor(doc))
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return result, err
		}

		e.mu.Lock()
		for i, doc := range batch {
			if prepared[i] == nil {
				continue
			}
			e.applyLocked(doc, prepared[i])
			result.Indexed++
		}
		e.afterWriteLocked()
		e.mu.Unlock()

		if progress != nil {
			progress(batchNum+1, totalBatches, result.Indexed)
		}
	}

	e.logger.Info("bulk indexing complete",
		"indexed", result.Indexed, "errored", result.Errored, "skipped", result.Skipped)
	return result, nil
}

// applyLocked inserts one prepared document. Caller holds the write lock.
func (e *Engine) applyLocked(doc *docs.Document, prepared index.PreparedDoc) {
	if existing := e.store.Get(doc.ID); existing != nil {
		e.inverted.Remove(doc.ID)
		e.facets.Remove(existing.Category)
	}
	e.store.Put(doc)
	e.inverted.AddPrepared(doc.ID, prepared)
	e.facets.Add(doc.Category)
}

// afterWriteLocked runs invariant upkeep after any mutation. Caller
// holds the write lock, so no concurrent reader can repopulate the
// cache from pre-write state before invalidation lands.
func (e *Engine) afterWriteLocked() {
	e.cache.InvalidateAll()
	e.dirty = true
	e.lastIndexedAt = time.Now().UTC()
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

// Search executes one query. A query shorter than the minimum usable
// length returns an empty result carrying suggestions rather than an
// error. Results are deterministic: equal scores break ties by id.
func (e *Engine) Search(ctx context.Context, query string, opts Options) (*Response, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := e.checkReady(); err != nil {
		return nil, err
	}
	if opts.Limit < 0 {
		return nil, tderrors.ValidationError(tderrors.ErrCodeInvalidParams, "limit must not be negative")
	}
	if opts.Limit == 0 {
		opts.Limit = e.cfg.DefaultLimit
	}
	if opts.Limit > e.cfg.MaxLimit {
		opts.Limit = e.cfg.MaxLimit
	}
	if opts.Category != "" && !docs.ValidCategory(normalizeCategory(opts.Category)) {
		return nil, tderrors.ValidationError(tderrors.ErrCodeInvalidParams,
			fmt.Sprintf("unknown category %q", opts.Category))
	}
	if !opts.Fuzzy {
		opts.Fuzzy = e.cfg.Fuzzy
	}

	trimmed := strings.TrimSpace(query)
	if len(trimmed) < e.cfg.MinQueryLength {
		resp := e.shortQueryResponse(trimmed, start)
		return resp, nil
	}

	key := Key(trimmed, opts)
	if cached, ok := e.cache.Get(key); ok {
		e.recordQuery(trimmed, cached, time.Since(start))
		return cached, nil
	}

	e.mu.RLock()
	resp := e.searchLocked(trimmed, opts)
	// Put happens under the read lock: writers hold the exclusive lock
	// for both mutation and invalidation, so a stale entry cannot be
	// inserted after a purge.
	e.cache.Put(key, resp)
	e.mu.RUnlock()

	resp.SearchTime = time.Since(start)
	e.recordQuery(trimmed, resp, resp.SearchTime)
	return resp, nil
}

func (e *Engine) checkReady() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	switch e.state {
	case StateReady, StateIndexing:
		return nil
	default:
		return tderrors.New(tderrors.ErrCodeNotReady,
			fmt.Sprintf("search engine is %s", e.state), nil)
	}
}

func (e *Engine) shortQueryResponse(query string, start time.Time) *Response {
	e.mu.RLock()
	suggestions := e.suggester.Suggest(query, e.inverted)
	e.mu.RUnlock()

	return &Response{
		Results:     []Result{},
		QueryType:   QueryTypeGeneral,
		Suggestions: suggestions,
		SearchTime:  time.Since(start),
	}
}

// searchLocked runs the scoring pipeline. Caller holds the read lock.
func (e *Engine) searchLocked(query string, opts Options) *Response {
	queryType, weights := e.classifier.Classify(query)
	terms := e.inverted.Analyzer().Normalize(query)

	exact, fuzzy := e.gatherMatches(terms, opts.Fuzzy)

	results := make([]Result, 0, len(exact))
	facetCounts := make(map[string]int)
	for id, matches := range exact {
		doc := e.store.Get(id)
		if doc == nil || !matchesFilters(doc, opts) {
			continue
		}
		score := Score(ScoreInput{
			RawQuery:  query,
			Terms:     terms,
			Matches:   matches,
			Doc:       doc,
			Weights:   weights,
			QueryType: queryType,
		})
		if fuzzyMatches, ok := fuzzy[id]; ok {
			// Approximate hits contribute at half weight.
			score += 0.5 * Score(ScoreInput{
				Terms:   terms,
				Matches: fuzzyMatches,
				Doc:     doc,
				Weights: weights,
			})
		}
		if score <= 0 {
			continue
		}
		results = append(results, Result{
			ID:       doc.ID,
			Name:     doc.Label(),
			Category: string(doc.Category),
			Score:    score,
			Snippet:  snippet(doc),
		})
		facetCounts[string(doc.Category)]++
	}

	// Fuzzy-only hits (no exact term matched) still qualify.
	for id, matches := range fuzzy {
		if _, hasExact := exact[id]; hasExact {
			continue
		}
		doc := e.store.Get(id)
		if doc == nil || !matchesFilters(doc, opts) {
			continue
		}
		score := 0.5 * Score(ScoreInput{
			Terms:   terms,
			Matches: matches,
			Doc:     doc,
			Weights: weights,
		})
		if score <= 0 {
			continue
		}
		results = append(results, Result{
			ID:       doc.ID,
			Name:     doc.Label(),
			Category: string(doc.Category),
			Score:    score,
			Snippet:  snippet(doc),
		})
		facetCounts[string(doc.Category)]++
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})

	total := len(results)
	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	resp := &Response{
		Results:      results,
		TotalResults: total,
		QueryType:    queryType,
		Facets:       facetCounts,
	}
	if total == 0 {
		resp.Suggestions = e.suggester.Suggest(query, e.inverted)
	}
	return resp
}

// gatherMatches reads postings for each query term. Fuzzy expansion
// applies when requested or when no exact term matched anything.
func (e *Engine) gatherMatches(terms []string, fuzzyWanted bool) (exact, fuzzy map[string]map[string]TermMatch) {
	// Repeated query terms count once.
	unique := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		unique = append(unique, term)
	}

	exact = make(map[string]map[string]TermMatch)
	for _, term := range unique {
		for _, p := range e.inverted.Postings(term) {
			addMatch(exact, p.DocID, term, p.Field, p.Frequency)
		}
	}

	if !fuzzyWanted && len(exact) > 0 {
		return exact, nil
	}

	fuzzy = make(map[string]map[string]TermMatch)
	for _, term := range unique {
		for _, expanded := range expandTerm(term, e.inverted) {
			for _, p := range e.inverted.Postings(expanded) {
				addMatch(fuzzy, p.DocID, expanded, p.Field, p.Frequency)
			}
		}
	}
	return exact, fuzzy
}

func addMatch(m map[string]map[string]TermMatch, docID, term string, field index.Field, freq int) {
	byTerm, ok := m[docID]
	if !ok {
		byTerm = make(map[string]TermMatch)
		m[docID] = byTerm
	}
	match, ok := byTerm[term]
	if !ok {
		match = make(TermMatch)
		byTerm[term] = match
	}
	match[field] += freq
}

// matchesFilters applies category and tag restrictions.
func matchesFilters(doc *docs.Document, opts Options) bool {
	if opts.Category != "" &&
		normalizeCategory(opts.Category) != string(doc.Category) {
		return false
	}
	if len(opts.Tags) == 0 {
		return true
	}

	have := make(map[string]struct{}, len(doc.Keywords)+len(doc.Tags))
	for _, k := range doc.Keywords {
		have[strings.ToLower(k)] = struct{}{}
	}
	for _, t := range doc.Tags {
		have[strings.ToLower(t)] = struct{}{}
	}
	for _, want := range opts.Tags {
		if _, ok := have[strings.ToLower(strings.TrimSpace(want))]; !ok {
			return false
		}
	}
	return true
}

// normalizeCategory maps user input to the canonical category spelling:
// operator families are uppercase, doc groups are title-case.
func normalizeCategory(s string) string {
	s = strings.TrimSpace(s)
	upper := strings.ToUpper(s)
	for _, c := range docs.Categories {
		if strings.ToUpper(string(c)) == upper {
			return string(c)
		}
	}
	return s
}

// snippet returns a short excerpt for result display.
func snippet(doc *docs.Document) string {
	text := doc.Summary
	if text == "" {
		text = doc.Description
	}
	const maxLen = 160
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= maxLen {
		return text
	}
	cut := strings.LastIndex(text[:maxLen], " ")
	if cut <= 0 {
		cut = maxLen
	}
	return text[:cut] + "..."
}

// Suggestions returns completions for a partial query.
func (e *Engine) Suggestions(partial string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.suggester.Suggest(partial, e.inverted)
}

func (e *Engine) recordQuery(query string, resp *Response, latency time.Duration) {
	categories := make(map[string]int, len(resp.Facets))
	for cat, n := range resp.Facets {
		categories[cat] = n
	}
	e.metrics.Record(telemetry.QueryEvent{
		Query:       query,
		ResultCount: resp.TotalResults,
		Latency:     latency,
		Categories:  categories,
	})
}

// SaveIndex writes the current index to the configured snapshot path.
// A clean index (no writes since the last save) is skipped.
func (e *Engine) SaveIndex() error {
	if e.cfg.SnapshotPath == "" {
		return nil
	}

	e.mu.RLock()
	if !e.dirty && !e.lastSavedAt.IsZero() {
		e.mu.RUnlock()
		return nil
	}
	snap := index.BuildSnapshot(e.inverted, e.store, e.facets)
	e.mu.RUnlock()

	if err := index.SaveSnapshot(e.cfg.SnapshotPath, snap); err != nil {
		return err
	}

	e.mu.Lock()
	e.dirty = false
	e.lastSavedAt = snap.SavedAt
	e.mu.Unlock()

	e.logger.Info("index snapshot saved",
		"path", e.cfg.SnapshotPath,
		"documents", len(snap.Documents),
		"terms", len(snap.Terms))
	return nil
}
