package telemetry

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/renameio"

	tderrors "github.com/touchdocs/tdmcp/internal/errors"
)

// StatsVersion identifies the on-disk statistics format.
const StatsVersion = 1

// CountPair serializes a counter as a two-element JSON array,
// e.g. ["noise",42]. Keeps the stats file compact and diff-friendly.
type CountPair struct {
	Key   string
	Count int64
}

// MarshalJSON encodes the pair as ["key",count].
func (p CountPair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.Key, p.Count})
}

// UnmarshalJSON decodes ["key",count].
func (p *CountPair) UnmarshalJSON(data []byte) error {
	var raw [2]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[0], &p.Key); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &p.Count)
}

type statsFile struct {
	Version        int         `json:"version"`
	SavedAt        time.Time   `json:"savedAt"`
	TotalQueries   int64       `json:"totalQueries"`
	TotalLatencyMS int64       `json:"totalLatencyMs"`
	QueryCounts    []CountPair `json:"queryCounts"`
	CategoryCounts []CountPair `json:"categoryCounts"`
	LatencyBuckets []CountPair `json:"latencyBuckets"`
	ZeroResults    []string    `json:"zeroResults"`
}

func pairsFromMap(m map[string]int64) []CountPair {
	pairs := make([]CountPair, 0, len(m))
	for k, v := range m {
		pairs = append(pairs, CountPair{Key: k, Count: v})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key < pairs[j].Key })
	return pairs
}

// Save writes the current statistics to path atomically.
func (m *Metrics) Save(path string) error {
	snap := m.Snapshot()

	buckets := make(map[string]int64, len(snap.LatencyBuckets))
	for b, n := range snap.LatencyBuckets {
		buckets[string(b)] = n
	}

	f := statsFile{
		Version:        StatsVersion,
		SavedAt:        time.Now().UTC(),
		TotalQueries:   snap.TotalQueries,
		TotalLatencyMS: snap.TotalLatency.Milliseconds(),
		QueryCounts:    pairsFromMap(snap.QueryCounts),
		CategoryCounts: pairsFromMap(snap.CategoryCounts),
		LatencyBuckets: pairsFromMap(buckets),
		ZeroResults:    snap.ZeroResults,
	}

	data, err := json.Marshal(f)
	if err != nil {
		return tderrors.PersistenceError(tderrors.ErrCodeSnapshotWrite, "failed to encode stats", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return tderrors.PersistenceError(tderrors.ErrCodeSnapshotWrite, "failed to create stats directory", err)
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return tderrors.PersistenceError(tderrors.ErrCodeSnapshotWrite, "failed to write stats file", err)
	}
	return nil
}

// Load replaces the accumulated statistics with the contents of path.
// A missing file leaves the metrics empty and returns nil.
func (m *Metrics) Load(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return tderrors.PersistenceError(tderrors.ErrCodeSnapshotCorrupt, "failed to read stats file", err)
	}

	var f statsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return tderrors.PersistenceError(tderrors.ErrCodeSnapshotCorrupt, "failed to decode stats file", err)
	}
	if f.Version != StatsVersion {
		return tderrors.PersistenceError(tderrors.ErrCodeSnapshotVersion, "unsupported stats version", nil).
			WithDetail("found", jsonNumber(f.Version)).
			WithDetail("supported", jsonNumber(StatsVersion))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalQueries = f.TotalQueries
	m.totalLatency = time.Duration(f.TotalLatencyMS) * time.Millisecond
	m.queryCounts = make(map[string]int64, len(f.QueryCounts))
	for _, p := range f.QueryCounts {
		m.queryCounts[p.Key] = p.Count
	}
	m.categoryCounts = make(map[string]int64, len(f.CategoryCounts))
	for _, p := range f.CategoryCounts {
		m.categoryCounts[p.Key] = p.Count
	}
	m.latencyBuckets = make(map[LatencyBucket]int64, len(f.LatencyBuckets))
	for _, p := range f.LatencyBuckets {
		m.latencyBuckets[LatencyBucket(p.Key)] = p.Count
	}
	m.zeroResults.Clear()
	for _, q := range f.ZeroResults {
		m.zeroResults.Add(q)
	}
	return nil
}

func jsonNumber(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

// Flusher periodically saves metrics to disk.
type Flusher struct {
	metrics  *Metrics
	path     string
	interval time.Duration
	logger   *slog.Logger

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewFlusher creates a flusher writing metrics to path every interval.
func NewFlusher(metrics *Metrics, path string, interval time.Duration, logger *slog.Logger) *Flusher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Flusher{
		metrics:  metrics,
		path:     path,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins the periodic flush loop.
func (f *Flusher) Start() {
	go func() {
		defer close(f.done)
		ticker := time.NewTicker(f.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := f.metrics.Save(f.path); err != nil {
					f.logger.Warn("stats flush failed", "path", f.path, "error", err)
				}
			case <-f.stop:
				return
			}
		}
	}()
}

// Stop halts the loop and performs a final flush.
func (f *Flusher) Stop() {
	f.once.Do(func() {
		close(f.stop)
		<-f.done
		if err := f.metrics.Save(f.path); err != nil {
			f.logger.Warn("final stats flush failed", "path", f.path, "error", err)
		}
	})
}
