// Package telemetry accumulates search statistics for the lifetime of
// the process: query counts, latency, popular queries, zero-result
// queries and per-category result distribution. All data stays local.
package telemetry

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// LatencyBucket represents a latency histogram bucket.
type LatencyBucket string

const (
	BucketP10   LatencyBucket = "p10"   // <10ms
	BucketP50   LatencyBucket = "p50"   // 10-50ms
	BucketP100  LatencyBucket = "p100"  // 50-100ms
	BucketP500  LatencyBucket = "p500"  // 100-500ms
	BucketP1000 LatencyBucket = "p1000" // >=500ms
)

// LatencyToBucket converts a duration to its histogram bucket.
func LatencyToBucket(d time.Duration) LatencyBucket {
	ms := d.Milliseconds()
	switch {
	case ms < 10:
		return BucketP10
	case ms < 50:
		return BucketP50
	case ms < 100:
		return BucketP100
	case ms < 500:
		return BucketP500
	default:
		return BucketP1000
	}
}

// QueryEvent is a single search recorded for statistics.
type QueryEvent struct {
	Query       string
	ResultCount int
	Latency     time.Duration
	Categories  map[string]int // category -> results contributed
}

// Snapshot is a point-in-time copy of the accumulated statistics.
type Snapshot struct {
	TotalQueries   int64
	TotalLatency   time.Duration
	AverageLatency time.Duration
	QueryCounts    map[string]int64
	CategoryCounts map[string]int64
	LatencyBuckets map[LatencyBucket]int64
	ZeroResults    []string
}

// Metrics accumulates search statistics. Safe for concurrent use.
type Metrics struct {
	mu sync.RWMutex

	totalQueries   int64
	totalLatency   time.Duration
	queryCounts    map[string]int64
	categoryCounts map[string]int64
	latencyBuckets map[LatencyBucket]int64
	zeroResults    *CircularBuffer[string]
}

// NewMetrics creates an empty statistics accumulator.
func NewMetrics() *Metrics {
	return &Metrics{
		queryCounts:    make(map[string]int64),
		categoryCounts: make(map[string]int64),
		latencyBuckets: make(map[LatencyBucket]int64),
		zeroResults:    NewCircularBuffer[string](100),
	}
}

// Record adds one query event.
func (m *Metrics) Record(ev QueryEvent) {
	norm := strings.ToLower(strings.TrimSpace(ev.Query))
	if norm == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalQueries++
	m.totalLatency += ev.Latency
	m.queryCounts[norm]++
	m.latencyBuckets[LatencyToBucket(ev.Latency)]++
	for cat, n := range ev.Categories {
		m.categoryCounts[cat] += int64(n)
	}
	if ev.ResultCount == 0 {
		m.zeroResults.Add(norm)
	}
}

// PopularQueries returns up to n query strings ordered by hit count
// descending, ties by query string for determinism.
func (m *Metrics) PopularQueries(n int) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	type qc struct {
		query string
		count int64
	}
	all := make([]qc, 0, len(m.queryCounts))
	for q, c := range m.queryCounts {
		all = append(all, qc{q, c})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].query < all[j].query
	})

	if n > len(all) {
		n = len(all)
	}
	out := make([]string, 0, n)
	for _, e := range all[:n] {
		out = append(out, e.query)
	}
	return out
}

// Snapshot returns a copy of the current statistics.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Snapshot{
		TotalQueries:   m.totalQueries,
		TotalLatency:   m.totalLatency,
		QueryCounts:    make(map[string]int64, len(m.queryCounts)),
		CategoryCounts: make(map[string]int64, len(m.categoryCounts)),
		LatencyBuckets: make(map[LatencyBucket]int64, len(m.latencyBuckets)),
		ZeroResults:    m.zeroResults.Items(),
	}
	if m.totalQueries > 0 {
		s.AverageLatency = m.totalLatency / time.Duration(m.totalQueries)
	}
	for k, v := range m.queryCounts {
		s.QueryCounts[k] = v
	}
	for k, v := range m.categoryCounts {
		s.CategoryCounts[k] = v
	}
	for k, v := range m.latencyBuckets {
		s.LatencyBuckets[k] = v
	}
	return s
}

// Reset drops all accumulated statistics.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalQueries = 0
	m.totalLatency = 0
	m.queryCounts = make(map[string]int64)
	m.categoryCounts = make(map[string]int64)
	m.latencyBuckets = make(map[LatencyBucket]int64)
	m.zeroResults.Clear()
}
