package index

import (
	"sort"

	"github.com/touchdocs/tdmcp/internal/docs"
)

// FacetTracker maintains document counts by category, updated
// incrementally as documents are added and removed. Every document has
// exactly one category, so the counts always sum to the document total.
type FacetTracker struct {
	counts map[docs.Category]int
}

// NewFacetTracker creates an empty tracker.
func NewFacetTracker() *FacetTracker {
	return &FacetTracker{counts: make(map[docs.Category]int)}
}

// Add increments the count for a category.
func (f *FacetTracker) Add(category docs.Category) {
	f.counts[category]++
}

// Remove decrements the count for a category, pruning zero entries.
func (f *FacetTracker) Remove(category docs.Category) {
	if n, ok := f.counts[category]; ok {
		if n <= 1 {
			delete(f.counts, category)
		} else {
			f.counts[category] = n - 1
		}
	}
}

// Counts returns a copy of the category counts.
func (f *FacetTracker) Counts() map[string]int {
	out := make(map[string]int, len(f.counts))
	for c, n := range f.counts {
		out[string(c)] = n
	}
	return out
}

// Total returns the sum of all facet counts.
func (f *FacetTracker) Total() int {
	total := 0
	for _, n := range f.counts {
		total += n
	}
	return total
}

// Categories returns the tracked categories in sorted order.
func (f *FacetTracker) Categories() []string {
	cats := make([]string, 0, len(f.counts))
	for c := range f.counts {
		cats = append(cats, string(c))
	}
	sort.Strings(cats)
	return cats
}

// Clear drops all counts.
func (f *FacetTracker) Clear() {
	f.counts = make(map[docs.Category]int)
}
