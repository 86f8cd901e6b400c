// Package search implements the operator search engine: query
// classification, relevance scoring, result caching, suggestions and
// the orchestrating engine that ties them to the index core.
package search

import (
	"time"

	"github.com/touchdocs/tdmcp/internal/index"
)

// QueryType classifies what a search query is asking about. The scorer
// shifts field weights by type: a query naming an operator family cares
// about names and categories, a parameter lookup cares about parameter
// fields.
type QueryType string

const (
	// QueryTypeOperator names an operator or operator family ("noise chop").
	QueryTypeOperator QueryType = "operator-type"

	// QueryTypeParameter asks about a parameter ("amplitude parameter").
	QueryTypeParameter QueryType = "parameter"

	// QueryTypeTechnical is an identifier-like technical term ("resetPulse").
	QueryTypeTechnical QueryType = "technical-term"

	// QueryTypeExpression looks like expression or scripting syntax
	// ("op('noise1').par.amp").
	QueryTypeExpression QueryType = "expression-syntax"

	// QueryTypeGeneral is anything else.
	QueryTypeGeneral QueryType = "general"
)

// Weights maps indexed fields to their score multiplier.
type Weights map[index.Field]float64

// DefaultWeights returns the baseline field weights.
func DefaultWeights() Weights {
	return Weights{
		index.FieldName:        10,
		index.FieldCategory:    8,
		index.FieldDescription: 5,
		index.FieldKeyword:     4,
		index.FieldParameter:   3,
		index.FieldContent:     2,
	}
}

// WeightsForQueryType returns field weights tuned for a query type.
func WeightsForQueryType(qt QueryType) Weights {
	w := DefaultWeights()
	switch qt {
	case QueryTypeOperator:
		w[index.FieldName] = 14
		w[index.FieldCategory] = 12
	case QueryTypeParameter:
		w[index.FieldParameter] = 9
		w[index.FieldDescription] = 6
	case QueryTypeTechnical:
		w[index.FieldKeyword] = 8
		w[index.FieldParameter] = 6
		w[index.FieldName] = 12
	case QueryTypeExpression:
		w[index.FieldContent] = 6
		w[index.FieldParameter] = 6
	}
	return w
}

// Options configures a single search.
type Options struct {
	// Category restricts results to one operator family (e.g. "CHOP").
	Category string

	// Tags requires every listed tag to appear in a result's keywords.
	Tags []string

	// Limit caps the number of results (default and max come from the
	// engine config).
	Limit int

	// Fuzzy enables prefix and near-match term expansion even when exact
	// matches exist.
	Fuzzy bool
}

// Result is one scored search hit.
type Result struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Score    float64 `json:"score"`
	Snippet  string  `json:"snippet,omitempty"`
}

// Response is the full answer to one search.
type Response struct {
	Results      []Result       `json:"results"`
	TotalResults int            `json:"totalResults"`
	SearchTime   time.Duration  `json:"searchTime"`
	QueryType    QueryType      `json:"queryType"`
	Facets       map[string]int `json:"facets,omitempty"`
	Suggestions  []string       `json:"suggestions,omitempty"`
}

// State describes the engine lifecycle.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoading       State = "loading"
	StateReady         State = "ready"
	StateIndexing      State = "indexing"
	StateClosed        State = "closed"
)

// BatchResult summarizes one IndexDocuments call.
type BatchResult struct {
	Indexed int `json:"indexed"`
	Skipped int `json:"skipped"`
	Errored int `json:"errored"`
}

// ProgressFunc receives batch progress during bulk indexing.
type ProgressFunc func(completedBatches, totalBatches, indexed int)

// Status reports the engine's current shape for diagnostics.
type Status struct {
	State         State          `json:"state"`
	DocumentCount int            `json:"documentCount"`
	TermCount     int            `json:"termCount"`
	Facets        map[string]int `json:"facets"`
	LastIndexedAt time.Time      `json:"lastIndexedAt,omitzero"`
	LastSavedAt   time.Time      `json:"lastSavedAt,omitzero"`
}
