package search

import (
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultClassifierCacheSize bounds the classification LRU cache.
const DefaultClassifierCacheSize = 1024

// Compiled at package init.
var (
	// Expression syntax markers: op('name'), me.par, parent(), .par. chains.
	expressionPattern = regexp.MustCompile(`(?i)(op\s*\(|me\.|parent\s*\(|ext\.|\.par\.|tdu\.)`)

	// Technical identifiers.
	camelCasePattern = regexp.MustCompile(`^[a-z]+([A-Z][a-z0-9]*)+$`)
	snakeCasePattern = regexp.MustCompile(`^[a-z]+(_[a-z0-9]+)+$`)

	// Parameter vocabulary commonly asked about by name.
	parameterWordPattern = regexp.MustCompile(`(?i)\b(parameter|param|pars?\b|amplitude|frequency|seed|resolution|translate|rotate|scale|pivot|uniform|samplerate|timeslice|extend|stretch|lookat|pulse)\b`)
)

// categoryTokens are the operator family names recognized inside a query.
var categoryTokens = map[string]struct{}{
	"chop": {}, "top": {}, "sop": {}, "dat": {}, "mat": {},
	"comp": {}, "pop": {}, "chops": {}, "tops": {}, "sops": {},
	"dats": {}, "mats": {}, "comps": {}, "pops": {},
}

type classification struct {
	queryType QueryType
	weights   Weights
}

// Classifier determines a query's type from lexical patterns. Results
// are memoized in an LRU cache keyed by the normalized query.
type Classifier struct {
	cache *lru.Cache[string, classification]
}

// NewClassifier creates a pattern classifier with the given cache size.
func NewClassifier(cacheSize int) *Classifier {
	if cacheSize <= 0 {
		cacheSize = DefaultClassifierCacheSize
	}
	cache, _ := lru.New[string, classification](cacheSize)
	return &Classifier{cache: cache}
}

// Classify returns the query type and the field weights tuned for it.
// Never fails; unknown shapes classify as general.
func (c *Classifier) Classify(query string) (QueryType, Weights) {
	key := strings.ToLower(strings.TrimSpace(query))
	if key == "" {
		return QueryTypeGeneral, DefaultWeights()
	}
	if cached, ok := c.cache.Get(key); ok {
		return cached.queryType, cached.weights
	}

	qt := classifyQuery(query)
	result := classification{queryType: qt, weights: WeightsForQueryType(qt)}
	c.cache.Add(key, result)
	return result.queryType, result.weights
}

func classifyQuery(query string) QueryType {
	query = strings.TrimSpace(query)

	// Most specific first: expression syntax beats everything.
	if expressionPattern.MatchString(query) {
		return QueryTypeExpression
	}

	if mentionsCategory(query) {
		return QueryTypeOperator
	}

	// Single identifier-shaped tokens read as technical terms.
	if !strings.ContainsAny(query, " \t") &&
		(camelCasePattern.MatchString(query) || snakeCasePattern.MatchString(query)) {
		return QueryTypeTechnical
	}

	if parameterWordPattern.MatchString(query) {
		return QueryTypeParameter
	}

	return QueryTypeGeneral
}

// mentionsCategory reports whether any whitespace-separated token of
// the query names an operator family.
func mentionsCategory(query string) bool {
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		if _, ok := categoryTokens[tok]; ok {
			return true
		}
	}
	return false
}

// CategoryInQuery returns the first operator family named by the query
// ("CHOP" form), or "" when none is mentioned.
func CategoryInQuery(query string) string {
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		singular := strings.TrimSuffix(tok, "s")
		if _, ok := categoryTokens[singular]; ok {
			return strings.ToUpper(singular)
		}
		if _, ok := categoryTokens[tok]; ok {
			return strings.ToUpper(tok)
		}
	}
	return ""
}
