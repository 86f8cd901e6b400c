package search

import (
	"sort"
	"strings"

	"github.com/touchdocs/tdmcp/internal/index"
)

// defaultVocabulary backs suggestions when neither popular queries nor
// index terms produce enough candidates. Common TouchDesigner topics.
var defaultVocabulary = []string{
	"noise", "audio", "feedback", "particle", "render", "instancing",
	"glsl", "midi", "osc", "kinect", "movie file in", "composite",
	"geometry", "camera", "constraint", "timeline", "python",
}

// Suggester produces query completions for short or empty queries.
// Sources are tried in order: popular past queries, index terms ranked
// by document frequency, then a fixed domain vocabulary.
type Suggester struct {
	popular func(n int) []string
	max     int
}

// NewSuggester creates a suggester. popular may be nil when no query
// history is available.
func NewSuggester(popular func(n int) []string, max int) *Suggester {
	if max <= 0 {
		max = 5
	}
	return &Suggester{popular: popular, max: max}
}

// Suggest returns up to max suggestions for a partial query. A first
// pass keeps only candidates containing the partial as a substring;
// when nothing matches (e.g. a query that found zero results), the
// best candidates are offered unfiltered. The caller holds the engine
// lock; ix is read but never mutated.
func (s *Suggester) Suggest(partial string, ix *index.InvertedIndex) []string {
	needle := strings.ToLower(strings.TrimSpace(partial))

	out := s.collect(needle, ix)
	if len(out) == 0 && needle != "" {
		out = s.collect("", ix)
	}
	return out
}

func (s *Suggester) collect(needle string, ix *index.InvertedIndex) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(candidate string) bool {
		candidate = strings.ToLower(strings.TrimSpace(candidate))
		if candidate == "" || candidate == needle {
			return len(out) < s.max
		}
		if _, dup := seen[candidate]; dup {
			return len(out) < s.max
		}
		seen[candidate] = struct{}{}
		out = append(out, candidate)
		return len(out) < s.max
	}

	matches := func(candidate string) bool {
		return needle == "" || strings.Contains(strings.ToLower(candidate), needle)
	}

	if s.popular != nil {
		for _, q := range s.popular(s.max * 4) {
			if matches(q) && !add(q) {
				return out
			}
		}
	}

	for _, term := range termsByFrequency(ix) {
		if matches(term) && !add(term) {
			return out
		}
	}

	for _, word := range defaultVocabulary {
		if matches(word) && !add(word) {
			return out
		}
	}

	return out
}

// termsByFrequency lists index terms ordered by document frequency
// descending, ties alphabetical.
func termsByFrequency(ix *index.InvertedIndex) []string {
	terms := ix.Terms()
	sort.SliceStable(terms, func(i, j int) bool {
		fi, fj := ix.DocumentFrequency(terms[i]), ix.DocumentFrequency(terms[j])
		if fi != fj {
			return fi > fj
		}
		return terms[i] < terms[j]
	})
	return terms
}
