// Package index implements the operator search engine's storage core:
// term normalization, the inverted index, the document store, facet
// counts, and their durable JSON snapshot.
//
// None of these structures synchronize internally. They are owned
// exclusively by the search engine, which serializes mutations behind a
// single read-write lock.
package index

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

// tokenRegex matches alphanumeric sequences (underscores kept for the
// initial split, snake_case is split afterwards).
var tokenRegex = regexp.MustCompile(`[a-zA-Z0-9_]+`)

// DefaultStopWords are filtered before stemming. The list mixes English
// function words with terms so common in operator descriptions that they
// carry no signal.
var DefaultStopWords = []string{
	"a", "an", "and", "are", "as", "at", "be", "by", "for", "from",
	"has", "in", "is", "it", "of", "on", "or", "that", "the", "this",
	"to", "was", "will", "with", "when", "which", "can", "use", "used",
	"using",
}

// AnalyzerConfig configures term normalization.
type AnalyzerConfig struct {
	// StopWords are removed before stemming.
	StopWords []string

	// MinTokenLength is the minimum token length to keep (default: 2).
	MinTokenLength int

	// Stem enables snowball stemming of tokens.
	Stem bool
}

// DefaultAnalyzerConfig returns the normalizer defaults.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		StopWords:      DefaultStopWords,
		MinTokenLength: 2,
		Stem:           true,
	}
}

// Analyzer turns free text into comparable normalized terms. It is a
// deterministic pure function of its input; empty input yields an empty
// sequence, never an error.
type Analyzer struct {
	stopWords map[string]struct{}
	minLen    int
	stem      bool
}

// NewAnalyzer creates an analyzer from config.
func NewAnalyzer(cfg AnalyzerConfig) *Analyzer {
	minLen := cfg.MinTokenLength
	if minLen <= 0 {
		minLen = 2
	}
	stop := make(map[string]struct{}, len(cfg.StopWords))
	for _, w := range cfg.StopWords {
		stop[strings.ToLower(w)] = struct{}{}
	}
	return &Analyzer{stopWords: stop, minLen: minLen, stem: cfg.Stem}
}

// Normalize tokenizes, lowercases, strips stop words and stems.
func (a *Analyzer) Normalize(text string) []string {
	var terms []string
	for _, word := range tokenRegex.FindAllString(text, -1) {
		for _, sub := range splitToken(word) {
			lower := strings.ToLower(sub)
			if len(lower) < a.minLen {
				continue
			}
			if _, stop := a.stopWords[lower]; stop {
				continue
			}
			terms = append(terms, a.normalizeTerm(lower))
		}
	}
	return terms
}

// NormalizeTerm applies the single-term pipeline (lowercase + stem)
// without tokenization. Used to match query terms against index terms.
func (a *Analyzer) NormalizeTerm(term string) string {
	return a.normalizeTerm(strings.ToLower(strings.TrimSpace(term)))
}

func (a *Analyzer) normalizeTerm(lower string) string {
	if !a.stem {
		return lower
	}
	stemmed, err := snowball.Stem(lower, "english", false)
	if err != nil || stemmed == "" {
		return lower
	}
	return stemmed
}

// splitToken splits snake_case and camelCase identifiers, mirroring how
// parameter names like "lookat" vs "resetPulse" appear in operator docs.
func splitToken(token string) []string {
	if strings.Contains(token, "_") {
		var result []string
		for _, part := range strings.Split(token, "_") {
			if part != "" {
				result = append(result, splitCamelCase(part)...)
			}
		}
		return result
	}
	return splitCamelCase(token)
}

// splitCamelCase splits camelCase and PascalCase, keeping acronym runs
// together ("HTTPHandler" -> "HTTP", "Handler").
func splitCamelCase(s string) []string {
	if s == "" {
		return nil
	}

	var result []string
	var current strings.Builder

	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevIsLower := unicode.IsLower(runes[i-1])
			nextIsLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevIsLower || nextIsLower {
				if current.Len() > 0 {
					result = append(result, current.String())
					current.Reset()
				}
			}
		}
		current.WriteRune(r)
	}

	if current.Len() > 0 {
		result = append(result, current.String())
	}
	return result
}
