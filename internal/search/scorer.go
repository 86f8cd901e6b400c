package search

import (
	"strings"

	"github.com/touchdocs/tdmcp/internal/docs"
	"github.com/touchdocs/tdmcp/internal/index"
)

// Score bonuses applied on top of the weighted term frequency sum.
const (
	// BonusExactName applies when the whole query normalizes to exactly
	// the document's name.
	BonusExactName = 50.0

	// BonusCategoryMention applies when the query names the document's
	// operator family.
	BonusCategoryMention = 25.0

	// BonusExactKeyword applies once per query term that equals one of
	// the document's keywords.
	BonusExactKeyword = 15.0

	// BonusOperatorQuery applies to operator-type queries whose named
	// family matches the document.
	BonusOperatorQuery = 10.0
)

// TermMatch is the per-field frequency of one query term in one
// document, as read from the inverted index.
type TermMatch map[index.Field]int

// ScoreInput carries everything the scorer needs for one document.
// Scoring is a pure function of this input: the same query against the
// same document always yields the same score.
type ScoreInput struct {
	// RawQuery is the original query text before normalization.
	RawQuery string

	// Terms are the normalized query terms.
	Terms []string

	// Matches maps each matched query term to its field frequencies in
	// this document.
	Matches map[string]TermMatch

	// Doc is the candidate document.
	Doc *docs.Document

	// Weights are the field weights chosen by the classifier.
	Weights Weights

	// QueryType from classification.
	QueryType QueryType
}

// Score computes a document's relevance for a query. A higher score
// means a better match; it is never negative.
func Score(in ScoreInput) float64 {
	if in.Doc == nil || len(in.Matches) == 0 {
		return 0
	}

	var score float64
	for _, match := range in.Matches {
		for field, freq := range match {
			score += float64(freq) * in.Weights[field]
		}
	}

	score += bonuses(in)
	return score
}

func bonuses(in ScoreInput) float64 {
	var bonus float64

	if exactNameMatch(in.RawQuery, in.Doc.Name) {
		bonus += BonusExactName
	}

	if cat := CategoryInQuery(in.RawQuery); cat != "" && cat == strings.ToUpper(string(in.Doc.Category)) {
		bonus += BonusCategoryMention
		if in.QueryType == QueryTypeOperator {
			bonus += BonusOperatorQuery
		}
	}

	if len(in.Doc.Keywords) > 0 {
		keywords := make(map[string]struct{}, len(in.Doc.Keywords))
		for _, k := range in.Doc.Keywords {
			keywords[strings.ToLower(k)] = struct{}{}
		}
		// Raw tokens are compared alongside normalized terms so stemming
		// does not hide a literal keyword hit. Each keyword counts once.
		tokens := append(strings.Fields(strings.ToLower(in.RawQuery)), in.Terms...)
		matched := make(map[string]struct{})
		for _, tok := range tokens {
			if _, ok := keywords[tok]; !ok {
				continue
			}
			if _, dup := matched[tok]; dup {
				continue
			}
			matched[tok] = struct{}{}
			bonus += BonusExactKeyword
		}
	}

	return bonus
}

// exactNameMatch compares the query to the document name ignoring
// case, surrounding space and a trailing family suffix ("Noise CHOP"
// matches name "Noise").
func exactNameMatch(query, name string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	n := strings.ToLower(strings.TrimSpace(name))
	if q == "" || n == "" {
		return false
	}
	if q == n {
		return true
	}
	if fields := strings.Fields(q); len(fields) > 1 {
		last := fields[len(fields)-1]
		if _, ok := categoryTokens[last]; ok {
			return strings.Join(fields[:len(fields)-1], " ") == n
		}
	}
	return false
}
