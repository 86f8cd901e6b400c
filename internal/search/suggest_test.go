package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/touchdocs/tdmcp/internal/index"
)

func emptyIndex() *index.InvertedIndex {
	return index.NewInvertedIndex(index.NewAnalyzer(index.DefaultAnalyzerConfig()))
}

func TestSuggester_PopularQueriesFirst(t *testing.T) {
	popular := func(n int) []string { return []string{"noise chop", "audio filter"} }
	s := NewSuggester(popular, 5)

	got := s.Suggest("", emptyIndex())
	assert.Equal(t, "noise chop", got[0])
	assert.Equal(t, "audio filter", got[1])
}

func TestSuggester_FallsBackToVocabulary(t *testing.T) {
	s := NewSuggester(nil, 5)
	got := s.Suggest("", emptyIndex())
	assert.Len(t, got, 5)
	assert.Subset(t, defaultVocabulary, got)
}

func TestSuggester_FiltersBySubstring(t *testing.T) {
	s := NewSuggester(nil, 5)
	for _, got := range s.Suggest("noi", emptyIndex()) {
		assert.Contains(t, got, "noi")
	}
}

func TestSuggester_IndexTermsByDocFrequency(t *testing.T) {
	ix := emptyIndex()
	ix.Add("noise_chop", index.FieldTexts{index.FieldName: "Noise"})
	ix.Add("noise_top", index.FieldTexts{index.FieldName: "Noise"})
	ix.Add("blur_top", index.FieldTexts{index.FieldName: "Blur"})

	s := NewSuggester(nil, 2)
	got := s.Suggest("", ix)
	assert.Equal(t, ix.Analyzer().NormalizeTerm("noise"), got[0], "highest document frequency first")
}

func TestSuggester_CapsAtMax(t *testing.T) {
	s := NewSuggester(nil, 3)
	assert.Len(t, s.Suggest("", emptyIndex()), 3)
}

func TestSuggester_Deduplicates(t *testing.T) {
	popular := func(n int) []string { return []string{"noise", "noise"} }
	ix := emptyIndex()
	ix.Add("noise_chop", index.FieldTexts{index.FieldName: "noise"})

	got := NewSuggester(popular, 10).Suggest("", ix)
	seen := map[string]int{}
	for _, g := range got {
		seen[g]++
	}
	for g, n := range seen {
		assert.Equal(t, 1, n, "duplicate suggestion %q", g)
	}
}
