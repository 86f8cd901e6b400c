package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex() *InvertedIndex {
	return NewInvertedIndex(NewAnalyzer(DefaultAnalyzerConfig()))
}

func TestInvertedIndex_AddAndPostings(t *testing.T) {
	ix := newTestIndex()
	ix.Add("noise_chop", FieldTexts{
		FieldName:        "Noise",
		FieldDescription: "Generates noise patterns noise",
	})

	postings := ix.Postings("noise")
	require.Len(t, postings, 2)

	byField := map[Field]int{}
	for _, p := range postings {
		assert.Equal(t, "noise_chop", p.DocID)
		byField[p.Field] = p.Frequency
	}
	assert.Equal(t, 1, byField[FieldName])
	assert.Equal(t, 2, byField[FieldDescription])
}

func TestInvertedIndex_UnknownTermIsEmpty(t *testing.T) {
	ix := newTestIndex()
	assert.Empty(t, ix.Postings("absent"))
	assert.Equal(t, 0, ix.DocumentFrequency("absent"))
}

func TestInvertedIndex_RemoveDeletesAllPostings(t *testing.T) {
	ix := newTestIndex()
	ix.Add("blur_top", FieldTexts{
		FieldName:        "Blur",
		FieldDescription: "Blurs the input image",
		FieldKeyword:     "smoothing",
	})
	ix.Add("noise_top", FieldTexts{FieldName: "Noise"})

	ix.Remove("blur_top")

	for _, term := range ix.Terms() {
		for _, p := range ix.Postings(term) {
			assert.NotEqual(t, "blur_top", p.DocID)
		}
	}
}

func TestInvertedIndex_RemovePrunesExclusiveTerms(t *testing.T) {
	ix := newTestIndex()
	ix.Add("blur_top", FieldTexts{FieldKeyword: "smoothing"})
	require.True(t, ix.HasTerm(ix.Analyzer().NormalizeTerm("smoothing")))

	ix.Remove("blur_top")

	assert.False(t, ix.HasTerm(ix.Analyzer().NormalizeTerm("smoothing")))
	assert.Equal(t, 0, ix.TermCount())
}

func TestInvertedIndex_SharedTermSurvivesRemove(t *testing.T) {
	ix := newTestIndex()
	ix.Add("noise_chop", FieldTexts{FieldName: "Noise"})
	ix.Add("noise_top", FieldTexts{FieldName: "Noise"})

	ix.Remove("noise_chop")

	postings := ix.Postings("noise")
	require.Len(t, postings, 1)
	assert.Equal(t, "noise_top", postings[0].DocID)
}

func TestInvertedIndex_DocumentFrequency(t *testing.T) {
	ix := newTestIndex()
	ix.Add("noise_chop", FieldTexts{FieldName: "Noise"})
	ix.Add("noise_top", FieldTexts{FieldName: "Noise"})
	ix.Add("blur_top", FieldTexts{FieldName: "Blur"})

	assert.Equal(t, 2, ix.DocumentFrequency("noise"))
	assert.Equal(t, 1, ix.DocumentFrequency("blur"))
}

func TestInvertedIndex_RemoveThenAddReplaces(t *testing.T) {
	ix := newTestIndex()
	ix.Add("noise_chop", FieldTexts{FieldDescription: "old wording"})

	ix.Remove("noise_chop")
	ix.Add("noise_chop", FieldTexts{FieldDescription: "fresh wording"})

	old := ix.Analyzer().NormalizeTerm("old")
	fresh := ix.Analyzer().NormalizeTerm("fresh")
	assert.False(t, ix.HasTerm(old))
	assert.True(t, ix.HasTerm(fresh))
	require.Len(t, ix.Postings(fresh), 1)
}

func TestInvertedIndex_EmptyFieldContributesNothing(t *testing.T) {
	ix := newTestIndex()
	ix.Add("x_top", FieldTexts{FieldName: "", FieldDescription: ""})
	assert.Equal(t, 0, ix.TermCount())
}

func TestInvertedIndex_Clear(t *testing.T) {
	ix := newTestIndex()
	ix.Add("noise_chop", FieldTexts{FieldName: "Noise"})
	ix.Clear()
	assert.Equal(t, 0, ix.TermCount())
}
