package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/touchdocs/tdmcp/internal/index"
)

func TestEditDistanceAtMostOne(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"noise", "noise", true},
		{"noise", "noize", true},
		{"noise", "nose", true},
		{"noise", "noises", true},
		{"noise", "nosie", false},
		{"noise", "blur", false},
		{"ab", "abcd", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, editDistanceAtMostOne(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
		assert.Equal(t, tt.want, editDistanceAtMostOne(tt.b, tt.a), "%q vs %q reversed", tt.b, tt.a)
	}
}

func TestExpandTerm_PrefixAndNearMatches(t *testing.T) {
	ix := emptyIndex()
	ix.Add("noise_chop", index.FieldTexts{index.FieldKeyword: "perlin"})
	ix.Add("blur_top", index.FieldTexts{index.FieldKeyword: "smooth"})

	perlin := ix.Analyzer().NormalizeTerm("perlin")

	// One-letter typo reaches the indexed term.
	assert.Contains(t, expandTerm("perlim", ix), perlin)
	// Prefix reaches it too.
	assert.Contains(t, expandTerm("per", ix), perlin)
	// Unrelated terms do not.
	assert.NotContains(t, expandTerm("perlim", ix), ix.Analyzer().NormalizeTerm("smooth"))
}

func TestExpandTerm_ExcludesExactTerm(t *testing.T) {
	ix := emptyIndex()
	ix.Add("noise_chop", index.FieldTexts{index.FieldKeyword: "perlin"})
	perlin := ix.Analyzer().NormalizeTerm("perlin")

	assert.NotContains(t, expandTerm(perlin, ix), perlin)
}

func TestExpandTerm_TooShortIsEmpty(t *testing.T) {
	ix := emptyIndex()
	ix.Add("noise_chop", index.FieldTexts{index.FieldKeyword: "perlin"})
	assert.Empty(t, expandTerm("p", ix))
}
