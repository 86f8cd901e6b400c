package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/touchdocs/tdmcp/internal/docs"
	"github.com/touchdocs/tdmcp/internal/index"
)

func noiseChop() *docs.Document {
	return &docs.Document{
		ID:       "noise_chop",
		Name:     "Noise",
		Category: docs.CategoryCHOP,
		Keywords: []string{"random", "perlin"},
	}
}

func TestScore_WeightsFieldsDifferently(t *testing.T) {
	w := DefaultWeights()
	base := ScoreInput{
		RawQuery: "blur",
		Terms:    []string{"blur"},
		Doc:      &docs.Document{ID: "blur_top", Name: "Blur", Category: docs.CategoryTOP},
		Weights:  w,
	}

	nameHit := base
	nameHit.Matches = map[string]TermMatch{"blur": {index.FieldName: 1}}
	descHit := base
	descHit.Matches = map[string]TermMatch{"blur": {index.FieldDescription: 1}}

	assert.Greater(t, Score(nameHit), Score(descHit))
}

func TestScore_FrequencyIncreasesScore(t *testing.T) {
	doc := &docs.Document{ID: "x_top", Name: "X", Category: docs.CategoryTOP}
	once := ScoreInput{
		RawQuery: "glow",
		Terms:    []string{"glow"},
		Matches:  map[string]TermMatch{"glow": {index.FieldDescription: 1}},
		Doc:      doc,
		Weights:  DefaultWeights(),
	}
	twice := once
	twice.Matches = map[string]TermMatch{"glow": {index.FieldDescription: 2}}

	assert.Greater(t, Score(twice), Score(once))
}

func TestScore_ExactNameBonus(t *testing.T) {
	in := ScoreInput{
		RawQuery: "noise",
		Terms:    []string{"nois"},
		Matches:  map[string]TermMatch{"nois": {index.FieldName: 1}},
		Doc:      noiseChop(),
		Weights:  DefaultWeights(),
	}
	withBonus := Score(in)

	in.RawQuery = "noisy"
	withoutBonus := Score(in)

	assert.Equal(t, BonusExactName, withBonus-withoutBonus)
}

func TestScore_NameWithFamilySuffixStillExact(t *testing.T) {
	assert.True(t, exactNameMatch("Noise CHOP", "Noise"))
	assert.True(t, exactNameMatch("noise", "Noise"))
	assert.False(t, exactNameMatch("noise pattern", "Noise"))
}

func TestScore_CategoryMentionBonus(t *testing.T) {
	in := ScoreInput{
		RawQuery:  "noise chop",
		Terms:     []string{"nois"},
		Matches:   map[string]TermMatch{"nois": {index.FieldName: 1}},
		Doc:       noiseChop(),
		Weights:   DefaultWeights(),
		QueryType: QueryTypeOperator,
	}
	chopScore := Score(in)

	in.Doc = &docs.Document{ID: "noise_top", Name: "Noise", Category: docs.CategoryTOP}
	topScore := Score(in)

	assert.Greater(t, chopScore, topScore, "family mentioned in query outranks other families")
}

func TestScore_KeywordBonusCountsEachKeywordOnce(t *testing.T) {
	in := ScoreInput{
		RawQuery: "perlin perlin",
		Terms:    []string{"perlin", "perlin"},
		Matches:  map[string]TermMatch{"perlin": {index.FieldKeyword: 2}},
		Doc:      noiseChop(),
		Weights:  DefaultWeights(),
	}
	single := ScoreInput{
		RawQuery: "perlin",
		Terms:    []string{"perlin"},
		Matches:  map[string]TermMatch{"perlin": {index.FieldKeyword: 1}},
		Doc:      noiseChop(),
		Weights:  DefaultWeights(),
	}

	diff := Score(in) - Score(single)
	assert.Equal(t, DefaultWeights()[index.FieldKeyword], diff, "only frequency differs, not the bonus")
}

func TestScore_NoMatchesIsZero(t *testing.T) {
	assert.Zero(t, Score(ScoreInput{Doc: noiseChop(), Weights: DefaultWeights()}))
	assert.Zero(t, Score(ScoreInput{Matches: map[string]TermMatch{"x": {index.FieldName: 1}}}))
}

func TestScore_Deterministic(t *testing.T) {
	in := ScoreInput{
		RawQuery: "noise chop",
		Terms:    []string{"nois"},
		Matches: map[string]TermMatch{
			"nois": {index.FieldName: 1, index.FieldDescription: 3},
		},
		Doc:       noiseChop(),
		Weights:   WeightsForQueryType(QueryTypeOperator),
		QueryType: QueryTypeOperator,
	}
	first := Score(in)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(in))
	}
}
