package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/touchdocs/tdmcp/internal/index"
)

func TestClassifier_QueryTypes(t *testing.T) {
	c := NewClassifier(16)

	tests := []struct {
		query string
		want  QueryType
	}{
		{"noise chop", QueryTypeOperator},
		{"audio CHOPs", QueryTypeOperator},
		{"resetPulse", QueryTypeTechnical},
		{"audio_file_in", QueryTypeTechnical},
		{"amplitude parameter", QueryTypeParameter},
		{"op('noise1').par.amp", QueryTypeExpression},
		{"me.digits", QueryTypeExpression},
		{"feedback loop video", QueryTypeGeneral},
	}
	for _, tt := range tests {
		qt, _ := c.Classify(tt.query)
		assert.Equal(t, tt.want, qt, "query %q", tt.query)
	}
}

func TestClassifier_EmptyQueryIsGeneral(t *testing.T) {
	c := NewClassifier(16)
	qt, weights := c.Classify("   ")
	assert.Equal(t, QueryTypeGeneral, qt)
	assert.Equal(t, DefaultWeights(), weights)
}

func TestClassifier_CachesNormalizedQuery(t *testing.T) {
	c := NewClassifier(16)
	qt1, _ := c.Classify("Noise CHOP")
	qt2, _ := c.Classify("  noise chop ")
	assert.Equal(t, qt1, qt2)
}

func TestWeightsForQueryType_ShiftsEmphasis(t *testing.T) {
	operator := WeightsForQueryType(QueryTypeOperator)
	parameter := WeightsForQueryType(QueryTypeParameter)

	assert.Greater(t, operator[index.FieldCategory], DefaultWeights()[index.FieldCategory])
	assert.Greater(t, parameter[index.FieldParameter], DefaultWeights()[index.FieldParameter])
}

func TestCategoryInQuery(t *testing.T) {
	assert.Equal(t, "CHOP", CategoryInQuery("noise chop"))
	assert.Equal(t, "TOP", CategoryInQuery("list all TOPs"))
	assert.Equal(t, "", CategoryInQuery("feedback loop"))
}
