package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzer_Normalize_Lowercases(t *testing.T) {
	a := NewAnalyzer(AnalyzerConfig{MinTokenLength: 2})
	assert.Equal(t, []string{"noise", "chop"}, a.Normalize("Noise CHOP"))
}

func TestAnalyzer_Normalize_StripsStopWords(t *testing.T) {
	a := NewAnalyzer(DefaultAnalyzerConfig())
	terms := a.Normalize("the noise that is generated")
	assert.NotContains(t, terms, "the")
	assert.NotContains(t, terms, "that")
	assert.NotContains(t, terms, "is")
}

func TestAnalyzer_Normalize_StemsTerms(t *testing.T) {
	a := NewAnalyzer(DefaultAnalyzerConfig())
	// "generates" and "generating" stem to the same root.
	assert.Equal(t, a.Normalize("generates"), a.Normalize("generating"))
}

func TestAnalyzer_Normalize_SplitsIdentifiers(t *testing.T) {
	a := NewAnalyzer(AnalyzerConfig{MinTokenLength: 2})

	assert.Equal(t, []string{"reset", "pulse"}, a.Normalize("resetPulse"))
	assert.Equal(t, []string{"audio", "file", "in"}, a.Normalize("audio_file_in"))
}

func TestAnalyzer_Normalize_FiltersShortTokens(t *testing.T) {
	a := NewAnalyzer(AnalyzerConfig{MinTokenLength: 2})
	assert.NotContains(t, a.Normalize("x y noise"), "x")
}

func TestAnalyzer_Normalize_EmptyInput(t *testing.T) {
	a := NewAnalyzer(DefaultAnalyzerConfig())
	assert.Empty(t, a.Normalize(""))
	assert.Empty(t, a.Normalize("   "))
	assert.Empty(t, a.Normalize("!@#$%"))
}

func TestAnalyzer_Normalize_Deterministic(t *testing.T) {
	a := NewAnalyzer(DefaultAnalyzerConfig())
	text := "Generates noise patterns with configurable amplitude"
	assert.Equal(t, a.Normalize(text), a.Normalize(text))
}

func TestAnalyzer_NormalizeTerm_MatchesPipeline(t *testing.T) {
	a := NewAnalyzer(DefaultAnalyzerConfig())
	terms := a.Normalize("blurring")
	assert.Equal(t, terms[0], a.NormalizeTerm("Blurring"))
}

func TestSplitCamelCase_AcronymRuns(t *testing.T) {
	assert.Equal(t, []string{"GLSL", "Material"}, splitCamelCase("GLSLMaterial"))
	assert.Equal(t, []string{"parse", "OSC", "Message"}, splitCamelCase("parseOSCMessage"))
}
