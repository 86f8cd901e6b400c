package mcp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/touchdocs/tdmcp/internal/docs"
)

func TestFormatDocument_FullRecord(t *testing.T) {
	md := FormatDocument(&docs.Document{
		ID:          "noise_chop",
		Name:        "Noise",
		Category:    docs.CategoryCHOP,
		Summary:     "Generates noise channels.",
		Description: "The Noise CHOP makes random channel data.",
		Details:     "Supports several noise types.",
		Parameters: []docs.Parameter{
			{Name: "amplitude", Type: "Float", DefaultValue: "1", Description: "Output scale"},
		},
		Keywords: []string{"random", "perlin"},
	})

	assert.True(t, strings.HasPrefix(md, "# Noise (CHOP)\n"))
	assert.Contains(t, md, "Generates noise channels.")
	assert.Contains(t, md, "## Parameters")
	assert.Contains(t, md, "| amplitude | Float | 1 | Output scale |")
	assert.Contains(t, md, "## Details")
	assert.Contains(t, md, "Keywords: random, perlin")
}

func TestFormatDocument_MinimalRecord(t *testing.T) {
	md := FormatDocument(&docs.Document{ID: "blur_top", Name: "Blur", Category: docs.CategoryTOP})

	assert.Equal(t, "# Blur (TOP)\n", md)
}

func TestFormatDocument_PrefersDisplayName(t *testing.T) {
	md := FormatDocument(&docs.Document{
		ID: "moviefilein_top", Name: "moviefilein",
		DisplayName: "Movie File In", Category: docs.CategoryTOP,
	})
	assert.Contains(t, md, "# Movie File In (TOP)")
}

func TestEscapeCell(t *testing.T) {
	assert.Equal(t, "a\\|b c", escapeCell("a|b\nc"))
}
