package docs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tderrors "github.com/touchdocs/tdmcp/internal/errors"
)

func writeCatalog(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDeriveID_StableAcrossRuns(t *testing.T) {
	assert.Equal(t, "noise_chop", DeriveID("Noise", CategoryCHOP))
	assert.Equal(t, "noise_chop", DeriveID(" Noise ", CategoryCHOP))
	assert.Equal(t, "render_pass_top", DeriveID("Render Pass", CategoryTOP))
}

func TestDocument_EnsureID(t *testing.T) {
	d := Document{Name: "Blur", Category: CategoryTOP}
	d.EnsureID()
	assert.Equal(t, "blur_top", d.ID)

	// Existing ids are never overwritten.
	d2 := Document{ID: "custom", Name: "Blur", Category: CategoryTOP}
	d2.EnsureID()
	assert.Equal(t, "custom", d2.ID)
}

func TestDocument_Validate(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		code string
	}{
		{"valid", Document{ID: "noise_chop", Name: "Noise", Category: CategoryCHOP}, ""},
		{"missing id", Document{Name: "Noise", Category: CategoryCHOP}, tderrors.ErrCodeDocMissingID},
		{"missing name", Document{ID: "x", Category: CategoryCHOP}, tderrors.ErrCodeDocMissingName},
		{"bad category", Document{ID: "x", Name: "X", Category: "WAT"}, tderrors.ErrCodeDocMissingCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate()
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.code, tderrors.GetCode(err))
		})
	}
}

func TestDocument_ExtraFieldsRoundTrip(t *testing.T) {
	src := `{"id":"noise_chop","name":"Noise","category":"CHOP","wikiUrl":"https://docs.derivative.ca/Noise_CHOP"}`

	var d Document
	require.NoError(t, json.Unmarshal([]byte(src), &d))
	require.Contains(t, d.Extra, "wikiUrl")

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(out), "wikiUrl")
	assert.Contains(t, string(out), "docs.derivative.ca")
}

func TestLoader_SkipsMalformedRecords(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "chops.json", `[
		{"id":"noise_chop","name":"Noise","category":"CHOP","description":"Generates noise patterns"},
		{"name":"","category":"CHOP"},
		{"id":"audio_chop","name":"Audio File In","category":"CHOP"}
	]`)

	loader := NewLoader(dir, nil)
	result, err := loader.Load()
	require.NoError(t, err)

	assert.Len(t, result.Documents, 2)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Files)
}

func TestLoader_UnreadableCatalogIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "bad.json", `{not json`)
	writeCatalog(t, dir, "good.json", `[{"id":"blur_top","name":"Blur","category":"TOP"}]`)

	loader := NewLoader(dir, nil)
	result, err := loader.Load()
	require.NoError(t, err)

	require.Len(t, result.Documents, 1)
	assert.Equal(t, "blur_top", result.Documents[0].ID)
}

func TestLoader_MissingDirFails(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "absent"), nil)
	_, err := loader.Load()
	require.Error(t, err)
	assert.Equal(t, tderrors.ErrCodeCatalogRead, tderrors.GetCode(err))
}

func TestLoader_DerivesMissingIDs(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "tops.json", `[{"name":"Noise","category":"TOP"}]`)

	loader := NewLoader(dir, nil)
	result, err := loader.Load()
	require.NoError(t, err)

	require.Len(t, result.Documents, 1)
	assert.Equal(t, "noise_top", result.Documents[0].ID)
}
