package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DerivesCategoryFromCode(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		category Category
	}{
		{"config code", ErrCodeConfigInvalid, CategoryConfig},
		{"persistence code", ErrCodeSnapshotCorrupt, CategoryPersistence},
		{"validation code", ErrCodeDocMissingID, CategoryValidation},
		{"query code", ErrCodeQueryEmpty, CategoryQuery},
		{"cache code", ErrCodeCacheCorrupt, CategoryCache},
		{"internal code", ErrCodeInternal, CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, "boom", nil)
			assert.Equal(t, tt.category, err.Category)
		})
	}
}

func TestError_FormatsCodeAndMessage(t *testing.T) {
	err := New(ErrCodeDocMissingID, "document has no id", nil)
	assert.Equal(t, "[ERR_301_DOC_MISSING_ID] document has no id", err.Error())
}

func TestError_Is_MatchesByCode(t *testing.T) {
	err := ValidationError(ErrCodeDocMissingID, "missing id")
	target := &Error{Code: ErrCodeDocMissingID}

	assert.True(t, stderrors.Is(err, target))
	assert.False(t, stderrors.Is(err, &Error{Code: ErrCodeQueryEmpty}))
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(ErrCodeSnapshotWrite, cause)

	require.NotNil(t, err)
	assert.Equal(t, cause, stderrors.Unwrap(err))
	assert.Equal(t, "disk full", err.Message)
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeSnapshotWrite, nil))
}

func TestWithDetail_Chains(t *testing.T) {
	err := New(ErrCodeDocMalformed, "bad record", nil).
		WithDetail("file", "chops.json").
		WithDetail("index", "12")

	assert.Equal(t, "chops.json", err.Details["file"])
	assert.Equal(t, "12", err.Details["index"])
}

func TestSeverity_DegradationsAreWarnings(t *testing.T) {
	assert.Equal(t, SeverityWarning, New(ErrCodeSnapshotNotFound, "", nil).Severity)
	assert.Equal(t, SeverityWarning, CacheError("stale entry", nil).Severity)
	assert.True(t, IsFatal(New(ErrCodeConfigInvalid, "", nil)))
	assert.False(t, IsFatal(New(ErrCodeQueryEmpty, "", nil)))
}

func TestGetCode_NonStructuredError(t *testing.T) {
	assert.Equal(t, "", GetCode(fmt.Errorf("plain")))
	assert.Equal(t, ErrCodeQueryEmpty, GetCode(QueryError(ErrCodeQueryEmpty, "empty")))
}
