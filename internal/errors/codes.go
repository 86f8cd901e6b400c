// Package errors provides structured error handling for tdmcp.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Persistence errors (file, disk, snapshot)
//   - 3XX: Validation errors (documents submitted for indexing)
//   - 4XX: Query errors
//   - 5XX: Internal errors (cache inconsistencies, unexpected state)
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryPersistence indicates snapshot read/write errors.
	CategoryPersistence Category = "PERSISTENCE"
	// CategoryValidation indicates document validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryQuery indicates unusable-query errors.
	CategoryQuery Category = "QUERY"
	// CategoryCache indicates result cache inconsistencies.
	CategoryCache Category = "CACHE"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// Persistence errors (200-299)
	ErrCodeSnapshotNotFound = "ERR_201_SNAPSHOT_NOT_FOUND"
	ErrCodeSnapshotCorrupt  = "ERR_202_SNAPSHOT_CORRUPT"
	ErrCodeSnapshotVersion  = "ERR_203_SNAPSHOT_VERSION"
	ErrCodeSnapshotWrite    = "ERR_204_SNAPSHOT_WRITE"
	ErrCodeSnapshotLocked   = "ERR_205_SNAPSHOT_LOCKED"
	ErrCodeCatalogRead      = "ERR_206_CATALOG_READ"

	// Validation errors (300-399)
	ErrCodeDocMissingID       = "ERR_301_DOC_MISSING_ID"
	ErrCodeDocMissingName     = "ERR_302_DOC_MISSING_NAME"
	ErrCodeDocMissingCategory = "ERR_303_DOC_MISSING_CATEGORY"
	ErrCodeDocMalformed       = "ERR_304_DOC_MALFORMED"

	// Query errors (400-499)
	ErrCodeQueryEmpty    = "ERR_401_QUERY_EMPTY"
	ErrCodeQueryTooShort = "ERR_402_QUERY_TOO_SHORT"
	ErrCodeInvalidParams = "ERR_403_INVALID_PARAMS"

	// Internal errors (500-599)
	ErrCodeInternal     = "ERR_501_INTERNAL"
	ErrCodeCacheCorrupt = "ERR_502_CACHE_CORRUPT"
	ErrCodeNotReady     = "ERR_503_INDEXER_NOT_READY"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryPersistence
	case '3':
		return CategoryValidation
	case '4':
		return CategoryQuery
	default:
		if code == ErrCodeCacheCorrupt {
			return CategoryCache
		}
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeSnapshotNotFound, ErrCodeSnapshotVersion, ErrCodeCacheCorrupt:
		// Degradations: load falls back to an empty index, cache falls
		// through to live computation.
		return SeverityWarning
	case ErrCodeConfigInvalid:
		return SeverityFatal
	default:
		return SeverityError
	}
}
