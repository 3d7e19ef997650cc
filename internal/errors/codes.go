// Package errors provides structured error handling for GraphText.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Storage and durability errors (partition I/O, catalog)
//   - 3XX: Lookup errors (registry)
//   - 4XX: Validation errors (index creation)
//   - 5XX: Lifecycle and internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryStorage indicates partition and catalog durability errors.
	CategoryStorage Category = "STORAGE"
	// CategoryLookup indicates registry lookup errors.
	CategoryLookup Category = "LOOKUP"
	// CategoryValidation indicates index creation validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryLifecycle indicates use of a closed reader, index or provider.
	CategoryLifecycle Category = "LIFECYCLE"
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

	// Storage errors (200-299)
	ErrCodePartitionApply = "ERR_201_PARTITION_APPLY"
	ErrCodeReaderOpen     = "ERR_202_READER_OPEN"
	ErrCodeCorruptIndex   = "ERR_203_CORRUPT_INDEX"
	ErrCodeStoreLocked    = "ERR_204_STORE_LOCKED"
	ErrCodeCatalog        = "ERR_205_CATALOG"

	// Lookup errors (300-399)
	ErrCodeIndexNotFound = "ERR_301_INDEX_NOT_FOUND"
	ErrCodeTypeMismatch  = "ERR_302_TYPE_MISMATCH"

	// Validation errors (400-499)
	ErrCodeDuplicateIndex    = "ERR_401_DUPLICATE_INDEX"
	ErrCodeInvalidIdentifier = "ERR_402_INVALID_IDENTIFIER"
	ErrCodeEmptyPropertySet  = "ERR_403_EMPTY_PROPERTY_SET"
	ErrCodeUnknownAnalyzer   = "ERR_404_UNKNOWN_ANALYZER"
	ErrCodeInvalidEntityType = "ERR_405_INVALID_ENTITY_TYPE"

	// Lifecycle and internal errors (500-599)
	ErrCodeInternal       = "ERR_501_INTERNAL"
	ErrCodeReaderClosed   = "ERR_502_READER_CLOSED"
	ErrCodeProviderClosed = "ERR_503_PROVIDER_CLOSED"
	ErrCodeIndexClosed    = "ERR_504_INDEX_CLOSED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Leading digit of the numeric portion
	// (e.g. '2' from "ERR_201_PARTITION_APPLY").
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryStorage
	case '3':
		return CategoryLookup
	case '4':
		return CategoryValidation
	case '5':
		switch code {
		case ErrCodeReaderClosed, ErrCodeProviderClosed, ErrCodeIndexClosed:
			return CategoryLifecycle
		}
		return CategoryInternal
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeCorruptIndex, ErrCodeStoreLocked:
		return SeverityFatal
	}
	return SeverityError
}

// isRetryableCode reports whether the caller may retry the whole operation.
// Durability errors are retryable only by re-running the enclosing
// transaction; the engine itself never retries (duplicate application risk).
func isRetryableCode(code string) bool {
	switch code {
	case ErrCodePartitionApply, ErrCodeReaderOpen, ErrCodeCatalog:
		return true
	default:
		return false
	}
}
