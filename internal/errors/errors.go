package errors

import (
	"fmt"
)

// EngineError is the structured error type for GraphText.
// It provides rich context for error handling, logging, and user presentation.
type EngineError struct {
	// Code is the unique error code (e.g., "ERR_301_INDEX_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, Storage, Lookup, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the caller may retry the whole operation.
	Retryable bool
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with EngineError.
func (e *EngineError) Is(target error) bool {
	if t, ok := target.(*EngineError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *EngineError) WithDetail(key, value string) *EngineError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new EngineError with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *EngineError {
	return &EngineError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Newf creates a new EngineError with a formatted message and no cause.
func Newf(code string, format string, args ...any) *EngineError {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Wrap creates an EngineError from an existing error.
// The error's message becomes the EngineError message.
func Wrap(code string, err error) *EngineError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// DuplicateIndex creates an error for re-registering an existing identifier.
func DuplicateIndex(identifier string) *EngineError {
	return Newf(ErrCodeDuplicateIndex, "index %q already exists", identifier).
		WithDetail("identifier", identifier)
}

// IndexNotFound creates an error for a lookup of an unknown identifier.
func IndexNotFound(identifier string) *EngineError {
	return Newf(ErrCodeIndexNotFound, "no index named %q", identifier).
		WithDetail("identifier", identifier)
}

// TypeMismatch creates an error for a lookup with the wrong entity type.
func TypeMismatch(identifier, want, got string) *EngineError {
	return Newf(ErrCodeTypeMismatch, "index %q holds %s, requested %s", identifier, got, want).
		WithDetail("identifier", identifier).
		WithDetail("requested", want).
		WithDetail("stored", got)
}

// InvalidIdentifier creates an error for an empty or path-unsafe identifier.
func InvalidIdentifier(identifier, reason string) *EngineError {
	return Newf(ErrCodeInvalidIdentifier, "invalid index identifier %q: %s", identifier, reason).
		WithDetail("identifier", identifier)
}

// UnknownAnalyzer creates an error for an unregistered analyzer profile.
func UnknownAnalyzer(name string) *EngineError {
	return Newf(ErrCodeUnknownAnalyzer, "unknown analyzer profile %q", name).
		WithDetail("analyzer", name)
}

// ApplyFailed creates a durability error for a failed partition apply.
func ApplyFailed(identifier string, partition int, cause error) *EngineError {
	return New(ErrCodePartitionApply,
		fmt.Sprintf("index %q partition %d apply failed: %v", identifier, partition, cause), cause).
		WithDetail("identifier", identifier).
		WithDetail("partition", fmt.Sprintf("%d", partition))
}

// IsRetryable checks if an error is retryable.
// Returns true if the error is an EngineError with Retryable flag set.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if ee, ok := err.(*EngineError); ok {
		return ee.Retryable
	}
	return false
}

// IsFatal checks if an error has fatal severity.
// Fatal errors should abort the current operation.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if ee, ok := err.(*EngineError); ok {
		return ee.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from an EngineError.
// Returns empty string if not an EngineError.
func GetCode(err error) string {
	if ee, ok := err.(*EngineError); ok {
		return ee.Code
	}
	return ""
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code string) bool {
	for err != nil {
		if ee, ok := err.(*EngineError); ok && ee.Code == code {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
