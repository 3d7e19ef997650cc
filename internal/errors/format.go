package errors

import (
	"fmt"
	"strings"
)

// FormatForCLI formats an error for CLI output.
// Uses a concise format suitable for terminal display.
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}

	ee, ok := err.(*EngineError)
	if !ok {
		// Wrap standard error
		ee = Wrap(ErrCodeInternal, err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Error: %s\n", ee.Message))
	sb.WriteString(fmt.Sprintf("  Code: %s\n", ee.Code))
	if IsFatal(ee) {
		sb.WriteString("  Severity: fatal\n")
	}
	if IsRetryable(ee) {
		sb.WriteString("  Hint: retrying the whole operation may succeed\n")
	}
	return sb.String()
}

// FormatForLog formats an error for structured logging.
// Returns key-value pairs suitable for slog attributes.
func FormatForLog(err error) map[string]any {
	if err == nil {
		return nil
	}

	ee, ok := err.(*EngineError)
	if !ok {
		return map[string]any{
			"error": err.Error(),
		}
	}

	result := map[string]any{
		"error_code": ee.Code,
		"message":    ee.Message,
		"category":   string(ee.Category),
		"severity":   string(ee.Severity),
		"retryable":  ee.Retryable,
	}

	if ee.Cause != nil {
		result["cause"] = ee.Cause.Error()
	}

	for k, v := range ee.Details {
		result["detail_"+k] = v
	}

	return result
}
