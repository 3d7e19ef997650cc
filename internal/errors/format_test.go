package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatForCLI_BasicError(t *testing.T) {
	err := IndexNotFound("people")

	out := FormatForCLI(err)
	assert.Contains(t, out, `Error: no index named "people"`)
	assert.Contains(t, out, "Code: ERR_301_INDEX_NOT_FOUND")
	assert.NotContains(t, out, "Hint:")
}

func TestFormatForCLI_RetryableCarriesHint(t *testing.T) {
	err := ApplyFailed("people", 2, errors.New("short write"))

	out := FormatForCLI(err)
	assert.Contains(t, out, "Code: ERR_201_PARTITION_APPLY")
	assert.Contains(t, out, "Hint: retrying the whole operation may succeed")
}

func TestFormatForCLI_FatalCarriesSeverity(t *testing.T) {
	err := Wrap(ErrCodeCorruptIndex, errors.New("checksum mismatch"))

	out := FormatForCLI(err)
	assert.Contains(t, out, "Severity: fatal")
}

func TestFormatForCLI_StandardError(t *testing.T) {
	out := FormatForCLI(errors.New("plain failure"))
	assert.Contains(t, out, "Error: plain failure")
	assert.Contains(t, out, "Code: ERR_501_INTERNAL")
}

func TestFormatForCLI_NilError(t *testing.T) {
	assert.Empty(t, FormatForCLI(nil))
}

func TestFormatForLog_EngineError(t *testing.T) {
	err := ApplyFailed("people", 3, errors.New("disk full"))

	fields := FormatForLog(err)
	require.NotNil(t, fields)
	assert.Equal(t, ErrCodePartitionApply, fields["error_code"])
	assert.Equal(t, string(CategoryStorage), fields["category"])
	assert.Equal(t, true, fields["retryable"])
	assert.Equal(t, "disk full", fields["cause"])
	assert.Equal(t, "people", fields["detail_identifier"])
}

func TestFormatForLog_StandardError(t *testing.T) {
	fields := FormatForLog(errors.New("plain failure"))
	assert.Equal(t, map[string]any{"error": "plain failure"}, fields)
}

func TestFormatForLog_NilError(t *testing.T) {
	assert.Nil(t, FormatForLog(nil))
}
