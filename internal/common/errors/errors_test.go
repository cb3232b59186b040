package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryTable(t *testing.T) {
	tests := []struct {
		code      ErrorCode
		retries   int
		category  string
		retryable bool
	}{
		{ErrCodeAgentTypeUnrecognized, 0, "configuration", false},
		{ErrCodeAgentConfigInvalid, 0, "configuration", false},
		{ErrCodeSessionNotFound, 0, "dialogue", false},
		{ErrCodeCallConfigStore, 3, "storage", true},
		{ErrCodeArchiveWriteFailed, 3, "storage", true},
		{ErrCodeInvalidJobInput, 0, "validation", false},
		{ErrCodeLLMTimeout, 2, "external_service", true},
		{ErrCodeInternal, 0, "internal", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.retries, GetRetryCount(tt.code))
			assert.Equal(t, tt.category, GetErrorCategory(tt.code))
			assert.Equal(t, tt.retryable, IsRetryableErrorCode(tt.code))
		})
	}
}

func TestConvertToBPMNError(t *testing.T) {
	stdErr := NewAgentTypeUnrecognizedError("BOGUS")
	bpmn := ConvertToBPMNError(stdErr)

	assert.Equal(t, "AGENT_TYPE_UNRECOGNIZED", bpmn.Code)
	assert.Equal(t, "type: BOGUS", bpmn.Details)
	assert.False(t, bpmn.Retryable)

	vars := bpmn.ToErrorVariables()
	assert.Equal(t, "AGENT_TYPE_UNRECOGNIZED", vars["errorCode"])
	assert.Equal(t, "configuration", vars["errorCategory"])
}

func TestNormalize(t *testing.T) {
	t.Run("wrapped standard error is unwrapped", func(t *testing.T) {
		original := NewSessionNotFoundError("conv-9")
		got := Normalize(fmt.Errorf("respond: %w", original))
		require.Same(t, original, got)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		got := Normalize(fmt.Errorf("disk on fire"))
		assert.Equal(t, ErrCodeInternal, got.Code)
		assert.Equal(t, "disk on fire", got.Details)
	})
}
