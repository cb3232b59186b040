package dialogueworker

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-agent/internal/agent"
	"voice-agent/internal/callconfig"
	"voice-agent/internal/common/errors"
	"voice-agent/internal/common/validation"
	"voice-agent/internal/session"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code errors.ErrorCode
	}{
		{"unknown agent type", fmt.Errorf("%w: %q", agent.ErrUnrecognizedAgentType, "MY_ACTION"), errors.ErrCodeAgentTypeUnrecognized},
		{"invalid agent config", fmt.Errorf("%w: temperature", agent.ErrInvalidAgentConfig), errors.ErrCodeAgentConfigInvalid},
		{"session not found", fmt.Errorf("%w: c-1", session.ErrSessionNotFound), errors.ErrCodeSessionNotFound},
		{"call config not found", fmt.Errorf("%w: c-1", callconfig.ErrCallConfigNotFound), errors.ErrCodeCallConfigNotFound},
		{"store failed", fmt.Errorf("%w: dial tcp", callconfig.ErrStoreFailed), errors.ErrCodeCallConfigStore},
		{"schema violation", fmt.Errorf("%w: utterance is required", validation.ErrSchemaViolation), errors.ErrCodeInvalidJobInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdErr *errors.StandardError
			require.True(t, stderrors.As(MapError(tt.err, "c-1"), &stdErr))
			assert.Equal(t, tt.code, stdErr.Code)
		})
	}
}

func TestMapError_PassThrough(t *testing.T) {
	assert.NoError(t, MapError(nil, ""))

	plain := stderrors.New("boom")
	assert.Equal(t, plain, MapError(plain, "c-1"))

	std := errors.NewInvalidJobInputError("bad")
	assert.Same(t, std, MapError(std, "c-1"))
}

func TestAgentTypeFrom(t *testing.T) {
	err := fmt.Errorf("%w: %q", agent.ErrUnrecognizedAgentType, "MY_ACTION")
	assert.Equal(t, "MY_ACTION", agentTypeFrom(err))
	assert.Equal(t, "", agentTypeFrom(agent.ErrUnrecognizedAgentType))
}
