package camunda

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"voice-agent/internal/common/logger"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("rpc error: code = Unavailable desc = connection refused"), true},
		{errors.New("context deadline exceeded"), true},
		{errors.New("NOT_FOUND: no such job"), false},
		{errors.New("permission denied"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsRetryable(tt.err), "%v", tt.err)
	}
}

func TestNewJobRunner_Defaults(t *testing.T) {
	r := NewJobRunner("dialogue-respond", time.Second, logger.NewTestLogger(t), nil)
	assert.Equal(t, "dialogue-respond", r.TaskType)
	assert.NotNil(t, r.Obs)
	assert.NotNil(t, r.Errors)
}
