package endconversation

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"voice-agent/internal/agent"
	"voice-agent/internal/common/errors"
	"voice-agent/internal/common/logger"
	"voice-agent/internal/common/observability"
	"voice-agent/internal/models"
	"voice-agent/internal/session"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) End(ctx context.Context, conversationID string) (*models.SessionSummary, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionSummary), args.Error(1)
}

func newTestHandler(t *testing.T, svc Service) *Handler {
	return NewHandler(&Config{Timeout: time.Second}, svc, logger.NewTestLogger(t), observability.NewNoop())
}

func TestParseInput(t *testing.T) {
	input, err := ParseInput(`{"conversationId":"conv-1","reason":"caller_hangup"}`)
	require.NoError(t, err)
	assert.Equal(t, "conv-1", input.ConversationID)
	assert.Equal(t, "caller_hangup", input.Reason)

	_, err = ParseInput(`{"reason":"caller_hangup"}`)
	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeInvalidJobInput, stdErr.Code)
}

func TestExecute_Success(t *testing.T) {
	svc := new(MockService)
	svc.On("End", mock.Anything, "conv-1").Return(&models.SessionSummary{
		ConversationID: "conv-1",
		TurnCount:      3,
		MessageCount:   6,
		Duration:       90 * time.Second,
	}, nil)

	out, err := newTestHandler(t, svc).Execute(context.Background(), &Input{ConversationID: "conv-1"})

	require.NoError(t, err)
	assert.True(t, out.Ended)
	assert.Equal(t, 3, out.TurnCount)
	assert.Equal(t, 6, out.MessageCount)
	assert.Equal(t, int64(90000), out.DurationMs)
	svc.AssertExpectations(t)
}

func TestExecute_UnknownSession(t *testing.T) {
	svc := new(MockService)
	svc.On("End", mock.Anything, "gone").Return(nil, fmt.Errorf("%w: gone", session.ErrSessionNotFound))

	_, err := newTestHandler(t, svc).Execute(context.Background(), &Input{ConversationID: "gone"})

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeSessionNotFound, stdErr.Code)
}

func TestExecute_WithSessionManager(t *testing.T) {
	log := logger.NewTestLogger(t)
	manager := session.NewManager(agent.NewFactory(log), log)
	ctx := context.Background()

	_, err := manager.Start(ctx, session.StartRequest{ConversationID: "conv-1"})
	require.NoError(t, err)
	_, err = manager.Respond(ctx, "conv-1", "hello", false)
	require.NoError(t, err)

	h := newTestHandler(t, manager)
	out, err := h.Execute(ctx, &Input{ConversationID: "conv-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, out.TurnCount)
	assert.Equal(t, 2, out.MessageCount)

	_, err = h.Execute(ctx, &Input{ConversationID: "conv-1"})
	assert.Error(t, err)
}
