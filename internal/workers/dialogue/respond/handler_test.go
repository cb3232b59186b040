package respond

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"voice-agent/internal/agent"
	"voice-agent/internal/callconfig"
	"voice-agent/internal/common/errors"
	"voice-agent/internal/common/logger"
	"voice-agent/internal/common/observability"
	"voice-agent/internal/dialogue"
	"voice-agent/internal/models"
	"voice-agent/internal/session"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Respond(ctx context.Context, conversationID, utterance string, isInterrupt bool) (*session.RespondResult, error) {
	args := m.Called(ctx, conversationID, utterance, isInterrupt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.RespondResult), args.Error(1)
}

func (m *MockService) Get(conversationID string) (models.Session, bool) {
	args := m.Called(conversationID)
	return args.Get(0).(models.Session), args.Bool(1)
}

type failingGenerator struct{}

func (failingGenerator) Generate(dialogue.Intent, dialogue.EntitySet, dialogue.Context) (string, error) {
	return "", stderrors.New("model unavailable")
}

func newTestHandler(t *testing.T, svc Service) *Handler {
	return NewHandler(&Config{Timeout: time.Second}, svc, logger.NewTestLogger(t), observability.NewNoop())
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		name    string
		vars    string
		wantErr bool
		want    Input
	}{
		{
			name: "valid",
			vars: `{"conversationId":"conv-1","utterance":"hello there"}`,
			want: Input{ConversationID: "conv-1", Utterance: "hello there"},
		},
		{
			name: "interrupt flag",
			vars: `{"conversationId":"conv-1","utterance":"wait","isInterrupt":true}`,
			want: Input{ConversationID: "conv-1", Utterance: "wait", IsInterrupt: true},
		},
		{
			name: "empty utterance is allowed",
			vars: `{"conversationId":"conv-1","utterance":""}`,
			want: Input{ConversationID: "conv-1"},
		},
		{name: "missing utterance", vars: `{"conversationId":"conv-1"}`, wantErr: true},
		{name: "empty conversation id", vars: `{"conversationId":"","utterance":"hi"}`, wantErr: true},
		{name: "interrupt not boolean", vars: `{"conversationId":"c","utterance":"hi","isInterrupt":"yes"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := ParseInput(tt.vars)
			if tt.wantErr {
				var stdErr *errors.StandardError
				require.True(t, stderrors.As(err, &stdErr))
				assert.Equal(t, errors.ErrCodeInvalidJobInput, stdErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *input)
		})
	}
}

func TestExecute_Success(t *testing.T) {
	svc := new(MockService)
	svc.On("Respond", mock.Anything, "conv-1", "hello", false).
		Return(&session.RespondResult{Reply: "Hello! How can I assist you today?"}, nil)
	svc.On("Get", "conv-1").Return(models.Session{AgentType: "CUSTOM_ASSISTANT"}, true)

	out, err := newTestHandler(t, svc).Execute(context.Background(), &Input{ConversationID: "conv-1", Utterance: "hello"})

	require.NoError(t, err)
	assert.Equal(t, "conv-1", out.ConversationID)
	assert.Equal(t, "Hello! How can I assist you today?", out.Reply)
	assert.False(t, out.ShouldEnd)
	svc.AssertExpectations(t)
}

func TestExecute_SessionNotFound(t *testing.T) {
	svc := new(MockService)
	svc.On("Respond", mock.Anything, "missing", "hi", false).
		Return(nil, fmt.Errorf("%w: missing", session.ErrSessionNotFound))

	_, err := newTestHandler(t, svc).Execute(context.Background(), &Input{ConversationID: "missing", Utterance: "hi"})

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeSessionNotFound, stdErr.Code)
	assert.False(t, stdErr.Retryable)
	svc.AssertNotCalled(t, "Get", mock.Anything)
}

func TestExecute_WithSessionManager(t *testing.T) {
	log := logger.NewTestLogger(t)
	manager := session.NewManager(agent.NewFactory(log), log)
	_, err := manager.Start(context.Background(), session.StartRequest{ConversationID: "conv-1"})
	require.NoError(t, err)

	h := newTestHandler(t, manager)
	turns := []struct {
		utterance string
		reply     string
	}{
		{"hello", "Hello! How can I assist you today?"},
		{"what are your hours?", "I understand you have a question. Let me help you with that."},
		{"bye", "Goodbye! Have a great day!"},
	}
	for _, turn := range turns {
		out, err := h.Execute(context.Background(), &Input{ConversationID: "conv-1", Utterance: turn.utterance})
		require.NoError(t, err)
		assert.Equal(t, turn.reply, out.Reply, turn.utterance)
		assert.False(t, out.ShouldEnd)
	}

	info, ok := manager.Get("conv-1")
	require.True(t, ok)
	assert.Equal(t, 2*len(turns), info.MessageCount)
}

func TestExecute_FaultIsMaskedNotFailed(t *testing.T) {
	log := logger.NewTestLogger(t)
	factory := agent.NewFactory(log, agent.WithReplyGenerator(failingGenerator{}))
	manager := session.NewManager(factory, log)
	_, err := manager.Start(context.Background(), session.StartRequest{ConversationID: "conv-1"})
	require.NoError(t, err)

	out, err := newTestHandler(t, manager).Execute(context.Background(), &Input{ConversationID: "conv-1", Utterance: "hello"})

	require.NoError(t, err)
	assert.Equal(t, dialogue.ApologyReply, out.Reply)
	assert.False(t, out.ShouldEnd)

	info, _ := manager.Get("conv-1")
	assert.Zero(t, info.MessageCount)
}

func TestExecute_RestoresFromCallConfig(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log := logger.NewTestLogger(t)
	store := callconfig.NewRedisStore(rdb, time.Hour, log)

	first := session.NewManager(agent.NewFactory(log), log, session.WithCallConfigStore(store))
	_, err := first.Start(context.Background(), session.StartRequest{ConversationID: "conv-9"})
	require.NoError(t, err)

	second := session.NewManager(agent.NewFactory(log), log, session.WithCallConfigStore(store))
	out, err := newTestHandler(t, second).Execute(context.Background(), &Input{ConversationID: "conv-9", Utterance: "could you please check my order"})

	require.NoError(t, err)
	assert.Equal(t, "I'll help you with your request.", out.Reply)
}
