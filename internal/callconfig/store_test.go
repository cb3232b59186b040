package callconfig

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-agent/internal/common/logger"
	"voice-agent/internal/models"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisStore(client, 4*time.Hour, logger.NewTestLogger(t))
}

func testCallConfig() *models.CallConfig {
	return &models.CallConfig{
		ConversationID: "conv-123",
		CallSID:        "CA0001",
		From:           "+15550001",
		To:             "+15550002",
		AgentConfig:    map[string]interface{}{"type": "CUSTOM_ASSISTANT"},
		Transcriber:    &models.TranscriberConfig{Provider: "deepgram", Language: "en-US"},
		Synthesizer:    &models.SynthesizerConfig{Provider: "elevenlabs", VoiceID: "voice-1"},
	}
}

func TestRedisStore_SaveGetDelete(t *testing.T) {
	mr, store := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testCallConfig()))
	assert.True(t, mr.Exists("callconfig:conv-123"))
	assert.Equal(t, 4*time.Hour, mr.TTL("callconfig:conv-123"))

	got, err := store.Get(ctx, "conv-123")
	require.NoError(t, err)
	assert.Equal(t, "CA0001", got.CallSID)
	assert.Equal(t, "CUSTOM_ASSISTANT", got.AgentConfig["type"])
	assert.Equal(t, "deepgram", got.Transcriber.Provider)
	assert.Equal(t, "voice-1", got.Synthesizer.VoiceID)
	assert.False(t, got.CreatedAt.IsZero())

	require.NoError(t, store.Delete(ctx, "conv-123"))
	_, err = store.Get(ctx, "conv-123")
	assert.True(t, errors.Is(err, ErrCallConfigNotFound))

	assert.NoError(t, store.Delete(ctx, "conv-123"))
}

func TestRedisStore_Expiry(t *testing.T) {
	mr, store := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testCallConfig()))
	mr.FastForward(5 * time.Hour)

	_, err := store.Get(ctx, "conv-123")
	assert.True(t, errors.Is(err, ErrCallConfigNotFound))
}

func TestRedisStore_CorruptValue(t *testing.T) {
	mr, store := setupMiniredis(t)
	require.NoError(t, mr.Set("callconfig:conv-123", "{not json"))

	_, err := store.Get(context.Background(), "conv-123")
	assert.True(t, errors.Is(err, ErrStoreFailed))
}

func TestRedisStore_SaveRequiresID(t *testing.T) {
	_, store := setupMiniredis(t)
	err := store.Save(context.Background(), &models.CallConfig{})
	assert.True(t, errors.Is(err, ErrStoreFailed))
}

func TestRedisStore_BackendErrors(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db, time.Minute, logger.NewTestLogger(t))
	ctx := context.Background()

	mock.ExpectGet("callconfig:conv-1").SetErr(errors.New("connection refused"))
	_, err := store.Get(ctx, "conv-1")
	assert.True(t, errors.Is(err, ErrStoreFailed))
	assert.False(t, errors.Is(err, ErrCallConfigNotFound))

	mock.ExpectGet("callconfig:conv-2").RedisNil()
	_, err = store.Get(ctx, "conv-2")
	assert.True(t, errors.Is(err, ErrCallConfigNotFound))

	mock.ExpectDel("callconfig:conv-1", "callconfig:conv-1:seq").SetErr(errors.New("connection refused"))
	assert.True(t, errors.Is(store.Delete(ctx, "conv-1"), ErrStoreFailed))

	cfg := testCallConfig()
	cfg.CreatedAt = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	mock.ExpectSet("callconfig:conv-123", data, time.Minute).SetErr(errors.New("OOM"))
	assert.True(t, errors.Is(store.Save(ctx, cfg), ErrStoreFailed))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_NextSequence(t *testing.T) {
	mr, store := setupMiniredis(t)
	ctx := context.Background()

	for _, want := range []int{0, 2, 4} {
		got, err := store.NextSequence(ctx, "conv-123", 2)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 4*time.Hour, mr.TTL("callconfig:conv-123:seq"))

	other, err := store.NextSequence(ctx, "conv-456", 2)
	require.NoError(t, err)
	assert.Equal(t, 0, other)

	require.NoError(t, store.Delete(ctx, "conv-123"))
	assert.False(t, mr.Exists("callconfig:conv-123:seq"))

	again, err := store.NextSequence(ctx, "conv-123", 2)
	require.NoError(t, err)
	assert.Equal(t, 0, again)
}

func TestRedisStore_NextSequenceError(t *testing.T) {
	mr, store := setupMiniredis(t)
	mr.SetError("connection reset")

	_, err := store.NextSequence(context.Background(), "conv-123", 2)
	assert.True(t, errors.Is(err, ErrStoreFailed))
}
