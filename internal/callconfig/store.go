package callconfig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"voice-agent/internal/common/logger"
	"voice-agent/internal/models"
)

const (
	keyPrefix = "callconfig:"
	seqSuffix = ":seq"
)

var (
	ErrCallConfigNotFound = errors.New("CALL_CONFIG_NOT_FOUND")
	ErrStoreFailed        = errors.New("CALL_CONFIG_STORE_FAILED")
)

// Store persists call configurations by conversation id.
type Store interface {
	Save(ctx context.Context, cfg *models.CallConfig) error
	Get(ctx context.Context, conversationID string) (*models.CallConfig, error)
	Delete(ctx context.Context, conversationID string) error
	// NextSequence reserves n transcript sequence numbers for the conversation
	// and returns the first. Numbers are never reused while the call config lives.
	NextSequence(ctx context.Context, conversationID string, n int) (int, error)
}

// RedisStore keeps each call configuration as a JSON string with a TTL.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func NewRedisStore(client redis.Cmdable, ttl time.Duration, log logger.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: log.With(map[string]interface{}{"component": "callconfig"}),
	}
}

func Key(conversationID string) string {
	return keyPrefix + conversationID
}

// SeqKey holds the transcript sequence counter of a conversation.
func SeqKey(conversationID string) string {
	return keyPrefix + conversationID + seqSuffix
}

func (s *RedisStore) Save(ctx context.Context, cfg *models.CallConfig) error {
	if cfg == nil || cfg.ConversationID == "" {
		return fmt.Errorf("%w: conversation id is required", ErrStoreFailed)
	}
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrStoreFailed, err)
	}

	if err := s.client.Set(ctx, Key(cfg.ConversationID), data, s.ttl).Err(); err != nil {
		s.logger.Error("failed to save call config", map[string]interface{}{
			"conversationId": cfg.ConversationID,
			"error":          err.Error(),
		})
		return fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, conversationID string) (*models.CallConfig, error) {
	data, err := s.client.Get(ctx, Key(conversationID)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("%w: %s", ErrCallConfigNotFound, conversationID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}

	var cfg models.CallConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		s.logger.Warn("discarding corrupt call config", map[string]interface{}{
			"conversationId": conversationID,
			"error":          err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	return &cfg, nil
}

// Delete is idempotent: removing a missing key is not an error.
func (s *RedisStore) Delete(ctx context.Context, conversationID string) error {
	if err := s.client.Del(ctx, Key(conversationID), SeqKey(conversationID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	return nil
}

func (s *RedisStore) NextSequence(ctx context.Context, conversationID string, n int) (int, error) {
	key := SeqKey(conversationID)
	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.IncrBy(ctx, key, int64(n))
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: reserve sequence: %v", ErrStoreFailed, err)
	}
	return int(incr.Val()) - n, nil
}
