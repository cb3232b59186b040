package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"voice-agent/internal/agent"
	"voice-agent/internal/callconfig"
	"voice-agent/internal/common/logger"
	"voice-agent/internal/common/metrics"
	"voice-agent/internal/dialogue"
	"voice-agent/internal/models"
	"voice-agent/internal/transcript"
)

// DefaultIdleTimeout is how long a session may stay silent before cleanup drops it.
const DefaultIdleTimeout = 15 * time.Minute

var ErrSessionNotFound = errors.New("SESSION_NOT_FOUND")

// AgentFactory builds an agent from a raw config carrying a "type" discriminator.
type AgentFactory interface {
	CreateFromMap(raw map[string]interface{}) (agent.Agent, error)
}

type StartRequest struct {
	ConversationID string
	CallSID        string
	From           string
	To             string
	AgentConfig    map[string]interface{}
	Transcriber    *models.TranscriberConfig
	Synthesizer    *models.SynthesizerConfig
}

type StartResult struct {
	Session        models.Session
	InitialMessage string
}

type RespondResult struct {
	Reply     string
	ShouldEnd bool
}

type session struct {
	mu    sync.Mutex
	agent agent.Agent
	info  models.Session
	// next transcript sequence when no call config store is configured
	seq int
}

// Manager owns the live agents, one per conversation.
type Manager struct {
	sessions     map[string]*session
	mu           sync.RWMutex
	factory      AgentFactory
	store        callconfig.Store
	sink         transcript.Sink
	defaultAgent map[string]interface{}
	idleTimeout  time.Duration
	logger       logger.Logger
	now          func() time.Time
}

type Option func(*Manager)

// WithCallConfigStore persists call configs so sessions survive a restart.
func WithCallConfigStore(s callconfig.Store) Option {
	return func(m *Manager) { m.store = s }
}

// WithTranscriptSink archives every committed exchange.
func WithTranscriptSink(s transcript.Sink) Option {
	return func(m *Manager) { m.sink = s }
}

// WithDefaultAgentConfig is used when a StartRequest carries no agent config.
func WithDefaultAgentConfig(raw map[string]interface{}) Option {
	return func(m *Manager) { m.defaultAgent = raw }
}

func WithIdleTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.idleTimeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(factory AgentFactory, log logger.Logger, opts ...Option) *Manager {
	m := &Manager{
		sessions:     make(map[string]*session),
		factory:      factory,
		defaultAgent: map[string]interface{}{"type": string(agent.TypeCustomAssistant)},
		idleTimeout:  DefaultIdleTimeout,
		logger:       log.With(map[string]interface{}{"component": "session"}),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start creates the agent for a new conversation and persists its call config.
// Factory errors are returned unchanged.
func (m *Manager) Start(ctx context.Context, req StartRequest) (*StartResult, error) {
	id := req.ConversationID
	if id == "" {
		id = uuid.NewString()
	}
	raw := req.AgentConfig
	if len(raw) == 0 {
		raw = m.defaultAgent
	}

	a, err := m.factory.CreateFromMap(raw)
	if err != nil {
		m.logger.Error("failed to create agent", map[string]interface{}{
			"conversationId": id,
			"error":          err.Error(),
		})
		return nil, err
	}

	now := m.now()
	if m.store != nil {
		cfg := &models.CallConfig{
			ConversationID: id,
			CallSID:        req.CallSID,
			From:           req.From,
			To:             req.To,
			AgentConfig:    raw,
			Transcriber:    req.Transcriber,
			Synthesizer:    req.Synthesizer,
			CreatedAt:      now.UTC(),
		}
		if err := m.store.Save(ctx, cfg); err != nil {
			return nil, err
		}
	}

	s := &session{
		agent: a,
		info: models.Session{
			ConversationID: id,
			CallSID:        req.CallSID,
			AgentType:      string(a.Type()),
			CreatedAt:      now,
			LastActivity:   now,
		},
	}

	m.mu.Lock()
	if _, exists := m.sessions[id]; exists {
		m.logger.Warn("replacing existing session", map[string]interface{}{"conversationId": id})
	}
	m.sessions[id] = s
	metrics.DialogueSessionsActive.Set(float64(len(m.sessions)))
	m.mu.Unlock()

	m.logger.Info("conversation started", map[string]interface{}{
		"conversationId": id,
		"agentType":      s.info.AgentType,
		"callSid":        req.CallSID,
	})

	return &StartResult{Session: s.info, InitialMessage: a.InitialMessage()}, nil
}

// Respond hands the utterance to the conversation's agent. A session missing
// from memory is rebuilt from its stored call config with an empty history.
func (m *Manager) Respond(ctx context.Context, conversationID, utterance string, isInterrupt bool) (*RespondResult, error) {
	s, err := m.lookup(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.agent.History())
	reply, shouldEnd := s.agent.Respond(ctx, utterance, conversationID, isInterrupt)
	after := len(s.agent.History())

	if after == before+2 && m.sink != nil {
		m.archive(ctx, s, conversationID, utterance, reply)
	}

	s.info.LastActivity = m.now()
	s.info.MessageCount = after

	return &RespondResult{Reply: reply, ShouldEnd: shouldEnd}, nil
}

// archive records one committed exchange. Sequence numbers come from the
// call config store when there is one, so a restored session continues
// numbering where the previous process stopped. Failures are only logged.
func (m *Manager) archive(ctx context.Context, s *session, conversationID, utterance, reply string) {
	seq := s.seq
	if m.store != nil {
		var err error
		seq, err = m.store.NextSequence(ctx, conversationID, 2)
		if err != nil {
			metrics.TranscriptWriteFailures.WithLabelValues("sequence").Inc()
			m.logger.Warn("failed to reserve transcript sequence", map[string]interface{}{
				"conversationId": conversationID,
				"error":          err.Error(),
			})
			return
		}
	}
	s.seq = seq + 2

	entries := transcript.NewExchange(conversationID, seq, utterance, reply, dialogue.Classify(utterance), m.now().UTC())
	if err := m.sink.Record(ctx, entries); err != nil {
		metrics.TranscriptWriteFailures.WithLabelValues("transcript").Inc()
		m.logger.Warn("failed to archive exchange", map[string]interface{}{
			"conversationId": conversationID,
			"error":          err.Error(),
		})
	}
}

// End removes the session and its stored call config. A session dropped by
// idle cleanup still ends cleanly while its call config exists.
func (m *Manager) End(ctx context.Context, conversationID string) (*models.SessionSummary, error) {
	m.mu.Lock()
	s, ok := m.sessions[conversationID]
	delete(m.sessions, conversationID)
	metrics.DialogueSessionsActive.Set(float64(len(m.sessions)))
	m.mu.Unlock()

	if !ok {
		return m.endEvicted(ctx, conversationID)
	}
	m.deleteCallConfig(ctx, conversationID)

	s.mu.Lock()
	history := s.agent.History()
	summary := &models.SessionSummary{
		ConversationID: conversationID,
		TurnCount:      len(history) / 2,
		MessageCount:   len(history),
		Duration:       m.now().Sub(s.info.CreatedAt),
	}
	s.mu.Unlock()

	m.logger.Info("conversation ended", map[string]interface{}{
		"conversationId": conversationID,
		"turnCount":      summary.TurnCount,
	})
	return summary, nil
}

func (m *Manager) endEvicted(ctx context.Context, conversationID string) (*models.SessionSummary, error) {
	if m.store == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, conversationID)
	}
	cfg, err := m.store.Get(ctx, conversationID)
	if errors.Is(err, callconfig.ErrCallConfigNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, conversationID)
	}
	if err != nil {
		return nil, err
	}
	m.deleteCallConfig(ctx, conversationID)

	m.logger.Info("conversation ended after idle cleanup", map[string]interface{}{
		"conversationId": conversationID,
	})
	return &models.SessionSummary{
		ConversationID: conversationID,
		Duration:       m.now().Sub(cfg.CreatedAt),
	}, nil
}

func (m *Manager) deleteCallConfig(ctx context.Context, conversationID string) {
	if m.store == nil {
		return
	}
	if err := m.store.Delete(ctx, conversationID); err != nil {
		m.logger.Warn("failed to delete call config", map[string]interface{}{
			"conversationId": conversationID,
			"error":          err.Error(),
		})
	}
}

// Get returns a snapshot of a live session.
func (m *Manager) Get(conversationID string) (models.Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[conversationID]
	m.mu.RUnlock()
	if !ok {
		return models.Session{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info, true
}

// CleanupExpired drops idle sessions. Their call configs stay in the store
// until the TTL expires, so a late utterance restores the agent.
func (m *Manager) CleanupExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, s := range m.sessions {
		if !s.mu.TryLock() {
			continue
		}
		idle := s.info.IsIdle(m.idleTimeout, now)
		s.mu.Unlock()
		if idle {
			delete(m.sessions, id)
			removed++
		}
	}
	metrics.DialogueSessionsActive.Set(float64(len(m.sessions)))
	return removed
}

// Stats returns current session statistics.
func (m *Manager) Stats() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := m.now()
	active := 0
	for _, s := range m.sessions {
		if s.mu.TryLock() {
			if !s.info.IsIdle(m.idleTimeout, now) {
				active++
			}
			s.mu.Unlock()
		} else {
			active++
		}
	}

	return map[string]int{
		"total":  len(m.sessions),
		"active": active,
	}
}

func (m *Manager) lookup(ctx context.Context, conversationID string) (*session, error) {
	m.mu.RLock()
	s, ok := m.sessions[conversationID]
	m.mu.RUnlock()
	if ok {
		return s, nil
	}

	if m.store == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, conversationID)
	}

	cfg, err := m.store.Get(ctx, conversationID)
	if errors.Is(err, callconfig.ErrCallConfigNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, conversationID)
	}
	if err != nil {
		return nil, err
	}

	a, err := m.factory.CreateFromMap(cfg.AgentConfig)
	if err != nil {
		return nil, err
	}

	now := m.now()
	restored := &session{
		agent: a,
		info: models.Session{
			ConversationID: conversationID,
			CallSID:        cfg.CallSID,
			AgentType:      string(a.Type()),
			CreatedAt:      now,
			LastActivity:   now,
		},
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[conversationID]; ok {
		return existing, nil
	}
	m.sessions[conversationID] = restored
	metrics.DialogueSessionsActive.Set(float64(len(m.sessions)))

	m.logger.Info("session restored from call config", map[string]interface{}{
		"conversationId": conversationID,
		"agentType":      restored.info.AgentType,
	})
	return restored, nil
}
