package agent

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	apperrors "voice-agent/internal/common/errors"
	"voice-agent/internal/common/logger"
	"voice-agent/internal/common/metrics"
	"voice-agent/internal/dialogue"
)

// ErrResponseFault marks a respond call whose reply was replaced by the apology.
var ErrResponseFault = errors.New("RESPONSE_GENERATION_FAULT")

// generateFunc produces the reply for the last turn of tentative.
type generateFunc func(ctx context.Context, tentative dialogue.History, intent dialogue.Intent, entities dialogue.EntitySet, c dialogue.Context) (string, error)

// responder owns the history of one agent and runs exchanges against it one at a time.
type responder struct {
	mu        sync.Mutex
	history   dialogue.History
	agentType Type
	logger    logger.Logger
}

func newResponder(t Type, log logger.Logger) responder {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return responder{
		agentType: t,
		logger:    log.With(map[string]interface{}{"agentType": string(t)}),
	}
}

func (r *responder) Type() Type { return r.agentType }

func (r *responder) History() dialogue.History {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history.Clone()
}

// respond appends the user turn and the reply only when generate succeeds.
// On any fault the history is left as it was and the apology is returned.
func (r *responder) respond(ctx context.Context, utterance, conversationID string, isInterrupt bool, generate generateFunc) (string, bool) {
	start := time.Now()
	label := string(r.agentType)
	log := logger.ForConversation(r.logger, conversationID)
	defer func() {
		metrics.DialogueRespondDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	}()

	log.Info("received input", map[string]interface{}{
		"utterance":   utterance,
		"isInterrupt": isInterrupt,
	})
	if isInterrupt {
		metrics.DialogueInterruptsTotal.WithLabelValues(label).Inc()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tentative := r.history.With(dialogue.Turn{Role: dialogue.RoleUser, Content: utterance})

	reply, intent, err := r.exchange(ctx, tentative, generate)
	if err != nil {
		metrics.DialogueFaultsTotal.WithLabelValues(label).Inc()
		log.WithError(apperrors.NewResponseGenerationFault(err)).Error("error in respond", nil)
		return dialogue.ApologyReply, false
	}

	r.history = tentative.With(dialogue.Turn{Role: dialogue.RoleAssistant, Content: reply})
	metrics.DialogueRepliesTotal.WithLabelValues(label, string(intent)).Inc()

	log.Info("generated response", map[string]interface{}{
		"intent":    string(intent),
		"reply":     reply,
		"turnCount": len(r.history) / 2,
	})
	return reply, false
}

func (r *responder) exchange(ctx context.Context, tentative dialogue.History, generate generateFunc) (reply string, intent dialogue.Intent, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("panic while generating reply", map[string]interface{}{
				"panic": fmt.Sprint(rec),
				"stack": string(debug.Stack()),
			})
			err = fmt.Errorf("%w: panic: %v", ErrResponseFault, rec)
		}
	}()

	text := tentative[len(tentative)-1].Content
	intent = dialogue.Classify(text)
	entities := dialogue.ExtractEntities(text)
	c := dialogue.DeriveContext(tentative)

	reply, err = generate(ctx, tentative, intent, entities, c)
	if err != nil {
		return "", intent, fmt.Errorf("%w: %v", ErrResponseFault, err)
	}
	if reply == "" {
		return "", intent, fmt.Errorf("%w: empty reply", ErrResponseFault)
	}
	return reply, intent, nil
}
