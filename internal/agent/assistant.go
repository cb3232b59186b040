package agent

import (
	"context"

	"voice-agent/internal/common/logger"
	"voice-agent/internal/dialogue"
)

// Assistant is the rule-based agent: keyword intent, empty entities, canned replies.
type Assistant struct {
	responder
	config    AssistantConfig
	generator dialogue.ReplyGenerator
}

func NewAssistant(cfg AssistantConfig, log logger.Logger, gen dialogue.ReplyGenerator) *Assistant {
	if gen == nil {
		gen = dialogue.CannedReplies{}
	}
	return &Assistant{
		responder: newResponder(TypeCustomAssistant, log),
		config:    cfg,
		generator: gen,
	}
}

func (a *Assistant) Respond(ctx context.Context, utterance, conversationID string, isInterrupt bool) (string, bool) {
	return a.respond(ctx, utterance, conversationID, isInterrupt,
		func(_ context.Context, _ dialogue.History, intent dialogue.Intent, entities dialogue.EntitySet, c dialogue.Context) (string, error) {
			return a.generator.Generate(intent, entities, c)
		})
}

func (a *Assistant) InitialMessage() string { return a.config.InitialMessage }

func (a *Assistant) Config() AssistantConfig { return a.config }
