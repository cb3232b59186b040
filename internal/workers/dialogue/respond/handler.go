package respond

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"voice-agent/internal/common/camunda"
	"voice-agent/internal/common/errors"
	"voice-agent/internal/common/logger"
	"voice-agent/internal/common/observability"
	"voice-agent/internal/common/validation"
	"voice-agent/internal/models"
	"voice-agent/internal/session"
	dialogueworker "voice-agent/internal/workers/dialogue"
)

const (
	TaskType = "dialogue-respond"
)

var schema = validation.MustCompile(InputSchema)

type Service interface {
	Respond(ctx context.Context, conversationID, utterance string, isInterrupt bool) (*session.RespondResult, error)
	Get(conversationID string) (models.Session, bool)
}

// Handler answers one caller utterance. Generation faults never fail the job:
// the agent has already replaced the reply with its apology.
type Handler struct {
	config  *Config
	service Service
	runner  *camunda.JobRunner
	obs     *observability.Observability
	logger  logger.Logger
}

func NewHandler(config *Config, service Service, log logger.Logger, obs *observability.Observability) *Handler {
	runner := camunda.NewJobRunner(TaskType, config.Timeout, log, obs)
	return &Handler{
		config:  config,
		service: service,
		runner:  runner,
		obs:     runner.Obs,
		logger:  runner.Logger,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.runner.Run(client, job, func(ctx context.Context, variables string) (interface{}, error) {
		input, err := ParseInput(variables)
		if err != nil {
			return nil, err
		}
		return h.Execute(ctx, input)
	})
}

func ParseInput(variables string) (*Input, error) {
	if err := schema.Validate([]byte(variables)).Err(); err != nil {
		return nil, errors.NewInvalidJobInputError(err.Error())
	}
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInvalidJobInputError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	result, err := h.service.Respond(ctx, input.ConversationID, input.Utterance, input.IsInterrupt)
	if err != nil {
		return nil, dialogueworker.MapError(err, input.ConversationID)
	}

	if info, ok := h.service.Get(input.ConversationID); ok {
		h.obs.RecordExchange(ctx, info.AgentType)
	}
	h.logger.Debug("reply ready", map[string]interface{}{
		"conversationId": input.ConversationID,
		"shouldEnd":      result.ShouldEnd,
	})

	return &Output{
		ConversationID: input.ConversationID,
		Reply:          result.Reply,
		ShouldEnd:      result.ShouldEnd,
	}, nil
}
