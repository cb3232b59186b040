package startconversation

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
	"voice-agent/internal/session"
	dialogueworker "voice-agent/internal/workers/dialogue"
)

const (
	TaskType = "dialogue-start-conversation"
)

var schema = validation.MustCompile(InputSchema)

// Service is the part of session.Manager this worker needs.
type Service interface {
	Start(ctx context.Context, req session.StartRequest) (*session.StartResult, error)
}

type Handler struct {
	config  *Config
	service Service
	runner  *camunda.JobRunner
	logger  logger.Logger
}

func NewHandler(config *Config, service Service, log logger.Logger, obs *observability.Observability) *Handler {
	runner := camunda.NewJobRunner(TaskType, config.Timeout, log, obs)
	return &Handler{
		config:  config,
		service: service,
		runner:  runner,
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

// ParseInput validates the job variables and decodes them.
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
	result, err := h.service.Start(ctx, session.StartRequest{
		ConversationID: input.ConversationID,
		CallSID:        input.CallSID,
		From:           input.From,
		To:             input.To,
		AgentConfig:    input.AgentConfig,
		Transcriber:    input.Transcriber,
		Synthesizer:    input.Synthesizer,
	})
	if err != nil {
		return nil, dialogueworker.MapError(err, input.ConversationID)
	}

	h.logger.Info("conversation started", map[string]interface{}{
		"conversationId": result.Session.ConversationID,
		"agentType":      result.Session.AgentType,
	})

	return &Output{
		ConversationID: result.Session.ConversationID,
		AgentType:      result.Session.AgentType,
		InitialMessage: result.InitialMessage,
		StartedAt:      result.Session.CreatedAt,
	}, nil
}
