package endconversation

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
	dialogueworker "voice-agent/internal/workers/dialogue"
)

const (
	TaskType = "dialogue-end-conversation"
)

var schema = validation.MustCompile(InputSchema)

type Service interface {
	End(ctx context.Context, conversationID string) (*models.SessionSummary, error)
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
	summary, err := h.service.End(ctx, input.ConversationID)
	if err != nil {
		return nil, dialogueworker.MapError(err, input.ConversationID)
	}

	h.logger.Info("conversation ended", map[string]interface{}{
		"conversationId": input.ConversationID,
		"reason":         input.Reason,
		"turnCount":      summary.TurnCount,
	})

	return &Output{
		ConversationID: summary.ConversationID,
		Ended:          true,
		TurnCount:      summary.TurnCount,
		MessageCount:   summary.MessageCount,
		DurationMs:     summary.Duration.Milliseconds(),
	}, nil
}
