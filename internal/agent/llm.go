package agent

import (
	"context"
	"errors"
	"strings"

	apperrors "voice-agent/internal/common/errors"
	commonhttp "voice-agent/internal/common/http"
	"voice-agent/internal/common/logger"
	"voice-agent/internal/dialogue"
)

var ErrEmptyCompletion = errors.New("LLM_EMPTY_COMPLETION")

const generatePath = "/api/ai/generate"

// LLMAgent asks the GenAI service for each reply.
type LLMAgent struct {
	responder
	config   LLMConfig
	client   *commonhttp.Client
	endpoint string
}

type generateMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type generateRequest struct {
	Prompt      string            `json:"prompt"`
	Messages    []generateMessage `json:"messages"`
	MaxTokens   int               `json:"max_tokens"`
	Temperature float64           `json:"temperature"`
	Model       string            `json:"model,omitempty"`
	Intent      string            `json:"intent,omitempty"`
}

type generateResponse struct {
	Text string `json:"text"`
}

func NewLLMAgent(cfg LLMConfig, log logger.Logger) *LLMAgent {
	opts := []commonhttp.Option{}
	if cfg.GenAI.APIKey != "" {
		opts = append(opts, commonhttp.WithHeader("Authorization", "Bearer "+cfg.GenAI.APIKey))
	}
	return &LLMAgent{
		responder: newResponder(TypeLLMAssistant, log),
		config:    cfg,
		client:    commonhttp.NewClient(cfg.GenAI.MaxRetries, opts...),
		endpoint:  strings.TrimRight(cfg.GenAI.BaseURL, "/") + generatePath,
	}
}

func (a *LLMAgent) Respond(ctx context.Context, utterance, conversationID string, isInterrupt bool) (string, bool) {
	return a.respond(ctx, utterance, conversationID, isInterrupt, a.generate)
}

func (a *LLMAgent) InitialMessage() string { return a.config.InitialMessage }

func (a *LLMAgent) generate(ctx context.Context, tentative dialogue.History, intent dialogue.Intent, _ dialogue.EntitySet, _ dialogue.Context) (string, error) {
	if timeout := a.config.GenAI.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	messages := make([]generateMessage, 0, len(tentative)+1)
	if a.config.SystemPrompt != "" {
		messages = append(messages, generateMessage{Role: "system", Content: a.config.SystemPrompt})
	}
	for _, turn := range tentative {
		messages = append(messages, generateMessage{Role: string(turn.Role), Content: turn.Content})
	}

	req := generateRequest{
		Prompt:      tentative[len(tentative)-1].Content,
		Messages:    messages,
		MaxTokens:   a.config.MaxTokens,
		Temperature: a.config.Temperature,
		Model:       a.config.Model,
		Intent:      string(intent),
	}

	var resp generateResponse
	if err := a.client.PostJSON(ctx, a.endpoint, req, &resp); err != nil {
		if errors.Is(err, commonhttp.ErrTimeout) {
			return "", apperrors.NewLLMTimeoutError()
		}
		return "", apperrors.NewLLMRequestFailedError(err)
	}
	if strings.TrimSpace(resp.Text) == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Text, nil
}
