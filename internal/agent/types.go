package agent

import (
	"context"
	"time"

	"voice-agent/internal/dialogue"
)

// Type is the discriminator carried in the "type" field of an agent config.
type Type string

const (
	TypeCustomAssistant Type = "CUSTOM_ASSISTANT"
	TypeLLMAssistant    Type = "LLM_ASSISTANT"
)

const (
	DefaultInitialMessage = "Hello! I'm your AI assistant. How can I help you?"
	DefaultSystemPrompt   = "You are a helpful AI assistant"
	DefaultMaxTokens      = 150
	DefaultTemperature    = 0.7
)

// Agent answers one utterance at a time for a single conversation.
type Agent interface {
	// Respond never returns an error: faults are masked by dialogue.ApologyReply.
	Respond(ctx context.Context, utterance, conversationID string, isInterrupt bool) (reply string, shouldEnd bool)
	InitialMessage() string
	Type() Type
	// History returns a copy of the committed turns.
	History() dialogue.History
}

// Config is implemented by every agent config variant.
type Config interface {
	AgentType() Type
}

// BaseConfig holds the settings shared by every agent kind.
type BaseConfig struct {
	InitialMessage string  `json:"initial_message"`
	SystemPrompt   string  `json:"system_prompt"`
	MaxTokens      int     `json:"max_tokens"`
	Temperature    float64 `json:"temperature"`
}

func DefaultBaseConfig() BaseConfig {
	return BaseConfig{
		InitialMessage: DefaultInitialMessage,
		SystemPrompt:   DefaultSystemPrompt,
		MaxTokens:      DefaultMaxTokens,
		Temperature:    DefaultTemperature,
	}
}

// AssistantConfig configures the rule-based assistant.
type AssistantConfig struct {
	BaseConfig
}

func (AssistantConfig) AgentType() Type { return TypeCustomAssistant }

// LLMConfig configures the model-backed assistant. Zero GenAI fields fall
// back to the factory defaults.
type LLMConfig struct {
	BaseConfig
	Model string      `json:"model,omitempty"`
	GenAI GenAIConfig `json:"genai"`
}

func (LLMConfig) AgentType() Type { return TypeLLMAssistant }

type GenAIConfig struct {
	BaseURL    string `json:"base_url,omitempty"`
	APIKey     string `json:"api_key,omitempty"`
	TimeoutMS  int    `json:"timeout_ms,omitempty"`
	MaxRetries int    `json:"max_retries,omitempty"`
}

func (g GenAIConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutMS) * time.Millisecond
}
