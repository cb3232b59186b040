package agent

import (
	"errors"
	"fmt"

	"voice-agent/internal/common/logger"
	"voice-agent/internal/dialogue"
)

var (
	ErrUnrecognizedAgentType = errors.New("AGENT_TYPE_UNRECOGNIZED")
	ErrInvalidAgentConfig    = errors.New("AGENT_CONFIG_INVALID")
)

// Factory builds agents from configs. It holds no per-conversation state.
type Factory struct {
	logger    logger.Logger
	genai     GenAIConfig
	generator dialogue.ReplyGenerator
}

type FactoryOption func(*Factory)

// WithGenAIDefaults sets the endpoint used by LLM agents whose config leaves it empty.
func WithGenAIDefaults(g GenAIConfig) FactoryOption {
	return func(f *Factory) { f.genai = g }
}

// WithReplyGenerator replaces the canned replies of rule-based agents.
func WithReplyGenerator(g dialogue.ReplyGenerator) FactoryOption {
	return func(f *Factory) { f.generator = g }
}

func NewFactory(log logger.Logger, opts ...FactoryOption) *Factory {
	f := &Factory{
		logger:    log,
		generator: dialogue.CannedReplies{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateAgent returns a new agent for cfg. Unknown variants fail with
// ErrUnrecognizedAgentType and nothing is constructed.
func (f *Factory) CreateAgent(cfg Config) (Agent, error) {
	switch c := cfg.(type) {
	case AssistantConfig:
		if err := c.validate(); err != nil {
			return nil, err
		}
		return NewAssistant(c, f.logger, f.generator), nil
	case *AssistantConfig:
		if c == nil {
			return nil, fmt.Errorf("%w: nil %s config", ErrInvalidAgentConfig, TypeCustomAssistant)
		}
		return f.CreateAgent(*c)
	case LLMConfig:
		c.GenAI = f.mergeGenAI(c.GenAI)
		if err := c.validate(); err != nil {
			return nil, err
		}
		if c.GenAI.BaseURL == "" {
			return nil, fmt.Errorf("%w: genai base_url is required for %s", ErrInvalidAgentConfig, TypeLLMAssistant)
		}
		return NewLLMAgent(c, f.logger), nil
	case *LLMConfig:
		if c == nil {
			return nil, fmt.Errorf("%w: nil %s config", ErrInvalidAgentConfig, TypeLLMAssistant)
		}
		return f.CreateAgent(*c)
	}

	var t Type
	if cfg != nil {
		t = cfg.AgentType()
	}
	f.logger.Error("unrecognized agent type", map[string]interface{}{
		"type": string(t),
	})
	return nil, fmt.Errorf("%w: %q", ErrUnrecognizedAgentType, t)
}

// CreateFromMap decodes raw and creates the agent it describes.
func (f *Factory) CreateFromMap(raw map[string]interface{}) (Agent, error) {
	cfg, err := DecodeConfig(raw)
	if err != nil {
		return nil, err
	}
	return f.CreateAgent(cfg)
}

func (f *Factory) mergeGenAI(g GenAIConfig) GenAIConfig {
	if g.BaseURL == "" {
		g.BaseURL = f.genai.BaseURL
	}
	if g.APIKey == "" {
		g.APIKey = f.genai.APIKey
	}
	if g.TimeoutMS == 0 {
		g.TimeoutMS = f.genai.TimeoutMS
	}
	if g.MaxRetries == 0 {
		g.MaxRetries = f.genai.MaxRetries
	}
	return g
}

func (b BaseConfig) validate() error {
	if b.MaxTokens < 1 {
		return fmt.Errorf("%w: max_tokens must be at least 1", ErrInvalidAgentConfig)
	}
	if b.Temperature < 0 || b.Temperature > 1 {
		return fmt.Errorf("%w: temperature must be within [0, 1]", ErrInvalidAgentConfig)
	}
	return nil
}
