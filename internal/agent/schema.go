package agent

import (
	"encoding/json"
	"fmt"

	"voice-agent/internal/common/validation"
)

const baseProperties = `
		"type":            {"type": "string"},
		"initial_message": {"type": "string"},
		"system_prompt":   {"type": "string"},
		"max_tokens":      {"type": "integer", "minimum": 1},
		"temperature":     {"type": "number", "minimum": 0, "maximum": 1}`

var schemas = map[Type]*validation.Schema{
	TypeCustomAssistant: validation.MustCompile(`{
	"type": "object",
	"required": ["type"],
	"properties": {` + baseProperties + `
	}
}`),
	TypeLLMAssistant: validation.MustCompile(`{
	"type": "object",
	"required": ["type"],
	"properties": {` + baseProperties + `,
		"model": {"type": "string"},
		"genai": {
			"type": "object",
			"properties": {
				"base_url":    {"type": "string"},
				"api_key":     {"type": "string"},
				"timeout_ms":  {"type": "integer", "minimum": 1},
				"max_retries": {"type": "integer", "minimum": 0}
			}
		}
	}
}`),
}

// DecodeConfig selects the config variant named by raw["type"], validates the
// payload against that variant's schema and fills unset fields with defaults.
func DecodeConfig(raw map[string]interface{}) (Config, error) {
	t, _ := raw["type"].(string)
	schema, ok := schemas[Type(t)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnrecognizedAgentType, t)
	}
	if err := schema.Validate(raw).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAgentConfig, err)
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAgentConfig, err)
	}

	switch Type(t) {
	case TypeCustomAssistant:
		cfg := AssistantConfig{BaseConfig: DefaultBaseConfig()}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAgentConfig, err)
		}
		return cfg, nil
	case TypeLLMAssistant:
		cfg := LLMConfig{BaseConfig: DefaultBaseConfig()}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAgentConfig, err)
		}
		return cfg, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnrecognizedAgentType, t)
}

// EncodeConfig is the inverse of DecodeConfig.
func EncodeConfig(cfg Config) (map[string]interface{}, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	raw := map[string]interface{}{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	raw["type"] = string(cfg.AgentType())
	return raw, nil
}
