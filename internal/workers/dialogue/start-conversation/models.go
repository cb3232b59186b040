// internal/workers/dialogue/start-conversation/models.go
package startconversation

import (
	"time"

	"voice-agent/internal/models"
)

type Input struct {
	ConversationID string                    `json:"conversationId"`
	CallSID        string                    `json:"callSid"`
	From           string                    `json:"from"`
	To             string                    `json:"to"`
	AgentConfig    map[string]interface{}    `json:"agentConfig"`
	Transcriber    *models.TranscriberConfig `json:"transcriber,omitempty"`
	Synthesizer    *models.SynthesizerConfig `json:"synthesizer,omitempty"`
}

type Output struct {
	ConversationID string    `json:"conversationId"`
	AgentType      string    `json:"agentType"`
	InitialMessage string    `json:"initialMessage"`
	StartedAt      time.Time `json:"startedAt"`
}

const InputSchema = `{
  "type": "object",
  "properties": {
    "conversationId": {"type": "string"},
    "callSid": {"type": "string"},
    "from": {"type": "string"},
    "to": {"type": "string"},
    "agentConfig": {"type": "object"},
    "transcriber": {"type": "object"},
    "synthesizer": {"type": "object"}
  }
}`
