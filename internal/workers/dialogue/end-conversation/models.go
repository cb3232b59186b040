package endconversation

type Input struct {
	ConversationID string `json:"conversationId"`
	Reason         string `json:"reason,omitempty"`
}

type Output struct {
	ConversationID string `json:"conversationId"`
	Ended          bool   `json:"ended"`
	TurnCount      int    `json:"turnCount"`
	MessageCount   int    `json:"messageCount"`
	DurationMs     int64  `json:"durationMs"`
}

const InputSchema = `{
  "type": "object",
  "required": ["conversationId"],
  "properties": {
    "conversationId": {"type": "string", "minLength": 1},
    "reason": {"type": "string"}
  }
}`
