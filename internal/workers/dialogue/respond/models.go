// internal/workers/dialogue/respond/models.go
package respond

type Input struct {
	ConversationID string `json:"conversationId"`
	Utterance      string `json:"utterance"`
	IsInterrupt    bool   `json:"isInterrupt"`
}

type Output struct {
	ConversationID string `json:"conversationId"`
	Reply          string `json:"reply"`
	ShouldEnd      bool   `json:"shouldEnd"`
}

const InputSchema = `{
  "type": "object",
  "required": ["conversationId", "utterance"],
  "properties": {
    "conversationId": {"type": "string", "minLength": 1},
    "utterance": {"type": "string"},
    "isInterrupt": {"type": "boolean"}
  }
}`
