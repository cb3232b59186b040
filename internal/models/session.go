package models

import "time"

// Session is the externally visible state of a live conversation.
type Session struct {
	ConversationID string    `json:"conversationId"`
	CallSID        string    `json:"callSid,omitempty"`
	AgentType      string    `json:"agentType"`
	CreatedAt      time.Time `json:"createdAt"`
	LastActivity   time.Time `json:"lastActivity"`
	MessageCount   int       `json:"messageCount"`
}

// IsIdle reports whether the session has seen no activity for longer than timeout.
func (s *Session) IsIdle(timeout time.Duration, now time.Time) bool {
	return now.Sub(s.LastActivity) > timeout
}

// SessionSummary is returned when a conversation ends.
type SessionSummary struct {
	ConversationID string        `json:"conversationId"`
	TurnCount      int           `json:"turnCount"`
	MessageCount   int           `json:"messageCount"`
	Duration       time.Duration `json:"duration"`
}
