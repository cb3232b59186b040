package transcript

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"voice-agent/internal/dialogue"
)

var ErrArchiveWriteFailed = errors.New("ARCHIVE_WRITE_FAILED")

// Entry is one archived turn.
type Entry struct {
	ID             uuid.UUID `json:"id"`
	ConversationID string    `json:"conversationId"`
	Sequence       int       `json:"sequence"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	Intent         string    `json:"intent,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Sink receives committed exchanges.
type Sink interface {
	Record(ctx context.Context, entries []Entry) error
}

// NewExchange builds the two entries for one committed exchange. seq is the
// zero-based position of the user turn in the conversation history.
func NewExchange(conversationID string, seq int, user, assistant string, intent dialogue.Intent, at time.Time) []Entry {
	return []Entry{
		{
			ID:             uuid.New(),
			ConversationID: conversationID,
			Sequence:       seq,
			Role:           string(dialogue.RoleUser),
			Content:        user,
			Intent:         string(intent),
			CreatedAt:      at,
		},
		{
			ID:             uuid.New(),
			ConversationID: conversationID,
			Sequence:       seq + 1,
			Role:           string(dialogue.RoleAssistant),
			Content:        assistant,
			CreatedAt:      at,
		},
	}
}

// MultiSink fans entries out to every sink and joins their errors.
type MultiSink []Sink

func (m MultiSink) Record(ctx context.Context, entries []Entry) error {
	var errs []error
	for _, s := range m {
		if err := s.Record(ctx, entries); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
