package transcript

import (
	"context"
	"database/sql"
	"fmt"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS conversation_transcripts (
	id              UUID PRIMARY KEY,
	conversation_id TEXT        NOT NULL,
	sequence        INTEGER     NOT NULL,
	role            TEXT        NOT NULL,
	content         TEXT        NOT NULL,
	intent          TEXT,
	created_at      TIMESTAMPTZ NOT NULL,
	UNIQUE (conversation_id, sequence)
)`

const insertEntrySQL = `
INSERT INTO conversation_transcripts (id, conversation_id, sequence, role, content, intent, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (conversation_id, sequence) DO NOTHING`

const selectConversationSQL = `
SELECT id, conversation_id, sequence, role, content, COALESCE(intent, ''), created_at
FROM conversation_transcripts
WHERE conversation_id = $1
ORDER BY sequence`

// PostgresArchive stores transcripts in PostgreSQL.
type PostgresArchive struct {
	db *sql.DB
}

func NewPostgresArchive(db *sql.DB) *PostgresArchive {
	return &PostgresArchive{db: db}
}

func (a *PostgresArchive) EnsureSchema(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create transcript table: %w", err)
	}
	return nil
}

// Record writes all entries in one transaction. Replayed sequences are ignored.
func (a *PostgresArchive) Record(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: postgres: begin: %v", ErrArchiveWriteFailed, err)
	}

	for _, e := range entries {
		var intent interface{}
		if e.Intent != "" {
			intent = e.Intent
		}
		if _, err := tx.ExecContext(ctx, insertEntrySQL,
			e.ID, e.ConversationID, e.Sequence, e.Role, e.Content, intent, e.CreatedAt,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: postgres: insert: %v", ErrArchiveWriteFailed, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: postgres: commit: %v", ErrArchiveWriteFailed, err)
	}
	return nil
}

// Conversation returns the archived turns of one conversation in order.
func (a *PostgresArchive) Conversation(ctx context.Context, conversationID string) ([]Entry, error) {
	rows, err := a.db.QueryContext(ctx, selectConversationSQL, conversationID)
	if err != nil {
		return nil, fmt.Errorf("query transcript: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ConversationID, &e.Sequence, &e.Role, &e.Content, &e.Intent, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transcript: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transcript: %w", err)
	}
	return entries, nil
}
