package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Message is one row of the messages table the providers read.
type Message struct {
	ID         string    `db:"id"`
	Subject    string    `db:"subject"`
	Sender     string    `db:"sender"`
	ReceivedAt time.Time `db:"received_at"`
	Unread     bool      `db:"unread"`
}

// Store reads mail state from the shared workspace database.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an existing database handle.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// SearchMessages returns the user's messages whose subject or sender
// contains the query, newest first.
func (s *Store) SearchMessages(ctx context.Context, userID, query string, limit int) ([]Message, error) {
	const q = `
		SELECT id, subject, sender, received_at, unread
		FROM messages
		WHERE recipient_id = $1
		  AND (subject ILIKE '%' || $2 || '%' OR sender ILIKE '%' || $2 || '%')
		ORDER BY received_at DESC
		LIMIT $3`

	var msgs []Message
	if err := s.db.SelectContext(ctx, &msgs, q, userID, query, limit); err != nil {
		return nil, fmt.Errorf("search messages: %w", err)
	}
	return msgs, nil
}

// UnreadCount returns the user's unread message count.
func (s *Store) UnreadCount(ctx context.Context, userID string) (int, error) {
	const q = `SELECT COUNT(*) FROM messages WHERE recipient_id = $1 AND unread`

	var n int
	if err := s.db.GetContext(ctx, &n, q, userID); err != nil {
		return 0, fmt.Errorf("unread count: %w", err)
	}
	return n, nil
}
