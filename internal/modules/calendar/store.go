package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Event is one row of the events table the search provider reads.
type Event struct {
	ID       string    `db:"id"`
	Title    string    `db:"title"`
	Location string    `db:"location"`
	StartsAt time.Time `db:"starts_at"`
}

// Store reads calendar state from the shared workspace database.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an existing database handle.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// SearchEvents returns the user's upcoming events whose title contains
// the query, soonest first.
func (s *Store) SearchEvents(ctx context.Context, userID, query string, limit int) ([]Event, error) {
	const q = `
		SELECT id, title, location, starts_at
		FROM events
		WHERE owner_id = $1 AND starts_at >= NOW() AND title ILIKE '%' || $2 || '%'
		ORDER BY starts_at ASC
		LIMIT $3`

	var events []Event
	if err := s.db.SelectContext(ctx, &events, q, userID, query, limit); err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	return events, nil
}

// OpenInvitationCount returns the number of invitations awaiting the
// user's response.
func (s *Store) OpenInvitationCount(ctx context.Context, userID string) (int, error) {
	const q = `SELECT COUNT(*) FROM invitations WHERE invitee_id = $1 AND status = 'pending'`

	var n int
	if err := s.db.GetContext(ctx, &n, q, userID); err != nil {
		return 0, fmt.Errorf("open invitation count: %w", err)
	}
	return n, nil
}
