package files

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Document is one row of the documents table the search provider reads.
type Document struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Folder    string    `db:"folder"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Store reads documents from the shared workspace database.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an existing database handle.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// SearchDocuments returns the user's documents whose name contains the
// query, most recently updated first.
func (s *Store) SearchDocuments(ctx context.Context, userID, query string, limit int) ([]Document, error) {
	const q = `
		SELECT id, name, folder, updated_at
		FROM documents
		WHERE owner_id = $1 AND name ILIKE '%' || $2 || '%'
		ORDER BY updated_at DESC
		LIMIT $3`

	var docs []Document
	if err := s.db.SelectContext(ctx, &docs, q, userID, query, limit); err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	return docs, nil
}
