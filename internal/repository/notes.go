package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/homehub/internal/models"
)

// PostgresNoteRepository keeps the single scratch-pad row.
type PostgresNoteRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresNoteRepository creates a new PostgresNoteRepository using the provided *sql.DB.
func NewPostgresNoteRepository(db *sql.DB) *PostgresNoteRepository {
	return &PostgresNoteRepository{DB: db}
}

// Ensure creates the note row with empty content when it is missing and
// returns it. The fixed primary key turns concurrent first calls into a
// single insert.
func (r *PostgresNoteRepository) Ensure(ctx context.Context) (models.Note, error) {
	if _, err := r.DB.ExecContext(ctx,
		`INSERT INTO notes (id, content) VALUES ($1, '') ON CONFLICT (id) DO NOTHING`,
		models.NoteID,
	); err != nil {
		return models.Note{}, fmt.Errorf("ensure note: %w", err)
	}

	var note models.Note
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, content, updated_at FROM notes WHERE id = $1`, models.NoteID,
	).Scan(&note.ID, &note.Content, &note.UpdatedAt)
	if err != nil {
		return models.Note{}, fmt.Errorf("read note: %w", err)
	}
	return note, nil
}

// SetContent replaces the note text and refreshes updated_at. It returns
// nil when the row does not exist.
func (r *PostgresNoteRepository) SetContent(ctx context.Context, id int64, content string) (*models.Note, error) {
	var note models.Note
	err := r.DB.QueryRowContext(ctx,
		`UPDATE notes SET content = $1, updated_at = now() WHERE id = $2 RETURNING id, content, updated_at`,
		content, id,
	).Scan(&note.ID, &note.Content, &note.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return &note, nil
}
