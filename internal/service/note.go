package service

import (
	"context"
	"fmt"

	"github.com/atinyakov/homehub/internal/models"
)

// NoteRepository keeps the single shared note.
type NoteRepository interface {
	// Ensure creates the note when missing and returns it.
	Ensure(ctx context.Context) (models.Note, error)
	// SetContent replaces the text of the note with the given id.
	SetContent(ctx context.Context, id int64, content string) (*models.Note, error)
}

// NoteService reads and writes the household scratch pad.
type NoteService struct {
	repo NoteRepository
}

// NewNoteService constructs a NoteService.
func NewNoteService(repo NoteRepository) *NoteService {
	return &NoteService{repo: repo}
}

// Get returns the note, creating it with empty content on first use.
func (s *NoteService) Get(ctx context.Context) (models.Note, error) {
	note, err := s.repo.Ensure(ctx)
	if err != nil {
		return models.Note{}, fmt.Errorf("get note: %w", err)
	}
	return note, nil
}

// Update replaces the note content and refreshes its timestamp.
func (s *NoteService) Update(ctx context.Context, content string) (models.Note, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return models.Note{}, err
	}
	note, err := s.repo.SetContent(ctx, current.ID, content)
	if err != nil {
		return models.Note{}, fmt.Errorf("update note: %w", err)
	}
	if note == nil {
		return models.Note{}, fmt.Errorf("update note: note %d disappeared", current.ID)
	}
	return *note, nil
}
