// Package store defines the persistence interfaces of the application and
// the errors shared by their implementations.
package store

import (
	"context"

	"github.com/clarinote/clarinote-api/internal/domain"
	"github.com/google/uuid"
)

// NoteStore defines the interface for note data persistence.
type NoteStore interface {
	// Save persists a new processed note for the given subject. It generates
	// a fresh note ID, computes the text lengths, and stamps the creation
	// time. Each call produces a new record even for identical content; no
	// dedup key exists, which is acceptable because the orchestrator invokes
	// Save at most once per request.
	// Returns the new note ID, or an error if validation or the write fails.
	Save(ctx context.Context, subjectID uuid.UUID, originalText, cleanedText string) (uuid.UUID, error)

	// History returns the subject's notes ordered newest-first, bounded by
	// limit. Summaries omit the original text and internal identifiers.
	// Returns an empty slice, never an error, when the subject has no notes.
	History(ctx context.Context, subjectID uuid.UUID, limit int) ([]domain.NoteSummary, error)

	// GetByID retrieves a note by ID, enforcing the ownership check: a note
	// belonging to another subject is treated as not found.
	// Returns ErrNoteNotFound if the note does not exist or is not owned.
	GetByID(ctx context.Context, noteID, subjectID uuid.UUID) (*domain.Note, error)

	// Delete removes the note only if it exists and is owned by subjectID.
	// Reports false without raising when the note is absent or foreign;
	// the two cases are indistinguishable to the caller.
	Delete(ctx context.Context, noteID, subjectID uuid.UUID) (bool, error)

	// Stats returns per-subject aggregates over stored notes.
	// Subjects with no notes get zero counts and nil dates, never an error.
	Stats(ctx context.Context, subjectID uuid.UUID) (*domain.NoteStats, error)
}
