// Package service contains the request orchestration layer: it sequences
// the normalization and persistence collaborators under the failure policy
// the API contract requires.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/clarinote/clarinote-api/internal/domain"
	"github.com/clarinote/clarinote-api/internal/normalize"
	"github.com/clarinote/clarinote-api/internal/platform/logger"
	"github.com/clarinote/clarinote-api/internal/redact"
	"github.com/clarinote/clarinote-api/internal/store"
	"github.com/google/uuid"
)

// ProcessResult is the outcome of a successful note processing request.
// NoteID is nil when the cleaned text could not be persisted; the cleaned
// text itself is always present.
type ProcessResult struct {
	CleanedNote    string
	NoteID         *uuid.UUID
	OriginalLength int
	CleanedLength  int
	ProcessedAt    time.Time
}

// NoteService orchestrates note processing and retrieval.
type NoteService interface {
	// ProcessNote normalizes the raw text and persists the result.
	// Normalization failures propagate to the caller; persistence failures
	// are absorbed, yielding a result with a nil NoteID. The caller's
	// cleaned text is never withheld because of a storage fault.
	ProcessNote(ctx context.Context, subjectID uuid.UUID, rawText string) (*ProcessResult, error)

	// GetHistory returns the subject's stored notes, newest first.
	GetHistory(ctx context.Context, subjectID uuid.UUID, limit int) ([]domain.NoteSummary, error)

	// GetNote returns a single owned note, or store.ErrNoteNotFound when the
	// note is absent or owned by another subject.
	GetNote(ctx context.Context, noteID, subjectID uuid.UUID) (*domain.Note, error)

	// DeleteNote removes an owned note, reporting false without error when
	// the note is absent or foreign.
	DeleteNote(ctx context.Context, noteID, subjectID uuid.UUID) (bool, error)

	// GetStats returns per-subject aggregates over stored notes.
	GetStats(ctx context.Context, subjectID uuid.UUID) (*domain.NoteStats, error)
}

// noteService is the standard NoteService implementation. Collaborators are
// injected at construction, never reached through package-level state.
type noteService struct {
	normalizer normalize.Normalizer
	noteStore  store.NoteStore
	logger     *slog.Logger
}

// Ensure noteService implements NoteService interface
var _ NoteService = (*noteService)(nil)

// NewNoteService creates a NoteService with the given collaborators.
func NewNoteService(
	normalizer normalize.Normalizer,
	noteStore store.NoteStore,
	log *slog.Logger,
) NoteService {
	if normalizer == nil {
		panic("normalizer cannot be nil")
	}
	if noteStore == nil {
		panic("noteStore cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &noteService{
		normalizer: normalizer,
		noteStore:  noteStore,
		logger:     log.With(slog.String("component", "note_service")),
	}
}

// ProcessNote runs the synchronous pipeline: normalize, then save.
// Each step is a blocking call; no step begins before the previous one
// completes, and no retries are performed anywhere.
func (s *noteService) ProcessNote(
	ctx context.Context,
	subjectID uuid.UUID,
	rawText string,
) (*ProcessResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	original := strings.TrimSpace(rawText)
	if original == "" {
		return nil, fmt.Errorf("%w: note cannot be empty", normalize.ErrInvalidInput)
	}

	log.Info("processing note",
		slog.String("subject_id", subjectID.String()),
		slog.Int("input_length", utf8.RuneCountInString(original)))

	cleaned, err := s.normalizer.Normalize(ctx, original)
	if err != nil {
		// The typed kind stays in server-side logs; callers get a generic
		// failure from the API layer.
		log.Error("normalization failed",
			slog.String("subject_id", subjectID.String()),
			slog.String("error", redact.Error(err)))
		return nil, err
	}

	result := &ProcessResult{
		CleanedNote:    cleaned,
		OriginalLength: utf8.RuneCountInString(original),
		CleanedLength:  utf8.RuneCountInString(cleaned),
		ProcessedAt:    time.Now().UTC(),
	}

	// Fail-soft persistence: a storage fault must not cost the caller their
	// cleaned text. The error is logged and the response carries a nil note ID.
	noteID, err := s.noteStore.Save(ctx, subjectID, original, cleaned)
	if err != nil {
		log.Error("note save failed, continuing without note ID",
			slog.String("subject_id", subjectID.String()),
			slog.String("error", redact.Error(err)))
		return result, nil
	}

	result.NoteID = &noteID

	log.Info("note processed",
		slog.String("subject_id", subjectID.String()),
		slog.String("note_id", noteID.String()))
	return result, nil
}

// GetHistory implements NoteService.GetHistory.
func (s *noteService) GetHistory(
	ctx context.Context,
	subjectID uuid.UUID,
	limit int,
) ([]domain.NoteSummary, error) {
	return s.noteStore.History(ctx, subjectID, limit)
}

// GetNote implements NoteService.GetNote.
func (s *noteService) GetNote(
	ctx context.Context,
	noteID, subjectID uuid.UUID,
) (*domain.Note, error) {
	return s.noteStore.GetByID(ctx, noteID, subjectID)
}

// DeleteNote implements NoteService.DeleteNote.
func (s *noteService) DeleteNote(
	ctx context.Context,
	noteID, subjectID uuid.UUID,
) (bool, error) {
	return s.noteStore.Delete(ctx, noteID, subjectID)
}

// GetStats implements NoteService.GetStats.
func (s *noteService) GetStats(
	ctx context.Context,
	subjectID uuid.UUID,
) (*domain.NoteStats, error) {
	return s.noteStore.Stats(ctx, subjectID)
}
