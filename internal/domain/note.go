package domain

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Common validation errors for Note
var (
	ErrEmptyNoteID        = errors.New("note ID cannot be empty")
	ErrEmptyNoteSubjectID = errors.New("note subject ID cannot be empty")
	ErrEmptyOriginalText  = errors.New("note original text cannot be empty")
	ErrEmptyCleanedText   = errors.New("note cleaned text cannot be empty")
)

// Note represents a processed clinical note: the text a caller submitted
// together with the normalized version produced by the AI backend.
// The record is immutable once written; the stored lengths are the rune
// counts of the corresponding fields captured at creation time, never
// recomputed later.
type Note struct {
	ID             uuid.UUID `json:"note_id"`
	SubjectID      uuid.UUID `json:"subject_id"`
	OriginalText   string    `json:"original_text"`
	CleanedText    string    `json:"cleaned_text"`
	CreatedAt      time.Time `json:"created_at"`
	OriginalLength int       `json:"original_length"`
	CleanedLength  int       `json:"cleaned_length"`
}

// NoteSummary is the history view of a Note. It deliberately omits the
// original text (never returned outside the request that submitted it)
// and any internal tracing identifiers.
type NoteSummary struct {
	ID             uuid.UUID `json:"note_id"`
	CleanedText    string    `json:"cleaned_note"`
	CreatedAt      time.Time `json:"created_at"`
	OriginalLength int       `json:"original_length"`
	CleanedLength  int       `json:"cleaned_length"`
}

// NoteStats holds per-subject aggregates over stored notes.
// Date fields are nil for subjects with no notes.
type NoteStats struct {
	TotalNotes      int        `json:"total_notes"`
	TotalCharacters int        `json:"total_characters"`
	FirstNoteDate   *time.Time `json:"first_note_date"`
	LatestNoteDate  *time.Time `json:"latest_note_date"`
}

// NewNote creates a new Note for the given subject. It generates a fresh
// UUID, stamps the creation time in UTC, and captures the rune counts of
// both text fields. Returns an error if validation fails.
func NewNote(subjectID uuid.UUID, originalText, cleanedText string) (*Note, error) {
	note := &Note{
		ID:             uuid.New(),
		SubjectID:      subjectID,
		OriginalText:   originalText,
		CleanedText:    cleanedText,
		CreatedAt:      time.Now().UTC(),
		OriginalLength: utf8.RuneCountInString(originalText),
		CleanedLength:  utf8.RuneCountInString(cleanedText),
	}

	if err := note.Validate(); err != nil {
		return nil, err
	}

	return note, nil
}

// Validate checks if the Note has valid data.
// Returns an error if any field fails validation.
func (n *Note) Validate() error {
	if n.ID == uuid.Nil {
		return ErrEmptyNoteID
	}

	if n.SubjectID == uuid.Nil {
		return ErrEmptyNoteSubjectID
	}

	if n.OriginalText == "" {
		return ErrEmptyOriginalText
	}

	if n.CleanedText == "" {
		return ErrEmptyCleanedText
	}

	return nil
}

// Summary returns the history view of the note.
func (n *Note) Summary() NoteSummary {
	return NoteSummary{
		ID:             n.ID,
		CleanedText:    n.CleanedText,
		CreatedAt:      n.CreatedAt,
		OriginalLength: n.OriginalLength,
		CleanedLength:  n.CleanedLength,
	}
}
