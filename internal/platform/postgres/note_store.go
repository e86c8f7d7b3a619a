// Package postgres provides PostgreSQL-backed implementations of the
// store interfaces.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/clarinote/clarinote-api/internal/domain"
	"github.com/clarinote/clarinote-api/internal/platform/logger"
	"github.com/clarinote/clarinote-api/internal/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes
const pgForeignKeyViolationCode = "23503"

// PostgresNoteStore implements the store.NoteStore interface
// using a PostgreSQL database as the storage backend.
type PostgresNoteStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresNoteStore creates a new PostgreSQL implementation of the NoteStore interface.
// It accepts a database connection or transaction that should be initialized and managed
// by the caller. If logger is nil, a default logger will be used.
func NewPostgresNoteStore(db store.DBTX, logger *slog.Logger) *PostgresNoteStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresNoteStore{
		db:     db,
		logger: logger.With(slog.String("component", "note_store")),
	}
}

// Ensure PostgresNoteStore implements store.NoteStore interface
var _ store.NoteStore = (*PostgresNoteStore)(nil)

// Save implements store.NoteStore.Save
// It constructs and validates a new domain.Note, then inserts it.
// Returns store.ErrInvalidEntity wrapping the validation error if the note
// data is invalid.
func (s *PostgresNoteStore) Save(
	ctx context.Context,
	subjectID uuid.UUID,
	originalText, cleanedText string,
) (uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	note, err := domain.NewNote(subjectID, originalText, cleanedText)
	if err != nil {
		log.Warn("note validation failed during save",
			slog.String("error", err.Error()),
			slog.String("subject_id", subjectID.String()))
		return uuid.Nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO notes (id, subject_id, original_text, cleaned_text, created_at, original_length, cleaned_length)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		note.ID,
		note.SubjectID,
		note.OriginalText,
		note.CleanedText,
		note.CreatedAt,
		note.OriginalLength,
		note.CleanedLength,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolationCode {
			log.Warn("foreign key violation during note save",
				slog.String("note_id", note.ID.String()),
				slog.String("subject_id", note.SubjectID.String()))
			return uuid.Nil, fmt.Errorf("%w: subject with ID %s not found",
				store.ErrInvalidEntity, note.SubjectID)
		}

		log.Error("failed to save note",
			slog.String("error", err.Error()),
			slog.String("note_id", note.ID.String()),
			slog.String("subject_id", note.SubjectID.String()))
		return uuid.Nil, err
	}

	log.Info("note saved successfully",
		slog.String("note_id", note.ID.String()),
		slog.String("subject_id", note.SubjectID.String()))
	return note.ID, nil
}

// History implements store.NoteStore.History
// It retrieves the subject's notes ordered newest-first, bounded by limit.
// Returns an empty slice when the subject has no notes.
func (s *PostgresNoteStore) History(
	ctx context.Context,
	subjectID uuid.UUID,
	limit int,
) ([]domain.NoteSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 20 // Default limit
	}

	log.Debug("retrieving note history",
		slog.String("subject_id", subjectID.String()),
		slog.Int("limit", limit))

	// original_text is deliberately not selected: it never leaves the
	// request/response cycle that created it.
	query := `
		SELECT id, cleaned_text, created_at, original_length, cleaned_length
		FROM notes
		WHERE subject_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, subjectID, limit)
	if err != nil {
		log.Error("failed to query note history",
			slog.String("error", err.Error()),
			slog.String("subject_id", subjectID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var summaries []domain.NoteSummary
	for rows.Next() {
		var summary domain.NoteSummary

		err := rows.Scan(
			&summary.ID,
			&summary.CleanedText,
			&summary.CreatedAt,
			&summary.OriginalLength,
			&summary.CleanedLength,
		)
		if err != nil {
			log.Error("failed to scan note row",
				slog.String("error", err.Error()))
			return nil, err
		}

		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	// Return empty slice instead of nil if no notes found
	if summaries == nil {
		summaries = []domain.NoteSummary{}
	}

	log.Debug("note history retrieved",
		slog.String("subject_id", subjectID.String()),
		slog.Int("count", len(summaries)))
	return summaries, nil
}

// GetByID implements store.NoteStore.GetByID
// The ownership check is part of the query: a note owned by another subject
// scans as no rows and is reported as ErrNoteNotFound.
func (s *PostgresNoteStore) GetByID(
	ctx context.Context,
	noteID, subjectID uuid.UUID,
) (*domain.Note, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving note by ID", slog.String("note_id", noteID.String()))

	query := `
		SELECT id, subject_id, original_text, cleaned_text, created_at, original_length, cleaned_length
		FROM notes
		WHERE id = $1 AND subject_id = $2
	`

	var note domain.Note
	err := s.db.QueryRowContext(ctx, query, noteID, subjectID).Scan(
		&note.ID,
		&note.SubjectID,
		&note.OriginalText,
		&note.CleanedText,
		&note.CreatedAt,
		&note.OriginalLength,
		&note.CleanedLength,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("note not found or not owned",
				slog.String("note_id", noteID.String()))
			return nil, store.ErrNoteNotFound
		}
		log.Error("failed to get note by ID",
			slog.String("error", err.Error()),
			slog.String("note_id", noteID.String()))
		return nil, err
	}

	return &note, nil
}

// Delete implements store.NoteStore.Delete
// It removes the note only when the ownership check passes; absence and
// ownership mismatch both report false.
func (s *PostgresNoteStore) Delete(
	ctx context.Context,
	noteID, subjectID uuid.UUID,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM notes
		WHERE id = $1 AND subject_id = $2
	`

	result, err := s.db.ExecContext(ctx, query, noteID, subjectID)
	if err != nil {
		log.Error("failed to delete note",
			slog.String("error", err.Error()),
			slog.String("note_id", noteID.String()))
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("note_id", noteID.String()))
		return false, err
	}

	if rowsAffected == 0 {
		log.Debug("note not found or not owned for delete",
			slog.String("note_id", noteID.String()))
		return false, nil
	}

	log.Info("note deleted",
		slog.String("note_id", noteID.String()),
		slog.String("subject_id", subjectID.String()))
	return true, nil
}

// Stats implements store.NoteStore.Stats
// Aggregates are computed in a single query; subjects with no notes get
// zero counts and nil dates.
func (s *PostgresNoteStore) Stats(
	ctx context.Context,
	subjectID uuid.UUID,
) (*domain.NoteStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(*), COALESCE(SUM(original_length), 0), MIN(created_at), MAX(created_at)
		FROM notes
		WHERE subject_id = $1
	`

	var stats domain.NoteStats
	var first, latest sql.NullTime

	err := s.db.QueryRowContext(ctx, query, subjectID).Scan(
		&stats.TotalNotes,
		&stats.TotalCharacters,
		&first,
		&latest,
	)
	if err != nil {
		log.Error("failed to compute note stats",
			slog.String("error", err.Error()),
			slog.String("subject_id", subjectID.String()))
		return nil, err
	}

	if first.Valid {
		stats.FirstNoteDate = &first.Time
	}
	if latest.Valid {
		stats.LatestNoteDate = &latest.Time
	}

	log.Debug("note stats computed",
		slog.String("subject_id", subjectID.String()),
		slog.Int("total_notes", stats.TotalNotes))
	return &stats, nil
}
