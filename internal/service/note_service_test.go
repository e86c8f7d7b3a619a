package service

import (
	"context"
	"errors"
	"testing"

	"github.com/clarinote/clarinote-api/internal/domain"
	"github.com/clarinote/clarinote-api/internal/normalize"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockNormalizer is a mock implementation of normalize.Normalizer for testing
type MockNormalizer struct {
	NormalizeFn func(ctx context.Context, text string) (string, error)
	Calls       int
}

func (m *MockNormalizer) Normalize(ctx context.Context, text string) (string, error) {
	m.Calls++
	if m.NormalizeFn != nil {
		return m.NormalizeFn(ctx, text)
	}
	return text, nil
}

// MockNoteStore is a mock implementation of store.NoteStore for testing
type MockNoteStore struct {
	SaveFn    func(ctx context.Context, subjectID uuid.UUID, originalText, cleanedText string) (uuid.UUID, error)
	HistoryFn func(ctx context.Context, subjectID uuid.UUID, limit int) ([]domain.NoteSummary, error)
	GetByIDFn func(ctx context.Context, noteID, subjectID uuid.UUID) (*domain.Note, error)
	DeleteFn  func(ctx context.Context, noteID, subjectID uuid.UUID) (bool, error)
	StatsFn   func(ctx context.Context, subjectID uuid.UUID) (*domain.NoteStats, error)
	SaveCalls int
}

func (m *MockNoteStore) Save(
	ctx context.Context,
	subjectID uuid.UUID,
	originalText, cleanedText string,
) (uuid.UUID, error) {
	m.SaveCalls++
	if m.SaveFn != nil {
		return m.SaveFn(ctx, subjectID, originalText, cleanedText)
	}
	return uuid.New(), nil
}

func (m *MockNoteStore) History(
	ctx context.Context,
	subjectID uuid.UUID,
	limit int,
) ([]domain.NoteSummary, error) {
	if m.HistoryFn != nil {
		return m.HistoryFn(ctx, subjectID, limit)
	}
	return []domain.NoteSummary{}, nil
}

func (m *MockNoteStore) GetByID(ctx context.Context, noteID, subjectID uuid.UUID) (*domain.Note, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, noteID, subjectID)
	}
	return nil, nil
}

func (m *MockNoteStore) Delete(ctx context.Context, noteID, subjectID uuid.UUID) (bool, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, noteID, subjectID)
	}
	return false, nil
}

func (m *MockNoteStore) Stats(ctx context.Context, subjectID uuid.UUID) (*domain.NoteStats, error) {
	if m.StatsFn != nil {
		return m.StatsFn(ctx, subjectID)
	}
	return &domain.NoteStats{}, nil
}

func TestProcessNote_Success(t *testing.T) {
	ctx := context.Background()
	subjectID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	noteID := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	normalizer := &MockNormalizer{
		NormalizeFn: func(ctx context.Context, text string) (string, error) {
			assert.Equal(t, "pt w/cp", text)
			return "Patient with chest pain", nil
		},
	}
	noteStore := &MockNoteStore{
		SaveFn: func(ctx context.Context, gotSubject uuid.UUID, original, cleaned string) (uuid.UUID, error) {
			assert.Equal(t, subjectID, gotSubject)
			assert.Equal(t, "pt w/cp", original)
			assert.Equal(t, "Patient with chest pain", cleaned)
			return noteID, nil
		},
	}

	svc := NewNoteService(normalizer, noteStore, nil)

	result, err := svc.ProcessNote(ctx, subjectID, "pt w/cp")
	require.NoError(t, err)

	assert.Equal(t, "Patient with chest pain", result.CleanedNote)
	require.NotNil(t, result.NoteID)
	assert.Equal(t, noteID, *result.NoteID)
	assert.Equal(t, 7, result.OriginalLength)
	assert.Equal(t, 23, result.CleanedLength)
	assert.False(t, result.ProcessedAt.IsZero())
}

func TestProcessNote_StorageFailureIsAbsorbed(t *testing.T) {
	ctx := context.Background()
	subjectID := uuid.New()

	normalizer := &MockNormalizer{
		NormalizeFn: func(ctx context.Context, text string) (string, error) {
			return "Patient with chest pain", nil
		},
	}
	noteStore := &MockNoteStore{
		SaveFn: func(ctx context.Context, subjectID uuid.UUID, original, cleaned string) (uuid.UUID, error) {
			return uuid.Nil, errors.New("connection refused")
		},
	}

	svc := NewNoteService(normalizer, noteStore, nil)

	result, err := svc.ProcessNote(ctx, subjectID, "pt w/cp")
	require.NoError(t, err)

	// The cleaned text survives the storage fault; only the ID is lost.
	assert.Equal(t, "Patient with chest pain", result.CleanedNote)
	assert.Nil(t, result.NoteID)
	assert.Equal(t, 1, noteStore.SaveCalls)
}

func TestProcessNote_NormalizationFailureFailsFast(t *testing.T) {
	ctx := context.Background()
	subjectID := uuid.New()

	normalizer := &MockNormalizer{
		NormalizeFn: func(ctx context.Context, text string) (string, error) {
			return "", normalize.ErrOverloaded
		},
	}
	noteStore := &MockNoteStore{}

	svc := NewNoteService(normalizer, noteStore, nil)

	result, err := svc.ProcessNote(ctx, subjectID, "pt w/cp")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, normalize.ErrOverloaded)

	// Persistence is never attempted after a normalization failure.
	assert.Equal(t, 0, noteStore.SaveCalls)
}

func TestProcessNote_EmptyTextRejectedLocally(t *testing.T) {
	ctx := context.Background()

	normalizer := &MockNormalizer{}
	noteStore := &MockNoteStore{}

	svc := NewNoteService(normalizer, noteStore, nil)

	for _, raw := range []string{"", "   ", "\n\t "} {
		result, err := svc.ProcessNote(ctx, uuid.New(), raw)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, normalize.ErrInvalidInput)
	}

	assert.Equal(t, 0, normalizer.Calls)
	assert.Equal(t, 0, noteStore.SaveCalls)
}

func TestProcessNote_TrimsInputBeforeProcessing(t *testing.T) {
	ctx := context.Background()

	normalizer := &MockNormalizer{
		NormalizeFn: func(ctx context.Context, text string) (string, error) {
			assert.Equal(t, "pt w/cp", text)
			return "Patient with chest pain", nil
		},
	}
	noteStore := &MockNoteStore{}

	svc := NewNoteService(normalizer, noteStore, nil)

	result, err := svc.ProcessNote(ctx, uuid.New(), "  pt w/cp \n")
	require.NoError(t, err)

	// Original length reflects the trimmed text.
	assert.Equal(t, 7, result.OriginalLength)
}

func TestGetHistory_PassesThrough(t *testing.T) {
	ctx := context.Background()
	subjectID := uuid.New()

	summaries := []domain.NoteSummary{
		{ID: uuid.New(), CleanedText: "Patient with chest pain"},
	}

	noteStore := &MockNoteStore{
		HistoryFn: func(ctx context.Context, gotSubject uuid.UUID, limit int) ([]domain.NoteSummary, error) {
			assert.Equal(t, subjectID, gotSubject)
			assert.Equal(t, 20, limit)
			return summaries, nil
		},
	}

	svc := NewNoteService(&MockNormalizer{}, noteStore, nil)

	notes, err := svc.GetHistory(ctx, subjectID, 20)
	require.NoError(t, err)
	assert.Equal(t, summaries, notes)
}
