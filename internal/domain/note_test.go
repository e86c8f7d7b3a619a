package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNote(t *testing.T) {
	subjectID := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	t.Run("creates_note_with_generated_id_and_lengths", func(t *testing.T) {
		note, err := NewNote(subjectID, "pt w/cp", "Patient with chest pain")
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, note.ID)
		assert.Equal(t, subjectID, note.SubjectID)
		assert.Equal(t, "pt w/cp", note.OriginalText)
		assert.Equal(t, "Patient with chest pain", note.CleanedText)
		assert.Equal(t, 7, note.OriginalLength)
		assert.Equal(t, 23, note.CleanedLength)
		assert.False(t, note.CreatedAt.IsZero())
		assert.Equal(t, "UTC", note.CreatedAt.Location().String())
	})

	t.Run("lengths_count_runes_not_bytes", func(t *testing.T) {
		note, err := NewNote(subjectID, "héllo", "héllo wörld")
		require.NoError(t, err)

		assert.Equal(t, 5, note.OriginalLength)
		assert.Equal(t, 11, note.CleanedLength)
	})

	t.Run("generates_unique_ids", func(t *testing.T) {
		first, err := NewNote(subjectID, "a", "b")
		require.NoError(t, err)
		second, err := NewNote(subjectID, "a", "b")
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
	})

	tests := []struct {
		name         string
		subjectID    uuid.UUID
		originalText string
		cleanedText  string
		wantErr      error
	}{
		{
			name:         "rejects_nil_subject_id",
			subjectID:    uuid.Nil,
			originalText: "pt w/cp",
			cleanedText:  "Patient with chest pain",
			wantErr:      ErrEmptyNoteSubjectID,
		},
		{
			name:         "rejects_empty_original_text",
			subjectID:    subjectID,
			originalText: "",
			cleanedText:  "Patient with chest pain",
			wantErr:      ErrEmptyOriginalText,
		},
		{
			name:         "rejects_empty_cleaned_text",
			subjectID:    subjectID,
			originalText: "pt w/cp",
			cleanedText:  "",
			wantErr:      ErrEmptyCleanedText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note, err := NewNote(tt.subjectID, tt.originalText, tt.cleanedText)
			assert.Nil(t, note)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNoteSummary(t *testing.T) {
	subjectID := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	note, err := NewNote(subjectID, "pt w/cp", "Patient with chest pain")
	require.NoError(t, err)

	summary := note.Summary()
	assert.Equal(t, note.ID, summary.ID)
	assert.Equal(t, note.CleanedText, summary.CleanedText)
	assert.Equal(t, note.CreatedAt, summary.CreatedAt)
	assert.Equal(t, note.OriginalLength, summary.OriginalLength)
	assert.Equal(t, note.CleanedLength, summary.CleanedLength)
}
