package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/clarinote/clarinote-api/internal/api/shared"
	"github.com/clarinote/clarinote-api/internal/domain"
	"github.com/clarinote/clarinote-api/internal/platform/logger"
	"github.com/clarinote/clarinote-api/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CreateNoteRequest represents the request body for processing a note.
// The max tag counts runes, matching the backend's input limit.
type CreateNoteRequest struct {
	Note string `json:"note" validate:"required,max=10000"`
}

// NoteResponse represents the successful processing response.
// NoteID is null when persistence failed; the cleaned note is always present.
type NoteResponse struct {
	CleanedNote    string     `json:"cleaned_note"`
	NoteID         *uuid.UUID `json:"note_id"`
	OriginalLength int        `json:"original_length"`
	CleanedLength  int        `json:"cleaned_length"`
	ProcessingTime string     `json:"processing_time"`
}

// HistoryResponse represents the note history listing.
type HistoryResponse struct {
	Notes []domain.NoteSummary `json:"notes"`
	Count int                  `json:"count"`
}

// DeleteResponse reports the outcome of a delete request.
type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

// NoteHandler handles note-related HTTP requests.
type NoteHandler struct {
	noteService service.NoteService
	validator   *validator.Validate
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(noteService service.NoteService) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
		validator:   validator.New(),
	}
}

// CreateNote handles POST /api/notes requests: the full pipeline of
// credential-verified note cleaning with fail-soft persistence.
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	subjectID, ok := getSubjectIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
		return
	}

	var req CreateNoteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		log.Warn("note request failed validation", "error", err.Error())

		message := "Missing 'note' field in request"
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			for _, fieldErr := range validationErrs {
				if fieldErr.Tag() == "max" {
					message = "Note too long for processing (max 10,000 characters)"
				}
			}
		}
		shared.RespondWithError(w, r, http.StatusBadRequest, message)
		return
	}

	result, err := h.noteService.ProcessNote(r.Context(), subjectID, req.Note)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	response := NoteResponse{
		CleanedNote:    result.CleanedNote,
		NoteID:         result.NoteID,
		OriginalLength: result.OriginalLength,
		CleanedLength:  result.CleanedLength,
		ProcessingTime: result.ProcessedAt.Format(time.RFC3339),
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// GetHistory handles GET /api/notes requests.
// A subject with no stored notes gets an empty list, never an error.
func (h *NoteHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := getSubjectIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
		return
	}

	limit := getQueryLimit(r, 20, 100)

	notes, err := h.noteService.GetHistory(r.Context(), subjectID, limit)
	if err != nil {
		// Unlike the save path, there is no result to deliver without storage.
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to get history", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, HistoryResponse{
		Notes: notes,
		Count: len(notes),
	})
}

// GetNote handles GET /api/notes/{id} requests.
// A note owned by another subject is reported as not found.
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := getSubjectIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
		return
	}

	noteID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Note not found")
		return
	}

	note, err := h.noteService.GetNote(r.Context(), noteID, subjectID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notes/{id} requests.
// Absence and ownership mismatch are indistinguishable in the response.
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := getSubjectIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
		return
	}

	noteID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Note not found")
		return
	}

	deleted, err := h.noteService.DeleteNote(r.Context(), noteID, subjectID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to delete note", err)
		return
	}

	if !deleted {
		shared.RespondWithError(w, r, http.StatusNotFound, "Note not found")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DeleteResponse{Deleted: true})
}

// GetStats handles GET /api/notes/stats requests.
func (h *NoteHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := getSubjectIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
		return
	}

	stats, err := h.noteService.GetStats(r.Context(), subjectID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to get stats", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}
