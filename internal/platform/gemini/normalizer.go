package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/clarinote/clarinote-api/internal/config"
	"github.com/clarinote/clarinote-api/internal/normalize"
	"github.com/google/uuid"
	"google.golang.org/genai"
)

// systemInstruction steers the model toward expanding clinical shorthand and
// answering with a structured payload. The response parser tolerates models
// that ignore the envelope and answer with plain text.
const systemInstruction = `You expand shorthand and abbreviated clinical notes into full, ` +
	`standardized clinical text. Expand every abbreviation, keep the clinical meaning ` +
	`unchanged, and add nothing that is not in the note. ` +
	`Respond with a JSON object of the form {"cleaned_text": "<expanded note>"} and nothing else.`

// Normalizer implements the normalize.Normalizer interface using
// Google's Gemini API as the text normalization backend.
type Normalizer struct {
	logger *slog.Logger
	config config.LLMConfig
	client *genai.Client
	model  string
}

// Ensure Normalizer implements the normalize.Normalizer interface
var _ normalize.Normalizer = (*Normalizer)(nil)

// NewNormalizer creates a new Gemini-backed Normalizer.
// Returns an error wrapping normalize.ErrInvalidConfig if the API key or
// model name is missing, or if the client cannot be constructed.
func NewNormalizer(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Normalizer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", normalize.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", normalize.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			normalize.ErrInvalidConfig, err)
	}

	return &Normalizer{
		logger: logger,
		config: cfg,
		client: client,
		model:  cfg.ModelName,
	}, nil
}

// cleanedPayload is the structured envelope the model is asked to produce.
type cleanedPayload struct {
	CleanedText string `json:"cleaned_text"`
}

// Normalize sends the note text to Gemini and returns the cleaned text.
//
// Every call opens a fresh chat session (sessions are never reused or
// pooled) and consumes the backend's streamed response fragments into a
// single buffer before parsing; the call blocks until the stream completes.
// If the accumulated buffer is not the expected JSON envelope, the raw text
// is returned verbatim rather than rejected.
func (n *Normalizer) Normalize(ctx context.Context, text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", fmt.Errorf("%w: text cannot be empty", normalize.ErrInvalidInput)
	}

	if length := utf8.RuneCountInString(trimmed); length > normalize.MaxInputChars {
		return "", fmt.Errorf("%w: text too long (%d chars, max %d)",
			normalize.ErrInvalidInput, length, normalize.MaxInputChars)
	}

	// Fresh session identifier per call, for log correlation only.
	sessionID := uuid.New().String()

	log := n.logger.With(
		slog.String("session_id", sessionID),
		slog.String("model", n.model))
	log.DebugContext(ctx, "starting normalization session",
		slog.Int("input_length", utf8.RuneCountInString(trimmed)))

	chat, err := n.client.Chats.Create(ctx, n.model, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	}, nil)
	if err != nil {
		return "", n.classifyError(ctx, log, "create session", err)
	}

	// Accumulate the full stream before doing anything with it.
	var buf strings.Builder
	for chunk, err := range chat.SendMessageStream(ctx, genai.Part{Text: trimmed}) {
		if err != nil {
			return "", n.classifyError(ctx, log, "stream response", err)
		}
		buf.WriteString(chunk.Text())
	}

	full := strings.TrimSpace(buf.String())
	if full == "" {
		log.ErrorContext(ctx, "normalization failed", slog.String("kind", "empty_response"))
		return "", fmt.Errorf("%w: empty response from backend", normalize.ErrUnavailable)
	}

	log.DebugContext(ctx, "normalization session completed",
		slog.Int("response_length", utf8.RuneCountInString(full)))

	// The backend is expected to answer with {"cleaned_text": ...}. If it
	// varied its envelope, fall back to the raw accumulated text rather than
	// failing the request.
	var payload cleanedPayload
	if err := json.Unmarshal([]byte(full), &payload); err == nil && payload.CleanedText != "" {
		return payload.CleanedText, nil
	}

	return full, nil
}

// classifyError maps a backend error into the normalize package's typed
// taxonomy. Classification happens here, at the collaborator boundary, from
// the backend's error signals rather than from provider message text. The
// note content is never logged.
func (n *Normalizer) classifyError(ctx context.Context, log *slog.Logger, op string, err error) error {
	kind := normalize.ErrUnavailable

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusNotFound:
			kind = normalize.ErrServiceNotConfigured
		case http.StatusBadRequest:
			kind = normalize.ErrInputRejected
		case http.StatusTooManyRequests:
			kind = normalize.ErrOverloaded
		}

		log.ErrorContext(ctx, "normalization failed",
			slog.String("op", op),
			slog.String("kind", kind.Error()),
			slog.Int("backend_status", apiErr.Code))
		return fmt.Errorf("%w: backend status %d", kind, apiErr.Code)
	}

	log.ErrorContext(ctx, "normalization failed",
		slog.String("op", op),
		slog.String("kind", kind.Error()),
		slog.String("error_type", fmt.Sprintf("%T", err)))
	return fmt.Errorf("%w: %s failed", kind, op)
}
