package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/clarinote/clarinote-api/internal/config"
	"github.com/clarinote/clarinote-api/internal/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(noopWriter{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

type noopWriter struct{}

func (noopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestNewNormalizer_ConfigValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		cfg  config.LLMConfig
	}{
		{name: "missing API key", cfg: config.LLMConfig{ModelName: "gemini-2.0-flash"}},
		{name: "missing model name", cfg: config.LLMConfig{GeminiAPIKey: "test-key"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewNormalizer(ctx, discardLogger(), tt.cfg)
			assert.Nil(t, n)
			assert.ErrorIs(t, err, normalize.ErrInvalidConfig)
		})
	}
}

func TestNewNormalizer_NilLogger(t *testing.T) {
	n, err := NewNormalizer(context.Background(), nil, config.LLMConfig{
		GeminiAPIKey: "test-key",
		ModelName:    "gemini-2.0-flash",
	})
	assert.Nil(t, n)
	assert.Error(t, err)
}

// Local input validation happens before any backend call, so a Normalizer
// with no client is enough to exercise it.
func TestNormalize_LocalInputValidation(t *testing.T) {
	n := &Normalizer{logger: discardLogger(), model: "gemini-2.0-flash"}

	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "whitespace only", text: "  \n\t "},
		{name: "over limit", text: strings.Repeat("a", normalize.MaxInputChars+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaned, err := n.Normalize(context.Background(), tt.text)
			assert.Empty(t, cleaned)
			assert.ErrorIs(t, err, normalize.ErrInvalidInput)
		})
	}
}

func TestNormalize_MultibyteLengthCounting(t *testing.T) {
	n := &Normalizer{logger: discardLogger(), model: "gemini-2.0-flash"}

	// Exactly at the limit in runes but over it in bytes. Length checks count
	// runes, so this must pass local validation. With no client behind it the
	// call panics instead of reaching a backend, which is what distinguishes
	// it from a local rejection.
	atLimit := strings.Repeat("é", normalize.MaxInputChars)
	require.Greater(t, len(atLimit), normalize.MaxInputChars)

	defer func() {
		require.NotNil(t, recover(), "expected the call to pass validation and hit the nil client")
	}()
	_, _ = n.Normalize(context.Background(), atLimit)
}

func TestClassifyError_BackendStatusMapping(t *testing.T) {
	n := &Normalizer{logger: discardLogger(), model: "gemini-2.0-flash"}
	log := discardLogger()

	tests := []struct {
		name     string
		err      error
		wantKind error
	}{
		{
			name:     "model not found",
			err:      genai.APIError{Code: http.StatusNotFound, Message: "model not found"},
			wantKind: normalize.ErrServiceNotConfigured,
		},
		{
			name:     "request rejected",
			err:      genai.APIError{Code: http.StatusBadRequest, Message: "invalid argument"},
			wantKind: normalize.ErrInputRejected,
		},
		{
			name:     "throttled",
			err:      genai.APIError{Code: http.StatusTooManyRequests, Message: "quota exceeded"},
			wantKind: normalize.ErrOverloaded,
		},
		{
			name:     "server error",
			err:      genai.APIError{Code: http.StatusInternalServerError, Message: "internal"},
			wantKind: normalize.ErrUnavailable,
		},
		{
			name:     "wrapped API error",
			err:      fmt.Errorf("send: %w", genai.APIError{Code: http.StatusTooManyRequests}),
			wantKind: normalize.ErrOverloaded,
		},
		{
			name:     "non-API error",
			err:      fmt.Errorf("connection reset"),
			wantKind: normalize.ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.classifyError(context.Background(), log, "stream response", tt.err)
			assert.ErrorIs(t, got, tt.wantKind)
		})
	}
}

// The classified error must not carry provider message text; the API layer
// relies on that to keep backend detail out of client responses.
func TestClassifyError_OmitsProviderMessage(t *testing.T) {
	n := &Normalizer{logger: discardLogger(), model: "gemini-2.0-flash"}

	got := n.classifyError(context.Background(), discardLogger(), "stream response",
		genai.APIError{Code: http.StatusTooManyRequests, Message: "quota exceeded for project 12345"})

	assert.NotContains(t, got.Error(), "quota")
	assert.NotContains(t, got.Error(), "12345")
}
