// Package normalize defines the boundary between the application core and
// the external text normalization backend, following the same
// interface-at-the-boundary pattern used for the store layer.
package normalize

import "context"

// MaxInputChars is the maximum note length, in runes, accepted for
// normalization. Longer input is rejected locally before any network call.
const MaxInputChars = 10000

// Normalizer transforms shorthand clinical text into expanded, standardized
// text via an external inference backend.
type Normalizer interface {
	// Normalize sends the text to the backend and returns the cleaned text.
	// The call blocks until the backend's full response has been accumulated;
	// no partial results are ever exposed.
	//
	// Input is validated locally first: empty-after-trim text and text longer
	// than MaxInputChars fail with ErrInvalidInput without touching the
	// network. Backend failures are classified into the typed errors defined
	// in errors.go at this boundary, never re-derived from error text upstream.
	Normalize(ctx context.Context, text string) (string, error)
}
