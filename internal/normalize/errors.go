package normalize

import "errors"

// Common errors returned by the normalize package
var (
	// ErrInvalidInput is returned when the input text fails local validation
	// (empty after trimming, or longer than MaxInputChars).
	ErrInvalidInput = errors.New("invalid input for normalization")

	// ErrServiceNotConfigured is returned when the referenced backend
	// resource (model or endpoint) does not exist.
	ErrServiceNotConfigured = errors.New("normalization backend not configured")

	// ErrInputRejected is returned when the backend rejects the request as
	// invalid on its side.
	ErrInputRejected = errors.New("input rejected by normalization backend")

	// ErrOverloaded is returned when the backend signals rate limiting or
	// throttling. A candidate for caller-visible retry-after semantics,
	// though no retry is performed here.
	ErrOverloaded = errors.New("normalization backend overloaded")

	// ErrUnavailable is the catch-all for transient backend failures.
	ErrUnavailable = errors.New("normalization backend unavailable")

	// ErrInvalidConfig is returned when the normalizer configuration is invalid.
	ErrInvalidConfig = errors.New("invalid normalizer configuration")
)
