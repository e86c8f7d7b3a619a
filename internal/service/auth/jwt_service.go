package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token for the given subject.
	// Token issuance itself belongs to the identity collaborator; this method
	// exists so tests and local tooling can mint tokens against the same
	// secret and claims shape the verifier expects.
	// Returns the token string or an error if signing fails.
	GenerateToken(ctx context.Context, subjectID uuid.UUID, email string) (string, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns the claims containing the subject identity if the token is valid,
	// ErrExpiredToken if the signature is valid but the validity window has
	// elapsed, or ErrInvalidToken for any other decode failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the custom claims structure for the JWT tokens.
// It extends standard JWT registered claims with application-specific fields.
type Claims struct {
	// SubjectID is the unique identifier of the caller the token was issued for.
	SubjectID uuid.UUID `json:"uid,omitempty"`

	// Email is the caller's email address as embedded at issuance time.
	Email string `json:"email,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
