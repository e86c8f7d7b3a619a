package domain

import "github.com/google/uuid"

// Identity represents a verified caller derived from a bearer credential.
// It is transient: produced once per request by token verification, never
// persisted, and immutable once produced.
type Identity struct {
	SubjectID uuid.UUID
	Email     string
}
