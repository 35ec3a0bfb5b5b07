package types

import "github.com/google/uuid"

// Identity is the canonical authenticated-user value attached to a request
// once the auth middleware accepts its token. Handlers must never reach back
// into raw token claims; this is the only shape they see.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  string    `json:"role"`
}
