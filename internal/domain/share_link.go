package domain

import "time"

// ShareLink grants read-only access to the owner's brain through an
// opaque token. At most one link exists per owner; revoking and
// re-enabling mints a fresh token.
type ShareLink struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}
