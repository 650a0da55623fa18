package domain

import "time"

// Tag represents a global label for categorizing content items.
// Tags are shared across all users. Label is the exact string as
// first submitted; matching is case-sensitive.
type Tag struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
}
