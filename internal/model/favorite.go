package model

import "time"

// Favorite joins a user to an artwork (`favorites` table). The pair is
// unique at the schema level; toggling relies on that constraint rather than
// on read-then-write checks.
type Favorite struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	ArtworkID uint64    `json:"artwork_id"`
	CreatedAt time.Time `json:"created_at"`
}
