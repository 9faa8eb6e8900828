package domain

import (
	"errors"
	"time"
)

var ErrReleaseNotFound = errors.New("release not found")

// Release is a deployable version record. At most one release is active at a
// time; activating one deactivates all others.
type Release struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Version   string    `json:"version" bson:"version"`
	Notes     string    `json:"notes,omitempty" bson:"notes,omitempty"`
	IsActive  bool      `json:"is_active" bson:"is_active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
