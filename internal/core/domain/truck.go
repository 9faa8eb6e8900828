package domain

import (
	"errors"
	"time"
)

var ErrTruckNotFound = errors.New("truck not found")
var ErrTruckExists = errors.New("truck already registered")

// Truck is a food truck operated by a single owner profile. The active flag
// gates eligibility for blanket requests only; a truck named directly in a
// request stays reachable while inactive.
type Truck struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	OwnerID     string    `json:"owner_id" bson:"owner_id"`
	DisplayName string    `json:"display_name" bson:"display_name"`
	IsActive    bool      `json:"is_active" bson:"is_active"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
