package domain

import (
	"errors"
	"time"
)

// RequestStatus represents the lifecycle state of a truck request.
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusAccepted  RequestStatus = "accepted"
	StatusCancelled RequestStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions.
// Accepted and cancelled are terminal. Ignoring a request is recorded
// per truck in IgnoredBy and never moves the global status.
var validTransitions = map[RequestStatus][]RequestStatus{
	StatusPending: {StatusAccepted, StatusCancelled},
}

var ErrValidation = errors.New("invalid input")
var ErrForbidden = errors.New("access forbidden")
var ErrRequestNotFound = errors.New("request not found")
var ErrRequestNotAvailable = errors.New("request no longer available")
var ErrInvalidTransition = errors.New("invalid status transition")

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s RequestStatus) Terminal() bool {
	return len(validTransitions[s]) == 0
}

// Coordinates represents a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// TruckRequest is the core aggregate root: a business asking for a truck at a
// time and place. Exactly one of BlanketRequest / RequestedTruckID is set; a
// blanket request is open to any active truck.
type TruckRequest struct {
	ID               string        `json:"id" bson:"_id,omitempty"`
	BusinessID       string        `json:"business_id" bson:"business_id"`
	RequestedTruckID string        `json:"requested_truck_id,omitempty" bson:"requested_truck_id,omitempty"`
	BlanketRequest   bool          `json:"blanket_request" bson:"blanket_request"`
	StartTime        time.Time     `json:"start_time" bson:"start_time"`
	EndTime          time.Time     `json:"end_time" bson:"end_time"`
	LocationName     string        `json:"location_name" bson:"location_name"`
	Location         *Coordinates  `json:"location,omitempty" bson:"location,omitempty"`
	Notes            string        `json:"notes,omitempty" bson:"notes,omitempty"`
	Status           RequestStatus `json:"status" bson:"status"`
	AcceptedTruckID  string        `json:"accepted_truck_id,omitempty" bson:"accepted_truck_id,omitempty"`
	IgnoredBy        []string      `json:"-" bson:"ignored_by,omitempty"`
	CreatedAt        time.Time     `json:"created_at" bson:"created_at"`
}

// EligibleFor reports whether the given truck may act on this request:
// either the request names the truck directly, or it is a blanket request
// and the truck is currently active.
func (r *TruckRequest) EligibleFor(truck *Truck) bool {
	if r.RequestedTruckID != "" {
		return r.RequestedTruckID == truck.ID
	}
	return r.BlanketRequest && truck.IsActive
}

// IgnoredByTruck reports whether the given truck already declined this request.
func (r *TruckRequest) IgnoredByTruck(truckID string) bool {
	for _, id := range r.IgnoredBy {
		if id == truckID {
			return true
		}
	}
	return false
}
