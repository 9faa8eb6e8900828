package domain

import "time"

// FanoutKind identifies the lifecycle event a fan-out reacts to.
type FanoutKind string

const (
	FanoutNewRequest FanoutKind = "new_request"
	FanoutAccepted   FanoutKind = "accepted"
)

// Notification is one message delivered to one recipient about one request.
// Rows are append-only and never mutated.
type Notification struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	RecipientID string    `json:"recipient_id" bson:"recipient_id"`
	RequestID   string    `json:"request_id" bson:"request_id"`
	Message     string    `json:"message" bson:"message"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
