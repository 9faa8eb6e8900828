package ports

import (
	"context"

	"github.com/streetfare/booking-api/internal/core/domain"
)

// NotificationRepository defines persistence for the append-only
// notifications log.
type NotificationRepository interface {
	InsertMany(ctx context.Context, ns []*domain.Notification) error
	// ListByRecipient returns the recipient's notifications, most recent
	// first, capped at limit.
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]*domain.Notification, error)
}
