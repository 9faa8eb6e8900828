package ports

import (
	"context"
	"time"

	"github.com/streetfare/booking-api/internal/core/domain"
)

// RequestRepository defines persistence operations for truck requests.
type RequestRepository interface {
	Create(ctx context.Context, r *domain.TruckRequest) error
	FindByID(ctx context.Context, id string) (*domain.TruckRequest, error)

	// AcceptPending atomically transitions the request from pending to
	// accepted and records the winning truck. The status precondition and the
	// write are a single conditional update: when the request is no longer
	// pending the update matches zero documents and
	// domain.ErrRequestNotAvailable is returned.
	AcceptPending(ctx context.Context, requestID, truckID string) error

	// CancelPending atomically transitions the request from pending to
	// cancelled under the same precondition as AcceptPending.
	CancelPending(ctx context.Context, requestID string) error

	// MarkIgnored records that the truck declined the request. The request's
	// own status is untouched; other trucks may still accept it.
	MarkIgnored(ctx context.Context, requestID, truckID string) error

	// ListInbox returns pending requests the truck may act on: requests that
	// name the truck directly plus blanket requests (when the truck is
	// active), excluding ones the truck already ignored.
	ListInbox(ctx context.Context, truckID string, includeBlanket bool) ([]*domain.TruckRequest, error)

	ListByBusiness(ctx context.Context, businessID string) ([]*domain.TruckRequest, error)

	// ListAcceptedBetween returns accepted requests whose start time falls in
	// the half-open UTC interval [start, end).
	ListAcceptedBetween(ctx context.Context, start, end time.Time) ([]*domain.TruckRequest, error)
}
