package ports

import (
	"context"
	"time"

	"github.com/streetfare/booking-api/internal/core/domain"
)

// Caller identifies the authenticated actor invoking a lifecycle operation,
// after role resolution. The service re-checks authorization on every
// state-mutating call; persistence-layer policy is defense in depth only.
type Caller struct {
	ProfileID string
	Role      string
}

// CreateRequestInput carries all data needed to create a truck request.
// BusinessID is only honored for admin callers acting on a business's behalf;
// other callers always create for themselves.
type CreateRequestInput struct {
	Caller           Caller
	BusinessID       string
	RequestedTruckID string
	BlanketRequest   bool
	StartTime        time.Time
	EndTime          time.Time
	LocationName     string
	Location         *domain.Coordinates
	Notes            string
}

// ActAsTruckInput carries the parameters for accept and ignore. ActingTruckID
// is only honored for admin callers designating which truck acts; truck
// owners always act as their own truck.
type ActAsTruckInput struct {
	Caller        Caller
	RequestID     string
	ActingTruckID string
}

// CancelRequestInput carries the parameters for cancelling a pending request.
type CancelRequestInput struct {
	Caller    Caller
	RequestID string
}

// RequestService defines the truck request lifecycle use cases.
type RequestService interface {
	Create(ctx context.Context, input CreateRequestInput) (*domain.TruckRequest, error)
	Accept(ctx context.Context, input ActAsTruckInput) (*domain.TruckRequest, error)
	Ignore(ctx context.Context, input ActAsTruckInput) error
	Cancel(ctx context.Context, input CancelRequestInput) error
	Inbox(ctx context.Context, caller Caller) ([]*domain.TruckRequest, error)
	ListByBusiness(ctx context.Context, caller Caller, businessID string) ([]*domain.TruckRequest, error)
}

// FanoutEvent is handed to the dispatcher after a lifecycle transition
// commits. Dispatch is asynchronous and failure-tolerant: the transition
// never waits on, or rolls back for, notification delivery.
type FanoutEvent struct {
	Kind      domain.FanoutKind
	RequestID string
}

// FanoutService computes recipients for a lifecycle event and emits
// notifications.
type FanoutService interface {
	Process(ctx context.Context, event FanoutEvent) error
}

// EmailSender is the outbound notification channel. Implementations apply
// their own bounded timeout; callers swallow failures.
type EmailSender interface {
	Send(ctx context.Context, to []string, subject, body string) error
}
