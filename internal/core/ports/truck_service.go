package ports

import (
	"context"

	"github.com/streetfare/booking-api/internal/core/domain"
)

// RegisterTruckInput carries the data for a truck owner registering their
// truck. OwnerID is only honored for admin callers.
type RegisterTruckInput struct {
	Caller      Caller
	OwnerID     string
	DisplayName string
}

// TruckService owns truck registration and activation.
type TruckService interface {
	Register(ctx context.Context, input RegisterTruckInput) (*domain.Truck, error)
	SetActive(ctx context.Context, caller Caller, truckID string, active bool) error
	// ListAll is the admin truck overview, most recent first.
	ListAll(ctx context.Context, caller Caller) ([]*domain.Truck, error)
}

// ReleaseService owns the admin release surface.
type ReleaseService interface {
	Create(ctx context.Context, caller Caller, version, notes string) (*domain.Release, error)
	Activate(ctx context.Context, caller Caller, releaseID string) error
	// Active returns the currently active release, or nil when none is.
	Active(ctx context.Context) (*domain.Release, error)
}
