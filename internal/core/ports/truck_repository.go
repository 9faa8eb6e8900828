package ports

import (
	"context"

	"github.com/streetfare/booking-api/internal/core/domain"
)

// TruckRepository defines persistence operations for trucks.
type TruckRepository interface {
	Create(ctx context.Context, t *domain.Truck) error
	FindByID(ctx context.Context, id string) (*domain.Truck, error)
	// FindByOwner returns the owner's truck (one truck per owner).
	FindByOwner(ctx context.Context, ownerID string) (*domain.Truck, error)
	ListActive(ctx context.Context) ([]*domain.Truck, error)
	// List returns trucks, most recent first, capped at limit.
	List(ctx context.Context, limit int) ([]*domain.Truck, error)
	SetActive(ctx context.Context, id string, active bool) error
}
