package ports

import (
	"context"

	"github.com/streetfare/booking-api/internal/core/domain"
)

// ProfileRepository defines persistence operations for profiles.
type ProfileRepository interface {
	Create(ctx context.Context, p *domain.Profile) error
	FindByID(ctx context.Context, id string) (*domain.Profile, error)
	// List returns profiles, most recent first, capped at limit.
	List(ctx context.Context, limit int) ([]*domain.Profile, error)
	// UpdateRole sets the profile's role; an empty role revokes access.
	UpdateRole(ctx context.Context, id, role string) error
}
