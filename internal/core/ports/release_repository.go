package ports

import (
	"context"

	"github.com/streetfare/booking-api/internal/core/domain"
)

// ReleaseRepository defines persistence operations for releases.
type ReleaseRepository interface {
	Create(ctx context.Context, r *domain.Release) error
	// Activate marks the release active and deactivates all others, leaving
	// exactly one active release.
	Activate(ctx context.Context, id string) error
	// FindActive returns the currently active release, or
	// domain.ErrReleaseNotFound when none is active.
	FindActive(ctx context.Context) (*domain.Release, error)
	List(ctx context.Context, limit int) ([]*domain.Release, error)
}
