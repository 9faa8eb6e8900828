package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/streetfare/booking-api/internal/core/domain"
	"github.com/streetfare/booking-api/internal/core/ports"
)

const adminListLimit = 200

// IdentityService resolves a principal to a role and owns the admin user
// surface. Resolution always reads the profile row: roles are assigned and
// revoked by admins after signup, so they are never trusted from a token.
type IdentityService struct {
	profiles ports.ProfileRepository
	logger   zerolog.Logger
}

func NewIdentityService(profiles ports.ProfileRepository, logger zerolog.Logger) *IdentityService {
	return &IdentityService{profiles: profiles, logger: logger}
}

// Resolve maps a principal to one of the four gate states: no principal,
// principal without a profile row, profile without a role, profile with a
// role. Only the last state unlocks role-gated surfaces.
func (s *IdentityService) Resolve(ctx context.Context, principalID string) (*ports.Identity, error) {
	if principalID == "" {
		return &ports.Identity{}, nil
	}

	profile, err := s.profiles.FindByID(ctx, principalID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			// Signed in but no profile row yet: the waiting state.
			return &ports.Identity{Principal: principalID}, nil
		}
		return nil, err
	}

	return &ports.Identity{
		Principal:     principalID,
		Role:          profile.Role,
		DisplayName:   profile.FullName,
		ProfileExists: true,
	}, nil
}

// ListUsers returns recent profiles for the admin user overview.
func (s *IdentityService) ListUsers(ctx context.Context, caller ports.Caller) ([]*domain.Profile, error) {
	if caller.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: admin only", domain.ErrForbidden)
	}
	return s.profiles.List(ctx, adminListLimit)
}

// AssignRole sets or revokes a profile's role. Admin only; this is the sole
// writer of Profile.Role.
func (s *IdentityService) AssignRole(ctx context.Context, caller ports.Caller, profileID, role string) error {
	if caller.Role != domain.RoleAdmin {
		return fmt.Errorf("%w: admin only", domain.ErrForbidden)
	}
	if !domain.ValidRole(role) {
		return fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}
	if _, err := s.profiles.FindByID(ctx, profileID); err != nil {
		return err
	}
	if err := s.profiles.UpdateRole(ctx, profileID, role); err != nil {
		return err
	}

	s.logger.Info().
		Str("profile_id", profileID).
		Str("role", role).
		Str("admin_id", caller.ProfileID).
		Msg("role assigned")
	return nil
}
