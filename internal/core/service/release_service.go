package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/streetfare/booking-api/internal/core/domain"
	"github.com/streetfare/booking-api/internal/core/ports"
)

// ReleaseService owns the admin release surface. Releases are created
// inactive; activation is a toggle that leaves exactly one release active.
type ReleaseService struct {
	releases ports.ReleaseRepository
	logger   zerolog.Logger
}

func NewReleaseService(releases ports.ReleaseRepository, logger zerolog.Logger) *ReleaseService {
	return &ReleaseService{releases: releases, logger: logger}
}

func (s *ReleaseService) Create(ctx context.Context, caller ports.Caller, version, notes string) (*domain.Release, error) {
	if caller.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: admin only", domain.ErrForbidden)
	}
	if version == "" {
		return nil, fmt.Errorf("%w: version is required", domain.ErrValidation)
	}

	release := &domain.Release{
		ID:        uuid.NewString(),
		Version:   version,
		Notes:     notes,
		IsActive:  false,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.releases.Create(ctx, release); err != nil {
		return nil, err
	}

	s.logger.Info().Str("release_id", release.ID).Str("version", version).Msg("release created")
	return release, nil
}

func (s *ReleaseService) Activate(ctx context.Context, caller ports.Caller, releaseID string) error {
	if caller.Role != domain.RoleAdmin {
		return fmt.Errorf("%w: admin only", domain.ErrForbidden)
	}
	if err := s.releases.Activate(ctx, releaseID); err != nil {
		return err
	}

	s.logger.Info().Str("release_id", releaseID).Msg("release activated")
	return nil
}

// Active returns the current release, or nil when none is active.
func (s *ReleaseService) Active(ctx context.Context) (*domain.Release, error) {
	release, err := s.releases.FindActive(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrReleaseNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return release, nil
}
