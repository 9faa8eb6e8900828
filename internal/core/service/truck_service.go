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

// TruckService owns truck registration and activation. One truck per owner.
type TruckService struct {
	trucks ports.TruckRepository
	logger zerolog.Logger
}

func NewTruckService(trucks ports.TruckRepository, logger zerolog.Logger) *TruckService {
	return &TruckService{trucks: trucks, logger: logger}
}

// Register creates the caller's truck. Admins may register on behalf of an
// owner they name explicitly. New trucks start active.
func (s *TruckService) Register(ctx context.Context, input ports.RegisterTruckInput) (*domain.Truck, error) {
	var ownerID string
	switch input.Caller.Role {
	case domain.RoleAdmin:
		if input.OwnerID == "" {
			return nil, fmt.Errorf("%w: admin must specify owner_id", domain.ErrValidation)
		}
		ownerID = input.OwnerID
	case domain.RoleTruckOwner:
		ownerID = input.Caller.ProfileID
	default:
		return nil, fmt.Errorf("%w: role %q may not register trucks", domain.ErrForbidden, input.Caller.Role)
	}

	if input.DisplayName == "" {
		return nil, fmt.Errorf("%w: display_name is required", domain.ErrValidation)
	}

	if _, err := s.trucks.FindByOwner(ctx, ownerID); err == nil {
		return nil, domain.ErrTruckExists
	} else if !errors.Is(err, domain.ErrTruckNotFound) {
		return nil, err
	}

	truck := &domain.Truck{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		DisplayName: input.DisplayName,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.trucks.Create(ctx, truck); err != nil {
		return nil, err
	}

	s.logger.Info().Str("truck_id", truck.ID).Str("owner_id", ownerID).Msg("truck registered")
	return truck, nil
}

// SetActive toggles blanket-request eligibility. Owner or admin only.
func (s *TruckService) SetActive(ctx context.Context, caller ports.Caller, truckID string, active bool) error {
	truck, err := s.trucks.FindByID(ctx, truckID)
	if err != nil {
		return err
	}
	if caller.Role != domain.RoleAdmin && truck.OwnerID != caller.ProfileID {
		return fmt.Errorf("%w: not your truck", domain.ErrForbidden)
	}

	if err := s.trucks.SetActive(ctx, truckID, active); err != nil {
		return err
	}

	s.logger.Info().Str("truck_id", truckID).Bool("active", active).Msg("truck active flag changed")
	return nil
}

// ListAll is the admin truck overview.
func (s *TruckService) ListAll(ctx context.Context, caller ports.Caller) ([]*domain.Truck, error) {
	if caller.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: admin only", domain.ErrForbidden)
	}
	return s.trucks.List(ctx, adminListLimit)
}
