package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/streetfare/booking-api/internal/api/metrics"
	"github.com/streetfare/booking-api/internal/core/domain"
	"github.com/streetfare/booking-api/internal/core/ports"
)

// FanoutEnqueuer hands a committed lifecycle event to the async dispatcher.
type FanoutEnqueuer interface {
	Enqueue(event ports.FanoutEvent)
}

// RequestService owns the truck request state machine. Every state-mutating
// operation authorizes the caller itself before touching the repository;
// whatever policy the persistence layer enforces is defense in depth only.
type RequestService struct {
	requests ports.RequestRepository
	trucks   ports.TruckRepository
	fanout   FanoutEnqueuer
	logger   zerolog.Logger
}

func NewRequestService(requests ports.RequestRepository, trucks ports.TruckRepository, fanout FanoutEnqueuer, logger zerolog.Logger) *RequestService {
	return &RequestService{requests: requests, trucks: trucks, fanout: fanout, logger: logger}
}

// Create validates and persists a new pending request, then enqueues the
// new_request fan-out. A blanket request discards any supplied truck id.
func (s *RequestService) Create(ctx context.Context, input ports.CreateRequestInput) (*domain.TruckRequest, error) {
	businessID, err := resolveBusinessID(input.Caller, input.BusinessID)
	if err != nil {
		return nil, err
	}

	if input.StartTime.IsZero() || input.EndTime.IsZero() {
		return nil, fmt.Errorf("%w: start_time and end_time are required", domain.ErrValidation)
	}
	if !input.EndTime.After(input.StartTime) {
		return nil, fmt.Errorf("%w: end_time must be after start_time", domain.ErrValidation)
	}
	if input.LocationName == "" {
		return nil, fmt.Errorf("%w: location_name is required", domain.ErrValidation)
	}

	requestedTruckID := input.RequestedTruckID
	if input.BlanketRequest {
		// A blanket request is open to any active truck; a supplied truck id
		// is discarded, not rejected.
		requestedTruckID = ""
	} else {
		if requestedTruckID == "" {
			return nil, fmt.Errorf("%w: either blanket_request or requested_truck_id must be set", domain.ErrValidation)
		}
		if _, err := s.trucks.FindByID(ctx, requestedTruckID); err != nil {
			return nil, err
		}
	}

	request := &domain.TruckRequest{
		ID:               uuid.NewString(),
		BusinessID:       businessID,
		RequestedTruckID: requestedTruckID,
		BlanketRequest:   input.BlanketRequest,
		StartTime:        input.StartTime.UTC(),
		EndTime:          input.EndTime.UTC(),
		LocationName:     input.LocationName,
		Location:         input.Location,
		Notes:            input.Notes,
		Status:           domain.StatusPending,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.requests.Create(ctx, request); err != nil {
		s.logger.Error().Err(err).Str("business_id", businessID).Msg("failed to create request")
		return nil, err
	}

	metrics.RequestsCreatedTotal.WithLabelValues(requestKind(request)).Inc()
	s.logger.Info().
		Str("request_id", request.ID).
		Str("business_id", businessID).
		Bool("blanket", request.BlanketRequest).
		Msg("request created")

	s.fanout.Enqueue(ports.FanoutEvent{Kind: domain.FanoutNewRequest, RequestID: request.ID})
	return request, nil
}

// Accept transitions the request from pending to accepted on behalf of the
// caller's truck. The pending precondition and the write are one atomic
// conditional update; losing a race on a blanket request surfaces as
// domain.ErrRequestNotAvailable, never as a silent overwrite.
func (s *RequestService) Accept(ctx context.Context, input ports.ActAsTruckInput) (*domain.TruckRequest, error) {
	truck, err := s.resolveActingTruck(ctx, input.Caller, input.ActingTruckID)
	if err != nil {
		return nil, err
	}

	request, err := s.requests.FindByID(ctx, input.RequestID)
	if err != nil {
		return nil, err
	}
	if !request.EligibleFor(truck) {
		return nil, fmt.Errorf("%w: truck not eligible for this request", domain.ErrForbidden)
	}
	if request.Status != domain.StatusPending {
		return nil, domain.ErrRequestNotAvailable
	}

	if err := s.requests.AcceptPending(ctx, request.ID, truck.ID); err != nil {
		if errors.Is(err, domain.ErrRequestNotAvailable) {
			metrics.AcceptConflictsTotal.Inc()
			s.logger.Info().
				Str("request_id", request.ID).
				Str("truck_id", truck.ID).
				Msg("accept lost the race")
		}
		return nil, err
	}

	request.Status = domain.StatusAccepted
	request.AcceptedTruckID = truck.ID

	metrics.RequestsAcceptedTotal.Inc()
	s.logger.Info().
		Str("request_id", request.ID).
		Str("truck_id", truck.ID).
		Msg("request accepted")

	s.fanout.Enqueue(ports.FanoutEvent{Kind: domain.FanoutAccepted, RequestID: request.ID})
	return request, nil
}

// Ignore records the truck's decline. The request's status is untouched: a
// blanket request ignored by one truck stays pending and acceptable by any
// other eligible truck.
func (s *RequestService) Ignore(ctx context.Context, input ports.ActAsTruckInput) error {
	truck, err := s.resolveActingTruck(ctx, input.Caller, input.ActingTruckID)
	if err != nil {
		return err
	}

	request, err := s.requests.FindByID(ctx, input.RequestID)
	if err != nil {
		return err
	}
	if !request.EligibleFor(truck) {
		return fmt.Errorf("%w: truck not eligible for this request", domain.ErrForbidden)
	}
	if request.Status != domain.StatusPending {
		return domain.ErrRequestNotAvailable
	}

	if err := s.requests.MarkIgnored(ctx, request.ID, truck.ID); err != nil {
		return err
	}

	s.logger.Info().
		Str("request_id", request.ID).
		Str("truck_id", truck.ID).
		Msg("request ignored")
	return nil
}

// Cancel moves a pending request to cancelled, guarded by the same
// conditional update as Accept so a concurrent accept cannot be overwritten.
func (s *RequestService) Cancel(ctx context.Context, input ports.CancelRequestInput) error {
	request, err := s.requests.FindByID(ctx, input.RequestID)
	if err != nil {
		return err
	}

	switch input.Caller.Role {
	case domain.RoleAdmin:
	case domain.RoleBusinessOwner:
		if request.BusinessID != input.Caller.ProfileID {
			return fmt.Errorf("%w: request belongs to another business", domain.ErrForbidden)
		}
	default:
		return fmt.Errorf("%w: role %q may not cancel requests", domain.ErrForbidden, input.Caller.Role)
	}

	if request.Status != domain.StatusPending {
		return domain.ErrRequestNotAvailable
	}

	if err := s.requests.CancelPending(ctx, request.ID); err != nil {
		return err
	}

	s.logger.Info().Str("request_id", request.ID).Msg("request cancelled")
	return nil
}

// Inbox returns the pending requests the caller's truck may act on,
// excluding requests the truck already ignored.
func (s *RequestService) Inbox(ctx context.Context, caller ports.Caller) ([]*domain.TruckRequest, error) {
	if caller.Role != domain.RoleTruckOwner {
		return nil, fmt.Errorf("%w: inbox is for truck owners", domain.ErrForbidden)
	}
	truck, err := s.trucks.FindByOwner(ctx, caller.ProfileID)
	if err != nil {
		return nil, err
	}
	return s.requests.ListInbox(ctx, truck.ID, truck.IsActive)
}

// ListByBusiness returns a business's own requests. Admins may list any
// business; a business owner only their own.
func (s *RequestService) ListByBusiness(ctx context.Context, caller ports.Caller, businessID string) ([]*domain.TruckRequest, error) {
	target, err := resolveBusinessID(caller, businessID)
	if err != nil {
		return nil, err
	}
	return s.requests.ListByBusiness(ctx, target)
}

// resolveActingTruck decides which truck acts: admins must designate one
// explicitly, truck owners always act as their own truck.
func (s *RequestService) resolveActingTruck(ctx context.Context, caller ports.Caller, actingTruckID string) (*domain.Truck, error) {
	switch caller.Role {
	case domain.RoleAdmin:
		if actingTruckID == "" {
			return nil, fmt.Errorf("%w: admin must specify acting_truck_id", domain.ErrForbidden)
		}
		return s.trucks.FindByID(ctx, actingTruckID)
	case domain.RoleTruckOwner:
		return s.trucks.FindByOwner(ctx, caller.ProfileID)
	default:
		return nil, fmt.Errorf("%w: role %q may not act on requests", domain.ErrForbidden, caller.Role)
	}
}

// resolveBusinessID decides which business an operation applies to: admins
// must name one explicitly, business owners always act for themselves.
func resolveBusinessID(caller ports.Caller, businessID string) (string, error) {
	switch caller.Role {
	case domain.RoleAdmin:
		if businessID == "" {
			return "", fmt.Errorf("%w: admin must specify business_id", domain.ErrForbidden)
		}
		return businessID, nil
	case domain.RoleBusinessOwner:
		if businessID != "" && businessID != caller.ProfileID {
			return "", fmt.Errorf("%w: cannot act for another business", domain.ErrForbidden)
		}
		return caller.ProfileID, nil
	default:
		return "", fmt.Errorf("%w: role %q may not create requests", domain.ErrForbidden, caller.Role)
	}
}

func requestKind(r *domain.TruckRequest) string {
	if r.BlanketRequest {
		return "blanket"
	}
	return "specific"
}
