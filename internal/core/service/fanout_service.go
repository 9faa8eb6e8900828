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

// DedupChecker abstracts the fan-out idempotency store (Redis). Duplicate
// delivery is tolerated, so failures here are logged and processing
// continues.
type DedupChecker interface {
	IsDuplicate(ctx context.Context, requestID string, kind domain.FanoutKind) (bool, error)
	Mark(ctx context.Context, requestID string, kind domain.FanoutKind) error
}

// FanoutService computes the recipient set for a committed lifecycle event,
// appends notification rows, and sends email. It runs only on dispatcher
// workers: by the time Process is called the triggering transition has
// already committed, so every downstream failure is swallowed after logging.
type FanoutService struct {
	requests      ports.RequestRepository
	trucks        ports.TruckRepository
	profiles      ports.ProfileRepository
	notifications ports.NotificationRepository
	email         ports.EmailSender
	dedup         DedupChecker
	displayZone   *time.Location
	log           zerolog.Logger
}

func NewFanoutService(
	requests ports.RequestRepository,
	trucks ports.TruckRepository,
	profiles ports.ProfileRepository,
	notifications ports.NotificationRepository,
	email ports.EmailSender,
	dedup DedupChecker,
	displayZone *time.Location,
	log zerolog.Logger,
) *FanoutService {
	if displayZone == nil {
		displayZone = time.UTC
	}
	return &FanoutService{
		requests:      requests,
		trucks:        trucks,
		profiles:      profiles,
		notifications: notifications,
		email:         email,
		dedup:         dedup,
		displayZone:   displayZone,
		log:           log,
	}
}

// fallbackTruckName is used when the accepted truck row cannot be resolved;
// a missing row must not fail the fan-out.
const fallbackTruckName = "A truck"

// Process handles one fan-out event. An empty recipient set is success, not
// an error.
func (s *FanoutService) Process(ctx context.Context, event ports.FanoutEvent) error {
	isDup, err := s.dedup.IsDuplicate(ctx, event.RequestID, event.Kind)
	if err != nil {
		s.log.Warn().Err(err).Str("request_id", event.RequestID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		s.log.Debug().Str("request_id", event.RequestID).Str("kind", string(event.Kind)).Msg("duplicate fan-out skipped")
		return nil
	}

	request, err := s.requests.FindByID(ctx, event.RequestID)
	if err != nil {
		return fmt.Errorf("fanout %s: %w", event.Kind, err)
	}

	if markErr := s.dedup.Mark(ctx, event.RequestID, event.Kind); markErr != nil {
		s.log.Warn().Err(markErr).Str("request_id", event.RequestID).Msg("failed to set dedup key")
	}

	var sent int
	switch event.Kind {
	case domain.FanoutNewRequest:
		sent, err = s.fanOutNewRequest(ctx, request)
	case domain.FanoutAccepted:
		sent, err = s.fanOutAccepted(ctx, request)
	default:
		return fmt.Errorf("fanout: unknown event kind %q", event.Kind)
	}
	if err != nil {
		metrics.FanoutErrorsTotal.WithLabelValues(string(event.Kind)).Inc()
		return err
	}

	metrics.FanoutRecipientsTotal.WithLabelValues(string(event.Kind)).Add(float64(sent))
	s.log.Info().
		Str("request_id", event.RequestID).
		Str("kind", string(event.Kind)).
		Int("recipients", sent).
		Msg("fan-out processed")
	return nil
}

// fanOutNewRequest notifies eligible truck owners: all active trucks for a
// blanket request, or the named truck's owner regardless of its active flag.
func (s *FanoutService) fanOutNewRequest(ctx context.Context, request *domain.TruckRequest) (int, error) {
	var targets []*domain.Truck
	if request.BlanketRequest {
		active, err := s.trucks.ListActive(ctx)
		if err != nil {
			return 0, fmt.Errorf("fanout new_request: list active trucks: %w", err)
		}
		targets = active
	} else {
		truck, err := s.trucks.FindByID(ctx, request.RequestedTruckID)
		if err != nil {
			if errors.Is(err, domain.ErrTruckNotFound) {
				return 0, nil
			}
			return 0, fmt.Errorf("fanout new_request: %w", err)
		}
		targets = []*domain.Truck{truck}
	}

	if len(targets) == 0 {
		return 0, nil
	}

	message := fmt.Sprintf("New request: %s (%s)", request.LocationName, s.renderWindow(request))

	notifs := make([]*domain.Notification, 0, len(targets))
	recipientIDs := make([]string, 0, len(targets))
	for _, t := range targets {
		notifs = append(notifs, s.newNotification(t.OwnerID, request.ID, message))
		recipientIDs = append(recipientIDs, t.OwnerID)
	}
	s.persist(ctx, notifs)

	subject := "New food truck request: " + request.LocationName
	body := fmt.Sprintf("%s\n\nWhen: %s\nWhere: %s\n", message, s.renderWindow(request), request.LocationName)
	if request.Notes != "" {
		body += "Notes: " + request.Notes + "\n"
	}
	s.sendEmail(ctx, recipientIDs, subject, body)

	return len(targets), nil
}

// fanOutAccepted notifies the requesting business owner, resolving the
// accepted truck's display name with a generic fallback.
func (s *FanoutService) fanOutAccepted(ctx context.Context, request *domain.TruckRequest) (int, error) {
	truckName := fallbackTruckName
	if request.AcceptedTruckID != "" {
		truck, err := s.trucks.FindByID(ctx, request.AcceptedTruckID)
		if err != nil {
			s.log.Warn().Err(err).Str("truck_id", request.AcceptedTruckID).Msg("accepted truck missing, using fallback name")
		} else {
			truckName = truck.DisplayName
		}
	}

	message := fmt.Sprintf("%s accepted your request at %s (%s)", truckName, request.LocationName, s.renderWindow(request))
	s.persist(ctx, []*domain.Notification{s.newNotification(request.BusinessID, request.ID, message)})

	subject := fmt.Sprintf("Request accepted: %s @ %s", truckName, request.LocationName)
	s.sendEmail(ctx, []string{request.BusinessID}, subject, message)

	return 1, nil
}

func (s *FanoutService) newNotification(recipientID, requestID, message string) *domain.Notification {
	return &domain.Notification{
		ID:          uuid.NewString(),
		RecipientID: recipientID,
		RequestID:   requestID,
		Message:     message,
		CreatedAt:   time.Now().UTC(),
	}
}

// persist appends notification rows; failure is logged, never propagated.
func (s *FanoutService) persist(ctx context.Context, notifs []*domain.Notification) {
	if err := s.notifications.InsertMany(ctx, notifs); err != nil {
		s.log.Warn().Err(err).Int("count", len(notifs)).Msg("failed to persist notifications")
	}
}

// sendEmail resolves recipient addresses and sends one email per event.
// Missing addresses and channel failures are logged and swallowed.
func (s *FanoutService) sendEmail(ctx context.Context, recipientIDs []string, subject, body string) {
	to := make([]string, 0, len(recipientIDs))
	for _, id := range recipientIDs {
		profile, err := s.profiles.FindByID(ctx, id)
		if err != nil || profile.Email == "" {
			s.log.Warn().Str("profile_id", id).Msg("no email address for recipient")
			continue
		}
		to = append(to, profile.Email)
	}
	if len(to) == 0 {
		return
	}

	if err := s.email.Send(ctx, to, subject, body); err != nil {
		metrics.EmailSendErrorsTotal.Inc()
		s.log.Warn().Err(err).Int("recipients", len(to)).Msg("email delivery failed")
		return
	}
	metrics.EmailsSentTotal.Add(float64(len(to)))
}

// renderWindow formats the request's time window in the configured display
// timezone for human-readable notification bodies.
func (s *FanoutService) renderWindow(r *domain.TruckRequest) string {
	start := r.StartTime.In(s.displayZone)
	end := r.EndTime.In(s.displayZone)
	return fmt.Sprintf("%s – %s", start.Format("Mon Jan 2 3:04 PM"), end.Format("3:04 PM MST"))
}
