package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"handyhub/database"
	"handyhub/models"
	"handyhub/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ActionAccept  = "accept"
	ActionDecline = "decline"

	maxExpireAttempts = 3
)

func acceptsCancellationRequests(status models.BookingStatus) bool {
	return status == models.BookingPending || status == models.BookingConfirmed
}

// expireDue marks pending requests whose expiresAt has passed as expired and
// returns how many changed.
func expireDue(b *models.Booking, now time.Time) int {
	n := 0
	for i := range b.CancellationRequests {
		req := &b.CancellationRequests[i]
		if req.Status == models.CancellationPending && !now.Before(req.ExpiresAt) {
			req.Status = models.CancellationExpired
			n++
		}
	}
	return n
}

// settlePendingRequests expires every still-pending request; they became moot
// when the booking left pending/confirmed.
func settlePendingRequests(b *models.Booking, now time.Time) {
	for i := range b.CancellationRequests {
		req := &b.CancellationRequests[i]
		if req.Status != models.CancellationPending {
			continue
		}
		req.Status = models.CancellationExpired
		at := now
		req.RespondedAt = &at
	}
}

func counterparty(b *models.Booking, actor models.Actor) (string, error) {
	switch {
	case actor.Role == models.RoleClient && actor.ID == b.ClientID:
		return b.ProviderID, nil
	case actor.Role == models.RoleProvider && actor.ID == b.ProviderID:
		return b.ClientID, nil
	}
	return "", utils.NewForbiddenError("not_participant", "only the client or provider of a booking can ask to cancel it")
}

// RequestCancellation asks the other party of the booking to agree to cancel it.
func (s *DefaultBookingService) RequestCancellation(ctx context.Context, actor models.Actor, bookingID string, input models.CancellationRequestInput) (*models.Booking, *models.CancellationRequest, error) {
	if err := s.validator().Struct(input); err != nil {
		return nil, nil, utils.NewValidationError("invalid_cancellation_request", "%s", utils.ValidationMessage(err))
	}
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	to, err := counterparty(b, actor)
	if err != nil {
		return nil, nil, err
	}
	if !acceptsCancellationRequests(b.Status) {
		return nil, nil, utils.NewConflictError("cancellation_not_allowed",
			"cancellation can only be requested while a booking is pending or confirmed, this one is %s", b.Status)
	}

	now := s.now()
	expireDue(b, now)
	req := models.CancellationRequest{
		ID:              uuid.New().String(),
		Status:          models.CancellationPending,
		RequestedBy:     actor.ID,
		RequestedByRole: actor.Role,
		RequestedTo:     to,
		Reason:          strings.TrimSpace(input.Reason),
		RequestedAt:     now,
		ExpiresAt:       now.Add(s.Settings.CancellationRequestTTL),
	}
	b.CancellationRequests = append(b.CancellationRequests, req)
	b.UpdatedAt = now

	if err := s.save(ctx, b); err != nil {
		return nil, nil, err
	}

	if s.Scheduler != nil {
		if err := s.Scheduler.ScheduleCancellationExpiry(ctx, b.ID, req.ID, req.ExpiresAt); err != nil {
			// Expiry is still enforced on read and respond.
			s.logger().Warn("failed to schedule cancellation expiry",
				zap.String("bookingID", b.ID),
				zap.String("requestID", req.ID),
				zap.Error(err))
		}
	}

	s.logger().Info("cancellation requested",
		zap.String("bookingID", b.ID),
		zap.String("requestID", req.ID),
		zap.String("requestedBy", actor.ID),
		zap.String("requestedTo", to),
		zap.Time("expiresAt", req.ExpiresAt))
	return b, b.FindCancellationRequest(req.ID), nil
}

// RespondCancellation lets the addressed party accept or decline a request.
// Accepting cancels the booking on behalf of the requester.
func (s *DefaultBookingService) RespondCancellation(ctx context.Context, actor models.Actor, bookingID, requestID, action string) (*models.Booking, error) {
	action = strings.ToLower(strings.TrimSpace(action))
	if action != ActionAccept && action != ActionDecline {
		return nil, utils.NewValidationError("invalid_action", "action must be %q or %q", ActionAccept, ActionDecline)
	}
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	req := b.FindCancellationRequest(requestID)
	if req == nil {
		return nil, utils.NewNotFoundError("cancellation_request_not_found", "cancellation request %s not found on booking %s", requestID, bookingID)
	}
	if actor.ID != req.RequestedTo {
		return nil, utils.NewForbiddenError("not_addressee", "only the party this request was sent to can respond")
	}

	now := s.now()
	expireDue(b, now)
	if req.Status != models.CancellationPending {
		return nil, utils.NewConflictError("cancellation_request_settled", "this cancellation request is already %s", req.Status)
	}

	respondedAt := now
	from := b.Status
	switch action {
	case ActionDecline:
		req.Status = models.CancellationDeclined
		req.RespondedAt = &respondedAt
		b.UpdatedAt = now
	case ActionAccept:
		g := GuardContext{
			Booking:   b,
			ActorID:   req.RequestedBy,
			Role:      req.RequestedByRole,
			Now:       now,
			Consented: true,
		}
		if err := Authorize(models.BookingCancelled, g); err != nil {
			s.Metrics.CountTransition(string(from), string(models.BookingCancelled), err)
			return nil, err
		}
		req.Status = models.CancellationAccepted
		req.RespondedAt = &respondedAt
		applyTransition(b, models.BookingCancelled, req.RequestedBy, req.RequestedByRole,
			"cancellation request "+req.ID+" accepted by "+actor.ID, now)
	}

	err = s.save(ctx, b)
	if action == ActionAccept {
		s.Metrics.CountTransition(string(from), string(models.BookingCancelled), err)
	}
	if err != nil {
		return nil, err
	}
	s.logger().Info("cancellation request answered",
		zap.String("bookingID", b.ID),
		zap.String("requestID", requestID),
		zap.String("action", action),
		zap.String("status", string(b.Status)))
	return b, nil
}

// ExpireCancellationRequests persists the expiry of every overdue pending
// request on a booking. It returns how many requests were expired.
func (s *DefaultBookingService) ExpireCancellationRequests(ctx context.Context, bookingID string) (int, error) {
	for attempt := 1; attempt <= maxExpireAttempts; attempt++ {
		b, err := s.Bookings.GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return 0, nil
			}
			return 0, utils.WrapInternal(err, "failed to load booking")
		}
		now := s.now()
		n := expireDue(b, now)
		if n == 0 {
			return 0, nil
		}
		b.UpdatedAt = now
		err = s.Bookings.UpdateIfVersion(ctx, b)
		if err == nil {
			s.logger().Info("cancellation requests expired",
				zap.String("bookingID", bookingID),
				zap.Int("count", n))
			return n, nil
		}
		if !errors.Is(err, database.ErrVersionConflict) {
			return 0, utils.WrapInternal(err, "failed to expire cancellation requests")
		}
	}
	return 0, utils.NewConflictError("concurrent_update", "booking %s kept changing while expiring requests", bookingID)
}
