package booking

import (
	"context"
	"strings"

	"handyhub/models"
	"handyhub/utils"

	"go.uber.org/zap"
)

// UpdateStatus moves a booking to input.Status if the graph, the actor's role
// and the guards allow it. Concurrent writers are resolved by version check.
func (s *DefaultBookingService) UpdateStatus(ctx context.Context, actor models.Actor, bookingID string, input models.StatusUpdateInput) (*models.Booking, error) {
	if err := s.validator().Struct(input); err != nil {
		return nil, utils.NewValidationError("invalid_status_update", "%s", utils.ValidationMessage(err))
	}
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	from, to := b.Status, input.Status
	err = Authorize(to, GuardContext{
		Booking: b,
		ActorID: actor.ID,
		Role:    actor.Role,
		Now:     now,
	})
	if err != nil {
		s.Metrics.CountTransition(string(from), string(to), err)
		s.logger().Debug("booking transition refused",
			zap.String("bookingID", b.ID),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
			zap.String("role", string(actor.Role)),
			zap.Error(err))
		return nil, err
	}

	expireDue(b, now)
	applyTransition(b, to, actor.ID, actor.Role, strings.TrimSpace(input.Reason), now)
	err = s.save(ctx, b)
	s.Metrics.CountTransition(string(from), string(to), err)
	if err != nil {
		return nil, err
	}

	s.logger().Info("booking status changed",
		zap.String("bookingID", b.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("actorID", actor.ID),
		zap.String("role", string(actor.Role)))
	return b, nil
}
