package booking

import (
	"time"

	"handyhub/models"
	"handyhub/utils"
)

const (
	// StartWindow is how far from the scheduled start a job may be started.
	StartWindow = 30 * time.Minute
	// CancelNotice is the minimum notice a non-admin needs to cancel.
	CancelNotice = 2 * time.Hour
)

// transitions is the legal status graph, independent of who asks.
var transitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingPending:    {models.BookingConfirmed, models.BookingCancelled},
	models.BookingConfirmed:  {models.BookingInProgress, models.BookingCancelled},
	models.BookingInProgress: {models.BookingCompleted, models.BookingDisputed, models.BookingCancelled},
	models.BookingCompleted:  {models.BookingDisputed},
	models.BookingDisputed:   {models.BookingCompleted, models.BookingCancelled},
}

var providerEdges = map[models.BookingStatus][]models.BookingStatus{
	models.BookingPending:    {models.BookingConfirmed, models.BookingCancelled},
	models.BookingConfirmed:  {models.BookingInProgress, models.BookingCancelled},
	models.BookingInProgress: {models.BookingCompleted, models.BookingDisputed},
	models.BookingCompleted:  {models.BookingDisputed},
}

// roleEdges lists exactly which edges each role may take.
var roleEdges = map[models.Role]map[models.BookingStatus][]models.BookingStatus{
	models.RoleClient: {
		models.BookingPending:   {models.BookingCancelled},
		models.BookingConfirmed: {models.BookingCancelled},
		models.BookingCompleted: {models.BookingDisputed},
	},
	models.RoleProvider: providerEdges,
	models.RoleAdmin: {
		models.BookingPending:    providerEdges[models.BookingPending],
		models.BookingConfirmed:  providerEdges[models.BookingConfirmed],
		models.BookingInProgress: {models.BookingCompleted, models.BookingDisputed, models.BookingCancelled},
		models.BookingCompleted:  providerEdges[models.BookingCompleted],
		models.BookingDisputed:   {models.BookingCompleted, models.BookingCancelled},
	},
}

func canEnter(graph map[models.BookingStatus][]models.BookingStatus, to models.BookingStatus) bool {
	for from := range graph {
		if hasEdge(graph, from, to) {
			return true
		}
	}
	return false
}

func hasEdge(graph map[models.BookingStatus][]models.BookingStatus, from, to models.BookingStatus) bool {
	for _, next := range graph[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition checks the status graph and the role's permission for
// the edge. It does not look at any particular booking.
func ValidateTransition(from, to models.BookingStatus, role models.Role) error {
	if !to.Valid() {
		return utils.NewValidationError("invalid_status", "unknown booking status %q", to)
	}
	if !from.Valid() {
		return utils.NewValidationError("invalid_status", "unknown booking status %q", from)
	}
	edges, ok := roleEdges[role]
	if !ok {
		return utils.NewForbiddenError("unknown_role", "role %q cannot change bookings", role)
	}
	// A role that can never reach the target gets the role reason even when
	// the booking is already there.
	if !canEnter(edges, to) {
		return utils.NewConflictError("role_not_permitted", "a %s cannot mark a booking as %s", role, to)
	}
	if from == to {
		return utils.NewConflictError("no_op_transition", "booking is already %s", to)
	}
	if !hasEdge(transitions, from, to) {
		if len(transitions[from]) == 0 {
			return utils.NewConflictError("terminal_status", "a %s booking cannot change status", from)
		}
		return utils.NewConflictError("illegal_transition", "a booking cannot move from %s to %s", from, to)
	}
	if !hasEdge(edges, from, to) {
		return utils.NewConflictError("role_not_permitted", "a %s cannot move a booking from %s to %s", role, from, to)
	}
	return nil
}

// GuardContext carries what the time and ownership guards need.
type GuardContext struct {
	Booking *models.Booking
	ActorID string
	Role    models.Role
	Now     time.Time
	// Consented is set when an accepted cancellation request drives the
	// transition. Role, edge and ownership checks still run as the original
	// requester, but the 2-hour notice guard is skipped: both parties agreed,
	// so a late mutual cancellation is allowed.
	Consented bool
}

// CheckGuards applies ownership and time guards for entering status to.
func CheckGuards(to models.BookingStatus, g GuardContext) error {
	b := g.Booking
	if b == nil {
		return nil
	}
	switch g.Role {
	case models.RoleClient:
		if g.ActorID != b.ClientID {
			return utils.NewForbiddenError("not_booking_client", "you are not the client of this booking")
		}
	case models.RoleProvider:
		if g.ActorID != b.ProviderID {
			return utils.NewForbiddenError("not_booking_provider", "you are not the provider of this booking")
		}
	}

	untilStart := b.Schedule.StartUTC.Sub(g.Now)
	switch to {
	case models.BookingInProgress:
		if untilStart > StartWindow || untilStart < -StartWindow {
			return utils.NewConflictError("outside_start_window",
				"a job can only be started within 30 minutes of its scheduled start (%s)",
				b.Schedule.StartUTC.Format(time.RFC3339))
		}
	case models.BookingCancelled:
		if g.Role != models.RoleAdmin && !g.Consented && untilStart < CancelNotice {
			return utils.NewConflictError("cancellation_too_late",
				"bookings must be cancelled at least 2 hours before the start; ask the other party or support instead")
		}
	}
	return nil
}

// Authorize runs ValidateTransition followed by CheckGuards.
func Authorize(to models.BookingStatus, g GuardContext) error {
	if err := ValidateTransition(g.Booking.Status, to, g.Role); err != nil {
		return err
	}
	return CheckGuards(to, g)
}

// applyTransition mutates b in memory; persistence is the caller's job.
func applyTransition(b *models.Booking, to models.BookingStatus, by string, role models.Role, reason string, now time.Time) {
	b.StatusHistory = append(b.StatusHistory, models.StatusChange{
		From:   b.Status,
		To:     to,
		By:     by,
		Role:   role,
		Reason: reason,
		At:     now,
	})
	b.Status = to
	b.UpdatedAt = now
	if !acceptsCancellationRequests(to) {
		settlePendingRequests(b, now)
	}
}
