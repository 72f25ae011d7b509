package booking

import (
	"testing"
	"time"

	"handyhub/models"
	"handyhub/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	allStatuses = []models.BookingStatus{
		models.BookingPending, models.BookingConfirmed, models.BookingInProgress,
		models.BookingCompleted, models.BookingCancelled, models.BookingDisputed,
	}
	allRoles = []models.Role{models.RoleClient, models.RoleProvider, models.RoleAdmin}
	t0       = time.Date(2026, 11, 16, 8, 0, 0, 0, time.UTC)
)

func appCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	appErr := utils.AsAppError(err)
	return appErr.Code
}

func TestValidateTransitionOnlyAllowsGraphAndRoleEdges(t *testing.T) {
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			for _, role := range allRoles {
				err := ValidateTransition(from, to, role)
				if err != nil {
					continue
				}
				assert.True(t, hasEdge(transitions, from, to), "%s: %s -> %s is not in the graph", role, from, to)
				assert.True(t, hasEdge(roleEdges[role], from, to), "%s may not take %s -> %s", role, from, to)
			}
		}
	}
}

func TestValidateTransitionTable(t *testing.T) {
	tests := []struct {
		from models.BookingStatus
		to   models.BookingStatus
		role models.Role
		code string
	}{
		{models.BookingPending, models.BookingConfirmed, models.RoleProvider, ""},
		{models.BookingPending, models.BookingConfirmed, models.RoleAdmin, ""},
		{models.BookingPending, models.BookingConfirmed, models.RoleClient, "role_not_permitted"},
		{models.BookingConfirmed, models.BookingConfirmed, models.RoleClient, "role_not_permitted"},
		{models.BookingConfirmed, models.BookingConfirmed, models.RoleProvider, "no_op_transition"},
		{models.BookingPending, models.BookingCancelled, models.RoleClient, ""},
		{models.BookingPending, models.BookingCompleted, models.RoleProvider, "illegal_transition"},
		{models.BookingInProgress, models.BookingCancelled, models.RoleProvider, "role_not_permitted"},
		{models.BookingInProgress, models.BookingCancelled, models.RoleAdmin, ""},
		{models.BookingCompleted, models.BookingDisputed, models.RoleClient, ""},
		{models.BookingDisputed, models.BookingCompleted, models.RoleProvider, "role_not_permitted"},
		{models.BookingCompleted, models.BookingCancelled, models.RoleAdmin, "illegal_transition"},
		{models.BookingDisputed, models.BookingCompleted, models.RoleAdmin, ""},
		{models.BookingCancelled, models.BookingConfirmed, models.RoleProvider, "terminal_status"},
		{models.BookingCancelled, models.BookingCompleted, models.RoleAdmin, "terminal_status"},
		{models.BookingPending, "archived", models.RoleAdmin, "invalid_status"},
		{models.BookingPending, models.BookingCancelled, "guest", "unknown_role"},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			err := ValidateTransition(tt.from, tt.to, tt.role)
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.code, appCode(t, err))
		})
	}
}

func newBooking(status models.BookingStatus, start time.Time) *models.Booking {
	return &models.Booking{
		ID:         "bk-1",
		ClientID:   "client-1",
		ProviderID: "prov-1",
		Status:     status,
		Schedule:   models.Schedule{StartUTC: start, EndUTC: start.Add(time.Hour), Duration: 60},
	}
}

func TestProviderConfirmsThenClientCannot(t *testing.T) {
	b := newBooking(models.BookingPending, t0.Add(72*time.Hour))

	err := Authorize(models.BookingConfirmed, GuardContext{Booking: b, ActorID: "prov-1", Role: models.RoleProvider, Now: t0})
	require.NoError(t, err)
	applyTransition(b, models.BookingConfirmed, "prov-1", models.RoleProvider, "", t0)
	assert.Equal(t, models.BookingConfirmed, b.Status)

	err = Authorize(models.BookingConfirmed, GuardContext{Booking: b, ActorID: "client-1", Role: models.RoleClient, Now: t0})
	assert.Equal(t, "role_not_permitted", appCode(t, err))
	assert.True(t, utils.IsKind(err, utils.KindConflict))
}

func TestCancellationNoticeGuard(t *testing.T) {
	b := newBooking(models.BookingConfirmed, t0.Add(time.Hour))

	err := Authorize(models.BookingCancelled, GuardContext{Booking: b, ActorID: "client-1", Role: models.RoleClient, Now: t0})
	assert.Equal(t, "cancellation_too_late", appCode(t, err))

	err = Authorize(models.BookingCancelled, GuardContext{Booking: b, ActorID: "prov-1", Role: models.RoleProvider, Now: t0})
	assert.Equal(t, "cancellation_too_late", appCode(t, err))

	err = Authorize(models.BookingCancelled, GuardContext{Booking: b, ActorID: "ops", Role: models.RoleAdmin, Now: t0})
	assert.NoError(t, err)

	err = Authorize(models.BookingCancelled, GuardContext{Booking: b, ActorID: "client-1", Role: models.RoleClient, Now: t0, Consented: true})
	assert.NoError(t, err)

	early := newBooking(models.BookingConfirmed, t0.Add(CancelNotice))
	err = Authorize(models.BookingCancelled, GuardContext{Booking: early, ActorID: "client-1", Role: models.RoleClient, Now: t0})
	assert.NoError(t, err)
}

func TestStartWindowGuard(t *testing.T) {
	start := t0.Add(time.Hour)
	b := newBooking(models.BookingConfirmed, start)
	g := func(now time.Time) GuardContext {
		return GuardContext{Booking: b, ActorID: "prov-1", Role: models.RoleProvider, Now: now}
	}

	assert.Equal(t, "outside_start_window", appCode(t, Authorize(models.BookingInProgress, g(start.Add(-45*time.Minute)))))
	assert.NoError(t, Authorize(models.BookingInProgress, g(start.Add(-30*time.Minute))))
	assert.NoError(t, Authorize(models.BookingInProgress, g(start.Add(20*time.Minute))))
	assert.Equal(t, "outside_start_window", appCode(t, Authorize(models.BookingInProgress, g(start.Add(31*time.Minute)))))
}

func TestOwnershipGuard(t *testing.T) {
	b := newBooking(models.BookingPending, t0.Add(72*time.Hour))

	err := Authorize(models.BookingConfirmed, GuardContext{Booking: b, ActorID: "prov-2", Role: models.RoleProvider, Now: t0})
	assert.True(t, utils.IsKind(err, utils.KindForbidden))

	err = Authorize(models.BookingCancelled, GuardContext{Booking: b, ActorID: "client-2", Role: models.RoleClient, Now: t0})
	assert.True(t, utils.IsKind(err, utils.KindForbidden))
}

func TestApplyTransitionRecordsHistoryAndSettlesRequests(t *testing.T) {
	b := newBooking(models.BookingConfirmed, t0.Add(72*time.Hour))
	b.CancellationRequests = []models.CancellationRequest{
		{ID: "r1", Status: models.CancellationPending, ExpiresAt: t0.Add(48 * time.Hour)},
		{ID: "r2", Status: models.CancellationDeclined},
	}

	applyTransition(b, models.BookingCancelled, "ops", models.RoleAdmin, "duplicate", t0)

	require.Len(t, b.StatusHistory, 1)
	assert.Equal(t, models.StatusChange{
		From: models.BookingConfirmed, To: models.BookingCancelled,
		By: "ops", Role: models.RoleAdmin, Reason: "duplicate", At: t0,
	}, b.StatusHistory[0])
	assert.Equal(t, models.CancellationExpired, b.CancellationRequests[0].Status)
	require.NotNil(t, b.CancellationRequests[0].RespondedAt)
	assert.Equal(t, models.CancellationDeclined, b.CancellationRequests[1].Status)
	assert.Equal(t, t0, b.UpdatedAt)
}

func TestCalculatePricing(t *testing.T) {
	p := CalculatePricing(80, 90, 0)
	assert.Equal(t, 1.5, p.Hours)
	assert.Equal(t, 120.0, p.Total)

	p = CalculatePricing(100, 60, 0.5)
	assert.Equal(t, 150.0, p.Total)
	assert.Equal(t, 0.5, p.SurchargeRate)

	p = CalculatePricing(33.33, 20, 0)
	assert.Equal(t, 0.3333, p.Hours)
	assert.Equal(t, 11.11, p.Total)
}
