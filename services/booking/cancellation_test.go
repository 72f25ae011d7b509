package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"handyhub/models"
	"handyhub/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestCancellation(t *testing.T) {
	f := newFixture(t)
	f.seed(models.BookingConfirmed)

	b, req, err := f.svc.RequestCancellation(context.Background(), client, "bk-1", models.CancellationRequestInput{Reason: "  moving house "})
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, models.CancellationPending, req.Status)
	assert.Equal(t, provider.ID, req.RequestedTo)
	assert.Equal(t, models.RoleClient, req.RequestedByRole)
	assert.Equal(t, "moving house", req.Reason)
	assert.Equal(t, f.clock.at.Add(48*time.Hour), req.ExpiresAt)
	assert.Equal(t, models.BookingConfirmed, b.Status)

	require.Len(t, f.scheduler.calls, 1)
	assert.Equal(t, scheduled{"bk-1", req.ID, req.ExpiresAt}, f.scheduler.calls[0])
}

func TestRequestCancellationSurvivesSchedulerFailure(t *testing.T) {
	f := newFixture(t)
	f.seed(models.BookingPending)
	f.scheduler.err = errors.New("redis down")

	_, req, err := f.svc.RequestCancellation(context.Background(), provider, "bk-1", models.CancellationRequestInput{})
	require.NoError(t, err)
	assert.Equal(t, client.ID, req.RequestedTo)
}

func TestRequestCancellationRejections(t *testing.T) {
	f := newFixture(t)
	f.seed(models.BookingInProgress)

	_, _, err := f.svc.RequestCancellation(context.Background(), client, "bk-1", models.CancellationRequestInput{})
	assert.Equal(t, "cancellation_not_allowed", utils.AsAppError(err).Code)

	_, _, err = f.svc.RequestCancellation(context.Background(), admin, "bk-1", models.CancellationRequestInput{})
	assert.True(t, utils.IsKind(err, utils.KindForbidden))

	_, _, err = f.svc.RequestCancellation(context.Background(), models.Actor{ID: "client-9", Role: models.RoleClient}, "bk-1", models.CancellationRequestInput{})
	assert.True(t, utils.IsKind(err, utils.KindForbidden))
}

func TestAcceptingOneRequestSettlesTheOther(t *testing.T) {
	f := newFixture(t)
	f.seed(models.BookingConfirmed)
	ctx := context.Background()

	_, first, err := f.svc.RequestCancellation(ctx, client, "bk-1", models.CancellationRequestInput{Reason: "sick"})
	require.NoError(t, err)
	_, second, err := f.svc.RequestCancellation(ctx, provider, "bk-1", models.CancellationRequestInput{Reason: "no parts"})
	require.NoError(t, err)

	b, err := f.svc.RespondCancellation(ctx, provider, "bk-1", first.ID, ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, b.Status)
	require.Len(t, b.StatusHistory, 1)
	// The cancellation is attributed to the requester.
	assert.Equal(t, client.ID, b.StatusHistory[0].By)
	assert.Equal(t, models.CancellationAccepted, b.FindCancellationRequest(first.ID).Status)
	assert.Equal(t, models.CancellationExpired, b.FindCancellationRequest(second.ID).Status)

	_, err = f.svc.RespondCancellation(ctx, client, "bk-1", second.ID, ActionAccept)
	assert.Equal(t, "cancellation_request_settled", utils.AsAppError(err).Code)

	stored, err := f.store.GetByID(ctx, "bk-1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, stored.Status)
	assert.Len(t, stored.StatusHistory, 1)
	assert.Equal(t, 3, stored.Version)
}

func TestAcceptedRequestBypassesNoticeGuard(t *testing.T) {
	f := newFixture(t)
	f.seed(models.BookingConfirmed)
	ctx := context.Background()
	f.clock.at = time.Date(2026, 11, 16, 6, 0, 0, 0, time.UTC)

	_, req, err := f.svc.RequestCancellation(ctx, client, "bk-1", models.CancellationRequestInput{})
	require.NoError(t, err)

	// Thirty minutes before the start.
	f.clock.at = time.Date(2026, 11, 16, 7, 0, 0, 0, time.UTC)
	_, err = f.svc.UpdateStatus(ctx, client, "bk-1", models.StatusUpdateInput{Status: models.BookingCancelled})
	require.Error(t, err)

	b, err := f.svc.RespondCancellation(ctx, provider, "bk-1", req.ID, ActionAccept)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, b.Status)
}

func TestDeclineKeepsBooking(t *testing.T) {
	f := newFixture(t)
	f.seed(models.BookingConfirmed)
	ctx := context.Background()

	_, req, err := f.svc.RequestCancellation(ctx, client, "bk-1", models.CancellationRequestInput{})
	require.NoError(t, err)

	_, err = f.svc.RespondCancellation(ctx, client, "bk-1", req.ID, ActionDecline)
	assert.True(t, utils.IsKind(err, utils.KindForbidden), "requester cannot answer their own request")

	_, err = f.svc.RespondCancellation(ctx, provider, "bk-1", req.ID, "maybe")
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	b, err := f.svc.RespondCancellation(ctx, provider, "bk-1", req.ID, " Decline ")
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, b.Status)
	assert.Equal(t, models.CancellationDeclined, b.FindCancellationRequest(req.ID).Status)
	assert.NotNil(t, b.FindCancellationRequest(req.ID).RespondedAt)

	_, err = f.svc.RespondCancellation(ctx, provider, "bk-1", "nope", ActionAccept)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}

func TestCancellationRequestExpiry(t *testing.T) {
	f := newFixture(t)
	f.seed(models.BookingConfirmed)
	ctx := context.Background()

	_, req, err := f.svc.RequestCancellation(ctx, client, "bk-1", models.CancellationRequestInput{})
	require.NoError(t, err)

	f.clock.at = req.ExpiresAt.Add(time.Minute)

	// Reads report the expiry before anything is persisted.
	b, err := f.svc.GetBooking(ctx, provider, "bk-1")
	require.NoError(t, err)
	assert.Equal(t, models.CancellationExpired, b.FindCancellationRequest(req.ID).Status)

	_, err = f.svc.RespondCancellation(ctx, provider, "bk-1", req.ID, ActionAccept)
	assert.Equal(t, "cancellation_request_settled", utils.AsAppError(err).Code)

	f.store.staleWrites = 1
	n, err := f.svc.ExpireCancellationRequests(ctx, "bk-1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = f.svc.ExpireCancellationRequests(ctx, "bk-1")
	require.NoError(t, err)
	assert.Zero(t, n)

	stored, err := f.store.GetByID(ctx, "bk-1")
	require.NoError(t, err)
	assert.Equal(t, models.CancellationExpired, stored.FindCancellationRequest(req.ID).Status)
	assert.Equal(t, models.BookingConfirmed, stored.Status)

	n, err = f.svc.ExpireCancellationRequests(ctx, "gone")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStatusChangeSettlesPendingRequests(t *testing.T) {
	f := newFixture(t)
	f.seed(models.BookingConfirmed)
	ctx := context.Background()
	f.clock.at = time.Date(2026, 11, 16, 6, 0, 0, 0, time.UTC)

	_, req, err := f.svc.RequestCancellation(ctx, client, "bk-1", models.CancellationRequestInput{})
	require.NoError(t, err)

	f.clock.at = time.Date(2026, 11, 16, 7, 25, 0, 0, time.UTC)
	b, err := f.svc.UpdateStatus(ctx, provider, "bk-1", models.StatusUpdateInput{Status: models.BookingInProgress})
	require.NoError(t, err)
	settled := b.FindCancellationRequest(req.ID)
	assert.Equal(t, models.CancellationExpired, settled.Status)
	require.NotNil(t, settled.RespondedAt)
	assert.Equal(t, f.clock.at, *settled.RespondedAt)
}
