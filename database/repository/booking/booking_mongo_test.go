package bookingRepo

import (
	"context"
	"testing"
	"time"

	"handyhub/database"
	"handyhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const ns = "test.bookings"

func toDoc(t *testing.T, v any) bson.D {
	t.Helper()
	raw, err := bson.Marshal(v)
	require.NoError(t, err)
	var d bson.D
	require.NoError(t, bson.Unmarshal(raw, &d))
	return d
}

func sampleBooking() models.Booking {
	start := time.Date(2026, 11, 16, 7, 30, 0, 0, time.UTC)
	return models.Booking{
		ID:         "bk-1",
		ClientID:   "client-1",
		ProviderID: "prov-1",
		ServiceID:  "svc-1",
		Status:     models.BookingConfirmed,
		Schedule: models.Schedule{
			Date: "2026-11-16", StartTime: "09:30", EndTime: "10:30", Duration: 60,
			StartUTC: start, EndUTC: start.Add(time.Hour), Timezone: "Asia/Jerusalem",
		},
		CancellationRequests: []models.CancellationRequest{},
		StatusHistory:        []models.StatusChange{},
		Version:              2,
	}
}

func TestBookingRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("get by id", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, toDoc(t, sampleBooking())))

		b, err := repo.GetByID(context.Background(), "bk-1")
		require.NoError(mt, err)
		assert.Equal(mt, "prov-1", b.ProviderID)
		assert.Equal(mt, 2, b.Version)
		assert.True(mt, b.Schedule.StartUTC.Equal(sampleBooking().Schedule.StartUTC))
	})

	mt.Run("get by id not found", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), "missing")
		assert.ErrorIs(mt, err, database.ErrNotFound)
	})

	mt.Run("find blocking", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB)
		second := sampleBooking()
		second.ID = "bk-2"
		second.Status = models.BookingPending
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			toDoc(t, sampleBooking()), toDoc(t, second)))

		from := time.Date(2026, 11, 16, 0, 0, 0, 0, time.UTC)
		bookings, err := repo.FindBlocking(context.Background(), "prov-1", from, from.Add(24*time.Hour))
		require.NoError(mt, err)
		require.Len(mt, bookings, 2)
		assert.Equal(mt, "bk-2", bookings[1].ID)
	})

	mt.Run("list returns empty slice", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		bookings, err := repo.List(context.Background(), models.BookingFilter{ClientID: "client-1", Limit: 500})
		require.NoError(mt, err)
		assert.NotNil(mt, bookings)
		assert.Empty(mt, bookings)
	})

	mt.Run("update with current version", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		b := sampleBooking()
		b.Status = models.BookingCancelled
		require.NoError(mt, repo.UpdateIfVersion(context.Background(), &b))
		assert.Equal(mt, 3, b.Version)
	})

	mt.Run("update with stale version", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		b := sampleBooking()
		err := repo.UpdateIfVersion(context.Background(), &b)
		assert.ErrorIs(mt, err, database.ErrVersionConflict)
		assert.Equal(mt, 2, b.Version)
	})

	mt.Run("provider lock write", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB).(*mongoBookingRepo)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		at := time.Date(2026, 11, 16, 6, 0, 0, 0, time.UTC)
		require.NoError(mt, repo.touchProviderLock(context.Background(), "prov-1", at))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "update", evt.CommandName)
		assert.Equal(mt, "booking_locks", evt.Command.Lookup("update").StringValue())
		assert.Equal(mt, "provider:prov-1", evt.Command.Lookup("updates", "0", "q", "_id").StringValue())
		assert.True(mt, evt.Command.Lookup("updates", "0", "upsert").Boolean())
		assert.Equal(mt, int32(1), evt.Command.Lookup("updates", "0", "u", "$inc", "seq").Int32())
	})

	mt.Run("provider lock write error", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB).(*mongoBookingRepo)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 112, Name: "WriteConflict", Message: "write conflict",
		}))

		err := repo.touchProviderLock(context.Background(), "prov-1", time.Now())
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "provider lock")
	})

	mt.Run("update write error", func(mt *mtest.T) {
		repo := NewMongoBookingRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "duplicate key error",
		}))

		b := sampleBooking()
		err := repo.UpdateIfVersion(context.Background(), &b)
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, database.ErrVersionConflict)
	})
}

func TestBlockingOverlapFilter(t *testing.T) {
	from := time.Date(2026, 11, 16, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	f := blockingOverlapFilter("prov-1", from, to)

	assert.Equal(t, "prov-1", f["providerId"])
	assert.Equal(t, bson.M{"$in": models.BlockingStatuses}, f["status"])
	assert.Equal(t, bson.M{"$lt": to}, f["schedule.startUtc"])
	assert.Equal(t, bson.M{"$gt": from}, f["schedule.endUtc"])
}
