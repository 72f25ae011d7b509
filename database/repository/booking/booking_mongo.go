package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"handyhub/database"
	"handyhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultListLimit = 100

// blockingOverlapFilter matches pending/confirmed bookings of providerID whose
// [startUtc, endUtc) intersects [from, to).
func blockingOverlapFilter(providerID string, from, to time.Time) bson.M {
	return bson.M{
		"providerId":        providerID,
		"status":            bson.M{"$in": models.BlockingStatuses},
		"schedule.startUtc": bson.M{"$lt": to},
		"schedule.endUtc":   bson.M{"$gt": from},
	}
}

// providerLockID is the booking_locks document every creation for a provider writes.
func providerLockID(providerID string) string {
	return "provider:" + providerID
}

// touchProviderLock writes the provider's lock document. Inside a transaction
// this makes two concurrent creations for one provider conflict on the same
// document, so the loser is aborted and retried against the winner's insert.
func (r *mongoBookingRepo) touchProviderLock(ctx context.Context, providerID string, at time.Time) error {
	update := bson.M{
		"$inc":         bson.M{"seq": 1},
		"$set":         bson.M{"updatedAt": at},
		"$setOnInsert": bson.M{"createdAt": at},
	}
	_, err := r.locks.UpdateOne(ctx, bson.M{"_id": providerLockID(providerID)}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to claim provider lock: %w", err)
	}
	return nil
}

func (r *mongoBookingRepo) CreateIfNoOverlap(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) (interface{}, error) {
		if err := r.touchProviderLock(sc, booking.ProviderID, time.Now().UTC()); err != nil {
			return nil, err
		}
		filter := blockingOverlapFilter(booking.ProviderID, booking.Schedule.StartUTC, booking.Schedule.EndUTC)
		count, err := r.coll.CountDocuments(sc, filter)
		if err != nil {
			return nil, fmt.Errorf("overlap check failed: %w", err)
		}
		if count > 0 {
			return nil, database.ErrOverlap
		}
		if _, err := r.coll.InsertOne(sc, booking); err != nil {
			return nil, fmt.Errorf("insert booking failed: %w", err)
		}
		return nil, nil
	}

	// WithTransaction retries the write conflicts raised by touchProviderLock.
	_, err = sess.WithTransaction(ctx, txnFn)
	if err != nil {
		if errors.Is(err, database.ErrOverlap) {
			return err
		}
		return fmt.Errorf("booking transaction failed: %w", err)
	}
	return nil
}

func (r *mongoBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": bookingID}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, database.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return &booking, nil
}

func (r *mongoBookingRepo) FindBlocking(ctx context.Context, providerID string, from, to time.Time) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "schedule.startUtc", Value: 1}})
	cursor, err := r.coll.Find(ctx, blockingOverlapFilter(providerID, from, to), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query blocking bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepo) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.ClientID != "" {
		query["clientId"] = filter.ClientID
	}
	if filter.ProviderID != "" {
		query["providerId"] = filter.ProviderID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	limit := filter.Limit
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "schedule.startUtc", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepo) UpdateIfVersion(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":      booking.ID,
		"version": booking.Version,
	}
	update := bson.M{
		"$set": bson.M{
			"status":               booking.Status,
			"cancellationRequests": booking.CancellationRequests,
			"statusHistory":        booking.StatusHistory,
			"updatedAt":            booking.UpdatedAt,
		},
		"$inc": bson.M{"version": 1},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if res.MatchedCount == 0 {
		return database.ErrVersionConflict
	}
	booking.Version++
	return nil
}
