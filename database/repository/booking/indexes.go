package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes on the bookings collection.
func (r *mongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Conflict prefilter: provider + status + time range.
		{
			Keys: bson.D{
				{Key: "providerId", Value: 1},
				{Key: "status", Value: 1},
				{Key: "schedule.startUtc", Value: 1},
				{Key: "schedule.endUtc", Value: 1},
			},
			Options: options.Index().SetName("provider_status_range_idx"),
		},
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "schedule.startUtc", Value: -1}},
			Options: options.Index().SetName("client_start_idx"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
