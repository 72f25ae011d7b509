package offeringRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes on the offerings collection.
func (r *mongoOfferingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// One offering per provider and service; EnsureExists relies on it.
		{
			Keys:    bson.D{{Key: "providerId", Value: 1}, {Key: "serviceId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("provider_service_idx"),
		},
		{
			Keys:    bson.D{{Key: "providerId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("provider_status_idx"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create offering indexes: %w", err)
	}
	return nil
}
