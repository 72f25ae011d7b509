package availabilityRepo

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

func (r *mongoAvailabilityRepo) GetByProviderID(ctx context.Context, providerID string) (*models.AvailabilityProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var profile models.AvailabilityProfile
	err := r.coll.FindOne(ctx, bson.M{"providerId": providerID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, database.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch availability profile: %w", err)
	}
	return &profile, nil
}

// Upsert replaces the provider's profile, creating it when missing.
func (r *mongoAvailabilityRepo) Upsert(ctx context.Context, profile *models.AvailabilityProfile) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"providerId": profile.ProviderID}
	update := bson.M{
		"$set": bson.M{
			"timezone":   profile.Timezone,
			"weekly":     profile.Weekly,
			"exceptions": profile.Exceptions,
			"updatedAt":  profile.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"createdAt": profile.CreatedAt,
		},
	}
	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert availability profile: %w", err)
	}
	return nil
}
