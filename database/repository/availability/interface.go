package availabilityRepo

import (
	"context"

	"handyhub/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// AvailabilityRepository persists one availability profile per provider.
type AvailabilityRepository interface {
	GetByProviderID(ctx context.Context, providerID string) (*models.AvailabilityProfile, error)
	Upsert(ctx context.Context, profile *models.AvailabilityProfile) error
	EnsureIndexes() error
}

type mongoAvailabilityRepo struct {
	coll *mongo.Collection
}

// NewMongoAvailabilityRepo constructs a MongoDB AvailabilityRepository.
func NewMongoAvailabilityRepo(db *mongo.Database) AvailabilityRepository {
	return &mongoAvailabilityRepo{
		coll: db.Collection("availability_profiles"),
	}
}
