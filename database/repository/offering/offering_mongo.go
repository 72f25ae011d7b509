package offeringRepo

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

func (r *mongoOfferingRepo) findOne(ctx context.Context, filter bson.M) (*models.ProviderServiceOffering, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var offering models.ProviderServiceOffering
	if err := r.coll.FindOne(ctx, filter).Decode(&offering); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, database.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch offering: %w", err)
	}
	return &offering, nil
}

func (r *mongoOfferingRepo) GetByID(ctx context.Context, offeringID string) (*models.ProviderServiceOffering, error) {
	return r.findOne(ctx, bson.M{"id": offeringID})
}

func (r *mongoOfferingRepo) GetByProviderAndService(ctx context.Context, providerID, serviceID string) (*models.ProviderServiceOffering, error) {
	return r.findOne(ctx, bson.M{"providerId": providerID, "serviceId": serviceID})
}

// ListByProvider returns every offering of the provider that is not soft-deleted.
func (r *mongoOfferingRepo) ListByProvider(ctx context.Context, providerID string) ([]models.ProviderServiceOffering, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"providerId": providerID,
		"status":     bson.M{"$ne": models.OfferingDeleted},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list offerings: %w", err)
	}
	defer cursor.Close(ctx)

	offerings := []models.ProviderServiceOffering{}
	if err := cursor.All(ctx, &offerings); err != nil {
		return nil, fmt.Errorf("failed to decode offerings: %w", err)
	}
	return offerings, nil
}

func (r *mongoOfferingRepo) EnsureExists(ctx context.Context, offering *models.ProviderServiceOffering) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"providerId": offering.ProviderID, "serviceId": offering.ServiceID}
	update := bson.M{"$setOnInsert": offering}
	res, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("failed to ensure offering: %w", err)
	}
	return res.UpsertedCount > 0, nil
}

func (r *mongoOfferingRepo) Replace(ctx context.Context, offering *models.ProviderServiceOffering) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": offering.ID}, offering)
	if err != nil {
		return fmt.Errorf("failed to update offering: %w", err)
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}
