package catalogRepo

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

func (r *mongoCatalogRepo) GetByID(ctx context.Context, serviceID string) (*models.CatalogService, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var svc models.CatalogService
	if err := r.coll.FindOne(ctx, bson.M{"id": serviceID}).Decode(&svc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, database.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch service: %w", err)
	}
	return &svc, nil
}

func (r *mongoCatalogRepo) ListByProvider(ctx context.Context, providerID string) ([]models.CatalogService, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"providerId": providerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer cursor.Close(ctx)

	services := []models.CatalogService{}
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}
	return services, nil
}
