package catalogRepo

import (
	"context"

	"handyhub/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// CatalogRepository reads the services the catalog collaborator owns.
type CatalogRepository interface {
	GetByID(ctx context.Context, serviceID string) (*models.CatalogService, error)
	ListByProvider(ctx context.Context, providerID string) ([]models.CatalogService, error)
}

type mongoCatalogRepo struct {
	coll *mongo.Collection
}

func NewMongoCatalogRepo(db *mongo.Database) CatalogRepository {
	return &mongoCatalogRepo{coll: db.Collection("services")}
}
