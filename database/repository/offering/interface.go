package offeringRepo

import (
	"context"

	"handyhub/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// OfferingRepository stores provider×service offerings.
type OfferingRepository interface {
	GetByID(ctx context.Context, offeringID string) (*models.ProviderServiceOffering, error)
	GetByProviderAndService(ctx context.Context, providerID, serviceID string) (*models.ProviderServiceOffering, error)
	ListByProvider(ctx context.Context, providerID string) ([]models.ProviderServiceOffering, error)
	// EnsureExists inserts offering unless one already exists for its
	// provider and service. It reports whether a document was created.
	EnsureExists(ctx context.Context, offering *models.ProviderServiceOffering) (bool, error)
	Replace(ctx context.Context, offering *models.ProviderServiceOffering) error
	EnsureIndexes() error
}

type mongoOfferingRepo struct {
	coll *mongo.Collection
}

func NewMongoOfferingRepo(db *mongo.Database) OfferingRepository {
	return &mongoOfferingRepo{coll: db.Collection("provider_service_offerings")}
}
