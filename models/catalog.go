package models

// CatalogService is the catalog record a provider publishes. It is owned by
// the catalog collaborator; this system only reads it.
type CatalogService struct {
	ID         string  `bson:"id" json:"id"`
	ProviderID string  `bson:"providerId" json:"providerId"`
	Name       string  `bson:"name" json:"name"`
	IsActive   bool    `bson:"isActive" json:"isActive"`
	Price      float64 `bson:"price" json:"price"`
}
