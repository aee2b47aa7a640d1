package serviceRepo

import (
	"context"
	"fmt"
	"time"

	"reserva/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ServiceRepository exposes read access to the tenant's service catalog.
type ServiceRepository interface {
	// GetActiveByIDs resolves the requested service ids to active services
	// owned by the tenant. Missing and inactive ids are simply absent from
	// the result; the caller compares counts.
	GetActiveByIDs(ctx context.Context, tenantID string, ids []string) ([]models.Service, error)
	EnsureIndexes() error
}

// MongoServiceRepo implements ServiceRepository using MongoDB.
type MongoServiceRepo struct {
	coll *mongo.Collection
}

// NewMongoServiceRepo creates a ServiceRepository bound to the given database.
func NewMongoServiceRepo(db *mongo.Database) ServiceRepository {
	return &MongoServiceRepo{coll: db.Collection("services")}
}

func (r *MongoServiceRepo) GetActiveByIDs(ctx context.Context, tenantID string, ids []string) ([]models.Service, error) {
	filter := bson.M{
		"tenant_id": tenantID,
		"active":    true,
		"id":        bson.M{"$in": ids},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}
	return services, nil
}

// EnsureIndexes creates the necessary indexes on the services collection.
func (r *MongoServiceRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "active", Value: 1}},
			Options: options.Index().SetName("tenant_active_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create service indexes: %w", err)
	}
	return nil
}
