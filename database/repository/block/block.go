package blockRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BlockRepository answers whether a client is blocked at a tenant. The block
// list itself is maintained by the tenant-management collaborator.
type BlockRepository interface {
	Exists(ctx context.Context, tenantID, clientID string) (bool, error)
	EnsureIndexes() error
}

// MongoBlockRepo implements BlockRepository using MongoDB.
type MongoBlockRepo struct {
	coll *mongo.Collection
}

// NewMongoBlockRepo creates a BlockRepository bound to the given database.
func NewMongoBlockRepo(db *mongo.Database) BlockRepository {
	return &MongoBlockRepo{coll: db.Collection("blocks")}
}

func (r *MongoBlockRepo) Exists(ctx context.Context, tenantID, clientID string) (bool, error) {
	filter := bson.M{"tenant_id": tenantID, "client_id": clientID}
	count, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check block list for client %s: %w", clientID, err)
	}
	return count > 0, nil
}

// EnsureIndexes creates the necessary indexes on the blocks collection.
func (r *MongoBlockRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "client_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("tenant_client_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create block indexes: %w", err)
	}
	return nil
}
