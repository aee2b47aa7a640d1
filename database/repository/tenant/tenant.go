package tenantRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reserva/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no tenant matches the lookup.
var ErrNotFound = errors.New("tenant not found")

// TenantRepository exposes the tenant reads the engine needs plus the
// subscription write driven by the billing webhook.
type TenantRepository interface {
	GetByID(ctx context.Context, id string) (*models.Tenant, error)
	GetByBillingCustomerID(ctx context.Context, customerID string) (*models.Tenant, error)
	UpdateSubscriptionStatus(ctx context.Context, id, status string) error
	EnsureIndexes() error
}

// MongoTenantRepo implements TenantRepository using MongoDB.
type MongoTenantRepo struct {
	coll *mongo.Collection
}

// NewMongoTenantRepo creates a TenantRepository bound to the given database.
func NewMongoTenantRepo(db *mongo.Database) TenantRepository {
	return &MongoTenantRepo{coll: db.Collection("tenants")}
}

func (r *MongoTenantRepo) GetByID(ctx context.Context, id string) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&tenant); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch tenant with id %s: %w", id, err)
	}
	return &tenant, nil
}

func (r *MongoTenantRepo) GetByBillingCustomerID(ctx context.Context, customerID string) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.coll.FindOne(ctx, bson.M{"billing_customer_id": customerID}).Decode(&tenant); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch tenant for billing customer %s: %w", customerID, err)
	}
	return &tenant, nil
}

func (r *MongoTenantRepo) UpdateSubscriptionStatus(ctx context.Context, id, status string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"subscription_status": status}})
	if err != nil {
		return fmt.Errorf("failed to update subscription status for tenant %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureIndexes creates the necessary indexes on the tenants collection.
func (r *MongoTenantRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "billing_customer_id", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("billing_customer_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create tenant indexes: %w", err)
	}
	return nil
}
