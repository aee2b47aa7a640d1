package professionalRepo

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

// ErrNotFound is returned when no professional matches the lookup.
var ErrNotFound = errors.New("professional not found")

// ProfessionalRepository exposes read access to professionals. The engine
// never mutates them; the staff-management collaborator owns their lifecycle.
type ProfessionalRepository interface {
	GetByID(ctx context.Context, id string) (*models.Professional, error)
	EnsureIndexes() error
}

// MongoProfessionalRepo implements ProfessionalRepository using MongoDB.
type MongoProfessionalRepo struct {
	coll *mongo.Collection
}

// NewMongoProfessionalRepo creates a ProfessionalRepository bound to the given database.
func NewMongoProfessionalRepo(db *mongo.Database) ProfessionalRepository {
	return &MongoProfessionalRepo{coll: db.Collection("professionals")}
}

func (r *MongoProfessionalRepo) GetByID(ctx context.Context, id string) (*models.Professional, error) {
	var professional models.Professional
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&professional); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch professional with id %s: %w", id, err)
	}
	return &professional, nil
}

// EnsureIndexes creates the necessary indexes on the professionals collection.
func (r *MongoProfessionalRepo) EnsureIndexes() error {
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
		return fmt.Errorf("failed to create professional indexes: %w", err)
	}
	return nil
}
