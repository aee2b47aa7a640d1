package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"reserva/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReservationRepository is the entity store adapter for reservation rows.
// Methods accept the caller's context so they participate in an ambient
// transaction when invoked through ExecuteTransaction.
type ReservationRepository interface {
	InsertSet(ctx context.Context, rows []models.Reservation) error
	GetDayWindow(ctx context.Context, professionalID string, dayStart, dayEnd time.Time) ([]models.Reservation, error)
	GetSet(ctx context.Context, tenantID, setID string) ([]models.Reservation, error)
	UpdateSetStatus(ctx context.Context, tenantID, setID string, from []string, to string) (int64, error)
	ListUpcoming(ctx context.Context, tenantID string, from time.Time, limit int64) ([]models.Reservation, error)
	CompleteDue(ctx context.Context, now time.Time) (int64, error)
	ExecuteTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	EnsureIndexes() error
}

// MongoReservationRepo implements ReservationRepository using MongoDB.
type MongoReservationRepo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoReservationRepo creates a ReservationRepository bound to the given database.
func NewMongoReservationRepo(db *mongo.Database) ReservationRepository {
	return &MongoReservationRepo{
		client: db.Client(),
		coll:   db.Collection("reservations"),
	}
}

// EnsureIndexes creates the necessary indexes on the reservations collection.
func (r *MongoReservationRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "set_id", Value: 1}},
			Options: options.Index().SetName("tenant_set_idx"),
		},
		// Primary conflict-check query pattern: professional + window.
		{
			Keys:    bson.D{{Key: "professional_id", Value: 1}, {Key: "start", Value: 1}, {Key: "end", Value: 1}},
			Options: options.Index().SetName("professional_window_idx"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "end", Value: 1}},
			Options: options.Index().SetName("status_end_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create reservation indexes: %w", err)
	}
	return nil
}
