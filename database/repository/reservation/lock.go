package reservationRepo

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

// ErrLockHeld means another reservation attempt currently holds the
// professional's lock. Callers retry until their deadline.
var ErrLockHeld = errors.New("professional lock held")

// LockRepository is the per-professional serialization point. A lock
// document's _id is the professional id, so at most one attempt per
// professional can hold it; everything the coordinator does between Acquire
// and Release is mutually exclusive with other attempts for the same
// professional.
type LockRepository interface {
	Acquire(ctx context.Context, professionalID, owner string, ttl time.Duration) error
	Release(ctx context.Context, professionalID, owner string) error
	EnsureIndexes() error
}

// MongoLockRepo implements LockRepository using a lock collection.
type MongoLockRepo struct {
	coll *mongo.Collection
}

// NewMongoLockRepo creates a LockRepository bound to the given database.
func NewMongoLockRepo(db *mongo.Database) LockRepository {
	return &MongoLockRepo{coll: db.Collection("reservation_locks")}
}

// Acquire inserts the lock document. A duplicate key error means the lock is
// held and surfaces as ErrLockHeld.
func (r *MongoLockRepo) Acquire(ctx context.Context, professionalID, owner string, ttl time.Duration) error {
	now := time.Now().UTC()
	lock := models.ReservationLock{
		ProfessionalID: professionalID,
		Owner:          owner,
		CreatedAt:      now,
		ExpiresAt:      now.Add(ttl),
	}
	if _, err := r.coll.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrLockHeld
		}
		return fmt.Errorf("failed to acquire lock for professional %s: %w", professionalID, err)
	}
	return nil
}

// Release deletes the lock document, but only for its owner, so a slow
// attempt whose lock already expired cannot free a successor's lock.
func (r *MongoLockRepo) Release(ctx context.Context, professionalID, owner string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": professionalID, "owner": owner}); err != nil {
		return fmt.Errorf("failed to release lock for professional %s: %w", professionalID, err)
	}
	return nil
}

// EnsureIndexes creates the TTL index that reaps locks orphaned by a
// crashed process.
func (r *MongoLockRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("lock_ttl_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create lock indexes: %w", err)
	}
	return nil
}
