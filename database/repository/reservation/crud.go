package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"reserva/models"

	"go.mongodb.org/mongo-driver/bson"
)

// InsertSet inserts every row of a reservation set. Run inside
// ExecuteTransaction so a partial set is never observable.
func (r *MongoReservationRepo) InsertSet(ctx context.Context, rows []models.Reservation) error {
	docs := make([]interface{}, 0, len(rows))
	for i := range rows {
		docs = append(docs, rows[i])
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert reservation set: %w", err)
	}
	return nil
}

// UpdateSetStatus moves every row of a set from one of the given statuses to
// the target status and returns how many rows changed. A zero count with no
// error means the set was not in an eligible state (or does not exist).
func (r *MongoReservationRepo) UpdateSetStatus(ctx context.Context, tenantID, setID string, from []string, to string) (int64, error) {
	filter := bson.M{
		"tenant_id": tenantID,
		"set_id":    setID,
		"status":    bson.M{"$in": from},
	}
	update := bson.M{
		"$set": bson.M{
			"status":     to,
			"updated_at": time.Now().UTC(),
		},
	}
	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to update status for reservation set %s: %w", setID, err)
	}
	return res.ModifiedCount, nil
}

// CompleteDue transitions every CONFIRMED row whose end time has passed to
// COMPLETED. Used by the periodic sweep; the per-set completion task handles
// the common case.
func (r *MongoReservationRepo) CompleteDue(ctx context.Context, now time.Time) (int64, error) {
	filter := bson.M{
		"status": models.StatusConfirmed,
		"end":    bson.M{"$lte": now},
	}
	update := bson.M{
		"$set": bson.M{
			"status":     models.StatusCompleted,
			"updated_at": now,
		},
	}
	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to complete due reservations: %w", err)
	}
	return res.ModifiedCount, nil
}
