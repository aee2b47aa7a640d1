package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"reserva/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetDayWindow returns every non-canceled reservation row for the
// professional whose interval touches [dayStart, dayEnd). The conflict check
// itself happens in memory against this read set; that stays cheap while a
// professional's daily booking count is small, and the interval predicate
// can move into this query without an interface change if that assumption
// breaks.
func (r *MongoReservationRepo) GetDayWindow(ctx context.Context, professionalID string, dayStart, dayEnd time.Time) ([]models.Reservation, error) {
	filter := bson.M{
		"professional_id": professionalID,
		"status":          bson.M{"$ne": models.StatusCanceled},
		"start":           bson.M{"$lt": dayEnd},
		"end":             bson.M{"$gt": dayStart},
	}
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read day window for professional %s: %w", professionalID, err)
	}
	defer cursor.Close(ctx)

	var rows []models.Reservation
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode day window: %w", err)
	}
	return rows, nil
}

// GetSet returns every row of one reservation set.
func (r *MongoReservationRepo) GetSet(ctx context.Context, tenantID, setID string) ([]models.Reservation, error) {
	filter := bson.M{"tenant_id": tenantID, "set_id": setID}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reservation set %s: %w", setID, err)
	}
	defer cursor.Close(ctx)

	var rows []models.Reservation
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode reservation set: %w", err)
	}
	return rows, nil
}

// ListUpcoming returns the tenant's future non-canceled rows, soonest first.
// Backs the "upcoming bookings" read view.
func (r *MongoReservationRepo) ListUpcoming(ctx context.Context, tenantID string, from time.Time, limit int64) ([]models.Reservation, error) {
	filter := bson.M{
		"tenant_id": tenantID,
		"status":    bson.M{"$ne": models.StatusCanceled},
		"start":     bson.M{"$gte": from},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "start", Value: 1}}).
		SetLimit(limit)
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming reservations for tenant %s: %w", tenantID, err)
	}
	defer cursor.Close(ctx)

	var rows []models.Reservation
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode upcoming reservations: %w", err)
	}
	return rows, nil
}
