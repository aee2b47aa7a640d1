package reservationRepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// ExecuteTransaction runs fn inside one MongoDB multi-document transaction.
// The fn receives a session-bound context; every repository call made with
// it joins the transaction, and any error aborts the whole thing.
func (r *MongoReservationRepo) ExecuteTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return err
	}

	return nil
}
