package reservation

import (
	"context"
	"time"

	"reserva/models"

	"go.uber.org/zap"
)

// Cancel moves every row of a reservation set to CANCELED. It is idempotent
// and takes no professional lock: freeing a slot cannot create a conflict.
func (e *DefaultEngine) Cancel(ctx context.Context, tenantID, setID string) error {
	set, err := e.loadSet(ctx, tenantID, setID)
	if err != nil {
		return err
	}

	from := []string{models.StatusConfirmed, models.StatusAwaitingCancellation}
	changed, err := e.Reservations.UpdateSetStatus(ctx, tenantID, setID, from, models.StatusCanceled)
	if err != nil {
		return wrapError(CodeTransientFailure, "failed to cancel reservation set", err)
	}
	if changed == 0 {
		// Already canceled or completed; canceling again is a no-op.
		return nil
	}

	e.Logger.Info("reservation canceled",
		zap.String("set_id", setID), zap.String("tenant_id", tenantID))
	e.afterCommit(set, "reservation.canceled")
	return nil
}

// RequestCancellation marks a CONFIRMED set as AWAITING_CANCELLATION. The
// slot stays occupied until the request is resolved.
func (e *DefaultEngine) RequestCancellation(ctx context.Context, tenantID, setID string) error {
	if _, err := e.loadSet(ctx, tenantID, setID); err != nil {
		return err
	}

	from := []string{models.StatusConfirmed}
	changed, err := e.Reservations.UpdateSetStatus(ctx, tenantID, setID, from, models.StatusAwaitingCancellation)
	if err != nil {
		return wrapError(CodeTransientFailure, "failed to request cancellation", err)
	}
	if changed == 0 {
		return newError(CodeInternalError, "reservation set is not in a cancelable state")
	}
	return nil
}

// ResolveCancellation settles an AWAITING_CANCELLATION set: approved sets
// become CANCELED, declined ones return to CONFIRMED.
func (e *DefaultEngine) ResolveCancellation(ctx context.Context, tenantID, setID string, approve bool) error {
	set, err := e.loadSet(ctx, tenantID, setID)
	if err != nil {
		return err
	}

	target := models.StatusConfirmed
	if approve {
		target = models.StatusCanceled
	}
	from := []string{models.StatusAwaitingCancellation}
	changed, err := e.Reservations.UpdateSetStatus(ctx, tenantID, setID, from, target)
	if err != nil {
		return wrapError(CodeTransientFailure, "failed to resolve cancellation", err)
	}
	if changed == 0 {
		return newError(CodeInternalError, "reservation set has no pending cancellation request")
	}
	if approve {
		e.Logger.Info("cancellation approved",
			zap.String("set_id", setID), zap.String("tenant_id", tenantID))
		e.afterCommit(set, "reservation.canceled")
	}
	return nil
}

// CompleteSet transitions one CONFIRMED set to COMPLETED once its end time
// has passed. Invoked by the deferred completion task.
func (e *DefaultEngine) CompleteSet(ctx context.Context, tenantID, setID string) error {
	set, err := e.loadSet(ctx, tenantID, setID)
	if err != nil {
		return err
	}
	if set.End.After(time.Now().UTC()) {
		return newError(CodeInternalError, "reservation set has not ended yet")
	}

	from := []string{models.StatusConfirmed}
	changed, err := e.Reservations.UpdateSetStatus(ctx, tenantID, setID, from, models.StatusCompleted)
	if err != nil {
		return wrapError(CodeTransientFailure, "failed to complete reservation set", err)
	}
	if changed > 0 {
		e.afterCommit(set, "reservation.completed")
	}
	return nil
}

// loadSet fetches a set's rows and summarizes them. A missing set surfaces
// as INTERNAL_ERROR rather than a taxonomy code of its own: the reserve
// taxonomy is fixed, and a vanished set means the caller's reference is bad.
func (e *DefaultEngine) loadSet(ctx context.Context, tenantID, setID string) (*models.ReservationSet, error) {
	rows, err := e.Reservations.GetSet(ctx, tenantID, setID)
	if err != nil {
		return nil, wrapError(CodeTransientFailure, "failed to load reservation set", err)
	}
	if len(rows) == 0 {
		return nil, newError(CodeInternalError, "reservation set not found")
	}
	return &models.ReservationSet{
		SetID:          setID,
		TenantID:       tenantID,
		ProfessionalID: rows[0].ProfessionalID,
		Start:          rows[0].Start,
		End:            rows[0].End,
		Reservations:   rows,
	}, nil
}
