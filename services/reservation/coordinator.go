package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	reservationRepo "reserva/database/repository/reservation"
	"reserva/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Reserve makes "check availability, then create" appear atomic to all
// concurrent callers. Attempts for one professional serialize on the
// advisory lock in acquisition order; the winner either commits or aborts
// with SLOT_CONFLICT, and the next waiter observes the updated state.
// Attempts for different professionals proceed independently.
func (e *DefaultEngine) Reserve(ctx context.Context, req models.ReserveRequest) (*models.ReservationSet, error) {
	ctx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	services, err := e.checkEligibility(ctx, req)
	if err != nil {
		return nil, err
	}

	start := req.Start.UTC()
	end := start
	for _, svc := range services {
		end = end.Add(time.Duration(svc.DurationMinutes) * time.Minute)
	}
	if !end.After(start) {
		return nil, newError(CodeServiceUnavailable, "requested services have no duration")
	}

	owner := uuid.New().String()
	if err := e.acquireLock(ctx, req.ProfessionalID, owner); err != nil {
		return nil, err
	}
	defer func() {
		// Release outside the request deadline so a timed-out attempt still
		// frees the lock; the TTL index is only the crash fallback.
		releaseCtx, releaseCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer releaseCancel()
		if err := e.Locks.Release(releaseCtx, req.ProfessionalID, owner); err != nil {
			e.Logger.Warn("failed to release professional lock",
				zap.String("professional_id", req.ProfessionalID), zap.Error(err))
		}
	}()

	setID := uuid.New().String()
	now := time.Now().UTC()
	rows := buildRows(req, services, setID, start, end, now)

	txErr := e.Reservations.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		// Read the whole calendar day, not just the candidate interval, and
		// re-check under the lock: any advisory read the caller did before
		// this point may already be stale.
		dayStart, dayEnd := dayBounds(start)
		existing, err := e.Reservations.GetDayWindow(txCtx, req.ProfessionalID, dayStart, dayEnd)
		if err != nil {
			return wrapError(CodeTransientFailure, "failed to read existing reservations", err)
		}
		if conflict := FirstConflict(start, end, "", existing); conflict != nil {
			return wrapError(CodeSlotConflict, "slot is no longer available",
				fmt.Errorf("conflicts with reservation set %s [%s, %s)",
					conflict.SetID, conflict.Start.Format(time.RFC3339), conflict.End.Format(time.RFC3339)))
		}
		return e.Reservations.InsertSet(txCtx, rows)
	})
	if txErr != nil {
		return nil, classify(txErr)
	}

	set := &models.ReservationSet{
		SetID:          setID,
		TenantID:       req.TenantID,
		ProfessionalID: req.ProfessionalID,
		Start:          start,
		End:            end,
		Reservations:   rows,
	}

	e.Logger.Info("reservation confirmed",
		zap.String("set_id", setID),
		zap.String("tenant_id", req.TenantID),
		zap.String("professional_id", req.ProfessionalID),
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Int("services", len(rows)),
	)

	e.afterCommit(set, "reservation.confirmed")
	if e.Completions != nil {
		if err := e.Completions.ScheduleCompletion(req.TenantID, setID, end); err != nil {
			e.Logger.Warn("failed to schedule completion task",
				zap.String("set_id", setID), zap.Error(err))
		}
	}

	return set, nil
}

// acquireLock blocks until the professional's advisory lock is free or the
// context deadline expires. Lock starvation is a transient failure, distinct
// from a genuine slot conflict, so callers know a retry may succeed.
func (e *DefaultEngine) acquireLock(ctx context.Context, professionalID, owner string) error {
	for {
		err := e.Locks.Acquire(ctx, professionalID, owner, e.LockTTL)
		if err == nil {
			return nil
		}
		if !errors.Is(err, reservationRepo.ErrLockHeld) {
			return wrapError(CodeTransientFailure, "failed to acquire professional lock", err)
		}
		select {
		case <-ctx.Done():
			return wrapError(CodeTransientFailure, "timed out waiting for professional lock", ctx.Err())
		case <-time.After(e.LockRetry):
		}
	}
}

// afterCommit invalidates the affected read views and publishes the
// lifecycle event. Both are fire-and-forget: the reservation is already
// durable and a failed invalidation only means a briefly stale view.
func (e *DefaultEngine) afterCommit(set *models.ReservationSet, eventType string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		if e.Cache != nil {
			e.Cache.Invalidate(ctx, set.TenantID, set.ProfessionalID, set.Start)
		}
		if e.Events != nil {
			event := models.ReservationEvent{
				Type:           eventType,
				SetID:          set.SetID,
				TenantID:       set.TenantID,
				ProfessionalID: set.ProfessionalID,
				Start:          set.Start,
				End:            set.End,
				OccurredAt:     time.Now().UTC(),
			}
			if err := e.Events.Publish(ctx, event); err != nil {
				e.Logger.Warn("failed to publish reservation event",
					zap.String("set_id", set.SetID), zap.String("type", eventType), zap.Error(err))
			}
		}
	}()
}

// buildRows materializes one reservation row per requested service, in
// request order, every row carrying the set's full occupied window.
func buildRows(req models.ReserveRequest, services []models.Service, setID string, start, end, now time.Time) []models.Reservation {
	byID := make(map[string]models.Service, len(services))
	for _, svc := range services {
		byID[svc.ID] = svc
	}

	rows := make([]models.Reservation, 0, len(req.ServiceIDs))
	for _, serviceID := range req.ServiceIDs {
		svc := byID[serviceID]
		rows = append(rows, models.Reservation{
			ID:             uuid.New().String(),
			SetID:          setID,
			TenantID:       req.TenantID,
			ProfessionalID: req.ProfessionalID,
			ServiceID:      svc.ID,
			ClientID:       req.ClientID,
			ClientName:     req.ClientName,
			Start:          start,
			End:            end,
			Status:         models.StatusConfirmed,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	return rows
}

// classify maps transaction errors onto the failure taxonomy. Engine errors
// pass through; a blown deadline is transient; anything else out of the
// store is transient too, since a retry against a healthy store can succeed.
func classify(err error) error {
	var re *Error
	if errors.As(err, &re) {
		return re
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return wrapError(CodeTransientFailure, "reservation attempt timed out", err)
	}
	return wrapError(CodeTransientFailure, "reservation transaction failed", err)
}
