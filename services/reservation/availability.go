package reservation

import (
	"context"
	"time"

	"reserva/models"
)

// ListDay returns the professional's non-canceled reservations for one UTC
// calendar day, served from the view cache when warm. This read is advisory:
// it may be stale by the time a reserve attempt runs, which is exactly why
// the coordinator re-checks under the lock.
func (e *DefaultEngine) ListDay(ctx context.Context, tenantID, professionalID string, day time.Time) ([]models.Reservation, error) {
	dayStart, dayEnd := dayBounds(day)
	date := dayStart.Format("2006-01-02")

	if e.Cache != nil {
		if rows, ok := e.Cache.GetDay(ctx, tenantID, professionalID, date); ok {
			return rows, nil
		}
	}

	rows, err := e.Reservations.GetDayWindow(ctx, professionalID, dayStart, dayEnd)
	if err != nil {
		return nil, wrapError(CodeTransientFailure, "failed to list reservations", err)
	}

	// Day reads are professional-scoped; drop rows from other tenants in
	// case the caller's professional id is stale.
	filtered := rows[:0]
	for _, r := range rows {
		if r.TenantID == tenantID {
			filtered = append(filtered, r)
		}
	}

	if e.Cache != nil {
		e.Cache.SetDay(ctx, tenantID, professionalID, date, filtered)
	}
	return filtered, nil
}

// ListUpcoming returns the tenant's next reservations across all
// professionals, soonest first. Cached per tenant and invalidated by any
// commit for the tenant.
func (e *DefaultEngine) ListUpcoming(ctx context.Context, tenantID string, limit int64) ([]models.Reservation, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	if e.Cache != nil {
		if rows, ok := e.Cache.GetUpcoming(ctx, tenantID); ok {
			return rows, nil
		}
	}

	rows, err := e.Reservations.ListUpcoming(ctx, tenantID, time.Now().UTC(), limit)
	if err != nil {
		return nil, wrapError(CodeTransientFailure, "failed to list upcoming reservations", err)
	}

	if e.Cache != nil {
		e.Cache.SetUpcoming(ctx, tenantID, rows)
	}
	return rows, nil
}
