package reservation

import (
	"time"

	"reserva/models"
)

// FirstConflict returns the first existing reservation whose interval
// strictly overlaps the half-open candidate interval [start, end), or nil.
// Canceled rows free their slot and rows belonging to excludeSetID are
// ignored (a set never conflicts with itself). Back-to-back intervals where
// one's end equals the other's start do not conflict.
func FirstConflict(start, end time.Time, excludeSetID string, existing []models.Reservation) *models.Reservation {
	for i := range existing {
		r := &existing[i]
		if r.Status == models.StatusCanceled {
			continue
		}
		if excludeSetID != "" && r.SetID == excludeSetID {
			continue
		}
		if overlaps(start, end, r.Start, r.End) {
			return r
		}
	}
	return nil
}

// overlaps implements the strict-overlap rule for half-open intervals:
// startA < endB && endA > startB.
func overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && end1.After(start2)
}

// dayBounds returns the UTC calendar day containing t as a half-open
// [start of day, start of next day) window.
func dayBounds(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	dayStart := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return dayStart, dayStart.AddDate(0, 0, 1)
}
