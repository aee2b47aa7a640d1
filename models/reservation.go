package models

import "time"

// Reservation statuses. CONFIRMED is the only state the reservation engine
// produces; the rest are reached through the cancellation and completion
// flows. CANCELED and COMPLETED are terminal.
const (
	StatusConfirmed            = "CONFIRMED"
	StatusCanceled             = "CANCELED"
	StatusCompleted            = "COMPLETED"
	StatusAwaitingCancellation = "AWAITING_CANCELLATION"
)

// Reservation is one row of a reservation set: one row per requested
// service, all rows of a set sharing tenant, professional, client, start and
// the derived end (start + sum of the set's service durations). Time changes
// are modeled as cancel + recreate, never an in-place update.
type Reservation struct {
	ID             string    `bson:"id" json:"id"`
	SetID          string    `bson:"set_id" json:"set_id"` // Groups the rows of one multi-service request
	TenantID       string    `bson:"tenant_id" json:"tenant_id"`
	ProfessionalID string    `bson:"professional_id" json:"professional_id"`
	ServiceID      string    `bson:"service_id" json:"service_id"`
	ClientID       string    `bson:"client_id,omitempty" json:"client_id,omitempty"`     // Registered client, if any
	ClientName     string    `bson:"client_name,omitempty" json:"client_name,omitempty"` // Free-text walk-in
	Start          time.Time `bson:"start" json:"start"`
	End            time.Time `bson:"end" json:"end"` // Full occupied window of the set
	Status         string    `bson:"status" json:"status"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

// ReservationSet is what a successful reserve call hands back to the caller.
type ReservationSet struct {
	SetID          string        `json:"set_id"`
	TenantID       string        `json:"tenant_id"`
	ProfessionalID string        `json:"professional_id"`
	Start          time.Time     `json:"start"`
	End            time.Time     `json:"end"`
	Reservations   []Reservation `json:"reservations"`
}

// ReservationLock is the advisory lock document serializing reservation
// attempts per professional. Its _id is the professional id, so a second
// concurrent insert fails with a duplicate key error. ExpiresAt backs a TTL
// index that frees locks orphaned by a crashed process.
type ReservationLock struct {
	ProfessionalID string    `bson:"_id" json:"professional_id"`
	Owner          string    `bson:"owner" json:"owner"` // Random token; only the owner may release
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	ExpiresAt      time.Time `bson:"expires_at" json:"expires_at"`
}
