package models

import "time"

// ReserveRequest is the single operation the reservation engine exposes.
// Exactly one of ClientID and ClientName must be set: a registered client or
// a free-text walk-in.
type ReserveRequest struct {
	TenantID       string    `json:"tenant_id" validate:"required"`
	ProfessionalID string    `json:"professional_id" validate:"required"`
	ServiceIDs     []string  `json:"service_ids" validate:"required,min=1,dive,required"`
	ClientID       string    `json:"client_id" validate:"required_without=ClientName"`
	ClientName     string    `json:"client_name" validate:"required_without=ClientID,excluded_with=ClientID"`
	Start          time.Time `json:"start" validate:"required"`
}

// ReservationEvent is the payload published to the events topic when a
// reservation set changes state. Downstream collaborators (notifications,
// analytics) consume these; the engine never reads them back.
type ReservationEvent struct {
	Type           string    `json:"type"` // reservation.confirmed | reservation.canceled | reservation.completed
	SetID          string    `json:"set_id"`
	TenantID       string    `json:"tenant_id"`
	ProfessionalID string    `json:"professional_id"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	OccurredAt     time.Time `json:"occurred_at"`
}
