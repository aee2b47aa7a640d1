package models

import "time"

// Service is a bookable offering with a fixed duration. Services are
// immutable within a single reservation attempt; a reservation may reference
// several, whose durations sum to the occupied window.
type Service struct {
	ID              string    `bson:"id" json:"id"`
	TenantID        string    `bson:"tenant_id" json:"tenant_id"`
	Name            string    `bson:"name" json:"name"`
	Active          bool      `bson:"active" json:"active"`
	DurationMinutes int       `bson:"duration_minutes" json:"duration_minutes"`
	Price           float64   `bson:"price" json:"price"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
}
