package models

import "time"

// Professional is a member of staff whose time gets reserved. The engine
// only ever reads professionals; the staff-management collaborator owns
// their lifecycle.
type Professional struct {
	ID           string          `bson:"id" json:"id"`
	TenantID     string          `bson:"tenant_id" json:"tenant_id"`
	DisplayName  string          `bson:"display_name" json:"display_name"`
	Active       bool            `bson:"active" json:"active"`
	WorkingHours []WorkingWindow `bson:"working_hours,omitempty" json:"working_hours,omitempty"` // Supplied by the staff collaborator
	CreatedAt    time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `bson:"updated_at" json:"updated_at"`
}

// WorkingWindow is one recurring availability window for a professional.
type WorkingWindow struct {
	Weekday      int `bson:"weekday" json:"weekday"`             // 0 = Sunday
	StartMinutes int `bson:"start_minutes" json:"start_minutes"` // Minutes from midnight
	EndMinutes   int `bson:"end_minutes" json:"end_minutes"`
}
