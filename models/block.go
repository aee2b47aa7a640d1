package models

import "time"

// Block marks a client as forbidden from reserving at a tenant. The engine
// only ever checks existence; the block list's lifecycle belongs to the
// tenant-management collaborator.
type Block struct {
	TenantID  string    `bson:"tenant_id" json:"tenant_id"`
	ClientID  string    `bson:"client_id" json:"client_id"`
	Reason    string    `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
