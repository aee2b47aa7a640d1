package models

import "time"

// Subscription states a tenant can be in. Anything other than an active or
// trialing subscription gates reservations for the tenant.
const (
	SubscriptionActive    = "active"
	SubscriptionTrialing  = "trialing"
	SubscriptionPastDue   = "past_due"
	SubscriptionSuspended = "suspended"
	SubscriptionCanceled  = "canceled"
)

// Tenant represents one business account on the platform.
type Tenant struct {
	ID                 string    `bson:"id" json:"id"`
	Name               string    `bson:"name" json:"name"`
	Closed             bool      `bson:"closed" json:"closed"`                           // Tenant shut its doors; no new reservations
	SubscriptionStatus string    `bson:"subscription_status" json:"subscription_status"` // Billing state, maintained by the billing webhook
	BillingCustomerID  string    `bson:"billing_customer_id,omitempty" json:"-"`         // Stripe customer reference
	APIKeyHash         string    `bson:"api_key_hash" json:"-"`                          // bcrypt hash of the tenant API key
	Timezone           string    `bson:"timezone,omitempty" json:"timezone,omitempty"`   // Informational; engine times are UTC
	CreatedAt          time.Time `bson:"created_at" json:"created_at"`
}

// CanReserve reports whether the tenant may accept new reservations.
func (t *Tenant) CanReserve() bool {
	if t.Closed {
		return false
	}
	switch t.SubscriptionStatus {
	case SubscriptionActive, SubscriptionTrialing, SubscriptionPastDue:
		return true
	}
	return false
}
