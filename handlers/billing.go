package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"reserva/config"
	tenantRepo "reserva/database/repository/tenant"
	"reserva/models"
	"reserva/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// BillingHandler consumes Stripe subscription webhooks and maintains the
// tenant subscription status the eligibility validator gates on. This is the
// whole billing surface of the engine; payment capture stays with the
// billing collaborator.
type BillingHandler struct {
	Tenants tenantRepo.TenantRepository
	Logger  *zap.Logger
}

// NewBillingHandler creates a BillingHandler.
func NewBillingHandler(tenants tenantRepo.TenantRepository, logger *zap.Logger) *BillingHandler {
	return &BillingHandler{Tenants: tenants, Logger: logger}
}

// WebhookHandler handles POST /api/billing/webhook.
func (h *BillingHandler) WebhookHandler(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "INVALID_INPUT", "failed to read webhook payload")
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), config.AppConfig.StripeWebhookSecret)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid webhook signature")
		return
	}

	switch event.Type {
	case "customer.subscription.created", "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "INVALID_INPUT", "malformed subscription payload")
			return
		}
		if err := h.applySubscription(c, &sub, event.Type); err != nil {
			return
		}
	default:
		// Irrelevant event types are acknowledged so Stripe stops resending.
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *BillingHandler) applySubscription(c *gin.Context, sub *stripe.Subscription, eventType stripe.EventType) error {
	if sub.Customer == nil || sub.Customer.ID == "" {
		utils.JSONError(c, http.StatusBadRequest, "INVALID_INPUT", "subscription has no customer")
		return errors.New("missing customer")
	}

	tenant, err := h.Tenants.GetByBillingCustomerID(c.Request.Context(), sub.Customer.ID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrNotFound) {
			// Unknown customer: acknowledge; the tenant may not be provisioned yet.
			h.Logger.Warn("webhook for unknown billing customer", zap.String("customer", sub.Customer.ID))
			return nil
		}
		utils.JSONError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to resolve tenant")
		return err
	}

	status := subscriptionStatus(sub, eventType)
	if err := h.Tenants.UpdateSubscriptionStatus(c.Request.Context(), tenant.ID, status); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to update subscription status")
		return err
	}

	h.Logger.Info("tenant subscription updated",
		zap.String("tenant_id", tenant.ID), zap.String("status", status))
	return nil
}

// subscriptionStatus maps Stripe subscription states onto the tenant model's
// subscription vocabulary.
func subscriptionStatus(sub *stripe.Subscription, eventType stripe.EventType) string {
	if eventType == "customer.subscription.deleted" {
		return models.SubscriptionCanceled
	}
	switch sub.Status {
	case stripe.SubscriptionStatusActive:
		return models.SubscriptionActive
	case stripe.SubscriptionStatusTrialing:
		return models.SubscriptionTrialing
	case stripe.SubscriptionStatusPastDue:
		return models.SubscriptionPastDue
	case stripe.SubscriptionStatusCanceled:
		return models.SubscriptionCanceled
	default:
		// unpaid, incomplete, paused: tenant cannot reserve until billing recovers.
		return models.SubscriptionSuspended
	}
}
