package handlers

import (
	"errors"
	"net/http"
	"time"

	tenantRepo "reserva/database/repository/tenant"
	"reserva/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler issues tenant API tokens.
type AuthHandler struct {
	Tenants tenantRepo.TenantRepository
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(tenants tenantRepo.TenantRepository) *AuthHandler {
	return &AuthHandler{Tenants: tenants}
}

// IssueTokenHandler handles POST /api/auth/token: tenant id + API key in,
// short-lived JWT out.
func (h *AuthHandler) IssueTokenHandler(c *gin.Context) {
	var input struct {
		TenantID string `json:"tenant_id" binding:"required"`
		APIKey   string `json:"api_key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "INVALID_INPUT", "tenant_id and api_key are required")
		return
	}

	tenant, err := h.Tenants.GetByID(c.Request.Context(), input.TenantID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid tenant credentials")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to authenticate tenant")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(tenant.APIKeyHash), []byte(input.APIKey)); err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid tenant credentials")
		return
	}

	token, err := utils.GenerateTenantToken(tenant.ID, 12*time.Hour)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
