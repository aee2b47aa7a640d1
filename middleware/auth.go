package middleware

import (
	"net/http"
	"strings"

	"reserva/utils"

	"github.com/gin-gonic/gin"
)

// TenantIDKey is the context key the auth middleware stores the
// authenticated tenant id under.
const TenantIDKey = "tenantID"

// JWTAuthTenantMiddleware validates the Bearer token and binds the request
// to the tenant it was issued for. Every tenant-scoped route sits behind
// this; handlers never trust a tenant id from the payload.
func JWTAuthTenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		tenantID, err := utils.ExtractTenantIDFromToken(tokenString)
		if err != nil || tenantID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		c.Set(TenantIDKey, tenantID)
		c.Next()
	}
}

// TenantID returns the authenticated tenant id bound to the request.
func TenantID(c *gin.Context) string {
	if v, ok := c.Get(TenantIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
