package routes

import (
	"net/http"
	"time"

	"reserva/handlers"
	"reserva/middleware"
	"reserva/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle collects the handlers the router wires up.
type HandlerBundle struct {
	Reservation *handlers.ReservationHandler
	Auth        *handlers.AuthHandler
	Billing     *handlers.BillingHandler
}

// RegisterAuthRoutes registers token issuance.
func RegisterAuthRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/token", hb.Auth.IssueTokenHandler)
	}
}

// RegisterReservationRoutes sets up the endpoints for the reservation engine.
func RegisterReservationRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/reservations")
	{
		api.Use(middleware.JWTAuthTenantMiddleware())
		api.POST("", hb.Reservation.ReserveHandler)
		api.GET("/day/:professionalID", hb.Reservation.ListDayHandler)
		api.GET("/upcoming", hb.Reservation.ListUpcomingHandler)
		api.POST("/:setID/cancel", hb.Reservation.CancelHandler)
		api.POST("/:setID/cancellation-request", hb.Reservation.RequestCancellationHandler)
		api.POST("/:setID/cancellation-resolution", hb.Reservation.ResolveCancellationHandler)
	}
}

// RegisterBillingRoutes registers the Stripe webhook. Authenticated by
// signature, not by tenant token.
func RegisterBillingRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/billing")
	{
		api.POST("/webhook", hb.Billing.WebhookHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "health": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterReservationRoutes(r, hb)
	RegisterBillingRoutes(r, hb)
	RegisterHealthRoute(r)
}
