package handlers

import (
	"net/http"
	"strconv"
	"time"

	"reserva/middleware"
	"reserva/models"
	"reserva/services/reservation"
	"reserva/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ReservationHandler exposes the reservation engine over HTTP.
type ReservationHandler struct {
	Engine   reservation.Engine
	Validate *validator.Validate
	Logger   *zap.Logger
}

// NewReservationHandler creates a ReservationHandler.
func NewReservationHandler(engine reservation.Engine, logger *zap.Logger) *ReservationHandler {
	return &ReservationHandler{
		Engine:   engine,
		Validate: validator.New(),
		Logger:   logger,
	}
}

// ReserveHandler handles POST /api/reservations.
func (h *ReservationHandler) ReserveHandler(c *gin.Context) {
	var req models.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid reserve payload: "+err.Error())
		return
	}
	// The tenant comes from the token, never from the payload.
	req.TenantID = middleware.TenantID(c)

	if err := h.Validate.Struct(req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid reserve payload: "+err.Error())
		return
	}

	set, err := h.Engine.Reserve(c.Request.Context(), req)
	if err != nil {
		h.writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, set)
}

// ListDayHandler handles GET /api/reservations/day/:professionalID?date=YYYY-MM-DD.
func (h *ReservationHandler) ListDayHandler(c *gin.Context) {
	professionalID := c.Param("professionalID")
	dateStr := c.Query("date")
	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "INVALID_INPUT", "date must be YYYY-MM-DD")
		return
	}

	rows, err := h.Engine.ListDay(c.Request.Context(), middleware.TenantID(c), professionalID, day)
	if err != nil {
		h.writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": rows})
}

// ListUpcomingHandler handles GET /api/reservations/upcoming?limit=N.
func (h *ReservationHandler) ListUpcomingHandler(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

	rows, err := h.Engine.ListUpcoming(c.Request.Context(), middleware.TenantID(c), limit)
	if err != nil {
		h.writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": rows})
}

// CancelHandler handles POST /api/reservations/:setID/cancel.
func (h *ReservationHandler) CancelHandler(c *gin.Context) {
	if err := h.Engine.Cancel(c.Request.Context(), middleware.TenantID(c), c.Param("setID")); err != nil {
		h.writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.StatusCanceled})
}

// RequestCancellationHandler handles POST /api/reservations/:setID/cancellation-request.
func (h *ReservationHandler) RequestCancellationHandler(c *gin.Context) {
	if err := h.Engine.RequestCancellation(c.Request.Context(), middleware.TenantID(c), c.Param("setID")); err != nil {
		h.writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.StatusAwaitingCancellation})
}

// ResolveCancellationHandler handles POST /api/reservations/:setID/cancellation-resolution.
func (h *ReservationHandler) ResolveCancellationHandler(c *gin.Context) {
	var input struct {
		Approve bool `json:"approve"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid resolution payload")
		return
	}

	if err := h.Engine.ResolveCancellation(c.Request.Context(), middleware.TenantID(c), c.Param("setID"), input.Approve); err != nil {
		h.writeEngineError(c, err)
		return
	}
	status := models.StatusConfirmed
	if input.Approve {
		status = models.StatusCanceled
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

// writeEngineError maps the engine's failure taxonomy onto HTTP statuses.
// The code travels verbatim so callers can branch on it.
func (h *ReservationHandler) writeEngineError(c *gin.Context, err error) {
	code := reservation.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case reservation.CodeTenantUnavailable, reservation.CodeClientBlocked:
		status = http.StatusForbidden
	case reservation.CodeProfessionalUnavailable, reservation.CodeServiceUnavailable:
		status = http.StatusUnprocessableEntity
	case reservation.CodeSlotConflict:
		status = http.StatusConflict
	case reservation.CodeTransientFailure:
		status = http.StatusServiceUnavailable
	}

	h.Logger.Warn("reserve request failed",
		zap.String("code", code), zap.Error(err))
	utils.JSONError(c, status, code, err.Error())
}
