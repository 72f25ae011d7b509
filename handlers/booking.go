package handlers

import (
	"net/http"
	"strconv"

	"handyhub/models"
	"handyhub/services/booking"
	"handyhub/utils"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	Service booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// CreateBookingHandler serves POST /api/bookings.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var input models.BookingRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	b, err := h.Service.CreateBooking(c.Request.Context(), actor, input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Booking requested",
		"booking": b,
	})
}

// GetBookingHandler serves GET /api/bookings/:id.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	b, err := h.Service.GetBooking(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListBookingsHandler serves GET /api/bookings.
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	filter := models.BookingFilter{
		ClientID:   c.Query("clientId"),
		ProviderID: c.Query("providerId"),
		Status:     models.BookingStatus(c.Query("status")),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || limit < 0 {
			utils.JSONError(c, http.StatusBadRequest, "Invalid query", "limit must be a positive integer")
			return
		}
		filter.Limit = limit
	}

	bookings, err := h.Service.ListBookings(c.Request.Context(), actor, filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// UpdateStatusHandler serves PUT /api/bookings/:id/status.
func (h *BookingHandler) UpdateStatusHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var input models.StatusUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	b, err := h.Service.UpdateStatus(c.Request.Context(), actor, c.Param("id"), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Booking is now " + string(b.Status),
		"booking": b,
	})
}

// RequestCancellationHandler serves POST /api/bookings/:id/cancellation-requests.
func (h *BookingHandler) RequestCancellationHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var input models.CancellationRequestInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
			return
		}
	}

	b, req, err := h.Service.RequestCancellation(c.Request.Context(), actor, c.Param("id"), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Cancellation requested",
		"request": req,
		"booking": b,
	})
}

// RespondCancellationHandler serves
// POST /api/bookings/:id/cancellation-requests/:requestId/respond.
func (h *BookingHandler) RespondCancellationHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var input struct {
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	b, err := h.Service.RespondCancellation(c.Request.Context(), actor, c.Param("id"), c.Param("requestId"), input.Action)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Response recorded",
		"booking": b,
	})
}
