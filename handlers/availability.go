package handlers

import (
	"net/http"
	"strconv"

	"handyhub/models"
	"handyhub/services/availability"
	"handyhub/utils"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	Service availability.AvailabilityService
}

func NewAvailabilityHandler(svc availability.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Service: svc}
}

// ResolveHandler serves GET /api/availability/:providerId/resolve.
func (h *AvailabilityHandler) ResolveHandler(c *gin.Context) {
	q := models.ResolveQuery{
		ProviderID: c.Param("providerId"),
		From:       c.Query("from"),
		To:         c.Query("to"),
		ServiceID:  c.Query("serviceId"),
	}
	if q.From == "" || q.To == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid query", "from and to are required (YYYY-MM-DD)")
		return
	}
	if raw := c.Query("step"); raw != "" {
		step, err := strconv.Atoi(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid query", "step must be an integer number of minutes")
			return
		}
		q.Step = step
	}
	if raw := c.Query("emergency"); raw != "" {
		emergency, err := strconv.ParseBool(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid query", "emergency must be true or false")
			return
		}
		q.Emergency = emergency
	}

	result, err := h.Service.Resolve(c.Request.Context(), q)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetProfileHandler serves GET /api/availability/:providerId.
func (h *AvailabilityHandler) GetProfileHandler(c *gin.Context) {
	profile, err := h.Service.GetProfile(c.Request.Context(), c.Param("providerId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SaveProfileHandler serves PUT /api/availability/:providerId.
func (h *AvailabilityHandler) SaveProfileHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var input models.AvailabilityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	profile, err := h.Service.SaveProfile(c.Request.Context(), actor, c.Param("providerId"), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Availability saved",
		"profile": profile,
	})
}
