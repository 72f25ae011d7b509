package handlers

import (
	"context"
	"net/http"

	"handyhub/models"
	"handyhub/services/offering"
	"handyhub/utils"

	"github.com/gin-gonic/gin"
)

type OfferingHandler struct {
	Service offering.OfferingService
}

func NewOfferingHandler(svc offering.OfferingService) *OfferingHandler {
	return &OfferingHandler{Service: svc}
}

// ListProviderOfferingsHandler serves GET /api/offerings/provider/:providerId.
func (h *OfferingHandler) ListProviderOfferingsHandler(c *gin.Context) {
	offerings, err := h.Service.ListOfferings(c.Request.Context(), c.Param("providerId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offerings": offerings})
}

// UpdateOfferingHandler serves PUT /api/offerings/:id.
func (h *OfferingHandler) UpdateOfferingHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var input models.OfferingUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	o, err := h.Service.UpdateOffering(c.Request.Context(), actor, c.Param("id"), input)
	h.respond(c, o, err, "Offering updated")
}

func (h *OfferingHandler) PublishOfferingHandler(c *gin.Context) {
	h.statusAction(c, h.Service.PublishOffering, "Offering published")
}

func (h *OfferingHandler) DeleteOfferingHandler(c *gin.Context) {
	h.statusAction(c, h.Service.DeleteOffering, "Offering deleted")
}

func (h *OfferingHandler) DeactivateMonthHandler(c *gin.Context) {
	h.statusAction(c, h.Service.DeactivateMonth, "Offering deactivated for the rest of the month")
}

func (h *OfferingHandler) ActivateMonthHandler(c *gin.Context) {
	h.statusAction(c, h.Service.ActivateMonth, "Offering reactivated")
}

type offeringAction func(ctx context.Context, actor models.Actor, offeringID string) (*models.ProviderServiceOffering, error)

func (h *OfferingHandler) statusAction(c *gin.Context, action offeringAction, message string) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	o, err := action(c.Request.Context(), actor, c.Param("id"))
	h.respond(c, o, err, message)
}

func (h *OfferingHandler) respond(c *gin.Context, o *models.ProviderServiceOffering, err error, message string) {
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  message,
		"offering": o,
	})
}
