package handlers

import (
	"net/http"

	"handyhub/middleware"
	"handyhub/models"
	"handyhub/utils"

	"github.com/gin-gonic/gin"
)

// requireActor returns the authenticated caller or writes a 401.
func requireActor(c *gin.Context) (models.Actor, bool) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok || actor.ID == "" {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse{Message: "Not authenticated"})
		return models.Actor{}, false
	}
	return actor, true
}
