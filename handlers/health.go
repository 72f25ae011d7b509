package handlers

import (
	"net/http"

	"handyhub/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last Mongo/Redis health snapshot.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	state := "ok"
	if !status.Mongo || !status.Redis {
		code = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(code, gin.H{"status": state, "checks": status})
}
