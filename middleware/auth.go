package middleware

import (
	"net/http"
	"strings"

	"handyhub/models"
	"handyhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextActorKey is the gin context key holding the authenticated models.Actor.
const ContextActorKey = "actor"

// JWTAuthMiddleware requires a bearer token issued by the auth service and
// stores the caller as a models.Actor.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Message: "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		subject, role, err := utils.ExtractActorFromToken(tokenString)
		if err != nil {
			zap.L().Debug("rejected token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Message: "Invalid token"})
			return
		}
		actor := models.Actor{ID: subject, Role: models.Role(role)}
		if !actor.Role.Valid() {
			c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse{Message: "Unknown role"})
			return
		}

		c.Set(ContextActorKey, actor)
		c.Next()
	}
}

// ActorFromContext returns the actor set by JWTAuthMiddleware.
func ActorFromContext(c *gin.Context) (models.Actor, bool) {
	v, ok := c.Get(ContextActorKey)
	if !ok {
		return models.Actor{}, false
	}
	actor, ok := v.(models.Actor)
	return actor, ok
}
