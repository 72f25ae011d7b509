package middleware

import (
	"time"

	"handyhub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Metrics records request counts and latency.
func Metrics(m *utils.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

// AccessLog writes one structured line per request.
func AccessLog(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", getClientIP(c)),
		}
		if actor, ok := ActorFromContext(c); ok {
			fields = append(fields, zap.String("actorID", actor.ID), zap.String("role", string(actor.Role)))
		}
		l.Info("http_request", fields...)
	}
}
