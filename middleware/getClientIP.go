package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// clientIPHeaders are consulted in order before falling back to RemoteAddr.
// X-Forwarded-For may hold a chain; its first hop is the client.
var clientIPHeaders = []string{"X-Forwarded-For", "X-Real-IP"}

// getClientIP keys the per-client rate limit and the access log.
func getClientIP(c *gin.Context) string {
	for _, header := range clientIPHeaders {
		first, _, _ := strings.Cut(c.GetHeader(header), ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	addr := c.Request.RemoteAddr
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
