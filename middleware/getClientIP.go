package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// getClientIP keys rate limiting and request logs. The API sits behind a proxy,
// so the left-most X-Forwarded-For entry is the customer.
func getClientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(c.GetHeader("X-Real-IP")); xri != "" {
		return xri
	}
	return c.RemoteIP()
}
