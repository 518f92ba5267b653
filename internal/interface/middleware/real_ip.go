package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// RealIP stores the client address under "real_ip" for rate-limit keys and
// logs. Forwarding headers (CF-Connecting-IP, then the left-most
// X-Forwarded-For entry) are honored only when trustHeaders is set, since
// any client can send them.
func RealIP(trustHeaders bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("real_ip", clientAddr(c, trustHeaders))
		c.Next()
	}
}

func clientAddr(c *gin.Context, trustHeaders bool) string {
	if trustHeaders {
		if ip := net.ParseIP(strings.TrimSpace(c.GetHeader("CF-Connecting-IP"))); ip != nil {
			return ip.String()
		}
		if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
				return ip.String()
			}
		}
	}
	return c.ClientIP()
}
