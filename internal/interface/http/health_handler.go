package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Health GET /healthz. Liveness only; it does not touch the database.
func Health(started time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok(c, gin.H{"status": "ok", "uptime": time.Since(started).Round(time.Second).String()}, "alive")
	}
}
