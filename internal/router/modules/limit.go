package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/student-manager/internal/interface/middleware"
)

// Limit builds a route rate limiter. It is a pass-through when rate
// limiting is disabled.
type Limit func(max int, window time.Duration, key middleware.KeyFunc, allow middleware.AllowFunc) gin.HandlerFunc
