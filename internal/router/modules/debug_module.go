package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/student-manager/internal/interface/middleware"
)

// DebugModule exposes expvar counters at /api/debug/vars.
type DebugModule struct {
	Limit Limit
}

func NewDebugModule(limit Limit) *DebugModule { return &DebugModule{Limit: limit} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rl := m.Limit(120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
