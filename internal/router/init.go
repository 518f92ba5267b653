package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/student-manager/internal/container"
	handlers "github.com/oksasatya/student-manager/internal/interface/http"
	"github.com/oksasatya/student-manager/internal/interface/middleware"
	"github.com/oksasatya/student-manager/internal/router/modules"
)

// InitModules builds the handlers from c and registers every feature module.
// The access log covers /api routes only.
func InitModules(r *Registry, c *container.Container) {
	if c.Cfg.HTTPLogEnabled {
		r.Use(middleware.AccessLog(c.Logger))
	}
	store := c.RateLimitStore()
	limit := func(max int, window time.Duration, key middleware.KeyFunc, allow middleware.AllowFunc) gin.HandlerFunc {
		return middleware.RateLimit(store, max, window, key, allow, c.Logger)
	}
	authenticate := middleware.Authenticate(c.Auth, c.Cookies.Name)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(c.Auth, c.Cookies, c.Logger), authenticate, limit))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(c.Accounts, c.Cookies, c.Logger), authenticate, limit))
	r.Add(modules.NewAdminModule(handlers.NewAdminHandler(c.Admin, c.Accounts, c.Cookies, c.Logger), authenticate, limit))
	if c.Cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(limit))
	}
}
