package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/student-manager/internal/container"
	handlers "github.com/oksasatya/student-manager/internal/interface/http"
	"github.com/oksasatya/student-manager/internal/interface/middleware"
	"github.com/oksasatya/student-manager/pkg/response"
	"github.com/oksasatya/student-manager/pkg/validation"
)

// NewEngine returns the gin engine with global middleware, /healthz and all
// API modules under /api.
func NewEngine(c *container.Container) *gin.Engine {
	validation.Init()

	r := gin.New()
	if !c.Cfg.TrustProxyHeaders {
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP(c.Cfg.TrustProxyHeaders))
	if origins := c.Cfg.CORSOrigins(); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.GET("/healthz", handlers.Health(time.Now()))
	r.NoRoute(func(ctx *gin.Context) {
		response.Error(ctx, http.StatusNotFound, "route not found", nil)
	})

	reg := NewRegistry(r)
	InitModules(reg, c)
	reg.RegisterAll()
	return r
}
