package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/student-manager/internal/domain/entity"
	handlers "github.com/oksasatya/student-manager/internal/interface/http"
	"github.com/oksasatya/student-manager/internal/interface/middleware"
)

// UserModule wires self-service routes for standard identities:
// GET, PATCH and DELETE /api/v1/users/:id, where :id must be the caller.
type UserModule struct {
	Handler      *handlers.UserHandler
	Authenticate gin.HandlerFunc
	Limit        Limit
}

func NewUserModule(h *handlers.UserHandler, authenticate gin.HandlerFunc, limit Limit) *UserModule {
	return &UserModule{Handler: h, Authenticate: authenticate, Limit: limit}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/v1/users")
	users.Use(
		m.Authenticate,
		middleware.Authorize(entity.RoleStandard),
		middleware.SelfOnly("id"),
		m.Limit(120, time.Minute, middleware.KeyByIdentity(), nil),
	)
	{
		users.GET("/:id", m.Handler.Get)
		users.PATCH("/:id", m.Handler.Update)
		users.DELETE("/:id", m.Handler.Delete)
	}
}
