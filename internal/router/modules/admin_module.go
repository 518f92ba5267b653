package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/student-manager/internal/domain/entity"
	handlers "github.com/oksasatya/student-manager/internal/interface/http"
	"github.com/oksasatya/student-manager/internal/interface/middleware"
)

// AdminModule wires /api/v1/admin. Student management works on any id;
// /admin/:id is the caller's own account.
type AdminModule struct {
	Handler      *handlers.AdminHandler
	Authenticate gin.HandlerFunc
	Limit        Limit
}

func NewAdminModule(h *handlers.AdminHandler, authenticate gin.HandlerFunc, limit Limit) *AdminModule {
	return &AdminModule{Handler: h, Authenticate: authenticate, Limit: limit}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/v1/admin")
	admin.Use(
		m.Authenticate,
		middleware.Authorize(entity.RolePrivileged),
		m.Limit(300, time.Minute, middleware.KeyByIdentity(), nil),
	)
	{
		admin.GET("/get-users", m.Handler.ListUsers)
		admin.PATCH("/update-user/:id", m.Handler.UpdateUser)
		admin.DELETE("/delete-user/:id", m.Handler.DeleteUser)

		self := middleware.SelfOnly("id")
		admin.GET("/:id", self, m.Handler.GetSelf)
		admin.PUT("/:id", self, m.Handler.UpdateSelf)
		admin.DELETE("/:id", self, m.Handler.DeleteSelf)
	}
}
