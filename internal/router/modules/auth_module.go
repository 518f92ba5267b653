package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/student-manager/internal/domain/entity"
	handlers "github.com/oksasatya/student-manager/internal/interface/http"
	"github.com/oksasatya/student-manager/internal/interface/middleware"
)

// AuthModule wires session routes under /api/v1/auth.
// Public: GET /verify, POST /sign-up, POST /sign-in, POST /sign-out
// Admin: POST /sign-up-user
type AuthModule struct {
	Handler      *handlers.AuthHandler
	Authenticate gin.HandlerFunc
	Limit        Limit
}

func NewAuthModule(h *handlers.AuthHandler, authenticate gin.HandlerFunc, limit Limit) *AuthModule {
	return &AuthModule{Handler: h, Authenticate: authenticate, Limit: limit}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	signUpLimiter := m.Limit(5, time.Minute, middleware.KeyByIPAndPath(), nil)
	signInLimiter := m.Limit(10, time.Minute, middleware.KeyByIPAndPath(), nil)

	auth := rg.Group("/v1/auth")
	auth.GET("/verify", m.Handler.Verify)
	auth.POST("/sign-up", signUpLimiter, m.Handler.SignUp)
	auth.POST("/sign-in", signInLimiter, m.Handler.SignIn)
	auth.POST("/sign-out", m.Handler.SignOut)

	auth.POST("/sign-up-user",
		m.Authenticate,
		middleware.Authorize(entity.RolePrivileged),
		m.Limit(60, time.Minute, middleware.KeyByIdentity(), nil),
		m.Handler.SignUpUser,
	)
}
