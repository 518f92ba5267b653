package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/student-manager/internal/application"
	"github.com/oksasatya/student-manager/internal/interface/middleware"
	"github.com/oksasatya/student-manager/pkg/helpers"
	"github.com/oksasatya/student-manager/pkg/response"
)

type AuthHandler struct {
	Auth    *application.AuthService
	Cookies *helpers.CookieManager
	Logger  *logrus.Logger
}

func NewAuthHandler(auth *application.AuthService, cookies *helpers.CookieManager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Cookies: cookies, Logger: logger}
}

type sessionInfo struct {
	IdentityID string `json:"identityId"`
	Role       string `json:"role"`
}

// Verify GET /api/v1/auth/verify
func (h *AuthHandler) Verify(c *gin.Context) {
	claims, err := h.Auth.VerifySession(c.Request.Context(), middleware.SessionToken(c, h.Cookies.Name))
	if err != nil {
		fail(c, err, h.Logger)
		return
	}
	ok(c, sessionInfo{IdentityID: claims.IdentityID, Role: claims.Role}, "session is valid")
}

// SignUp POST /api/v1/auth/sign-up {name, email, password, secret}
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if !bind(c, &req, h.Logger) {
		return
	}
	i, err := h.Auth.SignUpPrivileged(c.Request.Context(), application.NewIdentity{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}, req.Secret)
	if err != nil {
		fail(c, err, h.Logger)
		return
	}
	response.Success(c, http.StatusCreated, i, "admin account created", nil)
}

// SignUpUser POST /api/v1/auth/sign-up-user (admin only)
func (h *AuthHandler) SignUpUser(c *gin.Context) {
	var req signUpUserRequest
	if !bind(c, &req, h.Logger) {
		return
	}
	np, err := req.newProfile()
	if err != nil {
		fail(c, err, h.Logger)
		return
	}
	pair, err := h.Auth.SignUpStandard(c.Request.Context(), application.NewIdentity{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}, np)
	if err != nil {
		fail(c, err, h.Logger)
		return
	}
	response.Success(c, http.StatusCreated, pair, "student account created", nil)
}

// SignIn POST /api/v1/auth/sign-in {email, password}
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req signInRequest
	if !bind(c, &req, h.Logger) {
		return
	}
	i, tok, err := h.Auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err, h.Logger)
		return
	}
	h.Cookies.Set(c, tok.Value, tok.ExpiresAt)
	response.Success(c, http.StatusOK, i, "signed in", map[string]any{"expiresAt": tok.ExpiresAt})
}

// SignOut POST /api/v1/auth/sign-out
func (h *AuthHandler) SignOut(c *gin.Context) {
	h.Auth.SignOut(c.Request.Context(), middleware.SessionToken(c, h.Cookies.Name))
	h.Cookies.Clear(c)
	ok(c, gin.H{"signedOut": true}, "signed out")
}
