package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/student-manager/internal/application"
	"github.com/oksasatya/student-manager/pkg/helpers"
)

// UserHandler serves a standard identity acting on its own account. The
// route gate guarantees :id is the caller.
type UserHandler struct {
	Accounts *application.AccountService
	Cookies  *helpers.CookieManager
	Logger   *logrus.Logger
}

func NewUserHandler(accounts *application.AccountService, cookies *helpers.CookieManager, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Accounts: accounts, Cookies: cookies, Logger: logger}
}

// Get GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	pair, err := h.Accounts.GetStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err, h.Logger)
		return
	}
	ok(c, pair, "account")
}

// Update PATCH /api/v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req studentSelfRequest
	if !bind(c, &req, h.Logger) {
		return
	}
	in, err := req.toUpdate()
	if err != nil {
		fail(c, err, h.Logger)
		return
	}
	pair, err := h.Accounts.UpdateStudent(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err, h.Logger)
		return
	}
	ok(c, pair, "account updated")
}

// Delete DELETE /api/v1/users/:id. The session cookie goes with the account.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Accounts.DeleteStudent(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err, h.Logger)
		return
	}
	h.Cookies.Clear(c)
	ok(c, gin.H{"deleted": true}, "account deleted")
}
