package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/student-manager/internal/application"
	"github.com/oksasatya/student-manager/pkg/helpers"
	"github.com/oksasatya/student-manager/pkg/response"
)

// AdminHandler serves student management and the administrator's own
// account.
type AdminHandler struct {
	Admin    *application.AdminService
	Accounts *application.AccountService
	Cookies  *helpers.CookieManager
	Logger   *logrus.Logger
}

func NewAdminHandler(admin *application.AdminService, accounts *application.AccountService, cookies *helpers.CookieManager, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Admin: admin, Accounts: accounts, Cookies: cookies, Logger: logger}
}

// ListUsers GET /api/v1/admin/get-users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	list, err := h.Admin.ListStudents(c.Request.Context())
	if err != nil {
		fail(c, err, h.Logger)
		return
	}
	response.Success(c, http.StatusOK, list, "students", map[string]any{"count": len(list)})
}

// UpdateUser PATCH /api/v1/admin/update-user/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var req adminUpdateStudentRequest
	if !bind(c, &req, h.Logger) {
		return
	}
	patch, err := req.Student.toPatch()
	if err != nil {
		fail(c, err, h.Logger)
		return
	}
	pair, err := h.Admin.UpdateStudent(c.Request.Context(), c.Param("id"), application.StudentUpdate{
		Name:    req.Name,
		Email:   req.Email,
		Profile: patch,
	})
	if err != nil {
		fail(c, err, h.Logger)
		return
	}
	ok(c, pair, "student updated")
}

// DeleteUser DELETE /api/v1/admin/delete-user/:id. Deleting an unknown id
// succeeds with deleted=false.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	deleted, err := h.Admin.DeleteStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err, h.Logger)
		return
	}
	msg := "student deleted"
	if !deleted {
		msg = "student already deleted"
	}
	ok(c, gin.H{"deleted": deleted}, msg)
}

// GetSelf GET /api/v1/admin/:id
func (h *AdminHandler) GetSelf(c *gin.Context) {
	i, err := h.Accounts.GetAdmin(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err, h.Logger)
		return
	}
	ok(c, i, "account")
}

// UpdateSelf PUT /api/v1/admin/:id
func (h *AdminHandler) UpdateSelf(c *gin.Context) {
	var req adminSelfRequest
	if !bind(c, &req, h.Logger) {
		return
	}
	i, err := h.Accounts.UpdateAdmin(c.Request.Context(), c.Param("id"), application.AdminSelfUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: passwordUpdate(req.CurrentPassword, req.Password),
	})
	if err != nil {
		fail(c, err, h.Logger)
		return
	}
	ok(c, i, "account updated")
}

// DeleteSelf DELETE /api/v1/admin/:id
func (h *AdminHandler) DeleteSelf(c *gin.Context) {
	if err := h.Accounts.DeleteAdmin(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err, h.Logger)
		return
	}
	h.Cookies.Clear(c)
	ok(c, gin.H{"deleted": true}, "account deleted")
}
