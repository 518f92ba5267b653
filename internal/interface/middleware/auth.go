package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/student-manager/internal/domain/entity"
	"github.com/oksasatya/student-manager/pkg/apperror"
	"github.com/oksasatya/student-manager/pkg/helpers"
	"github.com/oksasatya/student-manager/pkg/response"
)

const (
	CtxIdentityIDKey = "identityID"
	CtxRoleKey       = "role"
)

// SessionVerifier turns a raw session token into verified claims.
// *application.AuthService implements it.
type SessionVerifier interface {
	VerifySession(ctx context.Context, token string) (*helpers.Claims, error)
}

// SessionToken reads the session cookie, falling back to an
// "Authorization: Bearer" header.
func SessionToken(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Authenticate verifies the session token and sets identityID and role in
// the gin context. Nothing after it runs on failure.
func Authenticate(sessions SessionVerifier, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := sessions.VerifySession(c.Request.Context(), SessionToken(c, cookieName))
		if err != nil {
			abortWith(c, err)
			return
		}
		c.Set(CtxIdentityIDKey, claims.IdentityID)
		c.Set(CtxRoleKey, claims.Role)
		c.Next()
	}
}

// Authorize lets the request through only when the authenticated role is
// one of roles. It must run after Authenticate.
func Authorize(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := RoleOf(c)
		if !ok {
			abortWith(c, apperror.Unauthenticated("missing session token"))
			return
		}
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		abortWith(c, apperror.Forbidden("insufficient role"))
	}
}

// SelfOnly rejects requests whose path parameter param differs from the
// authenticated identity id.
func SelfOnly(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityID(c)
		if !ok {
			abortWith(c, apperror.Unauthenticated("missing session token"))
			return
		}
		if c.Param(param) != id {
			abortWith(c, apperror.Forbidden("you can only access your own account"))
			return
		}
		c.Next()
	}
}

func IdentityID(c *gin.Context) (string, bool) {
	id := c.GetString(CtxIdentityIDKey)
	return id, id != ""
}

func RoleOf(c *gin.Context) (entity.Role, bool) {
	r := entity.Role(c.GetString(CtxRoleKey))
	return r, r.Valid()
}

func abortWith(c *gin.Context, err error) {
	response.FromError(c, err, nil)
	c.Abort()
}
