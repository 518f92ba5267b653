package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieManager writes the HTTP-only session cookie.
type CookieManager struct {
	Name     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

// NewCookie builds a cookie manager. SameSite=None is only valid on secure
// cookies, so it forces Secure.
func NewCookie(name, domain string, secure bool, sameSite http.SameSite) *CookieManager {
	if sameSite == http.SameSiteDefaultMode {
		sameSite = http.SameSiteStrictMode
	}
	if sameSite == http.SameSiteNoneMode {
		secure = true
	}
	return &CookieManager{Name: name, Domain: domain, Secure: secure, SameSite: sameSite}
}

func (m *CookieManager) Set(c *gin.Context, token string, exp time.Time) {
	c.SetSameSite(m.SameSite)
	c.SetCookie(m.Name, token, maxAgeFrom(exp), "/", m.Domain, m.Secure, true)
}

func (m *CookieManager) Clear(c *gin.Context) {
	c.SetSameSite(m.SameSite)
	c.SetCookie(m.Name, "", -1, "/", m.Domain, m.Secure, true)
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
