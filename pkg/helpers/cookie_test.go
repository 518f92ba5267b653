package helpers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCookie_SameSite(t *testing.T) {
	m := NewCookie("sm_token", "", false, http.SameSiteDefaultMode)
	assert.Equal(t, http.SameSiteStrictMode, m.SameSite)
	assert.False(t, m.Secure)

	m = NewCookie("sm_token", "", false, http.SameSiteNoneMode)
	assert.True(t, m.Secure)
}

func TestCookie_SetAndClear(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewCookie("sm_token", "example.test", true, http.SameSiteLaxMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	m.Set(c, "tok", time.Now().Add(time.Hour))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	ck := cookies[0]
	assert.Equal(t, "sm_token", ck.Name)
	assert.Equal(t, "tok", ck.Value)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.Equal(t, "/", ck.Path)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
	assert.InDelta(t, 3600, ck.MaxAge, 5)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	m.Clear(c)

	cookies = w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestMaxAgeFrom_PastIsZero(t *testing.T) {
	assert.Equal(t, 0, maxAgeFrom(time.Now().Add(-time.Minute)))
}
