package middleware

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessLog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, hook := test.NewNullLogger()

	r := gin.New()
	r.Use(RequestIDMiddleware(), AccessLog(logger))
	r.GET("/things/:id", func(c *gin.Context) {
		c.Set(CtxIdentityIDKey, "s-1")
		c.Status(http.StatusOK)
	})
	r.GET("/broken", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	do(r, "/things/42", nil)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "/things/:id", entry.Data["path"])
	assert.Equal(t, http.StatusOK, entry.Data["status"])
	assert.Equal(t, "s-1", entry.Data["identity_id"])
	assert.NotEmpty(t, entry.Data["request_id"])

	do(r, "/broken", nil)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Len(t, hook.AllEntries(), 2)
}
