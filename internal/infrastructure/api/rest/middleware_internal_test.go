package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequireSecret_MissingHeader(t *testing.T) {
	mw := NewInternalAuthMiddleware("correct-secret")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/internal/block-ip", nil)

	mw.RequireSecret()(c)
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequireSecret_WrongSecretLooksLikeNotFound(t *testing.T) {
	mw := NewInternalAuthMiddleware("correct-secret")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/internal/block-ip", nil)
	c.Request.Header.Set("X-Internal-Secret", "wrong-secret")

	mw.RequireSecret()(c)
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequireSecret_CorrectSecretPasses(t *testing.T) {
	mw := NewInternalAuthMiddleware("correct-secret")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/internal/block-ip", nil)
	c.Request.Header.Set("X-Internal-Secret", "correct-secret")

	mw.RequireSecret()(c)
	assert.False(t, c.IsAborted())
}
