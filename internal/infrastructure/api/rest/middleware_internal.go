package rest

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// InternalAuthMiddleware guards the /internal/* routes with a shared-secret header. A wrong or
// missing secret reports NotFound rather than Unauthorized, so the routes' existence isn't
// observable to an unauthorized caller.
type InternalAuthMiddleware struct {
	secret string
}

// NewInternalAuthMiddleware creates the internal-route guard from the configured secret.
func NewInternalAuthMiddleware(secret string) *InternalAuthMiddleware {
	return &InternalAuthMiddleware{secret: secret}
}

// RequireSecret rejects any request whose X-Internal-Secret header doesn't match exactly,
// using a constant-time comparison since this guards routes that can block IPs.
func (m *InternalAuthMiddleware) RequireSecret() gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader("X-Internal-Secret")
		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(m.secret)) != 1 {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		c.Next()
	}
}
