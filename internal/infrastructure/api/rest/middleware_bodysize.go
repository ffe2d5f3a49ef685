package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodySizeMiddleware caps request body size to keep a single oversized upload from tying up a
// handler.
type BodySizeMiddleware struct {
	maxBodySize int64
}

// NewBodySizeMiddleware creates the body-size-limiting middleware.
func NewBodySizeMiddleware(maxBodySize int64) *BodySizeMiddleware {
	return &BodySizeMiddleware{maxBodySize: maxBodySize}
}

func (m *BodySizeMiddleware) LimitBodySize() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, m.maxBodySize)
		c.Next()
	}
}
