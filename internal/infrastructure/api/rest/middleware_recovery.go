package rest

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/agoraforge/agora/internal/infrastructure/logger"
	"github.com/agoraforge/agora/pkg/models"
)

// RecoveryMiddleware converts a panic in a downstream handler into an InternalError envelope
// instead of letting gin's default recovery write a bare 500.
type RecoveryMiddleware struct {
	logger *logger.Logger
}

// NewRecoveryMiddleware creates the panic-recovery middleware.
func NewRecoveryMiddleware(log *logger.Logger) *RecoveryMiddleware {
	return &RecoveryMiddleware{logger: log}
}

func (m *RecoveryMiddleware) Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				requestID := GetRequestID(c)
				userID, _ := GetUserID(c)

				m.logger.Error("panic recovered",
					"request_id", requestID,
					"user_id", userID,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"error", r,
					"stack", string(debug.Stack()),
				)

				respondError(c, models.ErrInternal)
			}
		}()

		c.Next()
	}
}
