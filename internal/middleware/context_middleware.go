package middleware

import (
	"go-leave/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContextLogger attaches a request-scoped logger to the request context.
// AuthMiddleware adds user_id to it later on authenticated routes.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetString("request_id")
		if rid == "" {
			rid = c.GetHeader("X-Request-ID")
		}
		if rid == "" {
			rid = uuid.New().String()
			c.Header("X-Request-ID", rid)
		}

		reqLogger := logger.With(zap.String("request_id", rid))

		ctx := contextutil.WithRequestID(c.Request.Context(), rid)
		if uid := c.GetInt64("user_id"); uid != 0 {
			reqLogger = reqLogger.With(zap.Int64("user_id", uid))
			ctx = contextutil.WithUserID(ctx, uid)
		}
		ctx = contextutil.WithLogger(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
