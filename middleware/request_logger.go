package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestLogger attaches a request-scoped logger to the context and logs one
// line per request.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)
		reqLogger := logger.With(zap.String("requestId", requestID))
		c.Set("logger", reqLogger)

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", getClientIP(c)),
		}
		if p, ok := GetPrincipal(c); ok {
			fields = append(fields, zap.String("userId", p.UserID))
		}
		switch {
		case c.Writer.Status() >= 500:
			reqLogger.Error("Request", fields...)
		case c.Writer.Status() >= 400:
			reqLogger.Warn("Request", fields...)
		default:
			reqLogger.Info("Request", fields...)
		}
	}
}
