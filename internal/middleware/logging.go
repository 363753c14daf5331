package middleware

import (
	"time"

	"github.com/blogapp/internal/logger"
	"github.com/gin-gonic/gin"
)

// RequestLogger 按请求记录方法、路径、状态码与耗时。
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		fields := logger.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"ip":         c.ClientIP(),
		}
		if user := CurrentUser(c); user != nil {
			fields["user_id"] = user.ID
		}

		switch {
		case status >= 500:
			logger.Error(fields, "server error")
		case status >= 400:
			logger.Warn(fields, "client error")
		default:
			logger.Info(fields, "request")
		}
	}
}
