package middleware

import (
	"time"

	"productivity-ranker/internal/logger"
	"productivity-ranker/internal/metrics"

	"github.com/gin-gonic/gin"
)

// RequestLogger records one log line and the http metrics per request,
// labelled by route template rather than raw path.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.RequestStarted()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)
		metrics.RequestFinished(c.Request.Method, path, status, elapsed)

		args := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", elapsed.Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if uid := c.GetInt("user_id"); uid != 0 {
			args = append(args, "uid", uid)
		}
		if len(c.Errors) > 0 {
			args = append(args, "err", c.Errors.String())
		}
		if status >= 500 {
			logger.Error("http.request", args...)
		} else {
			logger.Info("http.request", args...)
		}
	}
}
