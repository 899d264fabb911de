package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger пишет в лог каждый запрос. Приватные ошибки (не видимые клиенту) попадают в поле error.
func Logger(l *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			path += "?" + c.Request.URL.RawQuery
		}

		c.Next()

		entry := l.WithFields(logrus.Fields{
			"component": "http",
			"method":    c.Request.Method,
			"path":      path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"clientIP":  c.ClientIP(),
		})

		if private := c.Errors.ByType(gin.ErrorTypePrivate); len(private) > 0 {
			entry.WithField("error", private.String()).Error("request failed")
			return
		}
		entry.Info("request")
	}
}
