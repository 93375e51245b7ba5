package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avtriage/avtriage/internal/logging"
)

// Logger middleware logs request details
func Logger(log *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		reqLog := log
		if requestID := GetRequestID(c); requestID != "" {
			reqLog = log.WithRequestID(requestID)
		}

		reqLog.LogHTTPRequest(
			c.Request.Method,
			path,
			c.ClientIP(),
			c.Writer.Status(),
			time.Since(start),
		)
	}
}
