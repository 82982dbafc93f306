package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// quietPaths are polled constantly by dashboards and load balancers.
var quietPaths = map[string]bool{
	"/health":              true,
	"/api/dashboard/stats": true,
	"/ws":                  true,
}

// LoggingMiddleware logs every completed request with the request-scoped
// logger. Successful reads of polled paths are logged at debug level.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		method := c.Request.Method

		c.Next()

		statusCode := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.Int("status_code", statusCode),
			zap.Duration("latency", time.Since(start)),
		}

		if errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String(); errorMessage != "" {
			fields = append(fields, zap.String("error", errorMessage))
		}

		log := RequestLogger(c)
		switch {
		case statusCode >= 500:
			log.Error("Request completed with server error", fields...)
		case statusCode >= 400:
			log.Warn("Request completed with client error", fields...)
		case method == http.MethodGet && quietPaths[path]:
			log.Debug("Request completed", fields...)
		default:
			log.Info("Request completed", fields...)
		}
	}
}
