package middleware

import (
	"coldchain-monitor/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"

	requestLoggerKey = "request_logger"
)

// RequestIDMiddleware assigns a request ID, echoes it in the response and
// attaches a logger carrying it.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Set(requestLoggerKey, logger.WithRequestID(requestID))
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID retrieves the request ID from the Gin context.
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

// RequestLogger returns the request-scoped logger, or the global one when
// RequestIDMiddleware did not run.
func RequestLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get(requestLoggerKey); exists {
		if log, ok := l.(*zap.Logger); ok {
			return log
		}
	}
	return logger.Logger
}
