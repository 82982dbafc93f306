package middleware

import (
	"net/http"

	"coldchain-monitor/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Telemetry and shipment payloads are small JSON documents.
const DefaultMaxRequestSize = 1 << 20

// RequestSizeLimitMiddleware rejects bodies larger than maxSize bytes.
func RequestSizeLimitMiddleware(maxSize int64) gin.HandlerFunc {
	if maxSize <= 0 {
		maxSize = DefaultMaxRequestSize
	}

	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "Request body too large")
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}
