package middleware

import (
	"topjob-gateway/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID tags every request with a unique id, echoed in the response
// envelope and the X-Request-ID header for log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(string(domain.KeyRequestID), requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}
