package middleware

import (
	"errors"
	"net/http"

	"topjob-gateway/internal/delivery/http/response"
	"topjob-gateway/pkg/apperror"
	"topjob-gateway/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Check if there are errors appended to the context
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				response.Error(c, appErr.Code, appErr.Message, nil)
			} else {
				// Log the actual error server-side; clients only get a
				// generic message so internals are never disclosed.
				logger.Log.Error("Unhandled request error", "error", err, "path", c.FullPath())
				response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
			}
		}
	}
}
