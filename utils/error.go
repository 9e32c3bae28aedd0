package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every non-streaming error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// ErrorHandler recovers panics raised by downstream handlers and answers with a 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				zap.L().Error("Unhandled panic",
					zap.Any("error", err),
					zap.String("path", c.FullPath()),
				)
				if c.Writer.Written() {
					c.Abort()
					return
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error:   "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError logs and sends a standardized JSON error response.
func JSONError(c *gin.Context, status int, message string, details any) {
	fields := []zap.Field{zap.Int("status", status), zap.String("path", c.FullPath())}
	if details != nil {
		fields = append(fields, zap.Any("details", details))
	}
	if status >= http.StatusInternalServerError {
		zap.L().Error(message, fields...)
	} else {
		zap.L().Debug(message, fields...)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message, Details: details})
}
