package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger returns the request-scoped logger RequestLogger stored, which
// already carries the request id. Outside that middleware it is zap.L().
func getLogger(c *gin.Context) *zap.Logger {
	if logger, ok := c.Value("logger").(*zap.Logger); ok && logger != nil {
		return logger
	}
	return zap.L()
}
