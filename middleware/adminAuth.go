package middleware

import (
	"net/http"
	"strings"

	"junkbutler/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JWTAuthAdminMiddleware admits requests carrying a valid admin token.
func JWTAuthAdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		email, err := utils.ValidateAdminToken(tokenString)
		if err != nil {
			zap.L().Debug("Admin token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized admin access"})
			return
		}

		c.Set("adminEmail", email)
		c.Set("isAdmin", true)
		c.Next()
	}
}
