package middleware

import (
	"net/http"
	"strings"

	"github.com/developia-II/servicehub-backend/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware verifies the Bearer token and stores the caller's identity
// in the request context for downstream handlers.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Authorization header is required"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Authorization header must be Bearer token"))
			c.Abort()
			return
		}

		claims, err := utils.VerifyToken(parts[1])
		if err != nil {
			// 401 so the frontend knows to refresh its token
			c.JSON(http.StatusUnauthorized, utils.ErrorResponse(err.Error()))
			c.Abort()
			return
		}

		c.Set("userId", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RoleMiddleware rejects callers whose role is not in the allowed set.
// Must run after AuthMiddleware.
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Role not found in context"))
			c.Abort()
			return
		}

		userRole, _ := role.(string)
		allowed := false
		for _, r := range allowedRoles {
			if strings.EqualFold(userRole, r) {
				allowed = true
				break
			}
		}

		if !allowed {
			c.JSON(http.StatusForbidden, utils.ErrorResponse("You do not have permission to access this resource"))
			c.Abort()
			return
		}

		c.Next()
	}
}
