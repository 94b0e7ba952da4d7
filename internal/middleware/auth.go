// internal/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stylelens/catalogue-backend/internal/services"
	"github.com/stylelens/catalogue-backend/internal/utils"
)

// AuthRequired extracts the bearer token and attaches the Supabase user to
// the request context. With a configured JWT secret the token is verified
// locally; otherwise it is resolved through a GoTrue round trip.
func AuthRequired(authService *services.AuthService, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			c.Abort()
			return
		}
		token := parts[1]

		if jwtSecret != "" {
			claims, err := utils.ParseSupabaseToken(token, jwtSecret)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
				c.Abort()
				return
			}

			c.Set("user_id", claims.Subject)
			c.Set("user_email", claims.Email)
			c.Next()
			return
		}

		user, err := authService.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", user.ID.String())
		c.Set("user_email", user.Email)
		c.Next()
	}
}
