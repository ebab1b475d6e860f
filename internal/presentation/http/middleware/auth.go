package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/StockFoundry/marketbridge-go/internal/infrastructure/security"
	"github.com/StockFoundry/marketbridge-go/pkg/config"
)

// AdminAuthMiddleware gates the monitor and resolve endpoints behind the
// admin JWT, accepted as a Bearer header, the admin_auth cookie, or (for
// websocket clients that cannot set headers) a token query parameter.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""

		if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
			token = authHeader[7:]
		}
		if token == "" {
			if cookie, err := c.Cookie("admin_auth"); err == nil {
				token = cookie
			}
		}
		if token == "" {
			token = c.Query("token")
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		claims, err := security.ValidateJWT(token, config.JWTSecret)
		if err != nil || !security.IsAdminClaims(claims) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Next()
	}
}
