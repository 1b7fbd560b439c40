package middlewares

import (
	"net/http"
	"strings"

	"DoctorPortal/services"

	"github.com/gin-gonic/gin"
)

// AdminAuth проверяет JWT администратора из заголовка Authorization
// или query-параметра token (для websocket-соединений)
func AdminAuth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimPrefix(header, "Bearer ")
		} else {
			token = c.Query("token")
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		identity, err := auth.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set("admin_email", identity.Email)
		c.Next()
	}
}
