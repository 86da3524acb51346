package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mesaja/seating/utils"
)

// WebSocketAuth reads the staff token from the query string, since browsers
// cannot set headers on a websocket handshake.
func WebSocketAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		claims, err := utils.ParseToken(secret, token)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set("staff", claims.Name)
		c.Set("role", claims.Role)
		c.Next()
	}
}
