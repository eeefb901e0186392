package admin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const ClaimsContextKey = "admin_claims"

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(tokens *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(ClaimsContextKey, claims)
		c.Next()
	}
}
