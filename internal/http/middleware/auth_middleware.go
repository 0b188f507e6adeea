package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MYK-OTAKU/Template-sub000/domain"
)

// AuthMiddleware creates authentication middleware. Beyond validating the
// bearer token it re-checks the session against the registry, so an
// administratively terminated session stops working before the token
// expires, and bumps the session activity (which is where IP drift is
// detected).
func AuthMiddleware(tokenSvc domain.TokenService, registry domain.SessionRegistry) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		tokenParts := strings.SplitN(authHeader, " ", 2)
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := tokenSvc.ValidateAccessToken(tokenParts[1])
		if err != nil {
			switch err {
			case domain.ErrTokenExpired:
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
			case domain.ErrTokenInvalid, domain.ErrTokenMalformed:
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			default:
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token validation failed"})
			}
			c.Abort()
			return
		}

		if claims.SessionID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token carries no session"})
			c.Abort()
			return
		}

		session, err := registry.TouchActivity(c.Request.Context(), claims.SessionID, c.ClientIP())
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session invalid or expired"})
			c.Abort()
			return
		}

		if session.AccountID != claims.AccountID {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session account mismatch"})
			c.Abort()
			return
		}

		c.Set("account_id", fmt.Sprintf("%d", claims.AccountID))
		c.Set("account_role", claims.Role)
		c.Set("session_id", claims.SessionID)

		c.Next()
	})
}
