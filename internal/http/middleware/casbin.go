package middleware

import (
	"net/http"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
)

// CasbinMW wraps the casbin enforcer for route-level permission checks.
// Actor-vs-target role comparisons are handled separately by the hierarchy
// gate; this middleware only answers "may this role hit this route".
type CasbinMW struct {
	enforcer *casbin.Enforcer
}

// NewCasbinMW creates new casbin middleware wrapper
func NewCasbinMW(enforcer *casbin.Enforcer) *CasbinMW {
	return &CasbinMW{enforcer: enforcer}
}

// Enforce returns the casbin authorization middleware
func (mw *CasbinMW) Enforce() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		_, accountExists := c.Get("account_id")
		role, roleExists := c.Get("account_role")
		if !accountExists || !roleExists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Account ID or role not found in token"})
			c.Abort()
			return
		}

		casbinRole := "role_" + role.(string)
		allowed, err := mw.enforcer.Enforce(casbinRole, c.Request.URL.Path, c.Request.Method)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Authorization check failed"})
			c.Abort()
			return
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access Denied"})
			c.Abort()
			return
		}

		c.Next()
	})
}
