package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/MYK-OTAKU/Template-sub000/domain"
)

// AuthMW wraps the token service and session registry for middleware
type AuthMW struct {
	tokenSvc domain.TokenService
	registry domain.SessionRegistry
}

// NewAuthMW creates new auth middleware wrapper
func NewAuthMW(tokenSvc domain.TokenService, registry domain.SessionRegistry) *AuthMW {
	return &AuthMW{
		tokenSvc: tokenSvc,
		registry: registry,
	}
}

// WithJWT returns the JWT middleware function
func (mw *AuthMW) WithJWT() gin.HandlerFunc {
	return AuthMiddleware(mw.tokenSvc, mw.registry)
}
