package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MYK-OTAKU/Template-sub000/domain"
	"github.com/MYK-OTAKU/Template-sub000/internal/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(tokenSvc domain.TokenService, registry domain.SessionRegistry) *gin.Engine {
	router := gin.New()
	router.GET("/protected", AuthMiddleware(tokenSvc, registry), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"account_id": c.GetString("account_id"),
			"role":       c.GetString("account_role"),
			"session_id": c.GetString("session_id"),
		})
	})
	return router
}

func perform(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validClaims() *domain.TokenClaims {
	return &domain.TokenClaims{AccountID: 7, Role: domain.RoleManager, SessionID: "sess-1"}
}

func TestAuthMiddlewareAllowsLiveSession(t *testing.T) {
	tokenSvc := mocks.NewMockTokenService()
	tokenSvc.ValidateAccessTokenFunc = func(token string) (*domain.TokenClaims, error) {
		return validClaims(), nil
	}
	registry := mocks.NewMockSessionRegistry()
	var touched string
	registry.TouchActivityFunc = func(ctx context.Context, sessionID, currentIP string) (*domain.Session, error) {
		touched = sessionID
		return &domain.Session{ID: sessionID, AccountID: 7, IsActive: true}, nil
	}

	w := perform(protectedRouter(tokenSvc, registry), "Bearer good-token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sess-1", touched)
	assert.Contains(t, w.Body.String(), `"account_id":"7"`)
	assert.Contains(t, w.Body.String(), `"session_id":"sess-1"`)
}

func TestAuthMiddlewareHeaderValidation(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"no token part", "Bearer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(protectedRouter(mocks.NewMockTokenService(), mocks.NewMockSessionRegistry()), tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthMiddlewareTokenErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"expired", domain.ErrTokenExpired},
		{"invalid", domain.ErrTokenInvalid},
		{"malformed", domain.ErrTokenMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenSvc := mocks.NewMockTokenService()
			tokenSvc.ValidateAccessTokenFunc = func(token string) (*domain.TokenClaims, error) {
				return nil, tt.err
			}

			w := perform(protectedRouter(tokenSvc, mocks.NewMockSessionRegistry()), "Bearer bad")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthMiddlewareRejectsSessionlessToken(t *testing.T) {
	tokenSvc := mocks.NewMockTokenService()
	tokenSvc.ValidateAccessTokenFunc = func(token string) (*domain.TokenClaims, error) {
		return &domain.TokenClaims{AccountID: 7, Role: domain.RoleManager}, nil
	}

	w := perform(protectedRouter(tokenSvc, mocks.NewMockSessionRegistry()), "Bearer token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsRevokedSession(t *testing.T) {
	// A valid, unexpired token dies with its session.
	tokenSvc := mocks.NewMockTokenService()
	tokenSvc.ValidateAccessTokenFunc = func(token string) (*domain.TokenClaims, error) {
		return validClaims(), nil
	}
	registry := mocks.NewMockSessionRegistry()
	registry.TouchActivityFunc = func(ctx context.Context, sessionID, currentIP string) (*domain.Session, error) {
		return nil, domain.ErrSessionRevoked
	}

	w := perform(protectedRouter(tokenSvc, registry), "Bearer still-valid")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsAccountMismatch(t *testing.T) {
	tokenSvc := mocks.NewMockTokenService()
	tokenSvc.ValidateAccessTokenFunc = func(token string) (*domain.TokenClaims, error) {
		return validClaims(), nil
	}
	registry := mocks.NewMockSessionRegistry()
	registry.TouchActivityFunc = func(ctx context.Context, sessionID, currentIP string) (*domain.Session, error) {
		return &domain.Session{ID: sessionID, AccountID: 999, IsActive: true}, nil
	}

	w := perform(protectedRouter(tokenSvc, registry), "Bearer token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
