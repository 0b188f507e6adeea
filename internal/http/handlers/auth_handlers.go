package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MYK-OTAKU/Template-sub000/domain"
)

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authSvc domain.AuthService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc}
}

// LoginRequest represents login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// VerifyTwoFactorRequest represents the second step of a two-factor login
type VerifyTwoFactorRequest struct {
	ChallengeToken string `json:"challenge_token" binding:"required"`
	Code           string `json:"code" binding:"required"`
}

// Login handles the first authentication step. The response is either a full
// access token or a pending two-factor challenge. Unknown-username and
// wrong-password rejections are byte-identical.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, challenge, err := h.authSvc.Login(c.Request.Context(), req.Username, req.Password, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		switch err {
		case domain.ErrInvalidCredentials:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		case domain.ErrAccountDisabled:
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is disabled"})
		case domain.ErrStoreUnavailable:
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		}
		return
	}

	if challenge != nil {
		data := gin.H{
			"two_factor_required": true,
			"challenge_token":     challenge.ChallengeToken,
			"expires_in":          challenge.ExpiresIn,
		}
		if challenge.ProvisioningURI != "" {
			data["secret"] = challenge.Secret
			data["provisioning_uri"] = challenge.ProvisioningURI
		}
		c.JSON(http.StatusOK, gin.H{"data": data})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": loginResultBody(result)})
}

// VerifyTwoFactor handles the second authentication step
func (h *AuthHandlers) VerifyTwoFactor(c *gin.Context) {
	var req VerifyTwoFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.VerifyTwoFactor(c.Request.Context(), req.ChallengeToken, req.Code, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		switch err {
		case domain.ErrChallengeInvalid:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Challenge expired or invalid"})
		case domain.ErrInvalidTwoFactorCode:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid two-factor code"})
		case domain.ErrAccountDisabled:
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is disabled"})
		case domain.ErrStoreUnavailable:
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": loginResultBody(result)})
}

// Logout handles user logout (requires authentication). Idempotent: a second
// logout reports zero terminated sessions.
func (h *AuthHandlers) Logout(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		return
	}
	sessionID := c.GetString("session_id")

	count, err := h.authSvc.Logout(c.Request.Context(), accountID, sessionID, c.ClientIP())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message":             "Logged out successfully",
			"terminated_sessions": count,
		},
	})
}

// Me handles getting the authenticated account profile
func (h *AuthHandlers) Me(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		return
	}

	account, err := h.authSvc.Profile(c.Request.Context(), accountID)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"id":                 account.ID,
			"username":           account.Username,
			"role":               account.Role,
			"is_active":          account.IsActive,
			"two_factor_enabled": account.TwoFactorEnabled,
			"last_login_at":      account.LastLoginAt,
			"created_at":         account.CreatedAt,
		},
	})
}

func loginResultBody(result *domain.LoginResult) gin.H {
	return gin.H{
		"access_token": result.AccessToken,
		"token_type":   "Bearer",
		"expires_in":   result.ExpiresIn,
		"session_id":   result.SessionID,
		"account": gin.H{
			"id":       result.Account.ID,
			"username": result.Account.Username,
			"role":     result.Account.Role,
		},
	}
}

// accountIDFromContext reads the account id the auth middleware stored. On
// failure it writes the error response itself.
func accountIDFromContext(c *gin.Context) (uint, bool) {
	raw, exists := c.Get("account_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account ID not found in context"})
		return 0, false
	}
	id, err := strconv.ParseUint(raw.(string), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID"})
		return 0, false
	}
	return uint(id), true
}
