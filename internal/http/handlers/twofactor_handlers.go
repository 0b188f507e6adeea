package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MYK-OTAKU/Template-sub000/domain"
)

// TwoFactorHandlers handles the self-service TOTP lifecycle endpoints
type TwoFactorHandlers struct {
	twoFactorSvc domain.TwoFactorService
}

// NewTwoFactorHandlers creates new two-factor handlers
func NewTwoFactorHandlers(twoFactorSvc domain.TwoFactorService) *TwoFactorHandlers {
	return &TwoFactorHandlers{twoFactorSvc: twoFactorSvc}
}

// EnableRequest represents a two-factor enable request
type EnableRequest struct {
	ForceNewSecret bool `json:"force_new_secret"`
}

// DisableRequest represents a two-factor disable request
type DisableRequest struct {
	KeepSecret bool `json:"keep_secret"`
}

// Enable turns two-factor on for the authenticated account, self-repairing a
// degraded enabled-without-secret state.
func (h *TwoFactorHandlers) Enable(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		return
	}

	var req EnableRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	enrollment, err := h.twoFactorSvc.Enable(c.Request.Context(), accountID, req.ForceNewSecret, c.ClientIP())
	if err != nil {
		switch err {
		case domain.ErrTwoFactorAlreadyEnabled:
			c.JSON(http.StatusConflict, gin.H{"error": "Two-factor authentication already enabled"})
		case domain.ErrAccountNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enable two-factor authentication"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": enrollmentBody(enrollment)})
}

// Disable turns two-factor off and terminates every session of the account.
func (h *TwoFactorHandlers) Disable(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		return
	}

	var req DisableRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := h.twoFactorSvc.Disable(c.Request.Context(), accountID, req.KeepSecret, c.ClientIP()); err != nil {
		switch err {
		case domain.ErrTwoFactorNotEnabled:
			c.JSON(http.StatusConflict, gin.H{"error": "Two-factor authentication not enabled"})
		case domain.ErrAccountNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to disable two-factor authentication"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "Two-factor authentication disabled"},
	})
}

// Regenerate always issues a fresh secret for an enabled account.
func (h *TwoFactorHandlers) Regenerate(c *gin.Context) {
	accountID, ok := accountIDFromContext(c)
	if !ok {
		return
	}

	enrollment, err := h.twoFactorSvc.Regenerate(c.Request.Context(), accountID, c.ClientIP())
	if err != nil {
		switch err {
		case domain.ErrTwoFactorNotEnabled:
			c.JSON(http.StatusConflict, gin.H{"error": "Two-factor authentication not enabled"})
		case domain.ErrAccountNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to regenerate two-factor secret"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": enrollmentBody(enrollment)})
}

func enrollmentBody(enrollment *domain.TwoFactorEnrollment) gin.H {
	return gin.H{
		"secret":           enrollment.Secret,
		"provisioning_uri": enrollment.ProvisioningURI,
	}
}
