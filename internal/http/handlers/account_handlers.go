package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MYK-OTAKU/Template-sub000/domain"
)

// AccountHandlers handles administrative account endpoints
type AccountHandlers struct {
	adminSvc    domain.AccountAdminService
	accountRepo domain.AccountRepository
	registry    domain.SessionRegistry
	gate        domain.RoleGate
}

// NewAccountHandlers creates new account handlers
func NewAccountHandlers(adminSvc domain.AccountAdminService, accountRepo domain.AccountRepository, registry domain.SessionRegistry, gate domain.RoleGate) *AccountHandlers {
	return &AccountHandlers{
		adminSvc:    adminSvc,
		accountRepo: accountRepo,
		registry:    registry,
		gate:        gate,
	}
}

// CanManage answers whether the authenticated role may administer the target
// account's role. Pure check, no side effects.
func (h *AccountHandlers) CanManage(c *gin.Context) {
	targetID, ok := targetIDFromParam(c)
	if !ok {
		return
	}

	target, err := h.accountRepo.FindByID(c.Request.Context(), targetID)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lookup failed"})
		return
	}

	actorRole := c.GetString("account_role")
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"actor_role":  actorRole,
			"target_role": target.Role,
			"can_manage":  h.gate.CanManage(actorRole, target.Role),
		},
	})
}

// Deactivate disables the target account and terminates its sessions.
func (h *AccountHandlers) Deactivate(c *gin.Context) {
	h.adminMutation(c, h.adminSvc.Deactivate)
}

// Delete removes the target account and terminates its sessions.
func (h *AccountHandlers) Delete(c *gin.Context) {
	h.adminMutation(c, h.adminSvc.Delete)
}

// TerminateSession ends one session by id with reason ADMIN_TERMINATED.
func (h *AccountHandlers) TerminateSession(c *gin.Context) {
	sessionID := c.Param("id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID required"})
		return
	}

	err := h.registry.Terminate(c.Request.Context(), sessionID, domain.ReasonAdminTerminated, c.ClientIP())
	if err != nil {
		if err == domain.ErrSessionNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to terminate session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"message": "Session terminated"},
	})
}

// adminMutation runs a gate-guarded account mutation and maps its errors.
func (h *AccountHandlers) adminMutation(c *gin.Context, op func(ctx context.Context, actorID uint, actorRole string, targetID uint, actorIP string) (int, error)) {
	actorID, ok := accountIDFromContext(c)
	if !ok {
		return
	}
	targetID, ok := targetIDFromParam(c)
	if !ok {
		return
	}

	count, err := op(c.Request.Context(), actorID, c.GetString("account_role"), targetID, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientRole):
			// Role names are surfaced: not secret, and they help a legitimate
			// admin understand the denial.
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient role level", "detail": err.Error()})
		case errors.Is(err, domain.ErrLastActiveAdmin):
			c.JSON(http.StatusConflict, gin.H{"error": "Cannot remove the last active administrator"})
		case errors.Is(err, domain.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		case errors.Is(err, domain.ErrStoreUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Operation failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message":             "Account updated",
			"terminated_sessions": count,
		},
	})
}

// targetIDFromParam parses the :id route parameter. On failure it writes the
// error response itself.
func targetIDFromParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID"})
		return 0, false
	}
	return uint(id), true
}
