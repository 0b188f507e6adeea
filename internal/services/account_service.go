package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/MYK-OTAKU/Template-sub000/domain"
)

// AccountAdminServiceImpl implements domain.AccountAdminService. Every
// mutation passes the role hierarchy gate first and bulk-terminates the
// target's sessions so the change takes effect immediately.
type AccountAdminServiceImpl struct {
	accountRepo domain.AccountRepository
	registry    domain.SessionRegistry
	gate        domain.RoleGate
	audit       *auditDispatcher
}

// NewAccountAdminService creates a new account administration service
func NewAccountAdminService(accountRepo domain.AccountRepository, registry domain.SessionRegistry, gate domain.RoleGate, sink domain.AuditSink, log *logrus.Logger) domain.AccountAdminService {
	return &AccountAdminServiceImpl{
		accountRepo: accountRepo,
		registry:    registry,
		gate:        gate,
		audit:       newAuditDispatcher(sink, log),
	}
}

// Deactivate implements domain.AccountAdminService
func (s *AccountAdminServiceImpl) Deactivate(ctx context.Context, actorID uint, actorRole string, targetID uint, actorIP string) (int, error) {
	target, err := s.guard(ctx, actorID, actorRole, targetID, actorIP)
	if err != nil {
		return 0, err
	}

	if err := s.accountRepo.SetActive(ctx, targetID, false); err != nil {
		return 0, err
	}

	count, err := s.registry.TerminateAll(ctx, targetID, domain.ReasonAccountDisabled, actorIP)
	if err != nil {
		return 0, err
	}

	s.audit.dispatch(domain.NewAuditEvent(domain.AuditAccountDeactivated).
		WithActor(actorID).
		WithResource("account", target.Username).
		WithOrigin(actorIP, ""))
	return count, nil
}

// Delete implements domain.AccountAdminService
func (s *AccountAdminServiceImpl) Delete(ctx context.Context, actorID uint, actorRole string, targetID uint, actorIP string) (int, error) {
	target, err := s.guard(ctx, actorID, actorRole, targetID, actorIP)
	if err != nil {
		return 0, err
	}

	// Sessions go first: a deleted account must not keep a live session even
	// if the delete itself fails halfway.
	count, err := s.registry.TerminateAll(ctx, targetID, domain.ReasonUserDeleted, actorIP)
	if err != nil {
		return 0, err
	}

	if err := s.accountRepo.Delete(ctx, targetID); err != nil {
		return count, err
	}

	s.audit.dispatch(domain.NewAuditEvent(domain.AuditAccountDeleted).
		WithActor(actorID).
		WithResource("account", target.Username).
		WithOrigin(actorIP, ""))
	return count, nil
}

// guard loads the target, checks the hierarchy gate and refuses to remove the
// last active administrator.
func (s *AccountAdminServiceImpl) guard(ctx context.Context, actorID uint, actorRole string, targetID uint, actorIP string) (*domain.Account, error) {
	target, err := s.accountRepo.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if !s.gate.CanManage(actorRole, target.Role) {
		detail := fmt.Sprintf("role %s cannot manage role %s", actorRole, target.Role)
		s.audit.dispatch(domain.NewAuditEvent(domain.AuditAccessDenied).
			WithOutcome(domain.OutcomeFailure).
			WithActor(actorID).
			WithResource("account", strconv.FormatUint(uint64(targetID), 10)).
			WithOrigin(actorIP, "").
			WithDetail(detail))
		// The role names ride on the error so the refusal response can name
		// them; callers match with errors.Is.
		return nil, fmt.Errorf("%s: %w", detail, domain.ErrInsufficientRole)
	}

	if target.Role == domain.RoleAdministrateur && target.IsActive {
		admins, err := s.accountRepo.CountActiveAdmins(ctx)
		if err != nil {
			return nil, domain.ErrStoreUnavailable
		}
		if admins <= 1 {
			return nil, domain.ErrLastActiveAdmin
		}
	}

	return target, nil
}
