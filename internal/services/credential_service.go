package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/MYK-OTAKU/Template-sub000/domain"
)

// CredentialVerifierImpl implements domain.CredentialVerifier
type CredentialVerifierImpl struct {
	accountRepo domain.AccountRepository
	passwordSvc domain.PasswordService
	audit       *auditDispatcher
}

// NewCredentialVerifier creates a new credential verifier
func NewCredentialVerifier(accountRepo domain.AccountRepository, passwordSvc domain.PasswordService, sink domain.AuditSink, log *logrus.Logger) domain.CredentialVerifier {
	return &CredentialVerifierImpl{
		accountRepo: accountRepo,
		passwordSvc: passwordSvc,
		audit:       newAuditDispatcher(sink, log),
	}
}

// Verify implements domain.CredentialVerifier. Every failure path returns the
// same error shape to the caller; the distinguishing sub-reason goes to the
// audit sink only. The missing-account path performs a dummy digest compare
// so its timing matches a wrong password.
func (s *CredentialVerifierImpl) Verify(ctx context.Context, username, password, ip, userAgent string) (*domain.Account, error) {
	if username == "" || password == "" {
		s.auditFailure(nil, username, "empty credentials", ip, userAgent)
		return nil, domain.ErrInvalidCredentials
	}

	account, err := s.accountRepo.FindByUsername(ctx, username)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			s.passwordSvc.DummyVerify(password)
			s.auditFailure(nil, username, "unknown username", ip, userAgent)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, domain.ErrStoreUnavailable
	}

	if !s.passwordSvc.Verify(account.PasswordHash, password) {
		s.auditFailure(account, username, "password mismatch", ip, userAgent)
		return nil, domain.ErrInvalidCredentials
	}

	if !account.IsActive {
		s.auditFailure(account, username, "account disabled", ip, userAgent)
		return nil, domain.ErrAccountDisabled
	}

	// Success is audited by the orchestrator once the session exists.
	return account, nil
}

func (s *CredentialVerifierImpl) auditFailure(account *domain.Account, username, reason, ip, userAgent string) {
	event := domain.NewAuditEvent(domain.AuditLoginFailed).
		WithOutcome(domain.OutcomeFailure).
		WithResource("account", username).
		WithOrigin(ip, userAgent).
		WithDetail(reason)
	if account != nil {
		event.WithActor(account.ID)
	}
	s.audit.dispatch(event)
}
