package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MYK-OTAKU/Template-sub000/domain"
)

// AuthServiceImpl implements domain.AuthService. It drives the login state
// machine: Anonymous -> CredentialsChecked -> {Authenticated |
// TwoFactorPending} -> Authenticated -> LoggedOut.
type AuthServiceImpl struct {
	credentials    domain.CredentialVerifier
	twoFactorSvc   domain.TwoFactorService
	registry       domain.SessionRegistry
	accountRepo    domain.AccountRepository
	tokenSvc       domain.TokenService
	challengeStore domain.ChallengeStore
	audit          *auditDispatcher
	now            func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	credentials domain.CredentialVerifier,
	twoFactorSvc domain.TwoFactorService,
	registry domain.SessionRegistry,
	accountRepo domain.AccountRepository,
	tokenSvc domain.TokenService,
	challengeStore domain.ChallengeStore,
	sink domain.AuditSink,
	log *logrus.Logger,
) domain.AuthService {
	return &AuthServiceImpl{
		credentials:    credentials,
		twoFactorSvc:   twoFactorSvc,
		registry:       registry,
		accountRepo:    accountRepo,
		tokenSvc:       tokenSvc,
		challengeStore: challengeStore,
		audit:          newAuditDispatcher(sink, log),
		now:            time.Now,
	}
}

// Login implements domain.AuthService
func (s *AuthServiceImpl) Login(ctx context.Context, username, password, ip, userAgent string) (*domain.LoginResult, *domain.TwoFactorChallenge, error) {
	account, err := s.credentials.Verify(ctx, username, password, ip, userAgent)
	if err != nil {
		return nil, nil, err
	}

	if account.TwoFactorEnabled {
		challenge, err := s.issueChallenge(ctx, account, ip, userAgent)
		if err != nil {
			return nil, nil, err
		}
		return nil, challenge, nil
	}

	result, err := s.completeLogin(ctx, account, ip, userAgent, domain.ReasonNewLogin)
	if err != nil {
		return nil, nil, err
	}
	return result, nil, nil
}

// VerifyTwoFactor implements domain.AuthService. The challenge is consumed
// only on success; an invalid code leaves it pending so the caller may retry
// until the token expires.
func (s *AuthServiceImpl) VerifyTwoFactor(ctx context.Context, challengeToken, code, ip, userAgent string) (*domain.LoginResult, error) {
	claims, err := s.tokenSvc.ValidateChallengeToken(challengeToken)
	if err != nil {
		return nil, domain.ErrChallengeInvalid
	}

	pending, err := s.challengeStore.Pending(ctx, claims.JTI)
	if err != nil {
		return nil, domain.ErrStoreUnavailable
	}
	if !pending {
		// Already consumed or expired: restart from anonymous.
		return nil, domain.ErrChallengeInvalid
	}

	account, err := s.accountRepo.FindByID(ctx, claims.AccountID)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			return nil, domain.ErrChallengeInvalid
		}
		return nil, domain.ErrStoreUnavailable
	}
	if !account.IsActive {
		return nil, domain.ErrAccountDisabled
	}

	if !s.twoFactorSvc.VerifyCode(account.TwoFactorSecret, code) {
		s.audit.dispatch(domain.NewAuditEvent(domain.AuditLogin2FAFailed).
			WithOutcome(domain.OutcomeFailure).
			WithActor(account.ID).
			WithResource("account", account.Username).
			WithOrigin(ip, userAgent))
		return nil, domain.ErrInvalidTwoFactorCode
	}

	consumed, err := s.challengeStore.Consume(ctx, claims.JTI)
	if err != nil {
		return nil, domain.ErrStoreUnavailable
	}
	if !consumed {
		// Lost the race against a concurrent verify of the same challenge.
		return nil, domain.ErrChallengeInvalid
	}

	return s.completeLogin(ctx, account, ip, userAgent, domain.ReasonNewLogin2FA)
}

// Logout implements domain.AuthService. Idempotent: terminating zero sessions
// is a success with count zero.
func (s *AuthServiceImpl) Logout(ctx context.Context, accountID uint, sessionID, ip string) (int, error) {
	count, err := s.registry.TerminateAll(ctx, accountID, domain.ReasonExplicit, ip)
	if err != nil {
		return 0, err
	}

	s.audit.dispatch(domain.NewAuditEvent(domain.AuditLogout).
		WithActor(accountID).
		WithResource("session", sessionID).
		WithOrigin(ip, ""))
	return count, nil
}

// Profile implements domain.AuthService
func (s *AuthServiceImpl) Profile(ctx context.Context, accountID uint) (*domain.Account, error) {
	return s.accountRepo.FindByID(ctx, accountID)
}

// issueChallenge moves the login to TwoFactorPending: a short-lived single
// purpose token, registered in the challenge store for single use. When the
// secret is missing or policy forces regeneration, the fresh enrollment rides
// along on the challenge response.
func (s *AuthServiceImpl) issueChallenge(ctx context.Context, account *domain.Account, ip, userAgent string) (*domain.TwoFactorChallenge, error) {
	enrollment, err := s.twoFactorSvc.EnsureLoginSecret(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare two-factor secret: %w", err)
	}

	token, jti, err := s.tokenSvc.GenerateChallengeToken(account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate challenge token: %w", err)
	}

	if err := s.challengeStore.Put(ctx, jti, account.ID, s.tokenSvc.ChallengeTTL()); err != nil {
		return nil, domain.ErrStoreUnavailable
	}

	s.audit.dispatch(domain.NewAuditEvent(domain.AuditLogin2FAChallenge).
		WithActor(account.ID).
		WithResource("account", account.Username).
		WithOrigin(ip, userAgent))

	challenge := &domain.TwoFactorChallenge{
		ChallengeToken: token,
		ExpiresIn:      int64(s.tokenSvc.ChallengeTTL().Seconds()),
	}
	if enrollment != nil {
		challenge.Secret = enrollment.Secret
		challenge.ProvisioningURI = enrollment.ProvisioningURI
	}
	return challenge, nil
}

// completeLogin creates the session (displacing any prior one), stamps the
// last login and issues the access token.
func (s *AuthServiceImpl) completeLogin(ctx context.Context, account *domain.Account, ip, userAgent string, displacedReason domain.TerminationReason) (*domain.LoginResult, error) {
	session, err := s.registry.CreateSession(ctx, account.ID, ip, userAgent, displacedReason)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.accountRepo.UpdateLastLogin(ctx, account.ID, now); err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}
	account.LastLoginAt = &now

	accessToken, err := s.tokenSvc.GenerateAccessToken(account.ID, account.Role, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.audit.dispatch(domain.NewAuditEvent(domain.AuditLoginSuccess).
		WithActor(account.ID).
		WithResource("session", session.ID).
		WithOrigin(ip, userAgent))

	return &domain.LoginResult{
		Account:     account,
		AccessToken: accessToken,
		SessionID:   session.ID,
		ExpiresIn:   int64(s.tokenSvc.AccessTTL().Seconds()),
	}, nil
}
