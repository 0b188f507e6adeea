package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MYK-OTAKU/Template-sub000/domain"
	"github.com/MYK-OTAKU/Template-sub000/internal/mocks"
)

type authFixture struct {
	svc            domain.AuthService
	credentials    *mocks.MockCredentialVerifier
	twoFactor      *mocks.MockTwoFactorService
	registry       *mocks.MockSessionRegistry
	accountRepo    *mocks.MockAccountRepository
	tokenSvc       *mocks.MockTokenService
	challengeStore *mocks.MockChallengeStore
	sink           *mocks.MockAuditSink
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		credentials:    mocks.NewMockCredentialVerifier(),
		twoFactor:      mocks.NewMockTwoFactorService(),
		registry:       mocks.NewMockSessionRegistry(),
		accountRepo:    mocks.NewMockAccountRepository(),
		tokenSvc:       mocks.NewMockTokenService(),
		challengeStore: mocks.NewMockChallengeStore(),
		sink:           mocks.NewMockAuditSink(),
	}
	f.svc = NewAuthService(f.credentials, f.twoFactor, f.registry, f.accountRepo, f.tokenSvc, f.challengeStore, f.sink, testLogger())
	return f
}

func plainAccount() *domain.Account {
	return &domain.Account{ID: 7, Username: "alice", Role: domain.RoleManager, IsActive: true}
}

func twoFactorAccount() *domain.Account {
	account := plainAccount()
	account.TwoFactorEnabled = true
	account.TwoFactorSecret = "HEALTHYSECRETHEALTHYSECRETHEALTH"
	return account
}

func TestLoginWithoutTwoFactor(t *testing.T) {
	f := newAuthFixture()
	f.credentials.VerifyFunc = func(ctx context.Context, username, password, ip, userAgent string) (*domain.Account, error) {
		return plainAccount(), nil
	}

	var displacedReason domain.TerminationReason
	f.registry.CreateSessionFunc = func(ctx context.Context, accountID uint, ip, userAgent string, reason domain.TerminationReason) (*domain.Session, error) {
		displacedReason = reason
		return &domain.Session{ID: "sess-1", AccountID: accountID, IsActive: true}, nil
	}

	result, challenge, err := f.svc.Login(context.Background(), "alice", "s3cret", "10.0.0.1", "cli")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if challenge != nil {
		t.Errorf("challenge = %+v, want nil", challenge)
	}
	if result == nil || result.AccessToken == "" || result.SessionID != "sess-1" {
		t.Fatalf("result = %+v", result)
	}
	if result.Account.LastLoginAt == nil {
		t.Error("LastLoginAt not stamped")
	}
	if displacedReason != domain.ReasonNewLogin {
		t.Errorf("displaced reason = %q, want NEW_LOGIN", displacedReason)
	}
	if event := f.sink.WaitFor(domain.AuditLoginSuccess, time.Second); event == nil {
		t.Error("success not audited")
	}
}

func TestLoginInvalidCredentialsPassThrough(t *testing.T) {
	f := newAuthFixture()

	result, challenge, err := f.svc.Login(context.Background(), "alice", "wrong", "10.0.0.1", "cli")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
	}
	if result != nil || challenge != nil {
		t.Errorf("result = %+v, challenge = %+v, want nil/nil", result, challenge)
	}
}

func TestLoginWithTwoFactorIssuesChallenge(t *testing.T) {
	f := newAuthFixture()
	f.credentials.VerifyFunc = func(ctx context.Context, username, password, ip, userAgent string) (*domain.Account, error) {
		return twoFactorAccount(), nil
	}

	sessionCreated := false
	f.registry.CreateSessionFunc = func(ctx context.Context, accountID uint, ip, userAgent string, reason domain.TerminationReason) (*domain.Session, error) {
		sessionCreated = true
		return &domain.Session{ID: "sess-1"}, nil
	}

	result, challenge, err := f.svc.Login(context.Background(), "alice", "s3cret", "10.0.0.1", "cli")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result != nil {
		t.Error("got a completed result before the code was verified")
	}
	if challenge == nil || challenge.ChallengeToken == "" {
		t.Fatalf("challenge = %+v", challenge)
	}
	if challenge.Secret != "" {
		t.Error("healthy account leaked a secret on the challenge")
	}
	if sessionCreated {
		t.Error("session created before two-factor verification")
	}

	pending, _ := f.challengeStore.Pending(context.Background(), "challenge-jti")
	if !pending {
		t.Error("challenge not registered in the store")
	}
}

func TestLoginAttachesFreshEnrollmentToChallenge(t *testing.T) {
	f := newAuthFixture()
	f.credentials.VerifyFunc = func(ctx context.Context, username, password, ip, userAgent string) (*domain.Account, error) {
		account := twoFactorAccount()
		account.TwoFactorSecret = "" // degraded
		return account, nil
	}
	f.twoFactor.EnsureLoginSecretFunc = func(ctx context.Context, account *domain.Account) (*domain.TwoFactorEnrollment, error) {
		account.TwoFactorSecret = "NEWSECRETNEWSECRETNEWSECRETNEWSE"
		return &domain.TwoFactorEnrollment{Secret: "NEWSECRETNEWSECRETNEWSECRETNEWSE", ProvisioningURI: "otpauth://totp/x"}, nil
	}

	_, challenge, err := f.svc.Login(context.Background(), "alice", "s3cret", "10.0.0.1", "cli")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if challenge.Secret != "NEWSECRETNEWSECRETNEWSECRETNEWSE" {
		t.Errorf("challenge.Secret = %q, fresh enrollment not attached", challenge.Secret)
	}
	if challenge.ProvisioningURI == "" {
		t.Error("ProvisioningURI not attached")
	}
}

func verifyFixture(t *testing.T) *authFixture {
	t.Helper()
	f := newAuthFixture()
	f.tokenSvc.ValidateChallengeTokenFunc = func(token string) (*domain.TokenClaims, error) {
		if token != "challenge-token" {
			return nil, domain.ErrTokenInvalid
		}
		return &domain.TokenClaims{AccountID: 7, JTI: "challenge-jti", Purpose: "2fa_challenge"}, nil
	}
	f.accountRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.Account, error) {
		return twoFactorAccount(), nil
	}
	f.registry.CreateSessionFunc = func(ctx context.Context, accountID uint, ip, userAgent string, reason domain.TerminationReason) (*domain.Session, error) {
		if reason != domain.ReasonNewLogin2FA {
			t.Errorf("displaced reason = %q, want NEW_LOGIN_2FA", reason)
		}
		return &domain.Session{ID: "sess-2", AccountID: accountID, IsActive: true}, nil
	}
	_ = f.challengeStore.Put(context.Background(), "challenge-jti", 7, time.Minute)
	return f
}

func TestVerifyTwoFactorSuccess(t *testing.T) {
	f := verifyFixture(t)

	result, err := f.svc.VerifyTwoFactor(context.Background(), "challenge-token", "123456", "10.0.0.1", "cli")
	if err != nil {
		t.Fatalf("VerifyTwoFactor() error = %v", err)
	}
	if result == nil || result.SessionID != "sess-2" {
		t.Fatalf("result = %+v", result)
	}

	// Single use: the same challenge must not complete twice.
	if _, err := f.svc.VerifyTwoFactor(context.Background(), "challenge-token", "123456", "10.0.0.1", "cli"); !errors.Is(err, domain.ErrChallengeInvalid) {
		t.Errorf("replayed challenge error = %v, want ErrChallengeInvalid", err)
	}
}

func TestVerifyTwoFactorWrongCodeLeavesChallengePending(t *testing.T) {
	f := verifyFixture(t)

	_, err := f.svc.VerifyTwoFactor(context.Background(), "challenge-token", "999999", "10.0.0.1", "cli")
	if !errors.Is(err, domain.ErrInvalidTwoFactorCode) {
		t.Fatalf("VerifyTwoFactor() error = %v, want ErrInvalidTwoFactorCode", err)
	}
	if event := f.sink.WaitFor(domain.AuditLogin2FAFailed, time.Second); event == nil {
		t.Error("failed verification not audited")
	}

	// Retry with the right code still works: the challenge was not consumed.
	result, err := f.svc.VerifyTwoFactor(context.Background(), "challenge-token", "123456", "10.0.0.1", "cli")
	if err != nil {
		t.Fatalf("retry error = %v", err)
	}
	if result == nil {
		t.Fatal("retry returned no result")
	}
}

func TestVerifyTwoFactorRejectsBadToken(t *testing.T) {
	f := verifyFixture(t)

	_, err := f.svc.VerifyTwoFactor(context.Background(), "garbage", "123456", "10.0.0.1", "cli")
	if !errors.Is(err, domain.ErrChallengeInvalid) {
		t.Errorf("VerifyTwoFactor() error = %v, want ErrChallengeInvalid", err)
	}
}

func TestVerifyTwoFactorExpiredChallenge(t *testing.T) {
	f := verifyFixture(t)
	// Simulate TTL expiry by consuming the store entry out of band.
	_, _ = f.challengeStore.Consume(context.Background(), "challenge-jti")

	_, err := f.svc.VerifyTwoFactor(context.Background(), "challenge-token", "123456", "10.0.0.1", "cli")
	if !errors.Is(err, domain.ErrChallengeInvalid) {
		t.Errorf("VerifyTwoFactor() error = %v, want ErrChallengeInvalid", err)
	}
}

func TestVerifyTwoFactorDisabledAccount(t *testing.T) {
	f := verifyFixture(t)
	f.accountRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.Account, error) {
		account := twoFactorAccount()
		account.IsActive = false
		return account, nil
	}

	_, err := f.svc.VerifyTwoFactor(context.Background(), "challenge-token", "123456", "10.0.0.1", "cli")
	if !errors.Is(err, domain.ErrAccountDisabled) {
		t.Errorf("VerifyTwoFactor() error = %v, want ErrAccountDisabled", err)
	}
}

func TestVerifyTwoFactorDeletedAccount(t *testing.T) {
	f := verifyFixture(t)
	f.accountRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.Account, error) {
		return nil, domain.ErrAccountNotFound
	}

	_, err := f.svc.VerifyTwoFactor(context.Background(), "challenge-token", "123456", "10.0.0.1", "cli")
	if !errors.Is(err, domain.ErrChallengeInvalid) {
		t.Errorf("VerifyTwoFactor() error = %v, want ErrChallengeInvalid", err)
	}
}

func TestLogout(t *testing.T) {
	f := newAuthFixture()
	f.registry.TerminateAllFunc = func(ctx context.Context, accountID uint, reason domain.TerminationReason, actorIP string) (int, error) {
		if reason != domain.ReasonExplicit {
			t.Errorf("logout reason = %q, want EXPLICIT", reason)
		}
		return 1, nil
	}

	count, err := f.svc.Logout(context.Background(), 7, "sess-1", "10.0.0.1")
	if err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if event := f.sink.WaitFor(domain.AuditLogout, time.Second); event == nil {
		t.Error("logout not audited")
	}
}

func TestLogoutIdempotent(t *testing.T) {
	f := newAuthFixture()

	count, err := f.svc.Logout(context.Background(), 7, "sess-1", "10.0.0.1")
	if err != nil {
		t.Fatalf("Logout() with no sessions error = %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}
