package domain

import (
	"context"
	"time"
)

// AccountRepository defines account data access operations
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	FindByUsername(ctx context.Context, username string) (*Account, error)
	FindByID(ctx context.Context, id uint) (*Account, error)
	UpdateTwoFactorFields(ctx context.Context, id uint, enabled bool, secret string, enabledAt *time.Time) error
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	SetActive(ctx context.Context, id uint, active bool) error
	Delete(ctx context.Context, id uint) error
	CountActiveAdmins(ctx context.Context) (int64, error)
}

// SessionRepository defines session data access operations
type SessionRepository interface {
	// ReplaceActive terminates every active session of the account and inserts
	// the new one in a single transaction serialized per account, so two
	// concurrent logins cannot both end up active. Returns how many prior
	// sessions were displaced. If termination fails the new session must not
	// be created.
	ReplaceActive(ctx context.Context, session *Session, priorReason TerminationReason) (int64, error)
	FindByID(ctx context.Context, sessionID string) (*Session, error)
	FindActiveByAccount(ctx context.Context, accountID uint) ([]*Session, error)
	FindActiveIdleSince(ctx context.Context, cutoff time.Time) ([]*Session, error)
	Save(ctx context.Context, session *Session) error
	MarkTerminated(ctx context.Context, sessionID string, reason TerminationReason, at time.Time) error
}

// SessionRegistry enforces the single-active-session policy and owns session
// lifecycle transitions.
type SessionRegistry interface {
	CreateSession(ctx context.Context, accountID uint, ip, userAgent string, displacedReason TerminationReason) (*Session, error)
	TouchActivity(ctx context.Context, sessionID, currentIP string) (*Session, error)
	Terminate(ctx context.Context, sessionID string, reason TerminationReason, actorIP string) error
	TerminateAll(ctx context.Context, accountID uint, reason TerminationReason, actorIP string) (int, error)
	SweepIdle(ctx context.Context, idleThreshold time.Duration) (int, error)
	FindActive(ctx context.Context, sessionID string) (*Session, error)
}

// CredentialVerifier validates a username/password pair.
// Unknown-user and wrong-password failures are indistinguishable to callers.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password, ip, userAgent string) (*Account, error)
}

// TwoFactorService owns the TOTP secret lifecycle and code verification.
type TwoFactorService interface {
	Enable(ctx context.Context, accountID uint, forceNewSecret bool, actorIP string) (*TwoFactorEnrollment, error)
	Disable(ctx context.Context, accountID uint, keepSecret bool, actorIP string) error
	Regenerate(ctx context.Context, accountID uint, actorIP string) (*TwoFactorEnrollment, error)
	// EnsureLoginSecret self-repairs a degraded account during login. It
	// returns a non-nil enrollment only when a fresh secret was issued.
	EnsureLoginSecret(ctx context.Context, account *Account) (*TwoFactorEnrollment, error)
	VerifyCode(secret, code string) bool
}

// AuthService composes the credential verifier, two-factor service and
// session registry into the login/verify/logout state machine.
type AuthService interface {
	// Login returns either a completed result or a pending two-factor
	// challenge, never both.
	Login(ctx context.Context, username, password, ip, userAgent string) (*LoginResult, *TwoFactorChallenge, error)
	VerifyTwoFactor(ctx context.Context, challengeToken, code, ip, userAgent string) (*LoginResult, error)
	Logout(ctx context.Context, accountID uint, sessionID, ip string) (int, error)
	Profile(ctx context.Context, accountID uint) (*Account, error)
}

// AccountAdminService covers the privileged account mutations that must pass
// the role hierarchy gate.
type AccountAdminService interface {
	Deactivate(ctx context.Context, actorID uint, actorRole string, targetID uint, actorIP string) (int, error)
	Delete(ctx context.Context, actorID uint, actorRole string, targetID uint, actorIP string) (int, error)
}

// RoleGate decides whether an actor role may administer a target role.
// Pure, side-effect free, fail closed on unknown roles.
type RoleGate interface {
	CanManage(actorRole, targetRole string) bool
}

// PasswordService defines password digest operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
	// DummyVerify burns the same work as a real comparison so a missing
	// account cannot be told apart from a wrong password by timing.
	DummyVerify(password string)
}

// TokenClaims represents bearer token claims
type TokenClaims struct {
	AccountID uint   `json:"account_id"`
	Role      string `json:"role"`
	SessionID string `json:"session_id,omitempty"`
	Purpose   string `json:"purpose,omitempty"`
	JTI       string `json:"jti"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// TokenService defines token operations
type TokenService interface {
	GenerateAccessToken(accountID uint, role, sessionID string) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	GenerateChallengeToken(accountID uint) (token string, jti string, err error)
	ValidateChallengeToken(token string) (*TokenClaims, error)
	AccessTTL() time.Duration
	ChallengeTTL() time.Duration
}

// ChallengeStore tracks pending two-factor challenges so a challenge token is
// single-use: registered at issuance, consumed exactly once on success.
type ChallengeStore interface {
	Put(ctx context.Context, jti string, accountID uint, ttl time.Duration) error
	Pending(ctx context.Context, jti string) (bool, error)
	Consume(ctx context.Context, jti string) (bool, error)
}

// AuditSink is the append-only security event sink. Best effort: callers
// dispatch asynchronously and swallow failures.
type AuditSink interface {
	Append(ctx context.Context, event *AuditEvent) error
}

// NotificationService delivers out-of-band security alerts.
type NotificationService interface {
	SendSMS(to, message string) error
}

// CasbinEnforcer is the slice of the casbin API the middleware needs.
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
