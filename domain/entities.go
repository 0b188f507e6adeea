package domain

import "time"

// Role names form a strict hierarchy: Administrateur > Manager > Employe.
const (
	RoleAdministrateur = "Administrateur"
	RoleManager        = "Manager"
	RoleEmploye        = "Employe"
)

// Account represents an administration backend identity
type Account struct {
	ID                 uint
	Username           string
	PasswordHash       string `gorm:"column:password"`
	Role               string
	IsActive           bool
	TwoFactorEnabled   bool
	TwoFactorSecret    string     // base32, empty when no secret is provisioned
	TwoFactorEnabledAt *time.Time // set on re-enable, anchors the reactivation grace window
	LastLoginAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasTwoFactorSecret reports whether a usable secret is stored.
func (a *Account) HasTwoFactorSecret() bool {
	return a.TwoFactorSecret != ""
}

// TwoFactorDegraded reports the enabled-without-secret state left behind by a
// partial failure. It must be self-healed on the next provisioning touchpoint.
func (a *Account) TwoFactorDegraded() bool {
	return a.TwoFactorEnabled && a.TwoFactorSecret == ""
}

// TerminationReason tags why a session was closed.
type TerminationReason string

const (
	ReasonExplicit          TerminationReason = "EXPLICIT"
	ReasonTimeout           TerminationReason = "TIMEOUT"
	ReasonAdminTerminated   TerminationReason = "ADMIN_TERMINATED"
	ReasonNewLogin          TerminationReason = "NEW_LOGIN"
	ReasonNewLogin2FA       TerminationReason = "NEW_LOGIN_2FA"
	ReasonTokenExpired      TerminationReason = "TOKEN_EXPIRED"
	ReasonForced            TerminationReason = "FORCED"
	ReasonUserDeleted       TerminationReason = "USER_DELETED"
	ReasonAccountDisabled   TerminationReason = "ACCOUNT_DISABLED"
	ReasonSecurityBreach    TerminationReason = "SECURITY_BREACH"
	ReasonMaintenance       TerminationReason = "MAINTENANCE"
	ReasonTwoFactorDisabled TerminationReason = "TWO_FACTOR_DISABLED"
)

var knownTerminationReasons = map[TerminationReason]struct{}{
	ReasonExplicit:          {},
	ReasonTimeout:           {},
	ReasonAdminTerminated:   {},
	ReasonNewLogin:          {},
	ReasonNewLogin2FA:       {},
	ReasonTokenExpired:      {},
	ReasonForced:            {},
	ReasonUserDeleted:       {},
	ReasonAccountDisabled:   {},
	ReasonSecurityBreach:    {},
	ReasonMaintenance:       {},
	ReasonTwoFactorDisabled: {},
}

// NormalizeTerminationReason coerces anything outside the closed reason set
// to EXPLICIT. Termination must never fail because a caller passed a bad tag.
func NormalizeTerminationReason(reason TerminationReason) TerminationReason {
	if _, ok := knownTerminationReasons[reason]; ok {
		return reason
	}
	return ReasonExplicit
}

// Session represents one logical authenticated login.
// At most one session per account may be active at any time.
type Session struct {
	ID                string
	AccountID         uint
	IPAddress         string
	UserAgent         string
	IsActive          bool
	PreviousIP        string
	IPChanged         bool
	IPChangedAt       *time.Time
	LastActivityAt    time.Time
	TerminatedAt      *time.Time
	TerminationReason TerminationReason
	CreatedAt         time.Time
}

// LoginResult represents a completed authentication.
type LoginResult struct {
	Account     *Account
	AccessToken string
	SessionID   string
	ExpiresIn   int64
}

// TwoFactorChallenge is returned instead of a LoginResult when the account
// requires a TOTP code. The provisioning fields are set only when a new
// secret was issued as part of the login (first enable or self-repair).
type TwoFactorChallenge struct {
	ChallengeToken  string
	ExpiresIn       int64
	Secret          string
	ProvisioningURI string
}

// TwoFactorEnrollment is the result of provisioning or regenerating a secret.
type TwoFactorEnrollment struct {
	Secret          string
	ProvisioningURI string
}
