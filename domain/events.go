package domain

import "time"

// AuditAction tags what happened in an audit event.
type AuditAction string

const (
	// Authentication events
	AuditLoginSuccess      AuditAction = "LOGIN_SUCCESS"
	AuditLoginFailed       AuditAction = "LOGIN_FAILED"
	AuditLogin2FAChallenge AuditAction = "LOGIN_2FA_CHALLENGE"
	AuditLogin2FAFailed    AuditAction = "LOGIN_2FA_FAILED"
	AuditLogout            AuditAction = "LOGOUT"

	// Session events
	AuditSessionTerminated AuditAction = "SESSION_TERMINATED"
	AuditSessionIPChanged  AuditAction = "SESSION_IP_CHANGED"
	AuditSessionSweep      AuditAction = "SESSION_IDLE_SWEEP"

	// Two-factor lifecycle events
	AuditTwoFactorEnabled     AuditAction = "2FA_ENABLED"
	AuditTwoFactorRegenerated AuditAction = "2FA_SECRET_REGENERATED"
	AuditTwoFactorSelfRepair  AuditAction = "2FA_SECRET_SELF_REPAIRED"
	AuditTwoFactorDisabled    AuditAction = "2FA_DISABLED"
	AuditTwoFactorSecretKept  AuditAction = "2FA_DISABLED_SECRET_KEPT"

	// Administrative events
	AuditAccountDeactivated AuditAction = "ACCOUNT_DEACTIVATED"
	AuditAccountDeleted     AuditAction = "ACCOUNT_DELETED"
	AuditAccessDenied       AuditAction = "ACCESS_DENIED"
)

// AuditOutcome classifies an audit event.
type AuditOutcome string

const (
	OutcomeSuccess AuditOutcome = "success"
	OutcomeFailure AuditOutcome = "failure"
	OutcomeWarning AuditOutcome = "warning"
)

// AuditEvent is an immutable security record: who did what, to which
// resource, from where, and how it turned out. Write-only from the core.
type AuditEvent struct {
	Action       AuditAction
	Outcome      AuditOutcome
	ActorID      *uint // nil for anonymous or system actions
	ResourceType string
	ResourceID   string
	IPAddress    string
	UserAgent    string
	Detail       string // observability only, never surfaced to callers
	Timestamp    time.Time
}

// NewAuditEvent creates an event with the timestamp and outcome defaulted.
func NewAuditEvent(action AuditAction) *AuditEvent {
	return &AuditEvent{
		Action:    action,
		Outcome:   OutcomeSuccess,
		Timestamp: time.Now().UTC(),
	}
}

// WithActor sets the acting account.
func (e *AuditEvent) WithActor(accountID uint) *AuditEvent {
	e.ActorID = &accountID
	return e
}

// WithOutcome overrides the default success outcome.
func (e *AuditEvent) WithOutcome(outcome AuditOutcome) *AuditEvent {
	e.Outcome = outcome
	return e
}

// WithResource sets the resource the action touched.
func (e *AuditEvent) WithResource(resourceType, resourceID string) *AuditEvent {
	e.ResourceType = resourceType
	e.ResourceID = resourceID
	return e
}

// WithOrigin sets the network origin of the action.
func (e *AuditEvent) WithOrigin(ip, userAgent string) *AuditEvent {
	e.IPAddress = ip
	e.UserAgent = userAgent
	return e
}

// WithDetail attaches a free-form sub-reason for forensic use.
func (e *AuditEvent) WithDetail(detail string) *AuditEvent {
	e.Detail = detail
	return e
}
