package domain

import "errors"

// Authentication errors
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")
)

// Two-factor errors
var (
	ErrChallengeInvalid        = errors.New("two-factor challenge expired or invalid")
	ErrInvalidTwoFactorCode    = errors.New("invalid two-factor code")
	ErrTwoFactorAlreadyEnabled = errors.New("two-factor authentication already enabled")
	ErrTwoFactorNotEnabled     = errors.New("two-factor authentication not enabled")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionRevoked  = errors.New("session has been revoked")
)

// Authorization errors
var (
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrInsufficientRole = errors.New("insufficient role level")
	ErrLastActiveAdmin  = errors.New("cannot remove the last active administrator")
)

// Store errors
var (
	// ErrStoreUnavailable marks a transient persistence failure. Callers must
	// surface it as service-unavailable, never as silent success.
	ErrStoreUnavailable = errors.New("store unavailable")
)
