package mocks

import (
	"context"

	"github.com/MYK-OTAKU/Template-sub000/domain"
)

// MockAuthService implements domain.AuthService for testing
type MockAuthService struct {
	LoginFunc           func(ctx context.Context, username, password, ip, userAgent string) (*domain.LoginResult, *domain.TwoFactorChallenge, error)
	VerifyTwoFactorFunc func(ctx context.Context, challengeToken, code, ip, userAgent string) (*domain.LoginResult, error)
	LogoutFunc          func(ctx context.Context, accountID uint, sessionID, ip string) (int, error)
	ProfileFunc         func(ctx context.Context, accountID uint) (*domain.Account, error)
}

// NewMockAuthService creates a new MockAuthService
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func (m *MockAuthService) Login(ctx context.Context, username, password, ip, userAgent string) (*domain.LoginResult, *domain.TwoFactorChallenge, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password, ip, userAgent)
	}
	return nil, nil, domain.ErrInvalidCredentials
}

func (m *MockAuthService) VerifyTwoFactor(ctx context.Context, challengeToken, code, ip, userAgent string) (*domain.LoginResult, error) {
	if m.VerifyTwoFactorFunc != nil {
		return m.VerifyTwoFactorFunc(ctx, challengeToken, code, ip, userAgent)
	}
	return nil, domain.ErrChallengeInvalid
}

func (m *MockAuthService) Logout(ctx context.Context, accountID uint, sessionID, ip string) (int, error) {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, accountID, sessionID, ip)
	}
	return 0, nil
}

func (m *MockAuthService) Profile(ctx context.Context, accountID uint) (*domain.Account, error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx, accountID)
	}
	return nil, domain.ErrAccountNotFound
}
