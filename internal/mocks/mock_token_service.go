package mocks

import (
	"time"

	"github.com/MYK-OTAKU/Template-sub000/domain"
)

// MockTokenService implements domain.TokenService for testing
type MockTokenService struct {
	GenerateAccessTokenFunc    func(accountID uint, role, sessionID string) (string, error)
	ValidateAccessTokenFunc    func(token string) (*domain.TokenClaims, error)
	GenerateChallengeTokenFunc func(accountID uint) (string, string, error)
	ValidateChallengeTokenFunc func(token string) (*domain.TokenClaims, error)
	AccessTTLValue             time.Duration
	ChallengeTTLValue          time.Duration
}

// NewMockTokenService creates a new MockTokenService
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{
		AccessTTLValue:    15 * time.Minute,
		ChallengeTTLValue: 5 * time.Minute,
	}
}

func (m *MockTokenService) GenerateAccessToken(accountID uint, role, sessionID string) (string, error) {
	if m.GenerateAccessTokenFunc != nil {
		return m.GenerateAccessTokenFunc(accountID, role, sessionID)
	}
	return "access-token", nil
}

func (m *MockTokenService) ValidateAccessToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateAccessTokenFunc != nil {
		return m.ValidateAccessTokenFunc(token)
	}
	return nil, domain.ErrTokenInvalid
}

func (m *MockTokenService) GenerateChallengeToken(accountID uint) (string, string, error) {
	if m.GenerateChallengeTokenFunc != nil {
		return m.GenerateChallengeTokenFunc(accountID)
	}
	return "challenge-token", "challenge-jti", nil
}

func (m *MockTokenService) ValidateChallengeToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateChallengeTokenFunc != nil {
		return m.ValidateChallengeTokenFunc(token)
	}
	return nil, domain.ErrTokenInvalid
}

func (m *MockTokenService) AccessTTL() time.Duration {
	return m.AccessTTLValue
}

func (m *MockTokenService) ChallengeTTL() time.Duration {
	return m.ChallengeTTLValue
}
