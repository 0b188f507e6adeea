package mocks

import (
	"context"

	"github.com/MYK-OTAKU/Template-sub000/domain"
)

// MockTwoFactorService implements domain.TwoFactorService for testing
type MockTwoFactorService struct {
	EnableFunc            func(ctx context.Context, accountID uint, forceNewSecret bool, actorIP string) (*domain.TwoFactorEnrollment, error)
	DisableFunc           func(ctx context.Context, accountID uint, keepSecret bool, actorIP string) error
	RegenerateFunc        func(ctx context.Context, accountID uint, actorIP string) (*domain.TwoFactorEnrollment, error)
	EnsureLoginSecretFunc func(ctx context.Context, account *domain.Account) (*domain.TwoFactorEnrollment, error)
	VerifyCodeFunc        func(secret, code string) bool
}

// NewMockTwoFactorService creates a new MockTwoFactorService
func NewMockTwoFactorService() *MockTwoFactorService {
	return &MockTwoFactorService{}
}

func (m *MockTwoFactorService) Enable(ctx context.Context, accountID uint, forceNewSecret bool, actorIP string) (*domain.TwoFactorEnrollment, error) {
	if m.EnableFunc != nil {
		return m.EnableFunc(ctx, accountID, forceNewSecret, actorIP)
	}
	return &domain.TwoFactorEnrollment{Secret: "MOCKSECRET", ProvisioningURI: "otpauth://totp/mock"}, nil
}

func (m *MockTwoFactorService) Disable(ctx context.Context, accountID uint, keepSecret bool, actorIP string) error {
	if m.DisableFunc != nil {
		return m.DisableFunc(ctx, accountID, keepSecret, actorIP)
	}
	return nil
}

func (m *MockTwoFactorService) Regenerate(ctx context.Context, accountID uint, actorIP string) (*domain.TwoFactorEnrollment, error) {
	if m.RegenerateFunc != nil {
		return m.RegenerateFunc(ctx, accountID, actorIP)
	}
	return &domain.TwoFactorEnrollment{Secret: "MOCKSECRET", ProvisioningURI: "otpauth://totp/mock"}, nil
}

func (m *MockTwoFactorService) EnsureLoginSecret(ctx context.Context, account *domain.Account) (*domain.TwoFactorEnrollment, error) {
	if m.EnsureLoginSecretFunc != nil {
		return m.EnsureLoginSecretFunc(ctx, account)
	}
	return nil, nil
}

func (m *MockTwoFactorService) VerifyCode(secret, code string) bool {
	if m.VerifyCodeFunc != nil {
		return m.VerifyCodeFunc(secret, code)
	}
	return code == "123456"
}
