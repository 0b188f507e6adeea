package mocks

import (
	"context"

	"github.com/MYK-OTAKU/Template-sub000/domain"
)

// MockCredentialVerifier implements domain.CredentialVerifier for testing
type MockCredentialVerifier struct {
	VerifyFunc func(ctx context.Context, username, password, ip, userAgent string) (*domain.Account, error)
}

// NewMockCredentialVerifier creates a new MockCredentialVerifier
func NewMockCredentialVerifier() *MockCredentialVerifier {
	return &MockCredentialVerifier{}
}

func (m *MockCredentialVerifier) Verify(ctx context.Context, username, password, ip, userAgent string) (*domain.Account, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, username, password, ip, userAgent)
	}
	return nil, domain.ErrInvalidCredentials
}
