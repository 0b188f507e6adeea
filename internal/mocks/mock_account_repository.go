package mocks

import (
	"context"
	"time"

	"github.com/MYK-OTAKU/Template-sub000/domain"
)

// MockAccountRepository implements domain.AccountRepository for testing
type MockAccountRepository struct {
	CreateFunc                func(ctx context.Context, account *domain.Account) error
	FindByUsernameFunc        func(ctx context.Context, username string) (*domain.Account, error)
	FindByIDFunc              func(ctx context.Context, id uint) (*domain.Account, error)
	UpdateTwoFactorFieldsFunc func(ctx context.Context, id uint, enabled bool, secret string, enabledAt *time.Time) error
	UpdateLastLoginFunc       func(ctx context.Context, id uint, at time.Time) error
	SetActiveFunc             func(ctx context.Context, id uint, active bool) error
	DeleteFunc                func(ctx context.Context, id uint) error
	CountActiveAdminsFunc     func(ctx context.Context) (int64, error)
}

// NewMockAccountRepository creates a new MockAccountRepository
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	return nil
}

func (m *MockAccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uint) (*domain.Account, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) UpdateTwoFactorFields(ctx context.Context, id uint, enabled bool, secret string, enabledAt *time.Time) error {
	if m.UpdateTwoFactorFieldsFunc != nil {
		return m.UpdateTwoFactorFieldsFunc(ctx, id, enabled, secret, enabledAt)
	}
	return nil
}

func (m *MockAccountRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	if m.UpdateLastLoginFunc != nil {
		return m.UpdateLastLoginFunc(ctx, id, at)
	}
	return nil
}

func (m *MockAccountRepository) SetActive(ctx context.Context, id uint, active bool) error {
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(ctx, id, active)
	}
	return nil
}

func (m *MockAccountRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockAccountRepository) CountActiveAdmins(ctx context.Context) (int64, error) {
	if m.CountActiveAdminsFunc != nil {
		return m.CountActiveAdminsFunc(ctx)
	}
	return 0, nil
}
