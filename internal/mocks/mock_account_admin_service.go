package mocks

import (
	"context"
)

// MockAccountAdminService implements domain.AccountAdminService for testing
type MockAccountAdminService struct {
	DeactivateFunc func(ctx context.Context, actorID uint, actorRole string, targetID uint, actorIP string) (int, error)
	DeleteFunc     func(ctx context.Context, actorID uint, actorRole string, targetID uint, actorIP string) (int, error)
}

// NewMockAccountAdminService creates a new MockAccountAdminService
func NewMockAccountAdminService() *MockAccountAdminService {
	return &MockAccountAdminService{}
}

func (m *MockAccountAdminService) Deactivate(ctx context.Context, actorID uint, actorRole string, targetID uint, actorIP string) (int, error) {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, actorID, actorRole, targetID, actorIP)
	}
	return 0, nil
}

func (m *MockAccountAdminService) Delete(ctx context.Context, actorID uint, actorRole string, targetID uint, actorIP string) (int, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, actorID, actorRole, targetID, actorIP)
	}
	return 0, nil
}
