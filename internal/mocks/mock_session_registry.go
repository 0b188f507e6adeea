package mocks

import (
	"context"
	"time"

	"github.com/MYK-OTAKU/Template-sub000/domain"
)

// MockSessionRegistry implements domain.SessionRegistry for testing
type MockSessionRegistry struct {
	CreateSessionFunc func(ctx context.Context, accountID uint, ip, userAgent string, displacedReason domain.TerminationReason) (*domain.Session, error)
	TouchActivityFunc func(ctx context.Context, sessionID, currentIP string) (*domain.Session, error)
	TerminateFunc     func(ctx context.Context, sessionID string, reason domain.TerminationReason, actorIP string) error
	TerminateAllFunc  func(ctx context.Context, accountID uint, reason domain.TerminationReason, actorIP string) (int, error)
	SweepIdleFunc     func(ctx context.Context, idleThreshold time.Duration) (int, error)
	FindActiveFunc    func(ctx context.Context, sessionID string) (*domain.Session, error)
}

// NewMockSessionRegistry creates a new MockSessionRegistry
func NewMockSessionRegistry() *MockSessionRegistry {
	return &MockSessionRegistry{}
}

func (m *MockSessionRegistry) CreateSession(ctx context.Context, accountID uint, ip, userAgent string, displacedReason domain.TerminationReason) (*domain.Session, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, accountID, ip, userAgent, displacedReason)
	}
	now := time.Now()
	return &domain.Session{
		ID:             "session-1",
		AccountID:      accountID,
		IPAddress:      ip,
		UserAgent:      userAgent,
		IsActive:       true,
		LastActivityAt: now,
		CreatedAt:      now,
	}, nil
}

func (m *MockSessionRegistry) TouchActivity(ctx context.Context, sessionID, currentIP string) (*domain.Session, error) {
	if m.TouchActivityFunc != nil {
		return m.TouchActivityFunc(ctx, sessionID, currentIP)
	}
	return nil, domain.ErrSessionNotFound
}

func (m *MockSessionRegistry) Terminate(ctx context.Context, sessionID string, reason domain.TerminationReason, actorIP string) error {
	if m.TerminateFunc != nil {
		return m.TerminateFunc(ctx, sessionID, reason, actorIP)
	}
	return nil
}

func (m *MockSessionRegistry) TerminateAll(ctx context.Context, accountID uint, reason domain.TerminationReason, actorIP string) (int, error) {
	if m.TerminateAllFunc != nil {
		return m.TerminateAllFunc(ctx, accountID, reason, actorIP)
	}
	return 0, nil
}

func (m *MockSessionRegistry) SweepIdle(ctx context.Context, idleThreshold time.Duration) (int, error) {
	if m.SweepIdleFunc != nil {
		return m.SweepIdleFunc(ctx, idleThreshold)
	}
	return 0, nil
}

func (m *MockSessionRegistry) FindActive(ctx context.Context, sessionID string) (*domain.Session, error) {
	if m.FindActiveFunc != nil {
		return m.FindActiveFunc(ctx, sessionID)
	}
	return nil, domain.ErrSessionNotFound
}
