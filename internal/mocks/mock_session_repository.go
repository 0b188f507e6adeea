package mocks

import (
	"context"
	"time"

	"github.com/MYK-OTAKU/Template-sub000/domain"
)

// MockSessionRepository implements domain.SessionRepository for testing
type MockSessionRepository struct {
	ReplaceActiveFunc       func(ctx context.Context, session *domain.Session, priorReason domain.TerminationReason) (int64, error)
	FindByIDFunc            func(ctx context.Context, sessionID string) (*domain.Session, error)
	FindActiveByAccountFunc func(ctx context.Context, accountID uint) ([]*domain.Session, error)
	FindActiveIdleSinceFunc func(ctx context.Context, cutoff time.Time) ([]*domain.Session, error)
	SaveFunc                func(ctx context.Context, session *domain.Session) error
	MarkTerminatedFunc      func(ctx context.Context, sessionID string, reason domain.TerminationReason, at time.Time) error
}

// NewMockSessionRepository creates a new MockSessionRepository
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{}
}

func (m *MockSessionRepository) ReplaceActive(ctx context.Context, session *domain.Session, priorReason domain.TerminationReason) (int64, error) {
	if m.ReplaceActiveFunc != nil {
		return m.ReplaceActiveFunc(ctx, session, priorReason)
	}
	return 0, nil
}

func (m *MockSessionRepository) FindByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, sessionID)
	}
	return nil, domain.ErrSessionNotFound
}

func (m *MockSessionRepository) FindActiveByAccount(ctx context.Context, accountID uint) ([]*domain.Session, error) {
	if m.FindActiveByAccountFunc != nil {
		return m.FindActiveByAccountFunc(ctx, accountID)
	}
	return nil, nil
}

func (m *MockSessionRepository) FindActiveIdleSince(ctx context.Context, cutoff time.Time) ([]*domain.Session, error) {
	if m.FindActiveIdleSinceFunc != nil {
		return m.FindActiveIdleSinceFunc(ctx, cutoff)
	}
	return nil, nil
}

func (m *MockSessionRepository) Save(ctx context.Context, session *domain.Session) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, session)
	}
	return nil
}

func (m *MockSessionRepository) MarkTerminated(ctx context.Context, sessionID string, reason domain.TerminationReason, at time.Time) error {
	if m.MarkTerminatedFunc != nil {
		return m.MarkTerminatedFunc(ctx, sessionID, reason, at)
	}
	return nil
}
