package mocks

import (
	"context"
	"sync"
	"time"
)

// MockChallengeStore implements domain.ChallengeStore for testing.
// The zero value behaves as an in-memory store; override the Func
// fields to inject failures.
type MockChallengeStore struct {
	PutFunc     func(ctx context.Context, jti string, accountID uint, ttl time.Duration) error
	PendingFunc func(ctx context.Context, jti string) (bool, error)
	ConsumeFunc func(ctx context.Context, jti string) (bool, error)

	mu      sync.Mutex
	entries map[string]uint
}

// NewMockChallengeStore creates a new MockChallengeStore
func NewMockChallengeStore() *MockChallengeStore {
	return &MockChallengeStore{entries: make(map[string]uint)}
}

func (m *MockChallengeStore) Put(ctx context.Context, jti string, accountID uint, ttl time.Duration) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, jti, accountID, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = make(map[string]uint)
	}
	m.entries[jti] = accountID
	return nil
}

func (m *MockChallengeStore) Pending(ctx context.Context, jti string) (bool, error) {
	if m.PendingFunc != nil {
		return m.PendingFunc(ctx, jti)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[jti]
	return ok, nil
}

func (m *MockChallengeStore) Consume(ctx context.Context, jti string) (bool, error) {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(ctx, jti)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[jti]
	if ok {
		delete(m.entries, jti)
	}
	return ok, nil
}
