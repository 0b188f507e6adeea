package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/MYK-OTAKU/Template-sub000/domain"
)

// MockAuditSink implements domain.AuditSink for testing. Events are recorded
// in order; audit dispatch is asynchronous in production code, so tests
// should synchronize on WaitFor rather than reading Events directly.
type MockAuditSink struct {
	AppendFunc func(ctx context.Context, event *domain.AuditEvent) error

	mu     sync.Mutex
	events []*domain.AuditEvent
}

// NewMockAuditSink creates a new MockAuditSink
func NewMockAuditSink() *MockAuditSink {
	return &MockAuditSink{}
}

func (m *MockAuditSink) Append(ctx context.Context, event *domain.AuditEvent) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, event)
	}
	return nil
}

// Events returns a snapshot of everything appended so far.
func (m *MockAuditSink) Events() []*domain.AuditEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.AuditEvent, len(m.events))
	copy(out, m.events)
	return out
}

// HasAction reports whether an event with the given action was appended.
func (m *MockAuditSink) HasAction(action domain.AuditAction) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.Action == action {
			return true
		}
	}
	return false
}

// LastAction returns the most recently appended event with the given action,
// or nil.
func (m *MockAuditSink) LastAction(action domain.AuditAction) *domain.AuditEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.events) - 1; i >= 0; i-- {
		if m.events[i].Action == action {
			return m.events[i]
		}
	}
	return nil
}

// WaitFor polls until an event with the given action arrives or the timeout
// elapses. Returns the event or nil.
func (m *MockAuditSink) WaitFor(action domain.AuditAction, timeout time.Duration) *domain.AuditEvent {
	deadline := time.Now().Add(timeout)
	for {
		if e := m.LastAction(action); e != nil {
			return e
		}
		if time.Now().After(deadline) {
			return nil
		}
		time.Sleep(5 * time.Millisecond)
	}
}
