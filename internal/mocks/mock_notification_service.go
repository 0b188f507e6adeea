package mocks

import "sync"

// MockNotificationService implements domain.NotificationService for testing
type MockNotificationService struct {
	SendSMSFunc func(to, message string) error

	mu   sync.Mutex
	sent []string
}

// NewMockNotificationService creates a new MockNotificationService
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

func (m *MockNotificationService) SendSMS(to, message string) error {
	m.mu.Lock()
	m.sent = append(m.sent, message)
	m.mu.Unlock()
	if m.SendSMSFunc != nil {
		return m.SendSMSFunc(to, message)
	}
	return nil
}

// Sent returns a snapshot of the messages sent so far.
func (m *MockNotificationService) Sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.sent))
	copy(out, m.sent)
	return out
}
