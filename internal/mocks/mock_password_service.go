package mocks

// MockPasswordService implements domain.PasswordService for testing
type MockPasswordService struct {
	HashFunc        func(password string) (string, error)
	VerifyFunc      func(hashedPassword, password string) bool
	DummyVerifyFunc func(password string)

	DummyVerifyCalls int
}

// NewMockPasswordService creates a new MockPasswordService
func NewMockPasswordService() *MockPasswordService {
	return &MockPasswordService{}
}

func (m *MockPasswordService) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *MockPasswordService) Verify(hashedPassword, password string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(hashedPassword, password)
	}
	return hashedPassword == "hashed:"+password
}

func (m *MockPasswordService) DummyVerify(password string) {
	m.DummyVerifyCalls++
	if m.DummyVerifyFunc != nil {
		m.DummyVerifyFunc(password)
	}
}
