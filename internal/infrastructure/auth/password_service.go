package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/MYK-OTAKU/Template-sub000/domain"
)

// dummyDigest is a valid bcrypt digest of a random throwaway value. It is
// compared against when no account matches a login, so the missing-account
// path costs the same as a real mismatch.
const dummyDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// PasswordServiceImpl implements domain.PasswordService
type PasswordServiceImpl struct {
	cost int
}

// NewPasswordService creates a new password service
func NewPasswordService() domain.PasswordService {
	return &PasswordServiceImpl{
		cost: bcrypt.DefaultCost,
	}
}

// Hash implements domain.PasswordService
func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Verify implements domain.PasswordService
func (p *PasswordServiceImpl) Verify(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// DummyVerify implements domain.PasswordService
func (p *PasswordServiceImpl) DummyVerify(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyDigest), []byte(password))
}
