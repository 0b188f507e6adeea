package auth

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MYK-OTAKU/Template-sub000/domain"
)

// PurposeTwoFactorChallenge marks a token usable only to complete a pending
// two-factor login, never as a bearer credential.
const PurposeTwoFactorChallenge = "2fa_challenge"

// JWTServiceImpl implements domain.TokenService
type JWTServiceImpl struct {
	secretKey      []byte
	issuer         string
	accessTokenTTL time.Duration
	challengeTTL   time.Duration
}

// NewJWTService creates a new JWT service
func NewJWTService(secretKey string, issuer string, accessTTL, challengeTTL time.Duration) domain.TokenService {
	return &JWTServiceImpl{
		secretKey:      []byte(secretKey),
		issuer:         issuer,
		accessTokenTTL: accessTTL,
		challengeTTL:   challengeTTL,
	}
}

// generateJTI creates a unique JWT ID
func (j *JWTServiceImpl) generateJTI() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// AccessTTL implements domain.TokenService
func (j *JWTServiceImpl) AccessTTL() time.Duration { return j.accessTokenTTL }

// ChallengeTTL implements domain.TokenService
func (j *JWTServiceImpl) ChallengeTTL() time.Duration { return j.challengeTTL }

// GenerateAccessToken implements domain.TokenService
func (j *JWTServiceImpl) GenerateAccessToken(accountID uint, role, sessionID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"account_id": accountID,
		"role":       role,
		"session_id": sessionID,
		"iss":        j.issuer,
		"iat":        now.Unix(),
		"exp":        now.Add(j.accessTokenTTL).Unix(),
		"jti":        j.generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// GenerateChallengeToken implements domain.TokenService. The returned jti is
// registered in the challenge store so the token is single-use.
func (j *JWTServiceImpl) GenerateChallengeToken(accountID uint) (string, string, error) {
	now := time.Now()
	jti := j.generateJTI()
	claims := jwt.MapClaims{
		"account_id": accountID,
		"purpose":    PurposeTwoFactorChallenge,
		"iss":        j.issuer,
		"iat":        now.Unix(),
		"exp":        now.Add(j.challengeTTL).Unix(),
		"jti":        jti,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}

// ValidateAccessToken implements domain.TokenService
func (j *JWTServiceImpl) ValidateAccessToken(tokenString string) (*domain.TokenClaims, error) {
	claims, err := j.validateToken(tokenString)
	if err != nil {
		return nil, err
	}
	// A challenge token must never pass as a bearer credential.
	if claims.Purpose != "" {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}

// ValidateChallengeToken implements domain.TokenService
func (j *JWTServiceImpl) ValidateChallengeToken(tokenString string) (*domain.TokenClaims, error) {
	claims, err := j.validateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != PurposeTwoFactorChallenge {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}

// validateToken validates a JWT token and returns claims
func (j *JWTServiceImpl) validateToken(tokenString string) (*domain.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenMalformed
		}
		return j.secretKey, nil
	})

	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	if !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}

	accountID, ok := claims["account_id"].(float64)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}

	iat, ok := claims["iat"].(float64)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}

	if time.Unix(int64(exp), 0).Before(time.Now()) {
		return nil, domain.ErrTokenExpired
	}

	tokenClaims := &domain.TokenClaims{
		AccountID: uint(accountID),
		IssuedAt:  int64(iat),
		ExpiresAt: int64(exp),
	}

	if role, ok := claims["role"].(string); ok {
		tokenClaims.Role = role
	}
	if sessionID, ok := claims["session_id"].(string); ok {
		tokenClaims.SessionID = sessionID
	}
	if purpose, ok := claims["purpose"].(string); ok {
		tokenClaims.Purpose = purpose
	}
	if jti, ok := claims["jti"].(string); ok {
		tokenClaims.JTI = jti
	}

	return tokenClaims, nil
}
