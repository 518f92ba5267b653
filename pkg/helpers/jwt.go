package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/oksasatya/student-manager/pkg/apperror"
)

// JWTManager issues and verifies session tokens
type JWTManager struct {
	Secret []byte
	TTL    time.Duration
	now    func() time.Time
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{Secret: []byte(secret), TTL: ttl, now: time.Now}
}

// WithClock replaces the time source; used by tests.
func (m *JWTManager) WithClock(now func() time.Time) *JWTManager {
	m.now = now
	return m
}

type Claims struct {
	IdentityID string `json:"uid"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// IssuedToken is a signed session token with its id and expiry.
type IssuedToken struct {
	Value     string
	ID        string
	ExpiresAt time.Time
}

func (m *JWTManager) Issue(identityID, role string) (IssuedToken, error) {
	now := m.now()
	exp := now.Add(m.TTL)
	claims := &Claims{
		IdentityID: identityID,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	if err != nil {
		return IssuedToken{}, err
	}
	return IssuedToken{Value: s, ID: claims.ID, ExpiresAt: exp}, nil
}

// Verify checks signature, algorithm and expiry. Every failure is an
// unauthenticated apperror.
func (m *JWTManager) Verify(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, apperror.Unauthenticated("missing session token")
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	claims := &Claims{}
	tkn, err := parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperror.Wrap(apperror.KindUnauthenticated, err, "session expired")
		}
		return nil, apperror.Wrap(apperror.KindUnauthenticated, err, "invalid session token")
	}
	if !tkn.Valid || claims.IdentityID == "" || claims.Role == "" {
		return nil, apperror.Unauthenticated("invalid session token")
	}
	return claims, nil
}
