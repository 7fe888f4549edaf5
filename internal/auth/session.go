package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrWrongPassword is returned on a failed login. There is no attempt
	// counter and no lockout.
	ErrWrongPassword = errors.New("incorrect password")
	// ErrInvalidSession is returned for a missing, malformed or expired token.
	ErrInvalidSession = errors.New("invalid session")
)

// Claims are the session token claims.
type Claims struct {
	jwt.RegisteredClaims
}

// Manager gates the admin surface behind the single shared password and
// mints session tokens. The signing key is generated per process, so every
// restart invalidates all outstanding sessions, the server-side analogue of
// "authentication does not survive a page reload".
type Manager struct {
	password   string // shared secret, pre-normalized
	signingKey []byte
	ttl        time.Duration
}

// NewManager creates a session manager for the given shared password.
func NewManager(password string, ttl time.Duration) (*Manager, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate session signing key: %w", err)
	}

	return &Manager{
		password:   normalize(password),
		signingKey: key,
		ttl:        ttl,
	}, nil
}

// Login checks the submitted password (trimmed, case-insensitive) against
// the shared secret and returns a signed session token on success.
func (m *Manager) Login(password string) (string, error) {
	submitted := []byte(normalize(password))
	expected := []byte(m.password)
	if subtle.ConstantTimeCompare(submitted, expected) != 1 {
		return "", ErrWrongPassword
	}

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session token.
func (m *Manager) Verify(tokenString string) error {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return ErrInvalidSession
	}
	return nil
}

func normalize(password string) string {
	return strings.ToLower(strings.TrimSpace(password))
}
