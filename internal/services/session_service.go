package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	sessionIssuer = "godownhub"
	nonceSize     = 24
)

var ErrInvalidSession = errors.New("invalid session")

// SessionClaims is the payload carried inside the session cookie.
type SessionClaims struct {
	UserID    uuid.UUID `json:"user_id"`
	CompanyID uuid.UUID `json:"company_id"`
	RoleID    uuid.UUID `json:"role_id"`
	jwt.RegisteredClaims
}

// SessionManager issues and opens session cookie values. A value is an HS256
// JWT sealed with secretbox, so the claims are both authenticated and hidden.
type SessionManager struct {
	key [32]byte
	ttl time.Duration
	now func() time.Time
}

func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		key: sha256.Sum256([]byte(secret)),
		ttl: ttl,
		now: time.Now,
	}
}

func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs and seals a session for the user.
func (m *SessionManager) Issue(userID, companyID, roleID uuid.UUID) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := SessionClaims{
		UserID:    userID,
		CompanyID: companyID,
		RoleID:    roleID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key[:])
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session: %w", err)
	}

	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to read nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], []byte(signed), &nonce, &m.key)
	return base64.RawURLEncoding.EncodeToString(sealed), expiresAt, nil
}

// Open unseals a cookie value and validates the JWT inside it.
func (m *SessionManager) Open(value string) (*SessionClaims, error) {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return nil, ErrInvalidSession
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	signed, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &m.key)
	if !ok {
		return nil, ErrInvalidSession
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(string(signed), claims, func(*jwt.Token) (any, error) {
		return m.key[:], nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if !token.Valid || claims.UserID == uuid.Nil {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
