// Package session issues and verifies the signed tokens that carry a logged-in
// user's id and selected city between requests.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "zypool"

// ErrInvalid is returned by Parse for any token that is malformed, expired,
// or not signed with the manager's secret.
var ErrInvalid = errors.New("invalid session token")

// Session is the per-client state the mobile app used to keep locally.
// City is empty until the user picks one.
type Session struct {
	UserID string
	City   string
}

type claims struct {
	jwt.RegisteredClaims
	City string `json:"city,omitempty"`
}

// Manager signs and verifies HS256 session tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager returns a Manager. A nil now defaults to time.Now.
func NewManager(secret string, ttl time.Duration, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{secret: []byte(secret), ttl: ttl, now: now}
}

// Issue returns a signed token for s and its expiry time.
func (m *Manager) Issue(s Session) (string, time.Time, error) {
	if strings.TrimSpace(s.UserID) == "" {
		return "", time.Time{}, errors.New("session.Manager.Issue: user id is required")
	}
	now := m.now().UTC()
	exp := now.Add(m.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		City: s.City,
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("session.Manager.Issue: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies token and returns the session it carries.
func (m *Manager) Parse(token string) (Session, error) {
	var c claims
	_, err := jwt.ParseWithClaims(strings.TrimSpace(token), &c, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Subject == "" {
		return Session{}, fmt.Errorf("%w: missing subject", ErrInvalid)
	}
	return Session{UserID: c.Subject, City: c.City}, nil
}
