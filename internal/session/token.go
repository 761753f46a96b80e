// Package session remembers who is looking at the forum between requests.
//
// The viewer's handle and display name travel in a signed JWT stored in an
// HttpOnly cookie. The token is an identity hint for rendering pages, not an
// authentication mechanism: anyone can sign in as any handle from the feed
// page.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

const (
	issuer = "event-forum"

	// Lifetime is how long a viewer cookie stays valid.
	Lifetime = 30 * 24 * time.Hour

	minSecretLength = 16
)

// Viewer is the person browsing the pages.
type Viewer struct {
	Handle      string
	DisplayName string
}

// Manager signs and verifies viewer tokens with an HMAC secret.
type Manager struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

func NewManager(secret string) (*Manager, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("session: secret must be at least %d characters", minSecretLength)
	}
	return &Manager{
		secret:   []byte(secret),
		lifetime: Lifetime,
		now:      time.Now,
	}, nil
}

type claims struct {
	DisplayName string `json:"name"`
	jwt.RegisteredClaims
}

// Issue returns a signed token for v. The handle is the subject.
func (m *Manager) Issue(v Viewer) (string, error) {
	if v.Handle == "" {
		return "", errors.New("session: viewer has no handle")
	}

	now := m.now()
	c := claims{
		DisplayName: v.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        xid.New().String(),
			Subject:   v.Handle,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.lifetime)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("session: signing token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature, issuer and expiry of tokenStr and returns
// the viewer it names.
func (m *Manager) Parse(tokenStr string) (Viewer, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Viewer{}, errors.New("session: token expired")
		}
		return Viewer{}, fmt.Errorf("session: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid || c.Subject == "" {
		return Viewer{}, errors.New("session: invalid token claims")
	}

	return Viewer{Handle: c.Subject, DisplayName: c.DisplayName}, nil
}
