// Package token issues and verifies the signed bearer tokens that prove a
// prior successful authentication.
//
// Tokens are HS256 JWTs carrying the account ID as subject plus fixed
// issuer/audience tags. Verification distinguishes an expired token (a
// normal re-authentication trigger) from an invalid one (tampering or a
// foreign token); callers are expected to collapse both into a generic
// rejection on the wire while keeping the distinction in logs.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalid marks a token whose signature, issuer, audience, or shape
	// does not verify.
	ErrInvalid = errors.New("invalid token")
	// ErrExpired marks a well-formed, correctly signed token past its
	// expiry. The boundary is exclusive: a token verified exactly at its
	// expiry instant is already expired.
	ErrExpired = errors.New("token expired")
)

// Config holds signing parameters. Issuer and Audience default to the
// storefront's fixed tags when empty.
type Config struct {
	Secret   []byte
	TTL      time.Duration
	Issuer   string
	Audience string
}

// DefaultTTL is the token lifetime used when Config.TTL is zero.
const DefaultTTL = 7 * 24 * time.Hour

const (
	defaultIssuer   = "arabic-clay-store"
	defaultAudience = "admin-dashboard"
)

// Manager mints and verifies tokens. It is immutable after construction and
// safe for concurrent use.
type Manager struct {
	config Config
	now    func() time.Time
}

// NewManager validates cfg and returns a [Manager].
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token signing secret is required")
	}
	if cfg.TTL < 0 {
		return nil, errors.New("token TTL must not be negative")
	}
	if cfg.TTL == 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Issuer == "" {
		cfg.Issuer = defaultIssuer
	}
	if cfg.Audience == "" {
		cfg.Audience = defaultAudience
	}

	return &Manager{config: cfg, now: time.Now}, nil
}

type claims struct {
	jwt.RegisteredClaims
}

// Issue mints a signed token bound to accountID, expiring TTL from now.
func (m *Manager) Issue(accountID string) (string, error) {
	if accountID == "" {
		return "", errors.New("account id is required")
	}

	now := m.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			Issuer:    m.config.Issuer,
			Audience:  jwt.ClaimStrings{m.config.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.TTL)),
		},
	})

	return tok.SignedString(m.config.Secret)
}

// Verify checks the signature, tags, and expiry, returning the bound
// account ID. Failures are [ErrExpired] for a stale token and [ErrInvalid]
// for everything else.
func (m *Manager) Verify(tokenStr string) (string, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)

	parsed, err := parser.ParseWithClaims(tokenStr, &claims{}, func(*jwt.Token) (interface{}, error) {
		return m.config.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrInvalid
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || c.Subject == "" {
		return "", ErrInvalid
	}

	return c.Subject, nil
}
