// Package password provides one-way hashing and verification of
// administrator secrets.
//
// Hashing uses bcrypt, whose per-hash random salt makes two hashes of the
// same secret differ, and whose cost factor keeps verification deliberately
// slow. Verification is a boolean: malformed hashes and mismatches both
// report false rather than surfacing crypto errors to callers.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost matches the cost the storefront has always hashed with;
// existing hashes verify unchanged.
const DefaultCost = 12

// Config holds hasher tuning parameters.
type Config struct {
	Cost int
}

// Bcrypt hashes and verifies secrets. Immutable after construction, safe
// for concurrent use.
type Bcrypt struct {
	cost int
}

// NewBcrypt validates cfg and returns a [Bcrypt]. A zero cost selects
// [DefaultCost].
func NewBcrypt(cfg Config) (*Bcrypt, error) {
	if cfg.Cost == 0 {
		cfg.Cost = DefaultCost
	}
	if cfg.Cost < bcrypt.MinCost || cfg.Cost > bcrypt.MaxCost {
		return nil, errors.New("bcrypt cost out of range")
	}
	return &Bcrypt{cost: cfg.Cost}, nil
}

// Hash returns the bcrypt hash of secret. The error path only triggers on
// entropy exhaustion or an over-long secret (bcrypt caps input at 72 bytes).
func (b *Bcrypt) Hash(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), b.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether secret matches encodedHash. It never returns an
// error: a malformed hash, an empty input, or a mismatch are all false.
func (b *Bcrypt) Verify(secret, encodedHash string) bool {
	if secret == "" || encodedHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(secret)) == nil
}
