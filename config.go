package adminauth

import (
	"github.com/clayworks/adminauth/password"
	"github.com/clayworks/adminauth/rate"
	"github.com/clayworks/adminauth/token"
)

// Config groups gateway tuning. Instances are configured before
// [Builder.Build] and treated as immutable afterwards.
type Config struct {
	// Token configures the issuer/verifier. Secret is required; everything
	// else has defaults (7-day TTL, fixed issuer/audience tags).
	Token token.Config
	// Password configures the bcrypt hasher.
	Password password.Config
	// RateLimit configures whichever limiter strategy the builder ends up
	// with (the in-memory default or an injected one).
	RateLimit rate.Config
	// MinSecretLength is the shortest secret accepted by setup, account
	// creation, and password changes.
	MinSecretLength int
}

// DefaultConfig returns the production defaults. The token secret is the
// one field with no default; Build fails without it.
func DefaultConfig() Config {
	return Config{
		Token:           token.Config{TTL: token.DefaultTTL},
		Password:        password.Config{Cost: password.DefaultCost},
		RateLimit:       rate.DefaultConfig(),
		MinSecretLength: 6,
	}
}
