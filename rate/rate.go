// Package rate throttles login attempts per client address.
//
// The limiter is a strategy behind the [Limiter] interface: the in-memory
// fixed window is the default and is explicitly best-effort (not durable
// across restarts, not shared across processes), while the redis-backed
// implementation gives multi-instance deployments a shared window.
package rate

import (
	"context"
	"errors"
	"time"
)

// ErrBackendUnavailable wraps transport failures from shared-store
// implementations. The in-memory limiter never returns it.
var ErrBackendUnavailable = errors.New("rate limit backend unavailable")

// Config holds window tuning shared by all strategies.
type Config struct {
	// MaxAttempts is the number of attempts allowed per window.
	MaxAttempts int
	// Window is the fixed window length.
	Window time.Duration
}

// DefaultConfig mirrors the storefront's historical budget: five attempts
// per fifteen minutes per client address.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 5,
		Window:      15 * time.Minute,
	}
}

// Decision is the outcome of a single attempt check.
type Decision struct {
	// Allowed reports whether this attempt is within budget.
	Allowed bool
	// RetryAfter is the time until the window resets. Only meaningful when
	// Allowed is false.
	RetryAfter time.Duration
}

// Limiter counts an attempt for key and decides whether it may proceed.
// Every call counts, including attempts that later succeed; a successful
// login does not refund the window.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}
