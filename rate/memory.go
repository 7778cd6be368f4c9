package rate

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is the default in-process fixed-window limiter. Counters
// live in a map keyed by client address and vanish on restart; concurrent
// process instances each keep their own window. That is a known limitation,
// not a correctness guarantee.
type MemoryLimiter struct {
	config Config
	now    func() time.Time

	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	count   int
	resetAt time.Time
}

// NewMemoryLimiter returns a [MemoryLimiter]. Zero config fields fall back
// to [DefaultConfig].
func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	def := DefaultConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	return &MemoryLimiter{
		config:  cfg,
		now:     time.Now,
		windows: make(map[string]*window),
	}
}

// Allow counts an attempt for key and reports whether it fits the window.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || !w.resetAt.After(now) {
		w = &window{resetAt: now.Add(l.config.Window)}
		l.windows[key] = w
	}

	if w.count >= l.config.MaxAttempts {
		return Decision{RetryAfter: w.resetAt.Sub(now)}, nil
	}

	w.count++
	l.pruneLocked(now)
	return Decision{Allowed: true}, nil
}

// pruneLocked drops expired windows opportunistically so the map does not
// grow with one entry per client address forever.
func (l *MemoryLimiter) pruneLocked(now time.Time) {
	if len(l.windows) < 1024 {
		return
	}
	for key, w := range l.windows {
		if !w.resetAt.After(now) {
			delete(l.windows, key)
		}
	}
}
