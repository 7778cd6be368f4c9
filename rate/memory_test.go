package rate

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiterBudget(t *testing.T) {
	l := NewMemoryLimiter(Config{MaxAttempts: 3, Window: time.Minute})

	for i := 0; i < 3; i++ {
		d, err := l.Allow(context.Background(), "203.0.113.7")
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !d.Allowed {
			t.Fatalf("attempt %d denied inside budget", i+1)
		}
	}

	d, err := l.Allow(context.Background(), "203.0.113.7")
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if d.Allowed {
		t.Fatal("attempt over budget allowed")
	}
	if d.RetryAfter <= 0 || d.RetryAfter > time.Minute {
		t.Errorf("RetryAfter = %v, want (0, 1m]", d.RetryAfter)
	}
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	l := NewMemoryLimiter(Config{MaxAttempts: 1, Window: time.Minute})

	if d, _ := l.Allow(context.Background(), "alpha"); !d.Allowed {
		t.Fatal("first attempt for alpha denied")
	}
	if d, _ := l.Allow(context.Background(), "alpha"); d.Allowed {
		t.Fatal("second attempt for alpha allowed")
	}
	if d, _ := l.Allow(context.Background(), "beta"); !d.Allowed {
		t.Fatal("exhausting alpha's budget throttled beta")
	}
}

func TestMemoryLimiterWindowReset(t *testing.T) {
	l := NewMemoryLimiter(Config{MaxAttempts: 1, Window: time.Minute})

	current := time.Now()
	l.now = func() time.Time { return current }

	if d, _ := l.Allow(context.Background(), "key"); !d.Allowed {
		t.Fatal("first attempt denied")
	}
	if d, _ := l.Allow(context.Background(), "key"); d.Allowed {
		t.Fatal("second attempt allowed")
	}

	current = current.Add(time.Minute + time.Second)
	if d, _ := l.Allow(context.Background(), "key"); !d.Allowed {
		t.Fatal("attempt after window reset denied")
	}
}

func TestMemoryLimiterDefaults(t *testing.T) {
	l := NewMemoryLimiter(Config{})
	def := DefaultConfig()
	if l.config.MaxAttempts != def.MaxAttempts || l.config.Window != def.Window {
		t.Errorf("config = %+v, want %+v", l.config, def)
	}
}
