package rate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisLimiter(t *testing.T, cfg Config) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLimiter(client, cfg), mr
}

func TestRedisLimiterBudget(t *testing.T) {
	l, _ := newRedisLimiter(t, Config{MaxAttempts: 3, Window: time.Minute})

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

func TestRedisLimiterWindowExpires(t *testing.T) {
	l, mr := newRedisLimiter(t, Config{MaxAttempts: 1, Window: time.Minute})

	if d, _ := l.Allow(context.Background(), "key"); !d.Allowed {
		t.Fatal("first attempt denied")
	}
	if d, _ := l.Allow(context.Background(), "key"); d.Allowed {
		t.Fatal("second attempt allowed")
	}

	mr.FastForward(time.Minute + time.Second)

	if d, _ := l.Allow(context.Background(), "key"); !d.Allowed {
		t.Fatal("attempt after window expiry denied")
	}
}

func TestRedisLimiterSharedAcrossInstances(t *testing.T) {
	mr := miniredis.RunT(t)
	clientA := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	clientB := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = clientA.Close()
		_ = clientB.Close()
	})

	cfg := Config{MaxAttempts: 2, Window: time.Minute}
	a := NewRedisLimiter(clientA, cfg)
	b := NewRedisLimiter(clientB, cfg)

	if d, _ := a.Allow(context.Background(), "key"); !d.Allowed {
		t.Fatal("first attempt denied")
	}
	if d, _ := b.Allow(context.Background(), "key"); !d.Allowed {
		t.Fatal("second attempt denied")
	}
	if d, _ := a.Allow(context.Background(), "key"); d.Allowed {
		t.Fatal("third attempt allowed despite the shared window")
	}
}

func TestRedisLimiterBackendDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	l := NewRedisLimiter(client, Config{MaxAttempts: 1, Window: time.Minute})
	mr.Close()

	_, err := l.Allow(context.Background(), "key")
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("Allow with a dead backend = %v, want ErrBackendUnavailable", err)
	}
}
