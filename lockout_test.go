package adminauth

import (
	"testing"
	"time"
)

func TestLocked(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name   string
		expiry time.Time
		want   bool
	}{
		{"never locked", time.Time{}, false},
		{"lock in the future", now.Add(time.Hour), true},
		{"lock expiring exactly now", now, false},
		{"lock in the past", now.Add(-time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Account{LockExpiry: tt.expiry}
			if got := a.Locked(now); got != tt.want {
				t.Errorf("Locked = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecordFailedAttemptOpensLockAtThreshold(t *testing.T) {
	now := time.Now()
	a := &Account{}

	for i := 1; i < LockoutThreshold; i++ {
		recordFailedAttempt(a, now)
		if a.FailedAttempts != i {
			t.Fatalf("after %d failures counter = %d", i, a.FailedAttempts)
		}
		if a.Locked(now) {
			t.Fatalf("locked after only %d failures", i)
		}
	}

	recordFailedAttempt(a, now)
	if a.FailedAttempts != LockoutThreshold {
		t.Errorf("counter = %d, want %d", a.FailedAttempts, LockoutThreshold)
	}
	if !a.Locked(now) {
		t.Error("not locked at threshold")
	}
	if want := now.Add(LockoutDuration); !a.LockExpiry.Equal(want) {
		t.Errorf("LockExpiry = %v, want %v", a.LockExpiry, want)
	}
}

func TestRecordFailedAttemptDoesNotExtendActiveLock(t *testing.T) {
	now := time.Now()
	a := &Account{FailedAttempts: LockoutThreshold, LockExpiry: now.Add(time.Hour)}

	recordFailedAttempt(a, now)
	if want := now.Add(time.Hour); !a.LockExpiry.Equal(want) {
		t.Errorf("attempt during an active lock moved the expiry to %v", a.LockExpiry)
	}
	if a.FailedAttempts != LockoutThreshold+1 {
		t.Errorf("counter = %d, want %d", a.FailedAttempts, LockoutThreshold+1)
	}
}

func TestRecordFailedAttemptAfterExpiredLockRestartsCounter(t *testing.T) {
	now := time.Now()
	a := &Account{FailedAttempts: LockoutThreshold, LockExpiry: now.Add(-time.Minute)}

	recordFailedAttempt(a, now)
	if a.FailedAttempts != 1 {
		t.Errorf("counter = %d, want 1 (stale attempts must not stack)", a.FailedAttempts)
	}
	if !a.LockExpiry.IsZero() {
		t.Errorf("expired lock not cleared: %v", a.LockExpiry)
	}
	if a.Locked(now) {
		t.Error("account still locked after expired-lock restart")
	}
}

func TestResetLockout(t *testing.T) {
	now := time.Now()
	a := &Account{FailedAttempts: 3, LockExpiry: now.Add(-time.Minute)}

	resetLockout(a, now)
	if a.FailedAttempts != 0 {
		t.Errorf("counter = %d, want 0", a.FailedAttempts)
	}
	if !a.LockExpiry.IsZero() {
		t.Errorf("LockExpiry = %v, want zero", a.LockExpiry)
	}
	if !a.LastLogin.Equal(now) {
		t.Errorf("LastLogin = %v, want %v", a.LastLogin, now)
	}
}
