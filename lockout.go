package adminauth

import "time"

// Lockout constants. The source system hardcodes these and so do we; make
// them configuration only when a deployment actually needs different values.
const (
	// LockoutThreshold is the number of consecutive failed attempts that
	// triggers a temporary lock.
	LockoutThreshold = 5
	// LockoutDuration is how long a triggered lock lasts.
	LockoutDuration = 2 * time.Hour
)

// Locked reports whether the account is inside an active lockout window.
// A lock expiring exactly at now is already open.
func (a *Account) Locked(now time.Time) bool {
	return !a.LockExpiry.IsZero() && a.LockExpiry.After(now)
}

// recordFailedAttempt advances the lockout state machine after a failed
// secret verification. A previous lock that has already expired restarts the
// counter at 1 rather than stacking onto stale attempts; otherwise the
// counter increments and, on crossing the threshold while not yet locked,
// the lock window opens.
func recordFailedAttempt(a *Account, now time.Time) {
	if !a.LockExpiry.IsZero() && !a.LockExpiry.After(now) {
		a.FailedAttempts = 1
		a.LockExpiry = time.Time{}
		return
	}

	a.FailedAttempts++
	if a.FailedAttempts >= LockoutThreshold && !a.Locked(now) {
		a.LockExpiry = now.Add(LockoutDuration)
	}
}

// resetLockout clears the state machine after a successful verification and
// stamps the login time. An expired lock needs no separate unlock action;
// this reset is it.
func resetLockout(a *Account, now time.Time) {
	a.FailedAttempts = 0
	a.LockExpiry = time.Time{}
	a.LastLogin = now
}
