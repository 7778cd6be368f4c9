package adminauth

import "sync/atomic"

// MetricID indexes a counter in the in-process metrics set.
type MetricID uint8

const (
	MetricLoginSuccess MetricID = iota
	MetricLoginFailure
	MetricLoginRateLimited
	MetricLoginLocked
	MetricSetupCompleted
	MetricAccountCreated
	MetricTokenRefreshed
	MetricPasswordChanged
	MetricProfileUpdated
	MetricGuardRejected

	metricIDCount
)

// Metrics is a fixed set of atomic counters. All methods are safe for
// concurrent use; a nil *Metrics is a no-op.
type Metrics struct {
	counters [metricIDCount]atomic.Uint64
}

// NewMetrics returns an empty counter set.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Inc increments a counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || id >= metricIDCount {
		return
	}
	m.counters[id].Add(1)
}

// Get returns a counter's current value.
func (m *Metrics) Get(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return m.counters[id].Load()
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	LoginSuccess     uint64 `json:"login_success"`
	LoginFailure     uint64 `json:"login_failure"`
	LoginRateLimited uint64 `json:"login_rate_limited"`
	LoginLocked      uint64 `json:"login_locked"`
	SetupCompleted   uint64 `json:"setup_completed"`
	AccountCreated   uint64 `json:"account_created"`
	TokenRefreshed   uint64 `json:"token_refreshed"`
	PasswordChanged  uint64 `json:"password_changed"`
	ProfileUpdated   uint64 `json:"profile_updated"`
	GuardRejected    uint64 `json:"guard_rejected"`
}

// Snapshot copies every counter.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	return Snapshot{
		LoginSuccess:     m.Get(MetricLoginSuccess),
		LoginFailure:     m.Get(MetricLoginFailure),
		LoginRateLimited: m.Get(MetricLoginRateLimited),
		LoginLocked:      m.Get(MetricLoginLocked),
		SetupCompleted:   m.Get(MetricSetupCompleted),
		AccountCreated:   m.Get(MetricAccountCreated),
		TokenRefreshed:   m.Get(MetricTokenRefreshed),
		PasswordChanged:  m.Get(MetricPasswordChanged),
		ProfileUpdated:   m.Get(MetricProfileUpdated),
		GuardRejected:    m.Get(MetricGuardRejected),
	}
}
