package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered         uint64
	LoginsSucceeded         uint64
	LoginsFailed            uint64
	URLsCreated             uint64
	URLsRejected            uint64
	URLStatusChanges        uint64
	RedirectsResolved       uint64
	RedirectsMissed         uint64
	RedirectDurationCount   uint64
	RedirectDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	usersRegistered         uint64
	loginsSucceeded         uint64
	loginsFailed            uint64
	urlsCreated             uint64
	urlsRejected            uint64
	urlStatusChanges        uint64
	redirectsResolved       uint64
	redirectsMissed         uint64
	redirectDurationCount   uint64
	redirectDurationTotalNs int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered:         atomic.LoadUint64(&m.usersRegistered),
		LoginsSucceeded:         atomic.LoadUint64(&m.loginsSucceeded),
		LoginsFailed:            atomic.LoadUint64(&m.loginsFailed),
		URLsCreated:             atomic.LoadUint64(&m.urlsCreated),
		URLsRejected:            atomic.LoadUint64(&m.urlsRejected),
		URLStatusChanges:        atomic.LoadUint64(&m.urlStatusChanges),
		RedirectsResolved:       atomic.LoadUint64(&m.redirectsResolved),
		RedirectsMissed:         atomic.LoadUint64(&m.redirectsMissed),
		RedirectDurationCount:   atomic.LoadUint64(&m.redirectDurationCount),
		RedirectDurationTotalNs: atomic.LoadInt64(&m.redirectDurationTotalNs),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncLogin increments the login counter for the given outcome.
func (m *InMemoryRecorder) IncLogin(status string) {
	if status == LoginSuccess {
		atomic.AddUint64(&m.loginsSucceeded, 1)
		return
	}
	atomic.AddUint64(&m.loginsFailed, 1)
}

// AddURLsCreated adds n to the created counter.
func (m *InMemoryRecorder) AddURLsCreated(n int) {
	if n > 0 {
		atomic.AddUint64(&m.urlsCreated, uint64(n))
	}
}

// AddURLsRejected adds n to the rejected counter.
func (m *InMemoryRecorder) AddURLsRejected(n int) {
	if n > 0 {
		atomic.AddUint64(&m.urlsRejected, uint64(n))
	}
}

// IncURLStatusChanged increments the active-toggle counter.
func (m *InMemoryRecorder) IncURLStatusChanged() {
	atomic.AddUint64(&m.urlStatusChanges, 1)
}

// IncRedirectResolved increments the resolved redirect counter.
func (m *InMemoryRecorder) IncRedirectResolved() {
	atomic.AddUint64(&m.redirectsResolved, 1)
}

// IncRedirectMissed increments the missed redirect counter.
func (m *InMemoryRecorder) IncRedirectMissed() {
	atomic.AddUint64(&m.redirectsMissed, 1)
}

// ObserveRedirectDuration records redirect duration.
func (m *InMemoryRecorder) ObserveRedirectDuration(duration time.Duration) {
	atomic.AddUint64(&m.redirectDurationCount, 1)
	atomic.AddInt64(&m.redirectDurationTotalNs, duration.Nanoseconds())
}
