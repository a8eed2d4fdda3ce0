package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserRegistered is a no-op.
func (n *NoopRecorder) IncUserRegistered() {}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin(status string) {}

// AddURLsCreated is a no-op.
func (n *NoopRecorder) AddURLsCreated(count int) {}

// AddURLsRejected is a no-op.
func (n *NoopRecorder) AddURLsRejected(count int) {}

// IncURLStatusChanged is a no-op.
func (n *NoopRecorder) IncURLStatusChanged() {}

// IncRedirectResolved is a no-op.
func (n *NoopRecorder) IncRedirectResolved() {}

// IncRedirectMissed is a no-op.
func (n *NoopRecorder) IncRedirectMissed() {}

// ObserveRedirectDuration is a no-op.
func (n *NoopRecorder) ObserveRedirectDuration(duration time.Duration) {}
