package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserCreated is a no-op.
func (n *NoopRecorder) IncUserCreated() {}

// IncTaskCreated is a no-op.
func (n *NoopRecorder) IncTaskCreated() {}

// IncTaskUpdated is a no-op.
func (n *NoopRecorder) IncTaskUpdated() {}

// IncTaskDeleted is a no-op.
func (n *NoopRecorder) IncTaskDeleted() {}

// IncStoreError is a no-op.
func (n *NoopRecorder) IncStoreError(op, class string) {}

// ObserveRequest is a no-op.
func (n *NoopRecorder) ObserveRequest(method, route string, status int, duration time.Duration) {}
