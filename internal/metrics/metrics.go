// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Record mutations
	IncUserCreated()
	IncTaskCreated()
	IncTaskUpdated()
	IncTaskDeleted()

	// IncStoreError counts a failed store call. class is the SQLSTATE class name.
	IncStoreError(op, class string)

	// ObserveRequest records one served HTTP request. route is the router pattern.
	ObserveRequest(method, route string, status int, duration time.Duration)
}
