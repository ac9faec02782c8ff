package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersCreated   uint64
	TasksCreated   uint64
	TasksUpdated   uint64
	TasksDeleted   uint64
	StoreErrors    map[string]uint64 // keyed by "op/class"
	Requests       uint64
	RequestTotalNs int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	usersCreated   uint64
	tasksCreated   uint64
	tasksUpdated   uint64
	tasksDeleted   uint64
	requests       uint64
	requestTotalNs int64

	mu          sync.Mutex
	storeErrors map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{storeErrors: make(map[string]uint64)}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	storeErrors := make(map[string]uint64, len(m.storeErrors))
	for k, v := range m.storeErrors {
		storeErrors[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		UsersCreated:   atomic.LoadUint64(&m.usersCreated),
		TasksCreated:   atomic.LoadUint64(&m.tasksCreated),
		TasksUpdated:   atomic.LoadUint64(&m.tasksUpdated),
		TasksDeleted:   atomic.LoadUint64(&m.tasksDeleted),
		StoreErrors:    storeErrors,
		Requests:       atomic.LoadUint64(&m.requests),
		RequestTotalNs: atomic.LoadInt64(&m.requestTotalNs),
	}
}

// IncUserCreated increments user created counter.
func (m *InMemoryRecorder) IncUserCreated() {
	atomic.AddUint64(&m.usersCreated, 1)
}

// IncTaskCreated increments task created counter.
func (m *InMemoryRecorder) IncTaskCreated() {
	atomic.AddUint64(&m.tasksCreated, 1)
}

// IncTaskUpdated increments task updated counter.
func (m *InMemoryRecorder) IncTaskUpdated() {
	atomic.AddUint64(&m.tasksUpdated, 1)
}

// IncTaskDeleted increments task deleted counter.
func (m *InMemoryRecorder) IncTaskDeleted() {
	atomic.AddUint64(&m.tasksDeleted, 1)
}

// IncStoreError increments the error counter for op and class.
func (m *InMemoryRecorder) IncStoreError(op, class string) {
	m.mu.Lock()
	m.storeErrors[op+"/"+class]++
	m.mu.Unlock()
}

// ObserveRequest records request count and total duration.
func (m *InMemoryRecorder) ObserveRequest(method, route string, status int, duration time.Duration) {
	atomic.AddUint64(&m.requests, 1)
	atomic.AddInt64(&m.requestTotalNs, duration.Nanoseconds())
}
