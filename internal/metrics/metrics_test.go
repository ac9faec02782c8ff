package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInMemoryRecorder_Counts(t *testing.T) {
	m := NewInMemory()

	m.IncUserCreated()
	m.IncTaskCreated()
	m.IncTaskCreated()
	m.IncTaskUpdated()
	m.IncTaskDeleted()
	m.IncStoreError("create_user", "integrity_constraint_violation")
	m.IncStoreError("create_user", "integrity_constraint_violation")
	m.ObserveRequest("GET", "/api/users", 200, 3*time.Millisecond)

	s := m.Snapshot()
	if s.UsersCreated != 1 || s.TasksCreated != 2 || s.TasksUpdated != 1 || s.TasksDeleted != 1 {
		t.Errorf("unexpected counters: %+v", s)
	}
	if got := s.StoreErrors["create_user/integrity_constraint_violation"]; got != 2 {
		t.Errorf("expected 2 store errors, got %d", got)
	}
	if s.Requests != 1 || s.RequestTotalNs != (3*time.Millisecond).Nanoseconds() {
		t.Errorf("unexpected request stats: %+v", s)
	}
}

func TestInMemoryRecorder_SnapshotIsCopy(t *testing.T) {
	m := NewInMemory()
	m.IncStoreError("list_tasks", "client")

	s := m.Snapshot()
	s.StoreErrors["list_tasks/client"] = 99

	if got := m.Snapshot().StoreErrors["list_tasks/client"]; got != 1 {
		t.Errorf("snapshot mutation leaked into recorder: %d", got)
	}
}

func TestPrometheusRecorder_Counters(t *testing.T) {
	p := NewPrometheus()

	p.IncUserCreated()
	p.IncTaskCreated()
	p.IncTaskCreated()
	p.IncTaskDeleted()
	p.IncStoreError("create_task", "integrity_constraint_violation")

	if got := testutil.ToFloat64(p.recordsCreated.WithLabelValues("task")); got != 2 {
		t.Errorf("expected 2 tasks created, got %v", got)
	}
	if got := testutil.ToFloat64(p.recordsCreated.WithLabelValues("user")); got != 1 {
		t.Errorf("expected 1 user created, got %v", got)
	}
	if got := testutil.ToFloat64(p.tasksDeleted); got != 1 {
		t.Errorf("expected 1 task deleted, got %v", got)
	}
	if got := testutil.ToFloat64(p.storeErrors.WithLabelValues("create_task", "integrity_constraint_violation")); got != 1 {
		t.Errorf("expected 1 store error, got %v", got)
	}
}

func TestPrometheusRecorder_Handler(t *testing.T) {
	p := NewPrometheus()
	p.ObserveRequest("GET", "/health", 200, 10*time.Millisecond)

	srv := httptest.NewServer(p.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	out := string(body)
	for _, want := range []string{
		"taskledger_http_request_duration_seconds_count",
		`route="/health"`,
		"go_goroutines",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in exposition output", want)
		}
	}
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoop()
	r.IncUserCreated()
	r.IncStoreError("x", "y")
	r.ObserveRequest("GET", "/", 200, time.Second)
}
