package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTaskStatus_IsValid(t *testing.T) {
	testCases := []struct {
		status TaskStatus
		want   bool
	}{
		{TaskStatusPending, true},
		{TaskStatusInProgress, true},
		{TaskStatusCompleted, true},
		{"", false},
		{"done", false},
		{"PENDING", false},
		{"in-progress", false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.status), func(t *testing.T) {
			if got := tc.status.IsValid(); got != tc.want {
				t.Errorf("TaskStatus(%q).IsValid() = %v, want %v", tc.status, got, tc.want)
			}
		})
	}
}

func TestTaskStatuses_AllValid(t *testing.T) {
	for _, s := range TaskStatuses {
		if !s.IsValid() {
			t.Errorf("listed status %q is not valid", s)
		}
	}
	if !DefaultTaskStatus.IsValid() {
		t.Errorf("default status %q is not valid", DefaultTaskStatus)
	}
}

func TestTaskPatch_IsEmpty(t *testing.T) {
	if !(TaskPatch{}).IsEmpty() {
		t.Error("zero patch should be empty")
	}

	title := "x"
	if (TaskPatch{Title: &title}).IsEmpty() {
		t.Error("patch with title should not be empty")
	}
}

func TestTaskWithOwner_FlattensJSON(t *testing.T) {
	task := TaskWithOwner{
		Task: Task{
			ID:     "01HX",
			UserID: "01HU",
			Title:  "write report",
			Status: TaskStatusPending,
		},
		UserName:  "Ada",
		UserEmail: "ada@example.com",
	}

	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	out := string(data)
	for _, key := range []string{`"id":"01HX"`, `"user_id":"01HU"`, `"user_name":"Ada"`, `"user_email":"ada@example.com"`, `"description":null`} {
		if !strings.Contains(out, key) {
			t.Errorf("expected %s in %s", key, out)
		}
	}
}
