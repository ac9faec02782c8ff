package model

import "time"

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// DefaultTaskStatus is applied when a task is created without a status.
const DefaultTaskStatus = TaskStatusPending

// TaskStatuses lists every accepted status, in workflow order.
var TaskStatuses = []TaskStatus{
	TaskStatusPending,
	TaskStatusInProgress,
	TaskStatusCompleted,
}

// IsValid checks if the status is one of the enumerated values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Task is a unit of work owned by exactly one user.
// Deleting the owner deletes the task.
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskWithOwner is a task joined with its owner's contact details.
type TaskWithOwner struct {
	Task
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// TaskPatch holds the mutable fields of a task. Nil fields are left unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil
}
