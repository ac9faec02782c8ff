package dto

import (
	"fmt"
	"strings"

	"github.com/taskledger/taskledger/internal/model"
)

// CreateTaskRequest represents the request body for creating a task.
// user_id and title are required; an absent or empty status means pending.
type CreateTaskRequest struct {
	UserID      string  `json:"user_id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status,omitempty"`
}

// Validate normalizes the request and checks required fields and status.
func (r *CreateTaskRequest) Validate() error {
	r.UserID = strings.TrimSpace(r.UserID)
	r.Title = strings.TrimSpace(r.Title)
	r.Status = strings.TrimSpace(r.Status)
	if r.Status == "" {
		r.Status = string(model.DefaultTaskStatus)
	}

	verr := &ValidationError{}
	if r.UserID == "" {
		verr.add("user_id is required")
	}
	if r.Title == "" {
		verr.add("title is required")
	}
	if !model.TaskStatus(r.Status).IsValid() {
		verr.add(invalidStatus(r.Status))
	}
	return verr.orNil()
}

// ToModel converts the request into an unsaved task.
func (r *CreateTaskRequest) ToModel() *model.Task {
	return &model.Task{
		UserID:      r.UserID,
		Title:       r.Title,
		Description: r.Description,
		Status:      model.TaskStatus(r.Status),
	}
}

// UpdateTaskRequest represents the request body for updating a task.
// Omitted fields keep their stored value.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// Validate rejects an empty title and unknown statuses.
func (r *UpdateTaskRequest) Validate() error {
	r.Title = trimPtr(r.Title)
	r.Status = trimPtr(r.Status)

	verr := &ValidationError{}
	if r.Title != nil && *r.Title == "" {
		verr.add("title must not be empty")
	}
	if r.Status != nil && !model.TaskStatus(*r.Status).IsValid() {
		verr.add(invalidStatus(*r.Status))
	}
	return verr.orNil()
}

// ToPatch converts the request into a task patch.
func (r *UpdateTaskRequest) ToPatch() model.TaskPatch {
	patch := model.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
	}
	if r.Status != nil {
		s := model.TaskStatus(*r.Status)
		patch.Status = &s
	}
	return patch
}

func invalidStatus(got string) string {
	allowed := make([]string, len(model.TaskStatuses))
	for i, s := range model.TaskStatuses {
		allowed[i] = string(s)
	}
	return fmt.Sprintf("status %q is not one of %s", got, strings.Join(allowed, ", "))
}
