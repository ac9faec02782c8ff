package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskledger/taskledger/internal/handler/dto"
	"github.com/taskledger/taskledger/internal/metrics"
	"github.com/taskledger/taskledger/internal/model"
)

// TaskStore is the persistence the task routes need.
// Update and Delete report whether a row matched.
type TaskStore interface {
	CreateTask(ctx context.Context, task *model.Task) error
	ListTasks(ctx context.Context) ([]model.TaskWithOwner, error)
	UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (bool, error)
	DeleteTask(ctx context.Context, id string) (bool, error)
}

// TaskHandler handles HTTP requests for tasks.
type TaskHandler struct {
	store   TaskStore
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(store TaskStore, recorder metrics.Recorder, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		store:   store,
		metrics: recorder,
		logger:  logger,
	}
}

// List handles GET /api/tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.store.ListTasks(r.Context())
	if err != nil {
		storeError(w, r, h.logger, h.metrics, "list_tasks", err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	task := req.ToModel()
	if err := h.store.CreateTask(r.Context(), task); err != nil {
		storeError(w, r, h.logger, h.metrics, "create_task", err)
		return
	}

	h.metrics.IncTaskCreated()
	h.logger.Info("task_created",
		"task_id", task.ID,
		"user_id", task.UserID,
		"status", task.Status,
	)

	writeJSON(w, http.StatusCreated, task)
}

// Update handles PUT /api/tasks/{id}.
// An id that matches no task still answers 200.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	found, err := h.store.UpdateTask(r.Context(), id, req.ToPatch())
	if err != nil {
		storeError(w, r, h.logger, h.metrics, "update_task", err)
		return
	}

	h.metrics.IncTaskUpdated()
	h.logger.Info("task_updated", "task_id", id, "matched", found)

	writeJSON(w, http.StatusOK, dto.MessageResponse{
		Message: "Task updated successfully",
		ID:      id,
	})
}

// Delete handles DELETE /api/tasks/{id}.
// An id that matches no task still answers 200.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	found, err := h.store.DeleteTask(r.Context(), id)
	if err != nil {
		storeError(w, r, h.logger, h.metrics, "delete_task", err)
		return
	}

	h.metrics.IncTaskDeleted()
	h.logger.Info("task_deleted", "task_id", id, "matched", found)

	writeJSON(w, http.StatusOK, dto.MessageResponse{
		Message: "Task deleted successfully",
		ID:      id,
	})
}
