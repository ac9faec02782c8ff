package repository

import (
	"context"
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/taskledger/taskledger/internal/model"
)

// CreateTask inserts a new task. An empty status is stored as the default.
// ID, Status and the timestamps are written back into task.
func (r *Repository) CreateTask(ctx context.Context, task *model.Task) error {
	if task.Status == "" {
		task.Status = model.DefaultTaskStatus
	}

	query := `
		INSERT INTO tasks (id, user_id, title, description, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, status, created_at, updated_at
	`

	var status string
	err := r.pool.QueryRow(ctx, query,
		ulid.Make().String(),
		task.UserID,
		task.Title,
		task.Description,
		string(task.Status),
	).Scan(&task.ID, &status, &task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("failed to create task: %w: %w", ErrUserNotFound, err)
		}
		return fmt.Errorf("failed to create task: %w", err)
	}
	task.Status = model.TaskStatus(status)

	return nil
}

// ListTasks returns every task joined with its owner, newest first.
// Tasks whose owner cannot be resolved are not returned.
func (r *Repository) ListTasks(ctx context.Context) ([]model.TaskWithOwner, error) {
	query := `
		SELECT t.id, t.user_id, t.title, t.description, t.status,
		       t.created_at, t.updated_at, u.name, u.email
		FROM tasks t
		INNER JOIN users u ON u.id = t.user_id
		ORDER BY t.created_at DESC, t.id DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.TaskWithOwner, 0)
	for rows.Next() {
		var (
			task   model.TaskWithOwner
			status string
		)
		if err := rows.Scan(
			&task.ID,
			&task.UserID,
			&task.Title,
			&task.Description,
			&status,
			&task.CreatedAt,
			&task.UpdatedAt,
			&task.UserName,
			&task.UserEmail,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		task.Status = model.TaskStatus(status)
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

// UpdateTask applies patch to the task with the given id. Fields left nil in
// the patch keep their stored value; updated_at is refreshed by trigger.
// It reports whether a row matched.
func (r *Repository) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (bool, error) {
	query := `
		UPDATE tasks
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    status = COALESCE($4, status)
		WHERE id = $1
	`

	var status *string
	if patch.Status != nil {
		s := string(*patch.Status)
		status = &s
	}

	result, err := r.pool.Exec(ctx, query,
		id,
		patch.Title,
		patch.Description,
		status,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update task: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// DeleteTask removes the task with the given id. It reports whether a row matched.
func (r *Repository) DeleteTask(ctx context.Context, id string) (bool, error) {
	query := `DELETE FROM tasks WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}

	return result.RowsAffected() > 0, nil
}
