package handler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taskledger/taskledger/internal/model"
	"github.com/taskledger/taskledger/internal/repository"
)

// fakeStore mimics the repository's constraint behavior in memory.
type fakeStore struct {
	mu    sync.Mutex
	seq   int
	clock time.Time
	users []model.User
	tasks []model.Task

	// failWith, when set, is returned by every call.
	failWith error
}

func newFakeStore() *fakeStore {
	return &fakeStore{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeStore) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeStore) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%03d", prefix, f.seq)
}

func (f *fakeStore) CreateUser(ctx context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}

	for _, u := range f.users {
		if u.Email == user.Email {
			pgErr := &pgconn.PgError{Code: "23505", Message: `duplicate key value violates unique constraint "users_email_key"`}
			return fmt.Errorf("failed to create user: %w: %w", repository.ErrEmailExists, pgErr)
		}
	}

	user.ID = f.nextID("user")
	user.CreatedAt = f.tick()
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeStore) ListUsers(ctx context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}

	out := append([]model.User{}, f.users...)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) CreateTask(ctx context.Context, task *model.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}

	if _, ok := f.userByID(task.UserID); !ok {
		pgErr := &pgconn.PgError{Code: "23503", Message: `insert or update on table "tasks" violates foreign key constraint "tasks_user_id_fkey"`}
		return fmt.Errorf("failed to create task: %w: %w", repository.ErrUserNotFound, pgErr)
	}

	if task.Status == "" {
		task.Status = model.DefaultTaskStatus
	}
	task.ID = f.nextID("task")
	task.CreatedAt = f.tick()
	task.UpdatedAt = task.CreatedAt
	f.tasks = append(f.tasks, *task)
	return nil
}

func (f *fakeStore) ListTasks(ctx context.Context) ([]model.TaskWithOwner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}

	out := make([]model.TaskWithOwner, 0, len(f.tasks))
	for _, t := range f.tasks {
		owner, ok := f.userByID(t.UserID)
		if !ok {
			continue
		}
		out = append(out, model.TaskWithOwner{Task: t, UserName: owner.Name, UserEmail: owner.Email})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return false, f.failWith
	}

	for i := range f.tasks {
		t := &f.tasks[i]
		if t.ID != id {
			continue
		}
		if patch.Title != nil {
			t.Title = *patch.Title
		}
		if patch.Description != nil {
			t.Description = patch.Description
		}
		if patch.Status != nil {
			t.Status = *patch.Status
		}
		t.UpdatedAt = f.tick()
		return true, nil
	}
	return false, nil
}

func (f *fakeStore) DeleteTask(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return false, f.failWith
	}

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// deleteUser cascades like the tasks_user_id_fkey constraint.
func (f *fakeStore) deleteUser(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	users := f.users[:0]
	for _, u := range f.users {
		if u.ID != id {
			users = append(users, u)
		}
	}
	f.users = users

	tasks := f.tasks[:0]
	for _, t := range f.tasks {
		if t.UserID != id {
			tasks = append(tasks, t)
		}
	}
	f.tasks = tasks
}

func (f *fakeStore) userByID(id string) (model.User, bool) {
	for _, u := range f.users {
		if u.ID == id {
			return u, true
		}
	}
	return model.User{}, false
}

var errStoreDown = errors.New("failed to connect to `host=db user=tasks database=taskdb`: dial error")
