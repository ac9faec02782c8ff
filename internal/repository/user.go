package repository

import (
	"context"
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/taskledger/taskledger/internal/model"
)

// CreateUser inserts a new user. The ID and CreatedAt fields are assigned
// by the repository and the store and written back into user.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, name, email)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		ulid.Make().String(),
		user.Name,
		user.Email,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to create user: %w: %w", ErrEmailExists, err)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// ListUsers returns every user, newest first.
func (r *Repository) ListUsers(ctx context.Context) ([]model.User, error) {
	query := `
		SELECT id, name, email, created_at
		FROM users
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		var user model.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}
