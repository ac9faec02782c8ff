package repository

import (
	"context"
	"fmt"
)

// schemaLockID serializes schema setup across instances starting together.
const schemaLockID int64 = 7305112

type schemaStatement struct {
	name string
	sql  string
}

// schemaStatements are all idempotent and run in order.
var schemaStatements = []schemaStatement{
	{
		name: "users table",
		sql: `
			CREATE TABLE IF NOT EXISTS users (
				id         TEXT PRIMARY KEY,
				name       TEXT NOT NULL,
				email      TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				CONSTRAINT users_email_key UNIQUE (email)
			)
		`,
	},
	{
		name: "tasks table",
		sql: `
			CREATE TABLE IF NOT EXISTS tasks (
				id          TEXT PRIMARY KEY,
				user_id     TEXT NOT NULL,
				title       TEXT NOT NULL,
				description TEXT,
				status      TEXT NOT NULL DEFAULT 'pending',
				created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				CONSTRAINT tasks_user_id_fkey FOREIGN KEY (user_id)
					REFERENCES users (id) ON DELETE CASCADE,
				CONSTRAINT tasks_status_check
					CHECK (status IN ('pending', 'in_progress', 'completed'))
			)
		`,
	},
	{
		name: "tasks user index",
		sql:  `CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks (user_id)`,
	},
	{
		name: "updated_at function",
		sql: `
			CREATE OR REPLACE FUNCTION set_updated_at() RETURNS TRIGGER AS $$
			BEGIN
				NEW.updated_at = NOW();
				RETURN NEW;
			END;
			$$ LANGUAGE plpgsql
		`,
	},
	{
		name: "tasks updated_at trigger",
		sql: `
			DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_trigger
					WHERE tgname = 'tasks_set_updated_at'
					  AND tgrelid = 'tasks'::regclass
				) THEN
					CREATE TRIGGER tasks_set_updated_at
						BEFORE UPDATE ON tasks
						FOR EACH ROW EXECUTE FUNCTION set_updated_at();
				END IF;
			END
			$$
		`,
	},
}

// EnsureSchema creates the users and tasks tables, their constraints and the
// updated_at trigger if they do not exist. Existing data is never touched.
func (r *Repository) EnsureSchema(ctx context.Context) (err error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", schemaLockID); err != nil {
		return fmt.Errorf("failed to acquire schema lock: %w", err)
	}
	defer func() {
		if _, unlockErr := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", schemaLockID); unlockErr != nil && err == nil {
			err = fmt.Errorf("failed to release schema lock: %w", unlockErr)
		}
	}()

	for _, stmt := range schemaStatements {
		if _, err := conn.Exec(ctx, stmt.sql); err != nil {
			return fmt.Errorf("failed to ensure %s: %w", stmt.name, err)
		}
	}

	return nil
}
