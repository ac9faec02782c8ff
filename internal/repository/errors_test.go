package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestErrorClass(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"unique violation", &pgconn.PgError{Code: "23505"}, "integrity_constraint_violation"},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, "integrity_constraint_violation"},
		{"check violation", &pgconn.PgError{Code: "23514"}, "integrity_constraint_violation"},
		{"connection failure", &pgconn.PgError{Code: "08006"}, "connection_exception"},
		{"invalid password", &pgconn.PgError{Code: "28P01"}, "invalid_authorization_specification"},
		{"undefined table", &pgconn.PgError{Code: "42P01"}, "syntax_error_or_access_rule_violation"},
		{"wrapped", fmt.Errorf("failed to create user: %w", &pgconn.PgError{Code: "23505"}), "integrity_constraint_violation"},
		{"canceled", fmt.Errorf("query: %w", context.Canceled), "canceled"},
		{"plain", errors.New("dial tcp: connection refused"), "client"},
		{"unknown class", &pgconn.PgError{Code: "ZZ999"}, "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ErrorClass(tc.err); got != tc.want {
				t.Errorf("ErrorClass() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestErrorCodeName(t *testing.T) {
	if got := ErrorCodeName(&pgconn.PgError{Code: "23505"}); got != "unique_violation" {
		t.Errorf("expected unique_violation, got %q", got)
	}
	if got := ErrorCodeName(&pgconn.PgError{Code: "23503"}); got != "foreign_key_violation" {
		t.Errorf("expected foreign_key_violation, got %q", got)
	}
	if got := ErrorCodeName(errors.New("boom")); got != "" {
		t.Errorf("expected empty name, got %q", got)
	}
}

func TestViolationHelpers(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: codeUniqueViolation})
	fk := fmt.Errorf("insert: %w", &pgconn.PgError{Code: codeForeignKeyViolation})

	if !isUniqueViolation(unique) || isUniqueViolation(fk) {
		t.Error("isUniqueViolation misclassified")
	}
	if !isForeignKeyViolation(fk) || isForeignKeyViolation(unique) {
		t.Error("isForeignKeyViolation misclassified")
	}
	if isUniqueViolation(errors.New("duplicate key value violates unique constraint")) {
		t.Error("plain error text must not count as a unique violation")
	}
}

func TestSchemaStatements_Ordered(t *testing.T) {
	if len(schemaStatements) < 2 {
		t.Fatalf("expected at least two schema statements, got %d", len(schemaStatements))
	}
	if schemaStatements[0].name != "users table" || schemaStatements[1].name != "tasks table" {
		t.Errorf("users must be created before tasks, got %q then %q",
			schemaStatements[0].name, schemaStatements[1].name)
	}
}
