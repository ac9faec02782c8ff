// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"strings"
)

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse confirms a mutation on the record with the given id.
type MessageResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// ValidationError lists the problems found in a request body.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid request: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) add(problem string) {
	e.Problems = append(e.Problems, problem)
}

func (e *ValidationError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
