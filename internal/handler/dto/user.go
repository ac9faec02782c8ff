package dto

import (
	"strings"

	"github.com/taskledger/taskledger/internal/model"
)

// CreateUserRequest represents the request body for creating a user.
// Both fields are required.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Validate trims the fields and checks they are present.
func (r *CreateUserRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)

	verr := &ValidationError{}
	if r.Name == "" {
		verr.add("name is required")
	}
	if r.Email == "" {
		verr.add("email is required")
	}
	return verr.orNil()
}

// ToModel converts the request into an unsaved user.
func (r *CreateUserRequest) ToModel() *model.User {
	return &model.User{
		Name:  r.Name,
		Email: r.Email,
	}
}
