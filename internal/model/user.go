// Package model defines domain entities for the application.
package model

import "time"

// User owns zero or more tasks. Users are created through the API and never
// updated or deleted by it.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
