package models

import "time"

// LoginRequest is the credential payload for the analytics API.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User represents an analytics API account.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
