package models

import (
	"time"
)

// User is an account that can authenticate against the service.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
