package model

import (
	"time"
)

// User status constants
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusLocked   = "locked"
)

// User type constants
const (
	UserTypeAdmin = "admin"
	UserTypeStaff = "staff"
)

// User represents a parish office staff member or administrator
type User struct {
	Base
	Email            string     `json:"email" db:"email"`
	Name             string     `json:"name" db:"name"`
	Password         string     `json:"password,omitempty" db:"-"`
	PasswordHash     string     `json:"-" db:"password_hash"`
	Phone            *string    `json:"phone" db:"phone"`
	Type             string     `json:"type" db:"type"`
	Status           string     `json:"status" db:"status"`
	LastLoginAt      *time.Time `json:"last_login_at" db:"last_login_at"`
	LoginAttempts    int        `json:"login_attempts" db:"login_attempts"`
	LastLoginAttempt time.Time  `json:"last_login_attempt" db:"last_login_attempt"`
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Type     string `json:"type" binding:"required,oneof=admin staff"`
}

type UpdateUserRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email" binding:"omitempty,email"`
	Phone  *string `json:"phone"`
	Status *string `json:"status" binding:"omitempty,oneof=active inactive locked"`
	Type   *string `json:"type" binding:"omitempty,oneof=admin staff"`
}

type UserFilters struct {
	Type       string
	Status     string
	SearchTerm string
}
