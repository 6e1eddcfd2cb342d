// Package auth provides authentication and authorization domain logic.
package auth

import (
	"context"
	"time"

	"davrcash/internal/core/apperror"
	"davrcash/internal/core/id"
)

// User represents a back-office user (manager, accountant, admin).
type User struct {
	ID           id.ID      `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FirstName    string     `db:"first_name" json:"firstName,omitempty"`
	LastName     string     `db:"last_name" json:"lastName,omitempty"`
	IsActive     bool       `db:"is_active" json:"isActive"`
	IsAdmin      bool       `db:"is_admin" json:"isAdmin"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
	Version      int        `db:"version" json:"version"`

	// Loaded relations
	Roles       []string `db:"-" json:"roles,omitempty"`
	Permissions []string `db:"-" json:"permissions,omitempty"`
	TerminalIDs []string `db:"-" json:"terminalIds,omitempty"`
}

// NewUser creates a new user.
func NewUser(email, passwordHash string) *User {
	now := time.Now()
	return &User{
		ID:           id.New(),
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
		Version:      1,
	}
}

// Validate validates user data.
func (u *User) Validate(ctx context.Context) error {
	if u.Email == "" {
		return apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	return nil
}

// CanLogin checks if user can login.
func (u *User) CanLogin() error {
	if !u.IsActive {
		return apperror.NewForbidden("account is disabled")
	}
	return nil
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and profile.
type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	User        *User     `json:"user"`
}
