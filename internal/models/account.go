package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Role represents an account role
type Role string

const (
	RoleUser      Role = "user"
	RoleOrganizer Role = "organizer"
)

// AccountStatus represents the status of an account
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusDisabled AccountStatus = "disabled"
)

// Account represents a registered user of the platform
type Account struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	Email        string        `json:"email" db:"email"`
	PasswordHash string        `json:"-" db:"password_hash"`
	Name         string        `json:"name" db:"name"`
	Phone        *string       `json:"phone,omitempty" db:"phone"`
	NationalID   *string       `json:"national_id,omitempty" db:"national_id"`
	Address      *string       `json:"address,omitempty" db:"address"`
	Birthdate    *string       `json:"birthdate,omitempty" db:"birthdate"`
	Role         Role          `json:"role" db:"role"`
	Status       AccountStatus `json:"status" db:"status"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

// IsOrganizer reports whether the account has the organizer role
func (a *Account) IsOrganizer() bool {
	return a.Role == RoleOrganizer
}

// IsActive reports whether the account can authenticate
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// RegisterRequest represents the request to create a new account
type RegisterRequest struct {
	Email      string  `json:"email" binding:"required,email"`
	Password   string  `json:"password" binding:"required"`
	Name       string  `json:"name" binding:"required"`
	Phone      *string `json:"phone,omitempty"`
	NationalID *string `json:"national_id,omitempty"`
	Address    *string `json:"address,omitempty"`
	Birthdate  *string `json:"birthdate,omitempty"`
	Role       Role    `json:"role"`
}

// Validate validates the register request
func (r *RegisterRequest) Validate() error {
	if len(r.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	if r.Role == "" {
		r.Role = RoleUser
	}

	if r.Role != RoleUser && r.Role != RoleOrganizer {
		return errors.New("role must be either 'user' or 'organizer'")
	}

	return nil
}

// LoginRequest represents the request to authenticate
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the request to exchange a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest represents the request to update profile fields.
// Email and role are immutable after signup.
type UpdateProfileRequest struct {
	Name       *string `json:"name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	NationalID *string `json:"national_id,omitempty"`
	Address    *string `json:"address,omitempty"`
	Birthdate  *string `json:"birthdate,omitempty"`
}

// HasUpdates reports whether at least one updatable field is present
func (r *UpdateProfileRequest) HasUpdates() bool {
	return r.Name != nil || r.Phone != nil || r.NationalID != nil ||
		r.Address != nil || r.Birthdate != nil
}

// Validate validates the update profile request
func (r *UpdateProfileRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("no updatable fields provided")
	}

	if r.Name != nil && *r.Name == "" {
		return errors.New("name cannot be empty")
	}

	return nil
}

// TokenResponse is the response returned by login, register and refresh
type TokenResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type"`
	Account      *Account `json:"account"`
}
