package models

import (
	"time"

	"github.com/google/uuid"
)

// Session represents a refresh-token session with the device that opened it
type Session struct {
	ID               uuid.UUID `json:"id" db:"id"`
	AccountID        uuid.UUID `json:"account_id" db:"account_id"`
	RefreshTokenHash string    `json:"-" db:"refresh_token_hash"`
	DeviceType       *string   `json:"device_type,omitempty" db:"device_type"`
	OS               *string   `json:"os,omitempty" db:"os"`
	Browser          *string   `json:"browser,omitempty" db:"browser"`
	IP               *string   `json:"ip,omitempty" db:"ip"`
	Active           bool      `json:"active" db:"active"`
	ExpiresAt        time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	LastUsedAt       time.Time `json:"last_used_at" db:"last_used_at"`
}

// IsExpired reports whether the session has passed its expiry
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsUsable reports whether the session can still mint access tokens
func (s *Session) IsUsable() bool {
	return s.Active && !s.IsExpired()
}
