package models

import (
	"time"

	"github.com/google/uuid"
)

// ServiceCategories is the enumerated set of valid service categories
var ServiceCategories = []string{
	"Health",
	"Education",
	"Beauty",
	"Social Assistance",
	"Legal",
	"Food",
	"Other",
}

// IsValidCategory reports whether category is in the enumerated set
func IsValidCategory(category string) bool {
	for _, c := range ServiceCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Service represents a community offering with a recurring weekly schedule
type Service struct {
	ID               uuid.UUID   `json:"id" db:"id"`
	OrganizerID      uuid.UUID   `json:"organizer_id" db:"organizer_id"`
	Name             string      `json:"name" db:"name"`
	Category         string      `json:"category" db:"category"`
	Description      string      `json:"description" db:"description"`
	Location         string      `json:"location" db:"location"`
	PhotoURL         *string     `json:"photo_url,omitempty" db:"photo_url"`
	AvailabilityDays StringArray `json:"availability_days" db:"availability_days"`
	TimeSlots        StringArray `json:"time_slots" db:"time_slots"`
	Active           bool        `json:"active" db:"active"`
	CreatedAt        time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at" db:"updated_at"`
}

// RunsOn reports whether the service runs on the given weekday name
func (s *Service) RunsOn(weekday string) bool {
	return s.AvailabilityDays.Contains(weekday)
}

// OffersSlot reports whether the slot label is part of the service's schedule
func (s *Service) OffersSlot(slot string) bool {
	return s.TimeSlots.Contains(slot)
}

// IsOwnedBy reports whether the given account owns this service
func (s *Service) IsOwnedBy(accountID uuid.UUID) bool {
	return s.OrganizerID == accountID
}

// CreateServiceRequest represents the request to publish a new service
type CreateServiceRequest struct {
	Name             string   `json:"name" binding:"required"`
	Category         string   `json:"category" binding:"required"`
	Description      string   `json:"description" binding:"required"`
	Location         string   `json:"location"`
	PhotoURL         *string  `json:"photo_url,omitempty"`
	AvailabilityDays []string `json:"availability_days" binding:"required"`
	TimeSlots        []string `json:"time_slots" binding:"required"`
}

// UpdateServiceRequest represents a partial update to a service.
// Only non-nil fields are applied; each is re-validated with the same rules
// as creation.
type UpdateServiceRequest struct {
	Name             *string  `json:"name,omitempty"`
	Category         *string  `json:"category,omitempty"`
	Description      *string  `json:"description,omitempty"`
	Location         *string  `json:"location,omitempty"`
	PhotoURL         *string  `json:"photo_url,omitempty"`
	AvailabilityDays []string `json:"availability_days,omitempty"`
	TimeSlots        []string `json:"time_slots,omitempty"`
}

// HasUpdates reports whether at least one updatable field is present
func (r *UpdateServiceRequest) HasUpdates() bool {
	return r.Name != nil || r.Category != nil || r.Description != nil ||
		r.Location != nil || r.PhotoURL != nil ||
		r.AvailabilityDays != nil || r.TimeSlots != nil
}
