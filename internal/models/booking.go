package models

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// IsValidBookingStatus reports whether s is a known booking status
func IsValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// Booking represents a single reservation against one service, date and time slot
type Booking struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	ServiceID   uuid.UUID     `json:"service_id" db:"service_id"`
	RequesterID uuid.UUID     `json:"requester_id" db:"requester_id"`
	Date        Date          `json:"date" db:"booking_date"`
	TimeSlot    string        `json:"time" db:"time_slot"`
	Status      BookingStatus `json:"status" db:"status"`
	Notes       string        `json:"notes" db:"notes"`
	Rating      *int          `json:"rating,omitempty" db:"rating"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

// CanTransitionTo reports whether the status graph permits moving to next.
// The graph:
//
//	pending   -> confirmed | cancelled
//	confirmed -> completed | cancelled
//	completed, cancelled: terminal
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	switch b.Status {
	case BookingStatusPending:
		return next == BookingStatusConfirmed || next == BookingStatusCancelled
	case BookingStatusConfirmed:
		return next == BookingStatusCompleted || next == BookingStatusCancelled
	default:
		return false
	}
}

// IsTerminal reports whether the booking is in a terminal status
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCompleted || b.Status == BookingStatusCancelled
}

// CanBeRated reports whether a rating may be attached
func (b *Booking) CanBeRated() bool {
	return b.Status == BookingStatusCompleted && b.Rating == nil
}

// BookingWithDetails is a booking joined with its service, and for organizer
// views the requesting account
type BookingWithDetails struct {
	Booking
	Service   *Service `json:"service,omitempty"`
	Requester *Account `json:"requester,omitempty"`
}

// CreateBookingRequest represents the request to reserve a slot
type CreateBookingRequest struct {
	ServiceID uuid.UUID `json:"service_id" binding:"required"`
	Date      string    `json:"date" binding:"required"`
	TimeSlot  string    `json:"time" binding:"required"`
	Notes     string    `json:"notes"`
}

// UpdateBookingRequest represents a status transition and/or a rating
type UpdateBookingRequest struct {
	Status *BookingStatus `json:"status,omitempty"`
	Rating *int           `json:"rating,omitempty"`
}

// OrganizerBookingStats aggregates an organizer's bookings by status
type OrganizerBookingStats struct {
	Total         int      `json:"total"`
	Pending       int      `json:"pending"`
	Confirmed     int      `json:"confirmed"`
	Completed     int      `json:"completed"`
	Cancelled     int      `json:"cancelled"`
	AverageRating *float64 `json:"average_rating,omitempty"`
}

// ComputeOrganizerStats derives status counts and the average rating from a
// list of bookings
func ComputeOrganizerStats(bookings []BookingWithDetails) OrganizerBookingStats {
	stats := OrganizerBookingStats{Total: len(bookings)}

	var ratingSum, ratingCount int
	for _, b := range bookings {
		switch b.Status {
		case BookingStatusPending:
			stats.Pending++
		case BookingStatusConfirmed:
			stats.Confirmed++
		case BookingStatusCompleted:
			stats.Completed++
		case BookingStatusCancelled:
			stats.Cancelled++
		}
		if b.Rating != nil {
			ratingSum += *b.Rating
			ratingCount++
		}
	}

	if ratingCount > 0 {
		avg := float64(ratingSum) / float64(ratingCount)
		stats.AverageRating = &avg
	}

	return stats
}
