package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingLifecyclePredicates(t *testing.T) {
	t.Run("Transition Graph", func(t *testing.T) {
		cases := []struct {
			from    BookingStatus
			to      BookingStatus
			allowed bool
		}{
			{BookingStatusPending, BookingStatusConfirmed, true},
			{BookingStatusPending, BookingStatusCancelled, true},
			{BookingStatusPending, BookingStatusCompleted, false},
			{BookingStatusConfirmed, BookingStatusCompleted, true},
			{BookingStatusConfirmed, BookingStatusCancelled, true},
			{BookingStatusConfirmed, BookingStatusPending, false},
			{BookingStatusCompleted, BookingStatusCancelled, false},
			{BookingStatusCancelled, BookingStatusConfirmed, false},
		}

		for _, tc := range cases {
			b := &Booking{Status: tc.from}
			assert.Equal(t, tc.allowed, b.CanTransitionTo(tc.to),
				"%s -> %s", tc.from, tc.to)
		}
	})

	t.Run("Terminal Statuses", func(t *testing.T) {
		assert.False(t, (&Booking{Status: BookingStatusPending}).IsTerminal())
		assert.False(t, (&Booking{Status: BookingStatusConfirmed}).IsTerminal())
		assert.True(t, (&Booking{Status: BookingStatusCompleted}).IsTerminal())
		assert.True(t, (&Booking{Status: BookingStatusCancelled}).IsTerminal())
	})

	t.Run("Rating Gate", func(t *testing.T) {
		rating := 4

		assert.True(t, (&Booking{Status: BookingStatusCompleted}).CanBeRated())
		assert.False(t, (&Booking{Status: BookingStatusCompleted, Rating: &rating}).CanBeRated())
		assert.False(t, (&Booking{Status: BookingStatusConfirmed}).CanBeRated())
	})
}

func TestComputeOrganizerStats(t *testing.T) {
	five := 5
	three := 3

	bookings := []BookingWithDetails{
		{Booking: Booking{Status: BookingStatusPending}},
		{Booking: Booking{Status: BookingStatusConfirmed}},
		{Booking: Booking{Status: BookingStatusCompleted, Rating: &five}},
		{Booking: Booking{Status: BookingStatusCompleted, Rating: &three}},
		{Booking: Booking{Status: BookingStatusCancelled}},
	}

	stats := ComputeOrganizerStats(bookings)
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Confirmed)
	assert.Equal(t, 2, stats.Completed)
	assert.Equal(t, 1, stats.Cancelled)
	require.NotNil(t, stats.AverageRating)
	assert.InDelta(t, 4.0, *stats.AverageRating, 0.001)

	empty := ComputeOrganizerStats(nil)
	assert.Zero(t, empty.Total)
	assert.Nil(t, empty.AverageRating)
}
