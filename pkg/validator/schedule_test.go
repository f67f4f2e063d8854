package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduleValidator(t *testing.T) {
	v := NewScheduleValidator()
	assert.NotNil(t, v)
}

func TestValidateDate_ValidDates(t *testing.T) {
	v := NewScheduleValidator()

	testCases := []struct {
		name    string
		input   string
		weekday time.Weekday
	}{
		{"Monday", "2025-10-20", time.Monday},
		{"Tuesday", "2025-10-21", time.Tuesday},
		{"Leap day", "2024-02-29", time.Thursday},
		{"Year boundary", "2025-12-31", time.Wednesday},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := v.ValidateDate(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.weekday, parsed.Weekday())
		})
	}
}

func TestValidateDate_InvalidDates(t *testing.T) {
	v := NewScheduleValidator()

	testCases := []struct {
		name     string
		input    string
		expected error
	}{
		{"Empty", "", ErrEmptyDate},
		{"Wrong format", "20/10/2025", ErrInvalidDate},
		{"Month out of range", "2025-13-01", ErrInvalidDate},
		{"Day out of range", "2025-02-30", ErrInvalidDate},
		{"Non-leap February 29", "2025-02-29", ErrInvalidDate},
		{"Garbage", "not-a-date", ErrInvalidDate},
		{"Missing zero padding", "2025-1-2", ErrInvalidDate},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.ValidateDate(tc.input)
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestValidateSlotLabel(t *testing.T) {
	v := NewScheduleValidator()

	t.Run("Valid labels", func(t *testing.T) {
		for _, slot := range []string{"00:00", "09:00", "14:30", "23:59"} {
			assert.NoError(t, v.ValidateSlotLabel(slot), slot)
		}
	})

	t.Run("Invalid labels", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected error
		}{
			{"", ErrEmptySlot},
			{"9:00", ErrInvalidSlot},
			{"24:00", ErrInvalidSlot},
			{"12:60", ErrInvalidSlot},
			{"12:00:00", ErrInvalidSlot},
			{"noon", ErrInvalidSlot},
			{"12h30", ErrInvalidSlot},
		}

		for _, tc := range testCases {
			assert.ErrorIs(t, v.ValidateSlotLabel(tc.input), tc.expected, tc.input)
		}
	})
}

func TestValidateWeekday(t *testing.T) {
	v := NewScheduleValidator()

	t.Run("All weekday names", func(t *testing.T) {
		for _, day := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"} {
			assert.NoError(t, v.ValidateWeekday(day), day)
		}
	})

	t.Run("Invalid names", func(t *testing.T) {
		for _, day := range []string{"", "monday", "Mon", "Funday"} {
			assert.ErrorIs(t, v.ValidateWeekday(day), ErrInvalidWeekday, day)
		}
	})
}

func TestWeekdayName(t *testing.T) {
	v := NewScheduleValidator()

	date, err := v.ValidateDate("2025-10-20")
	require.NoError(t, err)
	assert.Equal(t, "Monday", v.WeekdayName(date))
}

func TestIsValidHelpers(t *testing.T) {
	v := NewScheduleValidator()

	assert.True(t, v.IsValidDate("2025-10-20"))
	assert.False(t, v.IsValidDate("2025-10-32"))
	assert.True(t, v.IsValidSlotLabel("10:00"))
	assert.False(t, v.IsValidSlotLabel("10am"))
}
