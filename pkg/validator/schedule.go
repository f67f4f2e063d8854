package validator

import (
	"errors"
	"regexp"
	"time"
)

var (
	// ErrEmptyDate indicates the date string is empty
	ErrEmptyDate = errors.New("date cannot be empty")

	// ErrInvalidDate indicates the date is not a valid YYYY-MM-DD calendar date
	ErrInvalidDate = errors.New("date must be a valid date in YYYY-MM-DD format")

	// ErrEmptySlot indicates the time slot label is empty
	ErrEmptySlot = errors.New("time slot cannot be empty")

	// ErrInvalidSlot indicates the time slot is not a valid HH:MM 24-hour label
	ErrInvalidSlot = errors.New("time slot must be in HH:MM 24-hour format")

	// ErrInvalidWeekday indicates an unknown weekday name
	ErrInvalidWeekday = errors.New("weekday must be one of Monday through Sunday")
)

// DateLayout is the wire format for booking dates
const DateLayout = "2006-01-02"

// slotRegex matches zero-padded 24-hour HH:MM labels
var slotRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// weekdayNames contains all valid weekday names, as produced by
// time.Weekday.String()
var weekdayNames = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

// ScheduleValidator validates schedule-related inputs: calendar dates,
// time slot labels, and weekday names
type ScheduleValidator struct{}

// NewScheduleValidator creates a new schedule validator instance
func NewScheduleValidator() *ScheduleValidator {
	return &ScheduleValidator{}
}

// ValidateDate parses a YYYY-MM-DD date string and returns the parsed date
func (v *ScheduleValidator) ValidateDate(date string) (time.Time, error) {
	if date == "" {
		return time.Time{}, ErrEmptyDate
	}

	parsed, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}

	return parsed, nil
}

// ValidateSlotLabel checks that a slot label is a well-formed HH:MM 24-hour time
func (v *ScheduleValidator) ValidateSlotLabel(slot string) error {
	if slot == "" {
		return ErrEmptySlot
	}

	if !slotRegex.MatchString(slot) {
		return ErrInvalidSlot
	}

	return nil
}

// ValidateWeekday checks that day is a valid English weekday name
func (v *ScheduleValidator) ValidateWeekday(day string) error {
	if _, ok := weekdayNames[day]; !ok {
		return ErrInvalidWeekday
	}
	return nil
}

// WeekdayName returns the weekday name for a date, e.g. "Monday"
func (v *ScheduleValidator) WeekdayName(date time.Time) string {
	return date.Weekday().String()
}

// IsValidDate reports whether the date string is valid without returning details
func (v *ScheduleValidator) IsValidDate(date string) bool {
	_, err := v.ValidateDate(date)
	return err == nil
}

// IsValidSlotLabel reports whether the slot label is valid without returning details
func (v *ScheduleValidator) IsValidSlotLabel(slot string) bool {
	return v.ValidateSlotLabel(slot) == nil
}
