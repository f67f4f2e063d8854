package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/conectando/booking-backend/internal/database"
	"github.com/conectando/booking-backend/internal/models"
	"github.com/conectando/booking-backend/pkg/validator"
)

// LedgerService owns the booking ledger: slot reservation, the status
// lifecycle and ratings
type LedgerService struct {
	bookings *database.BookingRepository
	services *database.ServiceRepository
	sched    *validator.ScheduleValidator

	// now is injectable for tests
	now func() time.Time
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(bookings *database.BookingRepository, services *database.ServiceRepository, sched *validator.ScheduleValidator) *LedgerService {
	return &LedgerService{
		bookings: bookings,
		services: services,
		sched:    sched,
		now:      time.Now,
	}
}

// AvailableSlots returns the service's slot labels for a date minus the ones
// held by non-cancelled bookings. A date falling outside the service's
// availability days yields an empty list, not an error.
func (s *LedgerService) AvailableSlots(serviceID uuid.UUID, dateStr string) ([]string, error) {
	date, err := s.sched.ValidateDate(dateStr)
	if err != nil {
		return nil, NewValidationError("date")
	}

	service, err := s.services.GetByID(serviceID)
	if err != nil {
		return nil, storeError(err)
	}

	if !service.Active {
		return nil, ErrServiceInactive
	}

	if !service.RunsOn(s.sched.WeekdayName(date)) {
		return []string{}, nil
	}

	booked, err := s.bookings.ListBookedSlots(serviceID, models.NewDate(date))
	if err != nil {
		return nil, storeError(err)
	}

	taken := make(map[string]bool, len(booked))
	for _, slot := range booked {
		taken[slot] = true
	}

	available := []string{}
	for _, slot := range service.TimeSlots {
		if !taken[slot] {
			available = append(available, slot)
		}
	}

	return available, nil
}

// Create reserves a slot for the requester. The insert carries the slot
// uniqueness check, so a lost race against a concurrent booking of the same
// slot comes back as ErrSlotTaken rather than a duplicate row.
func (s *LedgerService) Create(requester *models.Account, req *models.CreateBookingRequest) (*models.Booking, error) {
	var fields []string

	date, err := s.sched.ValidateDate(req.Date)
	if err != nil {
		fields = append(fields, "date")
	} else if models.NewDate(date).BeforeDate(models.NewDate(s.now())) {
		fields = append(fields, "date")
	}
	if s.sched.ValidateSlotLabel(req.TimeSlot) != nil {
		fields = append(fields, "time")
	}
	if len(fields) > 0 {
		return nil, NewValidationError(fields...)
	}

	service, err := s.services.GetByID(req.ServiceID)
	if err != nil {
		return nil, storeError(err)
	}

	if !service.Active {
		return nil, ErrServiceInactive
	}

	if !service.RunsOn(s.sched.WeekdayName(date)) {
		return nil, NewValidationError("date")
	}
	if !service.OffersSlot(req.TimeSlot) {
		return nil, NewValidationError("time")
	}

	booking := &models.Booking{
		ServiceID:   service.ID,
		RequesterID: requester.ID,
		Date:        models.NewDate(date),
		TimeSlot:    req.TimeSlot,
		Status:      models.BookingStatusPending,
		Notes:       req.Notes,
	}

	if err := s.bookings.Create(booking); err != nil {
		return nil, storeError(err)
	}

	return booking, nil
}

// Transition moves a booking to a new status under a row lock, so that
// concurrent transitions on the same booking serialize and at most one
// leaves a given state.
//
// Authorization: confirm and complete belong to the owning organizer;
// cancel is open to the owning organizer from pending or confirmed, and to
// the requester while the booking is still pending.
func (s *LedgerService) Transition(actor *models.Account, bookingID uuid.UUID, next models.BookingStatus) (*models.Booking, error) {
	if !models.IsValidBookingStatus(next) || next == models.BookingStatusPending {
		return nil, NewValidationError("status")
	}

	tx, err := s.bookings.BeginTx()
	if err != nil {
		return nil, storeError(err)
	}
	defer rollback(tx)

	booking, err := s.bookings.GetByIDForUpdate(tx, bookingID)
	if err != nil {
		return nil, storeError(err)
	}

	service, err := s.services.GetByID(booking.ServiceID)
	if err != nil {
		return nil, storeError(err)
	}

	if err := authorizeTransition(actor, booking, service, next); err != nil {
		return nil, err
	}

	if !booking.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, booking.Status, next)
	}

	if err := s.bookings.UpdateStatusTx(tx, bookingID, next); err != nil {
		return nil, storeError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, storeError(err)
	}

	booking.Status = next
	booking.UpdatedAt = s.now()
	return booking, nil
}

// Rate attaches a write-once 1-5 rating to a completed booking. Only the
// requester may rate.
func (s *LedgerService) Rate(actor *models.Account, bookingID uuid.UUID, rating int) (*models.Booking, error) {
	if rating < 1 || rating > 5 {
		return nil, NewValidationError("rating")
	}

	tx, err := s.bookings.BeginTx()
	if err != nil {
		return nil, storeError(err)
	}
	defer rollback(tx)

	booking, err := s.bookings.GetByIDForUpdate(tx, bookingID)
	if err != nil {
		return nil, storeError(err)
	}

	if booking.RequesterID != actor.ID {
		return nil, ErrForbidden
	}

	if !booking.CanBeRated() {
		return nil, fmt.Errorf("%w: rating requires a completed, unrated booking", ErrInvalidTransition)
	}

	if err := s.bookings.SetRatingTx(tx, bookingID, rating); err != nil {
		return nil, storeError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, storeError(err)
	}

	booking.Rating = &rating
	booking.UpdatedAt = s.now()
	return booking, nil
}

// GetByID returns a booking visible to the actor: the requester, or the
// organizer owning the referenced service
func (s *LedgerService) GetByID(actor *models.Account, bookingID uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, storeError(err)
	}

	if booking.RequesterID != actor.ID {
		service, err := s.services.GetByID(booking.ServiceID)
		if err != nil {
			return nil, storeError(err)
		}
		if !service.IsOwnedBy(actor.ID) {
			return nil, ErrForbidden
		}
	}

	return booking, nil
}

// ListForRequester returns the actor's own bookings with their services,
// deactivated services included
func (s *LedgerService) ListForRequester(actor *models.Account) ([]models.BookingWithDetails, error) {
	bookings, err := s.bookings.ListByRequester(actor.ID)
	if err != nil {
		return nil, storeError(err)
	}
	return bookings, nil
}

// ListForOrganizer returns all bookings against the actor's services, with
// the requesting accounts, plus aggregate stats
func (s *LedgerService) ListForOrganizer(actor *models.Account) ([]models.BookingWithDetails, models.OrganizerBookingStats, error) {
	if !actor.IsOrganizer() {
		return nil, models.OrganizerBookingStats{}, ErrForbidden
	}

	bookings, err := s.bookings.ListByOrganizer(actor.ID)
	if err != nil {
		return nil, models.OrganizerBookingStats{}, storeError(err)
	}

	return bookings, models.ComputeOrganizerStats(bookings), nil
}

// authorizeTransition enforces who may request which transition. It runs
// before the lifecycle check so a non-owning actor learns nothing about the
// booking's current state.
func authorizeTransition(actor *models.Account, booking *models.Booking, service *models.Service, next models.BookingStatus) error {
	isOrganizer := service.IsOwnedBy(actor.ID)
	isRequester := booking.RequesterID == actor.ID

	switch next {
	case models.BookingStatusConfirmed, models.BookingStatusCompleted:
		if !isOrganizer {
			return ErrForbidden
		}
	case models.BookingStatusCancelled:
		if isOrganizer {
			return nil
		}
		if !isRequester {
			return ErrForbidden
		}
		// requesters may only cancel while the booking is still pending
		if booking.Status != models.BookingStatusPending {
			return ErrForbidden
		}
	}

	return nil
}

// rollback discards the transaction; after a commit it is a no-op
func rollback(tx *sqlx.Tx) {
	_ = tx.Rollback()
}
