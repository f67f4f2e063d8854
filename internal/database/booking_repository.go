package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/conectando/booking-backend/internal/models"
)

// bookingSlotConstraint is the partial unique index guarding against
// double-booking a non-cancelled (service, date, slot) tuple
const bookingSlotConstraint = "bookings_active_slot_key"

// BookingRepository handles database operations for the bookings table.
// It holds the concrete sqlx handle rather than the DB interface because
// status transitions need row-level locking inside transactions.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// BeginTx starts a new transaction
func (r *BookingRepository) BeginTx() (*sqlx.Tx, error) {
	return r.db.Beginx()
}

// Create inserts a new booking. The insert itself is the atomic
// check-and-insert: when two concurrent creates race on the same
// (service, date, slot) tuple, the database admits exactly one and the
// loser gets ErrSlotConflict.
func (r *BookingRepository) Create(booking *models.Booking) error {
	query := `
		INSERT INTO bookings (
			id, service_id, requester_id, booking_date, time_slot,
			status, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		RETURNING created_at, updated_at
	`

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	if booking.Status == "" {
		booking.Status = models.BookingStatusPending
	}

	err := r.db.QueryRow(
		query,
		booking.ID, booking.ServiceID, booking.RequesterID, booking.Date,
		booking.TimeSlot, booking.Status, booking.Notes,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err, bookingSlotConstraint) {
			return ErrSlotConflict
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(bookingID uuid.UUID) (*models.Booking, error) {
	query := `
		SELECT id, service_id, requester_id, booking_date, time_slot,
		       status, notes, rating, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	return r.scanBooking(r.db.QueryRow(query, bookingID))
}

// GetByIDForUpdate retrieves a booking inside a transaction, taking a row
// lock so that concurrent transitions on the same booking serialize.
func (r *BookingRepository) GetByIDForUpdate(tx *sqlx.Tx, bookingID uuid.UUID) (*models.Booking, error) {
	query := `
		SELECT id, service_id, requester_id, booking_date, time_slot,
		       status, notes, rating, created_at, updated_at
		FROM bookings
		WHERE id = $1
		FOR UPDATE
	`

	return r.scanBooking(tx.QueryRow(query, bookingID))
}

// UpdateStatusTx updates a booking's status within a transaction. Callers
// must hold the row lock via GetByIDForUpdate.
func (r *BookingRepository) UpdateStatusTx(tx *sqlx.Tx, bookingID uuid.UUID, status models.BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := tx.Exec(query, bookingID, status)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// SetRatingTx attaches a rating within a transaction. Callers must hold the
// row lock via GetByIDForUpdate; the rating column is write-once and the
// WHERE clause re-checks that under the lock.
func (r *BookingRepository) SetRatingTx(tx *sqlx.Tx, bookingID uuid.UUID, rating int) error {
	query := `
		UPDATE bookings
		SET rating = $2, updated_at = NOW()
		WHERE id = $1
		  AND status = 'completed'
		  AND rating IS NULL
	`

	result, err := tx.Exec(query, bookingID, rating)
	if err != nil {
		return fmt.Errorf("failed to set booking rating: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// ListBookedSlots returns the time slots held by non-cancelled bookings for
// a service on a given date. This is the subtraction set for the
// available-slots read path.
func (r *BookingRepository) ListBookedSlots(serviceID uuid.UUID, date models.Date) ([]string, error) {
	query := `
		SELECT time_slot
		FROM bookings
		WHERE service_id = $1
		  AND booking_date = $2
		  AND status <> 'cancelled'
		ORDER BY time_slot
	`

	rows, err := r.db.Query(query, serviceID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list booked slots: %w", err)
	}
	defer rows.Close()

	slots := []string{}
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, fmt.Errorf("failed to scan booked slot: %w", err)
		}
		slots = append(slots, slot)
	}

	return slots, rows.Err()
}

// ListByRequester retrieves all bookings made by an account, joined with the
// referenced service. Inactive services are included so history stays
// readable after deactivation.
func (r *BookingRepository) ListByRequester(requesterID uuid.UUID) ([]models.BookingWithDetails, error) {
	query := `
		SELECT b.id, b.service_id, b.requester_id, b.booking_date, b.time_slot,
		       b.status, b.notes, b.rating, b.created_at, b.updated_at,
		       s.id, s.organizer_id, s.name, s.category, s.description,
		       s.location, s.photo_url, s.availability_days, s.time_slots,
		       s.active, s.created_at, s.updated_at
		FROM bookings b
		JOIN services s ON s.id = b.service_id
		WHERE b.requester_id = $1
		ORDER BY b.booking_date DESC, b.time_slot DESC
	`

	rows, err := r.db.Query(query, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requester bookings: %w", err)
	}
	defer rows.Close()

	return r.scanBookingsWithService(rows)
}

// ListByOrganizer retrieves all bookings against any service owned by the
// organizer, joined with the service and the requesting account
func (r *BookingRepository) ListByOrganizer(organizerID uuid.UUID) ([]models.BookingWithDetails, error) {
	query := `
		SELECT b.id, b.service_id, b.requester_id, b.booking_date, b.time_slot,
		       b.status, b.notes, b.rating, b.created_at, b.updated_at,
		       s.id, s.organizer_id, s.name, s.category, s.description,
		       s.location, s.photo_url, s.availability_days, s.time_slots,
		       s.active, s.created_at, s.updated_at,
		       a.id, a.email, a.name, a.phone, a.role, a.status,
		       a.created_at, a.updated_at
		FROM bookings b
		JOIN services s ON s.id = b.service_id
		JOIN accounts a ON a.id = b.requester_id
		WHERE s.organizer_id = $1
		ORDER BY b.booking_date DESC, b.time_slot DESC
	`

	rows, err := r.db.Query(query, organizerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizer bookings: %w", err)
	}
	defer rows.Close()

	bookings := []models.BookingWithDetails{}
	for rows.Next() {
		var b models.BookingWithDetails
		var service models.Service
		var requester models.Account
		var rating sql.NullInt64
		var photoURL sql.NullString
		var phone sql.NullString

		err := rows.Scan(
			&b.ID, &b.ServiceID, &b.RequesterID, &b.Date, &b.TimeSlot,
			&b.Status, &b.Notes, &rating, &b.CreatedAt, &b.UpdatedAt,
			&service.ID, &service.OrganizerID, &service.Name, &service.Category,
			&service.Description, &service.Location, &photoURL,
			&service.AvailabilityDays, &service.TimeSlots,
			&service.Active, &service.CreatedAt, &service.UpdatedAt,
			&requester.ID, &requester.Email, &requester.Name, &phone,
			&requester.Role, &requester.Status,
			&requester.CreatedAt, &requester.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan organizer booking: %w", err)
		}

		if rating.Valid {
			v := int(rating.Int64)
			b.Rating = &v
		}
		if photoURL.Valid {
			service.PhotoURL = &photoURL.String
		}
		if phone.Valid {
			requester.Phone = &phone.String
		}

		b.Service = &service
		b.Requester = &requester
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

// scanBooking scans a single booking row
func (r *BookingRepository) scanBooking(row scanner) (*models.Booking, error) {
	booking := &models.Booking{}
	var rating sql.NullInt64

	err := row.Scan(
		&booking.ID, &booking.ServiceID, &booking.RequesterID, &booking.Date,
		&booking.TimeSlot, &booking.Status, &booking.Notes, &rating,
		&booking.CreatedAt, &booking.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}

	if rating.Valid {
		v := int(rating.Int64)
		booking.Rating = &v
	}

	return booking, nil
}

// scanBookingsWithService scans booking rows joined with their service
func (r *BookingRepository) scanBookingsWithService(rows *sql.Rows) ([]models.BookingWithDetails, error) {
	bookings := []models.BookingWithDetails{}

	for rows.Next() {
		var b models.BookingWithDetails
		var service models.Service
		var rating sql.NullInt64
		var photoURL sql.NullString

		err := rows.Scan(
			&b.ID, &b.ServiceID, &b.RequesterID, &b.Date, &b.TimeSlot,
			&b.Status, &b.Notes, &rating, &b.CreatedAt, &b.UpdatedAt,
			&service.ID, &service.OrganizerID, &service.Name, &service.Category,
			&service.Description, &service.Location, &photoURL,
			&service.AvailabilityDays, &service.TimeSlots,
			&service.Active, &service.CreatedAt, &service.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}

		if rating.Valid {
			v := int(rating.Int64)
			b.Rating = &v
		}
		if photoURL.Valid {
			service.PhotoURL = &photoURL.String
		}

		b.Service = &service
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}
