package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/conectando/booking-backend/internal/models"
)

// ServiceRepository handles database operations for the services table
type ServiceRepository struct {
	db DB
}

// NewServiceRepository creates a new ServiceRepository
func NewServiceRepository(db DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// Create inserts a new service
func (r *ServiceRepository) Create(service *models.Service) error {
	query := `
		INSERT INTO services (
			id, organizer_id, name, category, description, location,
			photo_url, availability_days, time_slots, active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
		RETURNING created_at, updated_at
	`

	if service.ID == uuid.Nil {
		service.ID = uuid.New()
	}

	err := r.db.QueryRow(
		query,
		service.ID, service.OrganizerID, service.Name, service.Category,
		service.Description, service.Location, service.PhotoURL,
		service.AvailabilityDays, service.TimeSlots, service.Active,
	).Scan(&service.CreatedAt, &service.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	return nil
}

// GetByID retrieves a service by ID
func (r *ServiceRepository) GetByID(serviceID uuid.UUID) (*models.Service, error) {
	query := `
		SELECT id, organizer_id, name, category, description, location,
		       photo_url, availability_days, time_slots, active,
		       created_at, updated_at
		FROM services
		WHERE id = $1
	`

	return r.scanService(r.db.QueryRow(query, serviceID))
}

// ListActive retrieves all active services
func (r *ServiceRepository) ListActive() ([]models.Service, error) {
	query := `
		SELECT id, organizer_id, name, category, description, location,
		       photo_url, availability_days, time_slots, active,
		       created_at, updated_at
		FROM services
		WHERE active = TRUE
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	return r.scanServices(rows)
}

// ListByOrganizer retrieves all services (active and inactive) owned by an organizer
func (r *ServiceRepository) ListByOrganizer(organizerID uuid.UUID) ([]models.Service, error) {
	query := `
		SELECT id, organizer_id, name, category, description, location,
		       photo_url, availability_days, time_slots, active,
		       created_at, updated_at
		FROM services
		WHERE organizer_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, organizerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizer services: %w", err)
	}
	defer rows.Close()

	return r.scanServices(rows)
}

// Update applies a validated patch to a service
func (r *ServiceRepository) Update(service *models.Service) error {
	query := `
		UPDATE services
		SET name = $2, category = $3, description = $4, location = $5,
		    photo_url = $6, availability_days = $7, time_slots = $8,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		service.ID, service.Name, service.Category, service.Description,
		service.Location, service.PhotoURL, service.AvailabilityDays,
		service.TimeSlots,
	).Scan(&service.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update service: %w", err)
	}

	return nil
}

// Deactivate flips the active flag to false. Existing bookings referencing
// the service stay untouched.
func (r *ServiceRepository) Deactivate(serviceID uuid.UUID) error {
	query := `
		UPDATE services
		SET active = FALSE, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, serviceID)
	if err != nil {
		return fmt.Errorf("failed to deactivate service: %w", err)
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

// scanService scans a single service row
func (r *ServiceRepository) scanService(row scanner) (*models.Service, error) {
	service := &models.Service{}
	var photoURL sql.NullString

	err := row.Scan(
		&service.ID, &service.OrganizerID, &service.Name, &service.Category,
		&service.Description, &service.Location, &photoURL,
		&service.AvailabilityDays, &service.TimeSlots, &service.Active,
		&service.CreatedAt, &service.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch service: %w", err)
	}

	if photoURL.Valid {
		service.PhotoURL = &photoURL.String
	}

	return service, nil
}

// scanServices scans multiple service rows
func (r *ServiceRepository) scanServices(rows *sql.Rows) ([]models.Service, error) {
	services := []models.Service{}

	for rows.Next() {
		var service models.Service
		var photoURL sql.NullString

		err := rows.Scan(
			&service.ID, &service.OrganizerID, &service.Name, &service.Category,
			&service.Description, &service.Location, &photoURL,
			&service.AvailabilityDays, &service.TimeSlots, &service.Active,
			&service.CreatedAt, &service.UpdatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}

		if photoURL.Valid {
			service.PhotoURL = &photoURL.String
		}

		services = append(services, service)
	}

	return services, rows.Err()
}
