package services

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/conectando/booking-backend/internal/database"
	"github.com/conectando/booking-backend/internal/models"
	"github.com/conectando/booking-backend/pkg/validator"
)

// CatalogService manages the catalog of published services
type CatalogService struct {
	services *database.ServiceRepository
	sched    *validator.ScheduleValidator
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(services *database.ServiceRepository, sched *validator.ScheduleValidator) *CatalogService {
	return &CatalogService{services: services, sched: sched}
}

// ListActive returns all services with the active flag set
func (s *CatalogService) ListActive() ([]models.Service, error) {
	services, err := s.services.ListActive()
	if err != nil {
		return nil, storeError(err)
	}
	return services, nil
}

// GetByID returns a single service by ID, active or not
func (s *CatalogService) GetByID(serviceID uuid.UUID) (*models.Service, error) {
	service, err := s.services.GetByID(serviceID)
	if err != nil {
		return nil, storeError(err)
	}
	return service, nil
}

// ListByOrganizer returns all services owned by the actor, including
// deactivated ones
func (s *CatalogService) ListByOrganizer(actor *models.Account) ([]models.Service, error) {
	if !actor.IsOrganizer() {
		return nil, ErrForbidden
	}

	services, err := s.services.ListByOrganizer(actor.ID)
	if err != nil {
		return nil, storeError(err)
	}
	return services, nil
}

// Create validates and publishes a new service owned by the actor
func (s *CatalogService) Create(actor *models.Account, req *models.CreateServiceRequest) (*models.Service, error) {
	if !actor.IsOrganizer() {
		return nil, ErrForbidden
	}

	if fields := s.validateServiceFields(req.Name, req.Category, req.Description, req.AvailabilityDays, req.TimeSlots); len(fields) > 0 {
		return nil, NewValidationError(fields...)
	}

	location := req.Location
	if location == "" {
		location = "Location not specified"
	}

	service := &models.Service{
		OrganizerID:      actor.ID,
		Name:             req.Name,
		Category:         req.Category,
		Description:      req.Description,
		Location:         location,
		PhotoURL:         req.PhotoURL,
		AvailabilityDays: models.StringArray(req.AvailabilityDays),
		TimeSlots:        sortedSlots(req.TimeSlots),
		Active:           true,
	}

	if err := s.services.Create(service); err != nil {
		return nil, storeError(err)
	}

	return service, nil
}

// Update applies a partial update to a service the actor owns. Patched
// fields are re-validated with the same rules as creation.
func (s *CatalogService) Update(actor *models.Account, serviceID uuid.UUID, req *models.UpdateServiceRequest) (*models.Service, error) {
	service, err := s.services.GetByID(serviceID)
	if err != nil {
		return nil, storeError(err)
	}

	if !service.IsOwnedBy(actor.ID) {
		return nil, ErrForbidden
	}

	if !req.HasUpdates() {
		return nil, NewValidationError("no fields to update")
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Category != nil {
		service.Category = *req.Category
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Location != nil {
		service.Location = *req.Location
	}
	if req.PhotoURL != nil {
		service.PhotoURL = req.PhotoURL
	}
	if req.AvailabilityDays != nil {
		service.AvailabilityDays = models.StringArray(req.AvailabilityDays)
	}
	if req.TimeSlots != nil {
		service.TimeSlots = sortedSlots(req.TimeSlots)
	}

	if fields := s.validateServiceFields(service.Name, service.Category, service.Description, service.AvailabilityDays, service.TimeSlots); len(fields) > 0 {
		return nil, NewValidationError(fields...)
	}

	if err := s.services.Update(service); err != nil {
		return nil, storeError(err)
	}

	return service, nil
}

// Deactivate soft-deletes a service the actor owns. Bookings referencing
// the service remain valid and readable.
func (s *CatalogService) Deactivate(actor *models.Account, serviceID uuid.UUID) error {
	service, err := s.services.GetByID(serviceID)
	if err != nil {
		return storeError(err)
	}

	if !service.IsOwnedBy(actor.ID) {
		return ErrForbidden
	}

	if err := s.services.Deactivate(serviceID); err != nil {
		return storeError(err)
	}

	return nil
}

// validateServiceFields applies the creation rules and returns the names of
// the offending fields
func (s *CatalogService) validateServiceFields(name, category, description string, days, slots []string) []string {
	var fields []string

	if name == "" {
		fields = append(fields, "name")
	}
	if !models.IsValidCategory(category) {
		fields = append(fields, "category")
	}
	if description == "" {
		fields = append(fields, "description")
	}

	if len(days) == 0 {
		fields = append(fields, "availability_days")
	} else {
		for _, day := range days {
			if s.sched.ValidateWeekday(day) != nil {
				fields = append(fields, "availability_days")
				break
			}
		}
	}

	if len(slots) == 0 {
		fields = append(fields, "time_slots")
	} else {
		for _, slot := range slots {
			if s.sched.ValidateSlotLabel(slot) != nil {
				fields = append(fields, "time_slots")
				break
			}
		}
	}

	return fields
}

// sortedSlots returns the slot labels in ascending order. HH:MM labels sort
// correctly as strings.
func sortedSlots(slots []string) models.StringArray {
	sorted := make([]string, len(slots))
	copy(sorted, slots)
	sort.Strings(sorted)
	return models.StringArray(sorted)
}

// storeError maps repository errors onto the service taxonomy. Unknown
// storage failures surface as transient so callers know the operation is
// safe to retry.
func storeError(err error) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, database.ErrSlotConflict):
		return ErrSlotTaken
	default:
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
}
