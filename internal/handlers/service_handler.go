package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/conectando/booking-backend/internal/middleware"
	"github.com/conectando/booking-backend/internal/models"
	"github.com/conectando/booking-backend/internal/services"
)

// ServiceHandler handles service catalog HTTP requests
type ServiceHandler struct {
	catalog *services.CatalogService
	ledger  *services.LedgerService
}

// NewServiceHandler creates a new service handler
func NewServiceHandler(catalog *services.CatalogService, ledger *services.LedgerService) *ServiceHandler {
	return &ServiceHandler{catalog: catalog, ledger: ledger}
}

// List handles GET /api/services
func (h *ServiceHandler) List(c *gin.Context) {
	result, err := h.catalog.ListActive()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get handles GET /api/services/:id
func (h *ServiceHandler) Get(c *gin.Context) {
	serviceID, ok := parseIDParam(c)
	if !ok {
		return
	}

	service, err := h.catalog.GetByID(serviceID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, service)
}

// GetSlots handles GET /api/services/:id/slots?date=YYYY-MM-DD
func (h *ServiceHandler) GetSlots(c *gin.Context) {
	serviceID, ok := parseIDParam(c)
	if !ok {
		return
	}

	slots, err := h.ledger.AvailableSlots(serviceID, c.Query("date"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"service_id": serviceID,
		"date":       c.Query("date"),
		"slots":      slots,
	})
}

// MyServices handles GET /api/services/organizer/my-services
func (h *ServiceHandler) MyServices(c *gin.Context) {
	actor, exists := middleware.Actor(c)
	if !exists {
		respondMissingContext(c)
		return
	}

	result, err := h.catalog.ListByOrganizer(actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Create handles POST /api/services
func (h *ServiceHandler) Create(c *gin.Context) {
	actor, exists := middleware.Actor(c)
	if !exists {
		respondMissingContext(c)
		return
	}

	var req models.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    "VALIDATION_ERROR",
		})
		return
	}

	service, err := h.catalog.Create(actor, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"service_id":   service.ID,
		"organizer_id": actor.ID,
	}).Info("Service published")

	c.JSON(http.StatusCreated, service)
}

// Update handles PUT /api/services/:id
func (h *ServiceHandler) Update(c *gin.Context) {
	actor, exists := middleware.Actor(c)
	if !exists {
		respondMissingContext(c)
		return
	}

	serviceID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req models.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    "VALIDATION_ERROR",
		})
		return
	}

	service, err := h.catalog.Update(actor, serviceID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, service)
}

// Deactivate handles DELETE /api/services/:id. The service is soft-deleted;
// existing bookings keep their reference.
func (h *ServiceHandler) Deactivate(c *gin.Context) {
	actor, exists := middleware.Actor(c)
	if !exists {
		respondMissingContext(c)
		return
	}

	serviceID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.catalog.Deactivate(actor, serviceID); err != nil {
		respondServiceError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"service_id":   serviceID,
		"organizer_id": actor.ID,
	}).Info("Service deactivated")

	c.JSON(http.StatusOK, gin.H{"message": "Service deactivated"})
}

// parseIDParam parses the :id path parameter as a UUID
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid ID format",
			Code:    "VALIDATION_ERROR",
			Fields:  []string{"id"},
		})
		return uuid.Nil, false
	}
	return id, true
}
