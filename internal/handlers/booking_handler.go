package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/conectando/booking-backend/internal/middleware"
	"github.com/conectando/booking-backend/internal/models"
	"github.com/conectando/booking-backend/internal/services"
)

// BookingHandler handles booking ledger HTTP requests
type BookingHandler struct {
	ledger *services.LedgerService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(ledger *services.LedgerService) *BookingHandler {
	return &BookingHandler{ledger: ledger}
}

// Create handles POST /api/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	actor, exists := middleware.Actor(c)
	if !exists {
		respondMissingContext(c)
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    "VALIDATION_ERROR",
		})
		return
	}

	booking, err := h.ledger.Create(actor, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"service_id": booking.ServiceID,
		"date":       booking.Date.String(),
		"time_slot":  booking.TimeSlot,
	}).Info("Booking created")

	c.JSON(http.StatusCreated, booking)
}

// Get handles GET /api/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	actor, exists := middleware.Actor(c)
	if !exists {
		respondMissingContext(c)
		return
	}

	bookingID, ok := parseIDParam(c)
	if !ok {
		return
	}

	booking, err := h.ledger.GetByID(actor, bookingID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// MyBookings handles GET /api/bookings/my-bookings
func (h *BookingHandler) MyBookings(c *gin.Context) {
	actor, exists := middleware.Actor(c)
	if !exists {
		respondMissingContext(c)
		return
	}

	bookings, err := h.ledger.ListForRequester(actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// OrganizerBookings handles GET /api/bookings/organizer/all
func (h *BookingHandler) OrganizerBookings(c *gin.Context) {
	actor, exists := middleware.Actor(c)
	if !exists {
		respondMissingContext(c)
		return
	}

	bookings, stats, err := h.ledger.ListForOrganizer(actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"stats":    stats,
	})
}

// Update handles PUT /api/bookings/:id. The body carries a status
// transition, a rating, or both; the rating is applied after the
// transition so complete-and-rate works in one call.
func (h *BookingHandler) Update(c *gin.Context) {
	actor, exists := middleware.Actor(c)
	if !exists {
		respondMissingContext(c)
		return
	}

	bookingID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req models.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    "VALIDATION_ERROR",
		})
		return
	}

	if req.Status == nil && req.Rating == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Provide a status or a rating",
			Code:    "VALIDATION_ERROR",
			Fields:  []string{"status", "rating"},
		})
		return
	}

	var booking *models.Booking
	var err error

	if req.Status != nil {
		booking, err = h.ledger.Transition(actor, bookingID, *req.Status)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		logrus.WithFields(logrus.Fields{
			"booking_id": bookingID,
			"status":     *req.Status,
			"actor_id":   actor.ID,
		}).Info("Booking transitioned")
	}

	if req.Rating != nil {
		booking, err = h.ledger.Rate(actor, bookingID, *req.Rating)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		logrus.WithFields(logrus.Fields{
			"booking_id": bookingID,
			"rating":     *req.Rating,
		}).Info("Booking rated")
	}

	c.JSON(http.StatusOK, booking)
}

// Cancel handles DELETE /api/bookings/:id as a shorthand for a cancel
// transition
func (h *BookingHandler) Cancel(c *gin.Context) {
	actor, exists := middleware.Actor(c)
	if !exists {
		respondMissingContext(c)
		return
	}

	bookingID, ok := parseIDParam(c)
	if !ok {
		return
	}

	booking, err := h.ledger.Transition(actor, bookingID, models.BookingStatusCancelled)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"actor_id":   actor.ID,
	}).Info("Booking cancelled")

	c.JSON(http.StatusOK, booking)
}
