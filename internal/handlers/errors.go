package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/conectando/booking-backend/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

// respondServiceError maps service-layer errors onto HTTP responses. The
// mapping is fixed so clients can branch on status and code.
func respondServiceError(c *gin.Context, err error) {
	if ve, ok := services.IsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid fields: " + strings.Join(ve.Fields, ", "),
			Code:    "VALIDATION_ERROR",
			Fields:  ve.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required",
			Code:    "UNAUTHENTICATED",
		})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "You don't have permission to access this resource",
			Code:    "FORBIDDEN",
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Resource not found",
			Code:    "NOT_FOUND",
		})
	case errors.Is(err, services.ErrServiceInactive):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "service_inactive",
			Message: "This service is no longer accepting bookings",
			Code:    "SERVICE_INACTIVE",
		})
	case errors.Is(err, services.ErrSlotTaken):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "slot_taken",
			Message: "This time slot has already been booked",
			Code:    "SLOT_TAKEN",
		})
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "invalid_transition",
			Message: "The booking cannot move to the requested status",
			Code:    "INVALID_TRANSITION",
		})
	case errors.Is(err, services.ErrTransient):
		logrus.WithError(err).Error("Transient storage failure")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "service_unavailable",
			Message: "A temporary error occurred. Please try again.",
			Code:    "TRANSIENT",
		})
	default:
		logrus.WithError(err).Error("Unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An unexpected error occurred",
			Code:    "INTERNAL_ERROR",
		})
	}
}

// respondMissingContext reports a request that reached a protected handler
// without the auth middleware having run
func respondMissingContext(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, ErrorResponse{
		Error:   "unauthorized",
		Message: "Account context not found",
		Code:    "MISSING_ACCOUNT_CONTEXT",
	})
}
