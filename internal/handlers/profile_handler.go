package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/conectando/booking-backend/internal/database"
	"github.com/conectando/booking-backend/internal/middleware"
	"github.com/conectando/booking-backend/internal/models"
)

// ProfileHandler handles account profile HTTP requests
type ProfileHandler struct {
	accountRepo *database.AccountRepository
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(accountRepo *database.AccountRepository) *ProfileHandler {
	return &ProfileHandler{accountRepo: accountRepo}
}

// GetProfile handles GET /api/users/me
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	acctCtx, exists := middleware.GetAccountContext(c)
	if !exists {
		respondMissingContext(c)
		return
	}

	account, err := h.accountRepo.GetByID(acctCtx.AccountID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Account not found",
				Code:    "NOT_FOUND",
			})
			return
		}
		logrus.WithError(err).Error("Failed to fetch profile")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "service_unavailable",
			Message: "A temporary error occurred. Please try again.",
			Code:    "TRANSIENT",
		})
		return
	}

	c.JSON(http.StatusOK, account)
}

// UpdateProfile handles PUT /api/users/me. Email and role are immutable;
// only the profile fields present in the body are changed.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	acctCtx, exists := middleware.GetAccountContext(c)
	if !exists {
		respondMissingContext(c)
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    "VALIDATION_ERROR",
		})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Code:    "VALIDATION_ERROR",
		})
		return
	}

	if err := h.accountRepo.UpdateProfile(acctCtx.AccountID, &req); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Account not found",
				Code:    "NOT_FOUND",
			})
			return
		}
		logrus.WithError(err).Error("Failed to update profile")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "service_unavailable",
			Message: "A temporary error occurred. Please try again.",
			Code:    "TRANSIENT",
		})
		return
	}

	account, err := h.accountRepo.GetByID(acctCtx.AccountID)
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch updated profile")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "service_unavailable",
			Message: "Profile updated but could not be loaded",
			Code:    "TRANSIENT",
		})
		return
	}

	logrus.WithField("account_id", account.ID).Info("Profile updated")

	c.JSON(http.StatusOK, account)
}
