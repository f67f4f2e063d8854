package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"github.com/conectando/booking-backend/internal/config"
	"github.com/conectando/booking-backend/internal/database"
	"github.com/conectando/booking-backend/internal/middleware"
	"github.com/conectando/booking-backend/internal/models"
	"github.com/conectando/booking-backend/internal/utils"
	"github.com/conectando/booking-backend/pkg/jwt"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	jwtService  *jwt.Service
	accountRepo *database.AccountRepository
	sessionRepo *database.SessionRepository
	config      *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	jwtService *jwt.Service,
	accountRepo *database.AccountRepository,
	sessionRepo *database.SessionRepository,
	cfg *config.Config,
) *AuthHandler {
	return &AuthHandler{
		jwtService:  jwtService,
		accountRepo: accountRepo,
		sessionRepo: sessionRepo,
		config:      cfg,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest

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

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.config.Security.BcryptCost)
	if err != nil {
		logrus.WithError(err).Error("Failed to hash password")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to create account",
			Code:    "INTERNAL_ERROR",
		})
		return
	}

	account := &models.Account{
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Phone:        req.Phone,
		NationalID:   req.NationalID,
		Address:      req.Address,
		Birthdate:    req.Birthdate,
		Role:         req.Role,
		Status:       models.AccountStatusActive,
	}

	if err := h.accountRepo.Create(account); err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "email_taken",
				Message: "An account with this email already exists",
				Code:    "EMAIL_TAKEN",
			})
			return
		}
		logrus.WithError(err).Error("Failed to create account")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "service_unavailable",
			Message: "A temporary error occurred. Please try again.",
			Code:    "TRANSIENT",
		})
		return
	}

	tokens, err := h.issueTokens(c, account)
	if err != nil {
		logrus.WithError(err).Error("Failed to issue tokens after registration")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Account created but login failed. Please log in.",
			Code:    "INTERNAL_ERROR",
		})
		return
	}

	logrus.WithFields(logrus.Fields{
		"account_id": account.ID,
		"role":       account.Role,
	}).Info("Account registered")

	c.JSON(http.StatusCreated, tokens)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    "VALIDATION_ERROR",
		})
		return
	}

	account, err := h.accountRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			h.respondInvalidCredentials(c)
			return
		}
		logrus.WithError(err).Error("Failed to fetch account for login")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "service_unavailable",
			Message: "A temporary error occurred. Please try again.",
			Code:    "TRANSIENT",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		h.respondInvalidCredentials(c)
		return
	}

	if !account.IsActive() {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "account_disabled",
			Message: "This account has been disabled",
			Code:    "ACCOUNT_DISABLED",
		})
		return
	}

	tokens, err := h.issueTokens(c, account)
	if err != nil {
		logrus.WithError(err).Error("Failed to issue tokens")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Login failed",
			Code:    "INTERNAL_ERROR",
		})
		return
	}

	logrus.WithField("account_id", account.ID).Info("Account logged in")

	c.JSON(http.StatusOK, tokens)
}

// Refresh handles POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    "VALIDATION_ERROR",
		})
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Invalid or expired refresh token",
			Code:    "INVALID_REFRESH_TOKEN",
		})
		return
	}

	session, err := h.sessionRepo.GetByTokenHash(hashToken(req.RefreshToken))
	if err != nil || !session.IsUsable() {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Session is no longer valid. Please log in again.",
			Code:    "SESSION_REVOKED",
		})
		return
	}

	account, err := h.accountRepo.GetByID(claims.AccountID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Account no longer exists",
			Code:    "INVALID_REFRESH_TOKEN",
		})
		return
	}

	if !account.IsActive() {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "account_disabled",
			Message: "This account has been disabled",
			Code:    "ACCOUNT_DISABLED",
		})
		return
	}

	accessToken, err := h.jwtService.GenerateAccessToken(account.ID, account.Email, string(account.Role))
	if err != nil {
		logrus.WithError(err).Error("Failed to generate access token")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to refresh token",
			Code:    "INTERNAL_ERROR",
		})
		return
	}

	if err := h.sessionRepo.Touch(session.ID); err != nil {
		logrus.WithError(err).Warn("Failed to touch session")
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": accessToken,
		"token_type":   "Bearer",
		"expires_in":   int(h.config.JWT.AccessTokenExpiry.Seconds()),
	})
}

// Logout handles POST /api/auth/logout. It revokes the session holding the
// presented refresh token.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req models.RefreshRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
			Code:    "VALIDATION_ERROR",
		})
		return
	}

	session, err := h.sessionRepo.GetByTokenHash(hashToken(req.RefreshToken))
	if err != nil {
		// already gone; logout is idempotent
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
		return
	}

	if err := h.sessionRepo.Deactivate(session.ID); err != nil && !errors.Is(err, database.ErrNotFound) {
		logrus.WithError(err).Error("Failed to deactivate session")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "service_unavailable",
			Message: "A temporary error occurred. Please try again.",
			Code:    "TRANSIENT",
		})
		return
	}

	logrus.WithField("session_id", session.ID).Info("Session revoked")

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// LogoutAll handles POST /api/auth/logout-all. It revokes every session the
// authenticated account holds, on every device.
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	acctCtx, exists := middleware.GetAccountContext(c)
	if !exists {
		respondMissingContext(c)
		return
	}

	if err := h.sessionRepo.DeactivateAllForAccount(acctCtx.AccountID); err != nil {
		logrus.WithError(err).Error("Failed to deactivate account sessions")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "service_unavailable",
			Message: "A temporary error occurred. Please try again.",
			Code:    "TRANSIENT",
		})
		return
	}

	logrus.WithField("account_id", acctCtx.AccountID).Info("All sessions revoked")

	c.JSON(http.StatusOK, gin.H{"message": "Logged out everywhere"})
}

// issueTokens mints an access/refresh token pair and opens a session
// recording the requesting device
func (h *AuthHandler) issueTokens(c *gin.Context, account *models.Account) (*models.TokenResponse, error) {
	accessToken, err := h.jwtService.GenerateAccessToken(account.ID, account.Email, string(account.Role))
	if err != nil {
		return nil, err
	}

	refreshToken, err := h.jwtService.GenerateRefreshToken(account.ID, account.Email)
	if err != nil {
		return nil, err
	}

	device := utils.ParseUserAgent(utils.GetUserAgent(c))
	ip := utils.GetRealIP(c)

	session := &models.Session{
		AccountID:        account.ID,
		RefreshTokenHash: hashToken(refreshToken),
		DeviceType:       &device.DeviceType,
		OS:               &device.OS,
		Browser:          &device.Browser,
		IP:               &ip,
		ExpiresAt:        time.Now().Add(h.config.JWT.RefreshTokenExpiry),
	}

	if err := h.sessionRepo.Create(session); err != nil {
		return nil, err
	}

	return &models.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		Account:      account,
	}, nil
}

func (h *AuthHandler) respondInvalidCredentials(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, ErrorResponse{
		Error:   "invalid_credentials",
		Message: "Invalid email or password",
		Code:    "INVALID_CREDENTIALS",
	})
}

// hashToken hashes a refresh token for at-rest storage. Sessions never hold
// the raw token.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
