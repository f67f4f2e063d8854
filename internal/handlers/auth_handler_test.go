package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"github.com/conectando/booking-backend/internal/config"
	"github.com/conectando/booking-backend/internal/database"
	"github.com/conectando/booking-backend/pkg/jwt"
)

func setupAuthHandler(db *sqlx.DB) (*AuthHandler, *jwt.Service) {
	cfg := &config.Config{}
	cfg.Security.BcryptCost = bcrypt.MinCost
	cfg.JWT.AccessTokenExpiry = 15 * time.Minute
	cfg.JWT.RefreshTokenExpiry = 7 * 24 * time.Hour

	jwtService := jwt.NewService(
		"test-access-secret", "test-refresh-secret",
		cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry,
	)

	accountRepo := database.NewAccountRepository(db)
	sessionRepo := database.NewSessionRepository(db)

	return NewAuthHandler(jwtService, accountRepo, sessionRepo, cfg), jwtService
}

func setupPublicContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func mockAccountRow(accountID uuid.UUID, email, passwordHash, role, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "name", "phone", "national_id",
		"address", "birthdate", "role", "status", "created_at", "updated_at",
	}).AddRow(
		accountID, email, passwordHash, "Maria Souza",
		nil, nil, nil, nil, role, status, now, now,
	)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestRegister(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := setupTestDB(t)
		defer db.Close()
		handler, _ := setupAuthHandler(db)

		now := time.Now()
		mock.ExpectQuery(`INSERT INTO accounts`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
		mock.ExpectQuery(`INSERT INTO sessions`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "last_used_at"}).AddRow(now, now))

		c, w := setupPublicContext()
		jsonRequest(c, http.MethodPost, "/api/auth/register", gin.H{
			"email":    "maria@example.com",
			"password": "password123",
			"name":     "Maria Souza",
		})

		handler.Register(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "access_token")
		assert.Contains(t, w.Body.String(), "refresh_token")
		assert.Contains(t, w.Body.String(), `"role":"user"`)
		assert.NotContains(t, w.Body.String(), "password")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		db, mock := setupTestDB(t)
		defer db.Close()
		handler, _ := setupAuthHandler(db)

		mock.ExpectQuery(`INSERT INTO accounts`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "accounts_email_key"})

		c, w := setupPublicContext()
		jsonRequest(c, http.MethodPost, "/api/auth/register", gin.H{
			"email":    "maria@example.com",
			"password": "password123",
			"name":     "Maria Souza",
		})

		handler.Register(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "EMAIL_TAKEN")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Short Password Rejected", func(t *testing.T) {
		db, _ := setupTestDB(t)
		defer db.Close()
		handler, _ := setupAuthHandler(db)

		c, w := setupPublicContext()
		jsonRequest(c, http.MethodPost, "/api/auth/register", gin.H{
			"email":    "maria@example.com",
			"password": "short",
			"name":     "Maria Souza",
		})

		handler.Register(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("Invalid Role Rejected", func(t *testing.T) {
		db, _ := setupTestDB(t)
		defer db.Close()
		handler, _ := setupAuthHandler(db)

		c, w := setupPublicContext()
		jsonRequest(c, http.MethodPost, "/api/auth/register", gin.H{
			"email":    "maria@example.com",
			"password": "password123",
			"name":     "Maria Souza",
			"role":     "admin",
		})

		handler.Register(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLogin(t *testing.T) {
	accountID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		db, mock := setupTestDB(t)
		defer db.Close()
		handler, _ := setupAuthHandler(db)

		hash := hashPassword(t, "password123")
		mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE email`).
			WithArgs("maria@example.com").
			WillReturnRows(mockAccountRow(accountID, "maria@example.com", hash, "user", "active"))

		now := time.Now()
		mock.ExpectQuery(`INSERT INTO sessions`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "last_used_at"}).AddRow(now, now))

		c, w := setupPublicContext()
		jsonRequest(c, http.MethodPost, "/api/auth/login", gin.H{
			"email":    "maria@example.com",
			"password": "password123",
		})

		handler.Login(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "access_token")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Wrong Password", func(t *testing.T) {
		db, mock := setupTestDB(t)
		defer db.Close()
		handler, _ := setupAuthHandler(db)

		hash := hashPassword(t, "password123")
		mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE email`).
			WithArgs("maria@example.com").
			WillReturnRows(mockAccountRow(accountID, "maria@example.com", hash, "user", "active"))

		c, w := setupPublicContext()
		jsonRequest(c, http.MethodPost, "/api/auth/login", gin.H{
			"email":    "maria@example.com",
			"password": "wrong-password",
		})

		handler.Login(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
	})

	t.Run("Unknown Email", func(t *testing.T) {
		db, mock := setupTestDB(t)
		defer db.Close()
		handler, _ := setupAuthHandler(db)

		mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE email`).
			WithArgs("nobody@example.com").
			WillReturnError(sql.ErrNoRows)

		c, w := setupPublicContext()
		jsonRequest(c, http.MethodPost, "/api/auth/login", gin.H{
			"email":    "nobody@example.com",
			"password": "password123",
		})

		handler.Login(c)

		// same response as a wrong password so the endpoint does not leak
		// which emails are registered
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
	})

	t.Run("Disabled Account", func(t *testing.T) {
		db, mock := setupTestDB(t)
		defer db.Close()
		handler, _ := setupAuthHandler(db)

		hash := hashPassword(t, "password123")
		mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE email`).
			WithArgs("maria@example.com").
			WillReturnRows(mockAccountRow(accountID, "maria@example.com", hash, "user", "disabled"))

		c, w := setupPublicContext()
		jsonRequest(c, http.MethodPost, "/api/auth/login", gin.H{
			"email":    "maria@example.com",
			"password": "password123",
		})

		handler.Login(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "ACCOUNT_DISABLED")
	})
}

func TestRefresh(t *testing.T) {
	accountID := uuid.New()
	sessionID := uuid.New()

	sessionRow := func(active bool, expiresAt time.Time, tokenHash string) *sqlmock.Rows {
		now := time.Now()
		return sqlmock.NewRows([]string{
			"id", "account_id", "refresh_token_hash", "device_type", "os",
			"browser", "ip", "active", "expires_at", "created_at", "last_used_at",
		}).AddRow(
			sessionID, accountID, tokenHash, "Desktop", "Linux", "Firefox",
			nil, active, expiresAt, now, now,
		)
	}

	t.Run("Success", func(t *testing.T) {
		db, mock := setupTestDB(t)
		defer db.Close()
		handler, jwtService := setupAuthHandler(db)

		refreshToken, err := jwtService.GenerateRefreshToken(accountID, "maria@example.com")
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT (.+) FROM sessions WHERE refresh_token_hash`).
			WithArgs(hashToken(refreshToken)).
			WillReturnRows(sessionRow(true, time.Now().Add(time.Hour), hashToken(refreshToken)))
		mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE id`).
			WithArgs(accountID).
			WillReturnRows(mockAccountRow(accountID, "maria@example.com", "hash", "user", "active"))
		mock.ExpectExec(`UPDATE sessions`).
			WithArgs(sessionID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		c, w := setupPublicContext()
		jsonRequest(c, http.MethodPost, "/api/auth/refresh", gin.H{
			"refresh_token": refreshToken,
		})

		handler.Refresh(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "access_token")
		assert.Contains(t, w.Body.String(), `"expires_in":900`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Revoked Session", func(t *testing.T) {
		db, mock := setupTestDB(t)
		defer db.Close()
		handler, jwtService := setupAuthHandler(db)

		refreshToken, err := jwtService.GenerateRefreshToken(accountID, "maria@example.com")
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT (.+) FROM sessions WHERE refresh_token_hash`).
			WithArgs(hashToken(refreshToken)).
			WillReturnRows(sessionRow(false, time.Now().Add(time.Hour), hashToken(refreshToken)))

		c, w := setupPublicContext()
		jsonRequest(c, http.MethodPost, "/api/auth/refresh", gin.H{
			"refresh_token": refreshToken,
		})

		handler.Refresh(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "SESSION_REVOKED")
	})

	t.Run("Garbage Token", func(t *testing.T) {
		db, _ := setupTestDB(t)
		defer db.Close()
		handler, _ := setupAuthHandler(db)

		c, w := setupPublicContext()
		jsonRequest(c, http.MethodPost, "/api/auth/refresh", gin.H{
			"refresh_token": "not-a-jwt",
		})

		handler.Refresh(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_REFRESH_TOKEN")
	})

	t.Run("Access Token Rejected", func(t *testing.T) {
		db, _ := setupTestDB(t)
		defer db.Close()
		handler, jwtService := setupAuthHandler(db)

		accessToken, err := jwtService.GenerateAccessToken(accountID, "maria@example.com", "user")
		require.NoError(t, err)

		c, w := setupPublicContext()
		jsonRequest(c, http.MethodPost, "/api/auth/refresh", gin.H{
			"refresh_token": accessToken,
		})

		handler.Refresh(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestLogout(t *testing.T) {
	accountID := uuid.New()
	sessionID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		db, mock := setupTestDB(t)
		defer db.Close()
		handler, jwtService := setupAuthHandler(db)

		refreshToken, err := jwtService.GenerateRefreshToken(accountID, "maria@example.com")
		require.NoError(t, err)

		now := time.Now()
		mock.ExpectQuery(`SELECT (.+) FROM sessions WHERE refresh_token_hash`).
			WithArgs(hashToken(refreshToken)).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "account_id", "refresh_token_hash", "device_type", "os",
				"browser", "ip", "active", "expires_at", "created_at", "last_used_at",
			}).AddRow(
				sessionID, accountID, hashToken(refreshToken), nil, nil, nil,
				nil, true, now.Add(time.Hour), now, now,
			))
		mock.ExpectExec(`UPDATE sessions`).
			WithArgs(sessionID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		c, w := setupPublicContext()
		jsonRequest(c, http.MethodPost, "/api/auth/logout", gin.H{
			"refresh_token": refreshToken,
		})

		handler.Logout(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Logout Everywhere Revokes All Sessions", func(t *testing.T) {
		db, mock := setupTestDB(t)
		defer db.Close()
		handler, _ := setupAuthHandler(db)

		mock.ExpectExec(`UPDATE sessions`).
			WithArgs(accountID).
			WillReturnResult(sqlmock.NewResult(0, 3))

		c, w := setupAuthenticatedContext(accountID, "user")
		c.Request, _ = http.NewRequest(http.MethodPost, "/api/auth/logout-all", nil)

		handler.LogoutAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Logout Everywhere Requires Authentication", func(t *testing.T) {
		db, _ := setupTestDB(t)
		defer db.Close()
		handler, _ := setupAuthHandler(db)

		c, w := setupPublicContext()
		c.Request, _ = http.NewRequest(http.MethodPost, "/api/auth/logout-all", nil)

		handler.LogoutAll(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Unknown Token Is Idempotent", func(t *testing.T) {
		db, mock := setupTestDB(t)
		defer db.Close()
		handler, _ := setupAuthHandler(db)

		mock.ExpectQuery(`SELECT (.+) FROM sessions WHERE refresh_token_hash`).
			WillReturnError(sql.ErrNoRows)

		c, w := setupPublicContext()
		jsonRequest(c, http.MethodPost, "/api/auth/logout", gin.H{
			"refresh_token": "whatever",
		})

		handler.Logout(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
