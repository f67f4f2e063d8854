package handlers

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/conectando/booking-backend/internal/database"
)

func TestGetProfile(t *testing.T) {
	accountID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		db, mock := setupTestDB(t)
		defer db.Close()
		handler := NewProfileHandler(database.NewAccountRepository(db))

		mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE id`).
			WithArgs(accountID).
			WillReturnRows(mockAccountRow(accountID, "maria@example.com", "hash", "user", "active"))

		c, w := setupAuthenticatedContext(accountID, "user")
		c.Request, _ = http.NewRequest(http.MethodGet, "/api/users/me", nil)

		handler.GetProfile(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "maria@example.com")
		assert.NotContains(t, w.Body.String(), "hash")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Context", func(t *testing.T) {
		db, _ := setupTestDB(t)
		defer db.Close()
		handler := NewProfileHandler(database.NewAccountRepository(db))

		c, w := setupPublicContext()
		c.Request, _ = http.NewRequest(http.MethodGet, "/api/users/me", nil)

		handler.GetProfile(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestUpdateProfile(t *testing.T) {
	accountID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		db, mock := setupTestDB(t)
		defer db.Close()
		handler := NewProfileHandler(database.NewAccountRepository(db))

		mock.ExpectExec(`UPDATE accounts`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE id`).
			WithArgs(accountID).
			WillReturnRows(mockAccountRow(accountID, "maria@example.com", "hash", "user", "active"))

		c, w := setupAuthenticatedContext(accountID, "user")
		jsonRequest(c, http.MethodPut, "/api/users/me", gin.H{
			"name":  "Maria S. Souza",
			"phone": "(22) 33333-3333",
		})

		handler.UpdateProfile(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty Patch Rejected", func(t *testing.T) {
		db, _ := setupTestDB(t)
		defer db.Close()
		handler := NewProfileHandler(database.NewAccountRepository(db))

		c, w := setupAuthenticatedContext(accountID, "user")
		jsonRequest(c, http.MethodPut, "/api/users/me", gin.H{})

		handler.UpdateProfile(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})
}
