package database

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/conectando/booking-backend/internal/models"
)

// mockDatabase wraps a sqlmock-backed *sql.DB behind the DB interface for
// repositories that do not need the concrete sqlx handle
type mockDatabase struct {
	db *sql.DB
}

func (m *mockDatabase) Get(dest interface{}, query string, args ...interface{}) error {
	return fmt.Errorf("not implemented in mock")
}

func (m *mockDatabase) Select(dest interface{}, query string, args ...interface{}) error {
	return fmt.Errorf("not implemented in mock")
}

func (m *mockDatabase) Exec(query string, args ...interface{}) (sql.Result, error) {
	return m.db.Exec(query, args...)
}

func (m *mockDatabase) QueryRow(query string, args ...interface{}) *sql.Row {
	return m.db.QueryRow(query, args...)
}

func (m *mockDatabase) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return m.db.Query(query, args...)
}

func (m *mockDatabase) Ping() error {
	return m.db.Ping()
}

func (m *mockDatabase) Close() error {
	return m.db.Close()
}

func newMockDatabase(t *testing.T) (*mockDatabase, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return &mockDatabase{db: db}, mock, func() { db.Close() }
}

var accountColumns = []string{
	"id", "email", "password_hash", "name", "phone", "national_id",
	"address", "birthdate", "role", "status", "created_at", "updated_at",
}

func TestAccountRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	repo := NewAccountRepository(db)

	t.Run("Success", func(t *testing.T) {
		now := time.Now()

		mock.ExpectQuery(`INSERT INTO accounts`).
			WithArgs(
				sqlmock.AnyArg(), "maria@example.com", sqlmock.AnyArg(),
				"Maria Souza", nil, nil, nil, nil,
				models.RoleUser, models.AccountStatusActive,
			).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		account := &models.Account{
			Email:        "maria@example.com",
			PasswordHash: "$2a$10$hash",
			Name:         "Maria Souza",
			Role:         models.RoleUser,
		}

		err := repo.Create(account)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, account.ID)
		assert.Equal(t, models.AccountStatusActive, account.Status)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO accounts`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "accounts_email_key"})

		err := repo.Create(&models.Account{
			Email:        "maria@example.com",
			PasswordHash: "$2a$10$hash",
			Name:         "Maria Souza",
			Role:         models.RoleUser,
		})
		assert.ErrorIs(t, err, ErrDuplicateEmail)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO accounts`).
			WillReturnError(fmt.Errorf("database error"))

		err := repo.Create(&models.Account{
			Email:        "maria@example.com",
			PasswordHash: "$2a$10$hash",
			Name:         "Maria Souza",
			Role:         models.RoleUser,
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create account")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepositoryGetByEmail(t *testing.T) {
	db, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	repo := NewAccountRepository(db)
	accountID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE email`).
			WithArgs("carlos@example.com").
			WillReturnRows(sqlmock.NewRows(accountColumns).AddRow(
				accountID, "carlos@example.com", "$2a$10$hash", "Carlos Lima",
				"(11) 98765-4321", nil, nil, nil,
				"organizer", "active", now, now,
			))

		account, err := repo.GetByEmail("carlos@example.com")
		require.NoError(t, err)
		assert.Equal(t, accountID, account.ID)
		assert.Equal(t, models.RoleOrganizer, account.Role)
		require.NotNil(t, account.Phone)
		assert.Equal(t, "(11) 98765-4321", *account.Phone)
		assert.Nil(t, account.NationalID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE email`).
			WithArgs("nobody@example.com").
			WillReturnError(sql.ErrNoRows)

		account, err := repo.GetByEmail("nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, account)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepositoryUpdateProfile(t *testing.T) {
	db, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	repo := NewAccountRepository(db)
	accountID := uuid.New()

	name := "Maria S. Souza"
	phone := "(22) 33333-3333"

	t.Run("Success", func(t *testing.T) {
		// nil fields fall through to COALESCE and keep their current value
		mock.ExpectExec(`UPDATE accounts`).
			WithArgs(accountID, &name, &phone, nil, nil, nil).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateProfile(accountID, &models.UpdateProfileRequest{
			Name:  &name,
			Phone: &phone,
		})
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectExec(`UPDATE accounts`).
			WithArgs(accountID, &name, nil, nil, nil, nil).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateProfile(accountID, &models.UpdateProfileRequest{Name: &name})
		assert.ErrorIs(t, err, ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepositorySetStatus(t *testing.T) {
	db, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	repo := NewAccountRepository(db)
	accountID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE accounts`).
			WithArgs(accountID, models.AccountStatusDisabled).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SetStatus(accountID, models.AccountStatusDisabled)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectExec(`UPDATE accounts`).
			WithArgs(accountID, models.AccountStatusDisabled).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SetStatus(accountID, models.AccountStatusDisabled)
		assert.ErrorIs(t, err, ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
