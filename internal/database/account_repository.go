package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/conectando/booking-backend/internal/models"
)

// AccountRepository handles database operations for the accounts table
type AccountRepository struct {
	db DB
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account. Returns ErrDuplicateEmail if the email is
// already registered.
func (r *AccountRepository) Create(account *models.Account) error {
	query := `
		INSERT INTO accounts (
			id, email, password_hash, name, phone, national_id,
			address, birthdate, role, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
		RETURNING created_at, updated_at
	`

	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	if account.Status == "" {
		account.Status = models.AccountStatusActive
	}

	err := r.db.QueryRow(
		query,
		account.ID, account.Email, account.PasswordHash, account.Name,
		account.Phone, account.NationalID, account.Address, account.Birthdate,
		account.Role, account.Status,
	).Scan(&account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err, "") {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByEmail retrieves an account by email
func (r *AccountRepository) GetByEmail(email string) (*models.Account, error) {
	query := `
		SELECT id, email, password_hash, name, phone, national_id,
		       address, birthdate, role, status, created_at, updated_at
		FROM accounts
		WHERE email = $1
	`

	return r.scanAccount(r.db.QueryRow(query, email))
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(accountID uuid.UUID) (*models.Account, error) {
	query := `
		SELECT id, email, password_hash, name, phone, national_id,
		       address, birthdate, role, status, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	return r.scanAccount(r.db.QueryRow(query, accountID))
}

// UpdateProfile updates the mutable profile fields of an account. Email and
// role are immutable after signup and are not touched here.
func (r *AccountRepository) UpdateProfile(accountID uuid.UUID, req *models.UpdateProfileRequest) error {
	query := `
		UPDATE accounts
		SET name = COALESCE($2, name),
		    phone = COALESCE($3, phone),
		    national_id = COALESCE($4, national_id),
		    address = COALESCE($5, address),
		    birthdate = COALESCE($6, birthdate),
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, accountID, req.Name, req.Phone, req.NationalID, req.Address, req.Birthdate)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
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

// SetStatus soft-enables or soft-disables an account
func (r *AccountRepository) SetStatus(accountID uuid.UUID, status models.AccountStatus) error {
	query := `
		UPDATE accounts
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, accountID, status)
	if err != nil {
		return fmt.Errorf("failed to update account status: %w", err)
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

// scanAccount scans a single account row
func (r *AccountRepository) scanAccount(row scanner) (*models.Account, error) {
	account := &models.Account{}
	var phone sql.NullString
	var nationalID sql.NullString
	var address sql.NullString
	var birthdate sql.NullString

	err := row.Scan(
		&account.ID, &account.Email, &account.PasswordHash, &account.Name,
		&phone, &nationalID, &address, &birthdate,
		&account.Role, &account.Status, &account.CreatedAt, &account.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch account: %w", err)
	}

	if phone.Valid {
		account.Phone = &phone.String
	}
	if nationalID.Valid {
		account.NationalID = &nationalID.String
	}
	if address.Valid {
		account.Address = &address.String
	}
	if birthdate.Valid {
		account.Birthdate = &birthdate.String
	}

	return account, nil
}
