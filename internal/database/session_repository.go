package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/conectando/booking-backend/internal/models"
)

// SessionRepository handles database operations for the sessions table
type SessionRepository struct {
	db DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session row
func (r *SessionRepository) Create(session *models.Session) error {
	query := `
		INSERT INTO sessions (
			id, account_id, refresh_token_hash, device_type, os, browser,
			ip, active, expires_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
		RETURNING created_at, last_used_at
	`

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	session.Active = true

	err := r.db.QueryRow(
		query,
		session.ID, session.AccountID, session.RefreshTokenHash,
		session.DeviceType, session.OS, session.Browser, session.IP,
		session.Active, session.ExpiresAt,
	).Scan(&session.CreatedAt, &session.LastUsedAt)

	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetByTokenHash retrieves a session by the hash of its refresh token
func (r *SessionRepository) GetByTokenHash(tokenHash string) (*models.Session, error) {
	query := `
		SELECT id, account_id, refresh_token_hash, device_type, os, browser,
		       ip, active, expires_at, created_at, last_used_at
		FROM sessions
		WHERE refresh_token_hash = $1
	`

	session := &models.Session{}
	var deviceType, os, browser, ip sql.NullString

	err := r.db.QueryRow(query, tokenHash).Scan(
		&session.ID, &session.AccountID, &session.RefreshTokenHash,
		&deviceType, &os, &browser, &ip,
		&session.Active, &session.ExpiresAt, &session.CreatedAt, &session.LastUsedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}

	if deviceType.Valid {
		session.DeviceType = &deviceType.String
	}
	if os.Valid {
		session.OS = &os.String
	}
	if browser.Valid {
		session.Browser = &browser.String
	}
	if ip.Valid {
		session.IP = &ip.String
	}

	return session, nil
}

// Touch updates the last-used timestamp of a session
func (r *SessionRepository) Touch(sessionID uuid.UUID) error {
	query := `
		UPDATE sessions
		SET last_used_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.Exec(query, sessionID)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}

	return nil
}

// Deactivate marks a single session as inactive
func (r *SessionRepository) Deactivate(sessionID uuid.UUID) error {
	query := `
		UPDATE sessions
		SET active = FALSE
		WHERE id = $1
	`

	result, err := r.db.Exec(query, sessionID)
	if err != nil {
		return fmt.Errorf("failed to deactivate session: %w", err)
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

// DeactivateAllForAccount marks every session for an account as inactive
func (r *SessionRepository) DeactivateAllForAccount(accountID uuid.UUID) error {
	query := `
		UPDATE sessions
		SET active = FALSE
		WHERE account_id = $1
		  AND active = TRUE
	`

	_, err := r.db.Exec(query, accountID)
	if err != nil {
		return fmt.Errorf("failed to deactivate account sessions: %w", err)
	}

	return nil
}

// DeleteExpired removes sessions whose expiry is older than the cutoff
func (r *SessionRepository) DeleteExpired(olderThan time.Duration) (int64, error) {
	query := `
		DELETE FROM sessions
		WHERE expires_at < NOW() - $1::interval
	`

	result, err := r.db.Exec(query, fmt.Sprintf("%d seconds", int(olderThan.Seconds())))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	return result.RowsAffected()
}
