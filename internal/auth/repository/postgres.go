package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"session-auth-service/internal/auth/domain"
)

type PostgresSessionRepository struct {
	db *sql.DB
}

// NewPostgresSessionRepository returns a session repository that uses the given db for persistence.
func NewPostgresSessionRepository(db *sql.DB) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db}
}

// Create persists the session to the database. The session must have ID set.
func (r *PostgresSessionRepository) Create(ctx context.Context, s *domain.Session) error {
	const query = `
		INSERT INTO sessions (id, user_id, validated_at, closed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.UserID, timeToNullTime(s.ValidatedAt), timeToNullTime(s.ClosedAt), s.CreatedAt, s.UpdatedAt)
	return err
}

// Save updates the session's mutable columns. Returns an error if the update fails.
func (r *PostgresSessionRepository) Save(ctx context.Context, s *domain.Session) error {
	const query = `
		UPDATE sessions SET validated_at = $2, closed_at = $3, updated_at = $4
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, timeToNullTime(s.ValidatedAt), timeToNullTime(s.ClosedAt), s.UpdatedAt)
	return err
}

// FindByID returns the session for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresSessionRepository) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	const query = `
		SELECT id, user_id, validated_at, closed_at, created_at, updated_at
		FROM sessions WHERE id = $1`
	var (
		s           domain.Session
		validatedAt sql.NullTime
		closedAt    sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.UserID, &validatedAt, &closedAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s.ValidatedAt = nullTimeToPtr(validatedAt)
	s.ClosedAt = nullTimeToPtr(closedAt)
	return &s, nil
}

// Delete removes the session row. The auth core never calls this; it exists
// for operational cleanup.
func (r *PostgresSessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

// Validate atomically marks the session validated, succeeding only when it is
// still unvalidated and open. Returns false when no row matched.
func (r *PostgresSessionRepository) Validate(ctx context.Context, id string, at time.Time) (bool, error) {
	const query = `
		UPDATE sessions SET validated_at = $2, updated_at = $2
		WHERE id = $1 AND validated_at IS NULL AND closed_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

type PostgresCodeValidationRepository struct {
	db *sql.DB
}

// NewPostgresCodeValidationRepository returns a code validation repository that uses the given db for persistence.
func NewPostgresCodeValidationRepository(db *sql.DB) *PostgresCodeValidationRepository {
	return &PostgresCodeValidationRepository{db: db}
}

// Create persists the code validation to the database. The code must have ID set.
func (r *PostgresCodeValidationRepository) Create(ctx context.Context, c *domain.CodeValidation) error {
	const query = `
		INSERT INTO code_validations (id, session_id, value, used_at, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.SessionID, c.Value, timeToNullTime(c.UsedAt), c.ExpiresAt, c.CreatedAt)
	return err
}

// Save updates the code validation's mutable columns. Returns an error if the update fails.
func (r *PostgresCodeValidationRepository) Save(ctx context.Context, c *domain.CodeValidation) error {
	const query = `
		UPDATE code_validations SET session_id = $2, value = $3, used_at = $4, expires_at = $5
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.SessionID, c.Value, timeToNullTime(c.UsedAt), c.ExpiresAt)
	return err
}

// FindByID returns the code validation for id, or nil if not found.
func (r *PostgresCodeValidationRepository) FindByID(ctx context.Context, id string) (*domain.CodeValidation, error) {
	const query = `
		SELECT id, session_id, value, used_at, expires_at, created_at
		FROM code_validations WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// FindByValue returns the most recently created code with the given value, or nil if none exists.
// Values are not unique across sessions, so the newest row wins.
func (r *PostgresCodeValidationRepository) FindByValue(ctx context.Context, value string) (*domain.CodeValidation, error) {
	const query = `
		SELECT id, session_id, value, used_at, expires_at, created_at
		FROM code_validations WHERE value = $1
		ORDER BY created_at DESC LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, value))
}

// Delete removes the code validation row.
func (r *PostgresCodeValidationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM code_validations WHERE id = $1`, id)
	return err
}

func (r *PostgresCodeValidationRepository) scanOne(row *sql.Row) (*domain.CodeValidation, error) {
	var (
		c      domain.CodeValidation
		usedAt sql.NullTime
	)
	err := row.Scan(&c.ID, &c.SessionID, &c.Value, &usedAt, &c.ExpiresAt, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	c.UsedAt = nullTimeToPtr(usedAt)
	return &c, nil
}

func timeToNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullTimeToPtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	return &n.Time
}
