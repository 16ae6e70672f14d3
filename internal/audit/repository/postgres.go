package repository

import (
	"context"
	"database/sql"

	"session-auth-service/internal/audit/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit event repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the audit event to the database. The event must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, e *domain.AuditEvent) error {
	const query = `
		INSERT INTO audit_events (id, action, session_id, user_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	uid := sql.NullString{String: e.UserID, Valid: e.UserID != ""}
	meta := sql.NullString{String: e.Metadata, Valid: e.Metadata != ""}
	_, err := r.db.ExecContext(ctx, query, e.ID, e.Action, e.SessionID, uid, meta, e.CreatedAt)
	return err
}

// ListBySession returns the newest audit events for the session, newest first.
func (r *PostgresRepository) ListBySession(ctx context.Context, sessionID string, limit int32) ([]*domain.AuditEvent, error) {
	const query = `
		SELECT id, action, session_id, user_id, metadata, created_at
		FROM audit_events WHERE session_id = $1
		ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.AuditEvent
	for rows.Next() {
		var (
			e    domain.AuditEvent
			uid  sql.NullString
			meta sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Action, &e.SessionID, &uid, &meta, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.UserID = uid.String
		e.Metadata = meta.String
		out = append(out, &e)
	}
	return out, rows.Err()
}
