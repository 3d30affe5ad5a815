package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fitstudio/internal/db"

	"github.com/jmoiron/sqlx"
)

const sessionColumns = `id, client_id, client_subscription_id, scheduled_at, duration_minutes, session_type,
	notes, status, credits_deducted, completed_at, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, s Session) (*Session, error) {
	query := `
		INSERT INTO workout_sessions
			(client_id, client_subscription_id, scheduled_at, duration_minutes, session_type, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'scheduled')
		RETURNING ` + sessionColumns

	var created Session
	err := db.Conn(ctx, r.db).GetContext(ctx, &created, query,
		s.ClientID, s.ClientSubscriptionID, s.ScheduledAt, s.DurationMinutes, string(s.SessionType), s.Notes)
	if err != nil {
		return nil, fmt.Errorf("insert workout session: %w", err)
	}

	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Session, error) {
	return r.get(ctx, `SELECT `+sessionColumns+` FROM workout_sessions WHERE id = $1`, id)
}

func (r *repository) GetByIDForUpdate(ctx context.Context, id int64) (*Session, error) {
	return r.get(ctx, `SELECT `+sessionColumns+` FROM workout_sessions WHERE id = $1 FOR UPDATE`, id)
}

func (r *repository) get(ctx context.Context, query string, args ...interface{}) (*Session, error) {
	var s Session
	err := db.Conn(ctx, r.db).GetContext(ctx, &s, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get workout session: %w", err)
	}
	return &s, nil
}

func (r *repository) ListByClient(ctx context.Context, clientID int64) ([]Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM workout_sessions
		WHERE client_id = $1
		ORDER BY scheduled_at DESC, id DESC
	`

	sessions := []Session{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &sessions, query, clientID); err != nil {
		return nil, fmt.Errorf("list workout sessions: %w", err)
	}
	return sessions, nil
}

// Reschedule only touches rows still in the scheduled state.
func (r *repository) Reschedule(ctx context.Context, s Session) (*Session, error) {
	query := `
		UPDATE workout_sessions
		SET scheduled_at = $1, duration_minutes = $2, session_type = $3, notes = $4, updated_at = NOW()
		WHERE id = $5 AND status = 'scheduled'
		RETURNING ` + sessionColumns

	return r.get(ctx, query, s.ScheduledAt, s.DurationMinutes, string(s.SessionType), s.Notes, s.ID)
}

func (r *repository) Complete(ctx context.Context, id int64, deducted bool, completedAt time.Time) (*Session, error) {
	query := `
		UPDATE workout_sessions
		SET status = 'completed', credits_deducted = $1, completed_at = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING ` + sessionColumns

	return r.get(ctx, query, deducted, completedAt, id)
}

func (r *repository) SetStatus(ctx context.Context, id int64, status Status, creditsDeducted bool) (*Session, error) {
	query := `
		UPDATE workout_sessions
		SET status = $1, credits_deducted = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING ` + sessionColumns

	return r.get(ctx, query, string(status), creditsDeducted, id)
}
