package session

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sessionCols = []string{"id", "client_id", "client_subscription_id", "scheduled_at", "duration_minutes", "session_type",
	"notes", "status", "credits_deducted", "completed_at", "created_at", "updated_at"}

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(conn, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })

	return NewRepository(sqlxDB), mock
}

func TestRepository_Create(t *testing.T) {
	repo, mock := setupMock(t)
	at := time.Date(2026, 5, 3, 10, 0, 0, 0, time.UTC)
	ts := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO workout_sessions")).
		WithArgs(int64(1), int64(10), at, 60, "personal_training", "knee").
		WillReturnRows(sqlmock.NewRows(sessionCols).
			AddRow(3, 1, 10, at, 60, "personal_training", "knee", "scheduled", false, nil, ts, ts))

	s, err := repo.Create(context.Background(), Session{
		ClientID: 1, ClientSubscriptionID: 10, ScheduledAt: at, DurationMinutes: 60,
		SessionType: TypePersonalTraining, Notes: "knee",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, s.Status)
	assert.Nil(t, s.CompletedAt)
}

func TestRepository_Complete(t *testing.T) {
	repo, mock := setupMock(t)
	at := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SET status = 'completed', credits_deducted = $1, completed_at = $2")).
		WithArgs(true, at, int64(3)).
		WillReturnRows(sqlmock.NewRows(sessionCols).
			AddRow(3, 1, 10, at, 60, "assessment", "", "completed", true, at, at, at))

	s, err := repo.Complete(context.Background(), 3, true, at)
	require.NoError(t, err)
	require.NotNil(t, s.CompletedAt)
	assert.True(t, s.CreditsDeducted)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM workout_sessions WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 3)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRepository_Reschedule(t *testing.T) {
	repo, mock := setupMock(t)
	at := time.Date(2026, 5, 4, 15, 30, 0, 0, time.UTC)
	ts := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $5 AND status = 'scheduled'")).
		WithArgs(at, 45, "assessment", "", int64(3)).
		WillReturnRows(sqlmock.NewRows(sessionCols).
			AddRow(3, 1, 10, at, 45, "assessment", "", "scheduled", false, nil, ts, ts))

	s, err := repo.Reschedule(context.Background(), Session{
		ID: 3, ScheduledAt: at, DurationMinutes: 45, SessionType: TypeAssessment,
	})
	require.NoError(t, err)
	assert.Equal(t, TypeAssessment, s.SessionType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Reschedule_NoLongerScheduled(t *testing.T) {
	repo, mock := setupMock(t)
	at := time.Date(2026, 5, 4, 15, 30, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE workout_sessions")).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Reschedule(context.Background(), Session{ID: 3, ScheduledAt: at, DurationMinutes: 45, SessionType: TypeAssessment})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
