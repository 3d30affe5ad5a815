package reporting

import (
	"context"
	"fmt"
	"time"

	"fitstudio/internal/db"
	"fitstudio/internal/subscription"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Totals(ctx context.Context) (*Totals, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM clients) AS total_clients,
			(SELECT COUNT(*) FROM clients WHERE status = 'active') AS active_clients,
			(SELECT COUNT(*) FROM workout_sessions) AS total_sessions
	`

	var totals Totals
	if err := db.Conn(ctx, r.db).GetContext(ctx, &totals, query); err != nil {
		return nil, fmt.Errorf("count totals: %w", err)
	}
	return &totals, nil
}

func (r *repository) SessionsSince(ctx context.Context, since time.Time) ([]SessionRow, error) {
	query := `SELECT scheduled_at, status FROM workout_sessions WHERE scheduled_at >= $1`

	rows := []SessionRow{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &rows, query, since); err != nil {
		return nil, fmt.Errorf("list sessions since: %w", err)
	}
	return rows, nil
}

func (r *repository) SubscriptionsSince(ctx context.Context, since time.Time) ([]RevenueRow, error) {
	query := `SELECT created_at, amount_paid_cents FROM client_subscriptions WHERE created_at >= $1`

	rows := []RevenueRow{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &rows, query, since); err != nil {
		return nil, fmt.Errorf("list subscriptions since: %w", err)
	}
	return rows, nil
}

func (r *repository) UpcomingSessions(ctx context.Context, from, to time.Time, limit int) ([]UpcomingSession, error) {
	query := `
		SELECT ws.id, ws.client_id, c.name AS client_name, ws.scheduled_at,
		       ws.duration_minutes, ws.session_type, st.name AS plan_name
		FROM workout_sessions ws
		JOIN clients c ON c.id = ws.client_id
		JOIN client_subscriptions cs ON cs.id = ws.client_subscription_id
		JOIN subscription_types st ON st.id = cs.subscription_type_id
		WHERE ws.status = 'scheduled'
		  AND ws.scheduled_at BETWEEN $1 AND $2
		ORDER BY ws.scheduled_at
		LIMIT $3
	`

	sessions := []UpcomingSession{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &sessions, query, from, to, limit); err != nil {
		return nil, fmt.Errorf("list upcoming sessions: %w", err)
	}
	return sessions, nil
}

func (r *repository) RecentClients(ctx context.Context, limit int) ([]RecentClient, error) {
	query := `
		SELECT id, name, email, status, created_at
		FROM clients
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	clients := []RecentClient{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &clients, query, limit); err != nil {
		return nil, fmt.Errorf("list recent clients: %w", err)
	}
	return clients, nil
}

func (r *repository) SubscriptionsForClients(ctx context.Context, clientIDs []int64) ([]subscription.ClientSubscription, error) {
	subs := []subscription.ClientSubscription{}
	if len(clientIDs) == 0 {
		return subs, nil
	}

	query := `
		SELECT cs.id, cs.client_id, cs.subscription_type_id, st.name AS plan_name, cs.start_date, cs.end_date,
		       cs.credits_total, cs.credits_remaining, cs.amount_paid_cents, cs.status, cs.created_at, cs.updated_at
		FROM client_subscriptions cs
		JOIN subscription_types st ON st.id = cs.subscription_type_id
		WHERE cs.client_id = ANY($1) AND cs.status = 'active'
	`

	if err := db.Conn(ctx, r.db).SelectContext(ctx, &subs, query, pq.Array(clientIDs)); err != nil {
		return nil, fmt.Errorf("list subscriptions for clients: %w", err)
	}
	return subs, nil
}
