package notification

import (
	"context"
	"fmt"
	"time"

	"fitstudio/internal/db"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Candidates lists every current subscription held by an active client.
func (r *repository) Candidates(ctx context.Context, today time.Time) ([]Candidate, error) {
	query := `
		SELECT
			c.id AS client_id,
			c.name AS client_name,
			c.email AS client_email,
			cs.id AS subscription_id,
			st.id AS plan_id,
			st.name AS plan_name,
			cs.credits_remaining,
			cs.credits_total,
			cs.end_date,
			cs.status,
			cs.created_at
		FROM clients c
		JOIN client_subscriptions cs ON cs.client_id = c.id
		JOIN subscription_types st ON st.id = cs.subscription_type_id
		WHERE c.status = 'active'
		  AND cs.status = 'active'
		  AND cs.end_date >= $1
	`

	rows := []Candidate{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &rows, query, today); err != nil {
		return nil, fmt.Errorf("list low credit candidates: %w", err)
	}
	return rows, nil
}
