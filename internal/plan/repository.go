package plan

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fitstudio/internal/db"

	"github.com/jmoiron/sqlx"
)

const planColumns = `id, name, description, credits_included, price_cents, validity_days, status, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, req PlanRequest) (*Plan, error) {
	query := `
		INSERT INTO subscription_types (name, description, credits_included, price_cents, validity_days, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + planColumns

	var p Plan
	err := db.Conn(ctx, r.db).GetContext(ctx, &p, query,
		req.Name, req.Description, req.CreditsIncluded, req.PriceCents, req.ValidityDays, string(req.Status))
	if err != nil {
		return nil, fmt.Errorf("insert subscription type: %w", err)
	}

	return &p, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Plan, error) {
	query := `SELECT ` + planColumns + ` FROM subscription_types WHERE id = $1`

	var p Plan
	err := db.Conn(ctx, r.db).GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("get subscription type %d: %w", id, err)
	}

	return &p, nil
}

func (r *repository) List(ctx context.Context, onlyActive bool) ([]Plan, error) {
	query := `
		SELECT ` + planColumns + `
		FROM subscription_types
		WHERE (NOT $1 OR status = 'active')
		ORDER BY price_cents, name
	`

	plans := []Plan{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &plans, query, onlyActive); err != nil {
		return nil, fmt.Errorf("list subscription types: %w", err)
	}

	return plans, nil
}

// Update rewrites the plan template. Existing client subscriptions keep their snapshot.
func (r *repository) Update(ctx context.Context, id int64, req PlanRequest) (*Plan, error) {
	query := `
		UPDATE subscription_types
		SET name = $1, description = $2, credits_included = $3, price_cents = $4,
		    validity_days = $5, status = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING ` + planColumns

	var p Plan
	err := db.Conn(ctx, r.db).GetContext(ctx, &p, query,
		req.Name, req.Description, req.CreditsIncluded, req.PriceCents, req.ValidityDays, string(req.Status), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("update subscription type %d: %w", id, err)
	}

	return &p, nil
}
