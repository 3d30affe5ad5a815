package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fitstudio/internal/db"

	"github.com/jmoiron/sqlx"
)

// errNotApplied signals that a conditional update matched no row.
var errNotApplied = errors.New("conditional update not applied")

const subscriptionColumns = `id, client_id, subscription_type_id, start_date, end_date,
	credits_total, credits_remaining, amount_paid_cents, status, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, sub ClientSubscription) (*ClientSubscription, error) {
	query := `
		INSERT INTO client_subscriptions
			(client_id, subscription_type_id, start_date, end_date, credits_total, credits_remaining, amount_paid_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + subscriptionColumns

	var created ClientSubscription
	err := db.Conn(ctx, r.db).GetContext(ctx, &created, query,
		sub.ClientID, sub.SubscriptionTypeID, sub.StartDate, sub.EndDate,
		sub.CreditsTotal, sub.CreditsRemaining, sub.AmountPaidCents, string(sub.Status))
	if err != nil {
		return nil, fmt.Errorf("insert client subscription: %w", err)
	}

	created.PlanName = sub.PlanName
	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*ClientSubscription, error) {
	query := `
		SELECT cs.id, cs.client_id, cs.subscription_type_id, st.name AS plan_name, cs.start_date, cs.end_date,
		       cs.credits_total, cs.credits_remaining, cs.amount_paid_cents, cs.status, cs.created_at, cs.updated_at
		FROM client_subscriptions cs
		JOIN subscription_types st ON st.id = cs.subscription_type_id
		WHERE cs.id = $1
	`

	var sub ClientSubscription
	err := db.Conn(ctx, r.db).GetContext(ctx, &sub, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("get client subscription %d: %w", id, err)
	}

	return &sub, nil
}

func (r *repository) ListByClient(ctx context.Context, clientID int64) ([]ClientSubscription, error) {
	query := `
		SELECT cs.id, cs.client_id, cs.subscription_type_id, st.name AS plan_name, cs.start_date, cs.end_date,
		       cs.credits_total, cs.credits_remaining, cs.amount_paid_cents, cs.status, cs.created_at, cs.updated_at
		FROM client_subscriptions cs
		JOIN subscription_types st ON st.id = cs.subscription_type_id
		WHERE cs.client_id = $1
		ORDER BY cs.created_at DESC, cs.id DESC
	`

	subs := []ClientSubscription{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &subs, query, clientID); err != nil {
		return nil, fmt.Errorf("list client subscriptions: %w", err)
	}

	return subs, nil
}

func (r *repository) ConsumeCredit(ctx context.Context, id int64, today time.Time) (*ClientSubscription, error) {
	query := `
		UPDATE client_subscriptions
		SET credits_remaining = credits_remaining - 1, updated_at = NOW()
		WHERE id = $1
		  AND status = 'active'
		  AND end_date >= $2
		  AND credits_remaining > 0
		RETURNING ` + subscriptionColumns

	return r.conditionalUpdate(ctx, "consume credit", query, id, today)
}

func (r *repository) RefundCredit(ctx context.Context, id int64) (*ClientSubscription, error) {
	query := `
		UPDATE client_subscriptions
		SET credits_remaining = credits_remaining + 1, updated_at = NOW()
		WHERE id = $1
		  AND credits_remaining < credits_total
		RETURNING ` + subscriptionColumns

	return r.conditionalUpdate(ctx, "refund credit", query, id)
}

func (r *repository) Cancel(ctx context.Context, id int64) (*ClientSubscription, error) {
	query := `
		UPDATE client_subscriptions
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status = 'active'
		RETURNING ` + subscriptionColumns

	return r.conditionalUpdate(ctx, "cancel subscription", query, id)
}

func (r *repository) conditionalUpdate(ctx context.Context, op, query string, args ...interface{}) (*ClientSubscription, error) {
	var sub ClientSubscription
	err := db.Conn(ctx, r.db).GetContext(ctx, &sub, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errNotApplied
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// ExpireOverdue persists the derived expired state for active entries whose end date passed.
func (r *repository) ExpireOverdue(ctx context.Context, today time.Time) (int64, error) {
	query := `
		UPDATE client_subscriptions
		SET status = 'expired', updated_at = NOW()
		WHERE status = 'active' AND end_date < $1
	`

	result, err := db.Conn(ctx, r.db).ExecContext(ctx, query, today)
	if err != nil {
		return 0, fmt.Errorf("expire subscriptions: %w", err)
	}

	return result.RowsAffected()
}

func (r *repository) AddTransaction(ctx context.Context, tx CreditTransaction) error {
	_, err := db.Conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO credit_transactions (subscription_id, delta, type, balance_after)
		VALUES ($1, $2, $3, $4)
	`, tx.SubscriptionID, tx.Delta, string(tx.Type), tx.BalanceAfter)
	if err != nil {
		return fmt.Errorf("insert credit transaction: %w", err)
	}
	return nil
}

func (r *repository) ListTransactions(ctx context.Context, subscriptionID int64) ([]CreditTransaction, error) {
	txs := []CreditTransaction{}
	err := db.Conn(ctx, r.db).SelectContext(ctx, &txs, `
		SELECT id, subscription_id, delta, type, balance_after, created_at
		FROM credit_transactions
		WHERE subscription_id = $1
		ORDER BY created_at DESC, id DESC
	`, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("list credit transactions: %w", err)
	}
	return txs, nil
}
