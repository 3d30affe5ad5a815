package subscription

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, sub ClientSubscription) (*ClientSubscription, error)
	GetByID(ctx context.Context, id int64) (*ClientSubscription, error)
	ListByClient(ctx context.Context, clientID int64) ([]ClientSubscription, error)

	// ConsumeCredit decrements the balance only when the entry is usable on today.
	// It returns errNotApplied when no row qualified.
	ConsumeCredit(ctx context.Context, id int64, today time.Time) (*ClientSubscription, error)
	// RefundCredit increments the balance only while it is below the total.
	RefundCredit(ctx context.Context, id int64) (*ClientSubscription, error)
	Cancel(ctx context.Context, id int64) (*ClientSubscription, error)
	ExpireOverdue(ctx context.Context, today time.Time) (int64, error)

	AddTransaction(ctx context.Context, tx CreditTransaction) error
	ListTransactions(ctx context.Context, subscriptionID int64) ([]CreditTransaction, error)
}
