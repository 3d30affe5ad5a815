package subscription

import (
	"context"
	"errors"
	"time"

	"fitstudio/internal/client"
	"fitstudio/internal/db"
	"fitstudio/internal/logger"
	"fitstudio/internal/metrics"
	"fitstudio/internal/plan"
)

type ClientReader interface {
	GetByID(ctx context.Context, id int64) (*client.Client, error)
}

type PlanReader interface {
	GetByID(ctx context.Context, id int64) (*plan.Plan, error)
}

type Service interface {
	Purchase(ctx context.Context, clientID, planID, amountPaidCents int64, now time.Time) (*ClientSubscription, error)
	Get(ctx context.Context, id int64) (*ClientSubscription, error)
	ListByClient(ctx context.Context, clientID int64) ([]ClientSubscription, error)
	ResolveActiveSubscription(ctx context.Context, clientID int64, now time.Time) (*ClientSubscription, error)
	ConsumeCredit(ctx context.Context, id int64, now time.Time) (*ClientSubscription, error)
	RefundCredit(ctx context.Context, id int64) (*ClientSubscription, error)
	Cancel(ctx context.Context, id int64) (*ClientSubscription, error)
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
	Transactions(ctx context.Context, id int64) ([]CreditTransaction, error)
}

type service struct {
	repo    Repository
	clients ClientReader
	plans   PlanReader
	tx      db.TxRunner
}

func NewService(repo Repository, clients ClientReader, plans PlanReader, tx db.TxRunner) Service {
	return &service{
		repo:    repo,
		clients: clients,
		plans:   plans,
		tx:      tx,
	}
}

// Purchase grants a new ledger entry. The balance and price are copied from the plan.
func (s *service) Purchase(ctx context.Context, clientID, planID, amountPaidCents int64, now time.Time) (*ClientSubscription, error) {
	if amountPaidCents < 0 {
		return nil, ErrInvalidAmount
	}

	if _, err := s.clients.GetByID(ctx, clientID); err != nil {
		return nil, err
	}

	p, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, plan.ErrPlanNotFound) {
			return nil, ErrInvalidPlan
		}
		return nil, err
	}
	if !p.IsActive() {
		return nil, ErrInvalidPlan
	}

	start := Today(now)
	entry := ClientSubscription{
		ClientID:           clientID,
		SubscriptionTypeID: p.ID,
		PlanName:           p.Name,
		StartDate:          start,
		EndDate:            start.AddDate(0, 0, p.ValidityDays),
		CreditsTotal:       p.CreditsIncluded,
		CreditsRemaining:   p.CreditsIncluded,
		AmountPaidCents:    amountPaidCents,
		Status:             StatusActive,
	}

	var created *ClientSubscription
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.repo.Create(ctx, entry)
		if err != nil {
			return err
		}
		return s.repo.AddTransaction(ctx, CreditTransaction{
			SubscriptionID: created.ID,
			Delta:          created.CreditsTotal,
			Type:           TxPurchase,
			BalanceAfter:   created.CreditsRemaining,
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordSubscriptionPurchase(p.Name)
	logger.Info("subscription purchased",
		"subscription_id", created.ID,
		"client_id", clientID,
		"plan_id", p.ID,
		"credits", created.CreditsTotal,
		"end_date", created.EndDate.Format("2006-01-02"),
	)
	return created, nil
}

func (s *service) Get(ctx context.Context, id int64) (*ClientSubscription, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByClient(ctx context.Context, clientID int64) ([]ClientSubscription, error) {
	return s.repo.ListByClient(ctx, clientID)
}

// ResolveActiveSubscription returns ErrNoCreditsAvailable when the client holds no usable entry.
func (s *service) ResolveActiveSubscription(ctx context.Context, clientID int64, now time.Time) (*ClientSubscription, error) {
	subs, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	sub, ok := ResolveActive(subs, now)
	if !ok {
		return nil, ErrNoCreditsAvailable
	}
	return &sub, nil
}

// ConsumeCredit debits one credit atomically; concurrent callers cannot overdraw the balance.
func (s *service) ConsumeCredit(ctx context.Context, id int64, now time.Time) (*ClientSubscription, error) {
	var sub *ClientSubscription
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		sub, err = s.repo.ConsumeCredit(ctx, id, Today(now))
		if errors.Is(err, errNotApplied) {
			return s.rejection(ctx, id, now)
		}
		if err != nil {
			return err
		}
		return s.repo.AddTransaction(ctx, CreditTransaction{
			SubscriptionID: sub.ID,
			Delta:          -1,
			Type:           TxConsume,
			BalanceAfter:   sub.CreditsRemaining,
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordCreditConsumed()
	logger.Info("credit consumed", "subscription_id", id, "credits_remaining", sub.CreditsRemaining)
	return sub, nil
}

// rejection explains why a consume did not apply.
func (s *service) rejection(ctx context.Context, id int64, now time.Time) error {
	cur, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := CheckUsable(*cur, now); err != nil {
		return err
	}
	return ErrNoCreditsAvailable
}

func (s *service) RefundCredit(ctx context.Context, id int64) (*ClientSubscription, error) {
	var sub *ClientSubscription
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		sub, err = s.repo.RefundCredit(ctx, id)
		if errors.Is(err, errNotApplied) {
			cur, err := s.repo.GetByID(ctx, id)
			if err != nil {
				return err
			}
			logger.Error("refund would exceed credit total",
				"subscription_id", id,
				"credits_remaining", cur.CreditsRemaining,
				"credits_total", cur.CreditsTotal,
			)
			return ErrRefundExceedsTotal
		}
		if err != nil {
			return err
		}
		return s.repo.AddTransaction(ctx, CreditTransaction{
			SubscriptionID: sub.ID,
			Delta:          1,
			Type:           TxRefund,
			BalanceAfter:   sub.CreditsRemaining,
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordCreditRefunded()
	logger.Info("credit refunded", "subscription_id", id, "credits_remaining", sub.CreditsRemaining)
	return sub, nil
}

func (s *service) Cancel(ctx context.Context, id int64) (*ClientSubscription, error) {
	sub, err := s.repo.Cancel(ctx, id)
	if errors.Is(err, errNotApplied) {
		if _, err := s.repo.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrNotCancellable
	}
	if err != nil {
		return nil, err
	}

	logger.Info("subscription cancelled", "subscription_id", id, "credits_forfeited", sub.CreditsRemaining)
	return sub, nil
}

func (s *service) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.repo.ExpireOverdue(ctx, Today(now))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.RecordSubscriptionsExpired(n)
		logger.Info("subscriptions expired", "count", n)
	}
	return n, nil
}

func (s *service) Transactions(ctx context.Context, id int64) ([]CreditTransaction, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListTransactions(ctx, id)
}
