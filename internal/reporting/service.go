package reporting

import (
	"context"
	"time"

	"fitstudio/internal/notification"
	"fitstudio/internal/subscription"
)

// LowCreditFinder is the part of the monitor the dashboard reads.
type LowCreditFinder interface {
	FindLowCreditClients(ctx context.Context, threshold int, now time.Time) ([]notification.LowCreditClient, error)
	DefaultThreshold() int
}

type Service interface {
	Dashboard(ctx context.Context, now time.Time) (*Dashboard, error)
}

type service struct {
	repo         Repository
	lowCredit    LowCreditFinder
	upcomingDays int
}

func NewService(repo Repository, lowCredit LowCreditFinder, upcomingDays int) Service {
	return &service{
		repo:         repo,
		lowCredit:    lowCredit,
		upcomingDays: upcomingDays,
	}
}

func (s *service) Dashboard(ctx context.Context, now time.Time) (*Dashboard, error) {
	totals, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, err
	}

	sessions, err := s.repo.SessionsSince(ctx, windowStart(now, sessionMonths))
	if err != nil {
		return nil, err
	}

	revenue, err := s.repo.SubscriptionsSince(ctx, windowStart(now, revenueMonths))
	if err != nil {
		return nil, err
	}

	upcoming, err := s.repo.UpcomingSessions(ctx, now, now.AddDate(0, 0, s.upcomingDays), upcomingLimit)
	if err != nil {
		return nil, err
	}

	alerts, err := s.lowCredit.FindLowCreditClients(ctx, s.lowCredit.DefaultThreshold(), now)
	if err != nil {
		return nil, err
	}
	if len(alerts) > lowCreditLimit {
		alerts = alerts[:lowCreditLimit]
	}

	recent, err := s.recentClients(ctx, now)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Totals:             *totals,
		CompletedThisMonth: CompletedThisMonth(sessions, now),
		MonthlySessions:    MonthlySessions(sessions, now, sessionMonths),
		MonthlyRevenue:     MonthlyRevenue(revenue, now, revenueMonths),
		UpcomingSessions:   upcoming,
		LowCreditAlerts:    alerts,
		RecentClients:      recent,
		GeneratedAt:        now,
	}, nil
}

// recentClients attaches each client's current plan, if any.
func (s *service) recentClients(ctx context.Context, now time.Time) ([]RecentClient, error) {
	clients, err := s.repo.RecentClients(ctx, recentClientLimit)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(clients))
	for i, c := range clients {
		ids[i] = c.ID
	}

	subs, err := s.repo.SubscriptionsForClients(ctx, ids)
	if err != nil {
		return nil, err
	}

	byClient := make(map[int64][]subscription.ClientSubscription)
	for _, sub := range subs {
		byClient[sub.ClientID] = append(byClient[sub.ClientID], sub)
	}

	for i := range clients {
		cur, ok := subscription.ResolveCurrent(byClient[clients[i].ID], now)
		if !ok {
			continue
		}
		plan, credits := cur.PlanName, cur.CreditsRemaining
		clients[i].PlanName = &plan
		clients[i].CreditsRemaining = &credits
	}
	return clients, nil
}
