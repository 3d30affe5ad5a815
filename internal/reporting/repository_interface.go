package reporting

import (
	"context"
	"time"

	"fitstudio/internal/subscription"
)

type Repository interface {
	Totals(ctx context.Context) (*Totals, error)
	SessionsSince(ctx context.Context, since time.Time) ([]SessionRow, error)
	SubscriptionsSince(ctx context.Context, since time.Time) ([]RevenueRow, error)
	UpcomingSessions(ctx context.Context, from, to time.Time, limit int) ([]UpcomingSession, error)
	RecentClients(ctx context.Context, limit int) ([]RecentClient, error)
	SubscriptionsForClients(ctx context.Context, clientIDs []int64) ([]subscription.ClientSubscription, error)
}
