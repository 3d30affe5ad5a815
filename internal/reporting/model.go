package reporting

import (
	"time"

	"fitstudio/internal/notification"
)

const (
	sessionMonths     = 12
	revenueMonths     = 6
	upcomingLimit     = 10
	lowCreditLimit    = 10
	recentClientLimit = 5
)

type Totals struct {
	TotalClients  int `db:"total_clients" json:"total_clients"`
	ActiveClients int `db:"active_clients" json:"active_clients"`
	TotalSessions int `db:"total_sessions" json:"total_sessions"`
}

type SessionRow struct {
	ScheduledAt time.Time `db:"scheduled_at"`
	Status      string    `db:"status"`
}

type RevenueRow struct {
	CreatedAt       time.Time `db:"created_at"`
	AmountPaidCents int64     `db:"amount_paid_cents"`
}

type MonthlySessionStat struct {
	Year      int `json:"year"`
	Month     int `json:"month"`
	Total     int `json:"total_sessions"`
	Completed int `json:"completed_sessions"`
}

type MonthlyRevenueStat struct {
	Year         int   `json:"year"`
	Month        int   `json:"month"`
	RevenueCents int64 `json:"revenue_cents"`
}

type UpcomingSession struct {
	ID              int64     `db:"id" json:"id"`
	ClientID        int64     `db:"client_id" json:"client_id"`
	ClientName      string    `db:"client_name" json:"client_name"`
	ScheduledAt     time.Time `db:"scheduled_at" json:"scheduled_at"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	SessionType     string    `db:"session_type" json:"session_type"`
	PlanName        string    `db:"plan_name" json:"plan_name"`
}

type RecentClient struct {
	ID               int64     `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	Email            string    `db:"email" json:"email"`
	Status           string    `db:"status" json:"status"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	PlanName         *string   `db:"-" json:"plan_name"`
	CreditsRemaining *int      `db:"-" json:"credits_remaining"`
}

type Dashboard struct {
	Totals
	CompletedThisMonth int                            `json:"completed_this_month"`
	MonthlySessions    []MonthlySessionStat           `json:"monthly_sessions"`
	MonthlyRevenue     []MonthlyRevenueStat           `json:"monthly_revenue"`
	UpcomingSessions   []UpcomingSession              `json:"upcoming_sessions"`
	LowCreditAlerts    []notification.LowCreditClient `json:"low_credit_alerts"`
	RecentClients      []RecentClient                 `json:"recent_clients"`
	GeneratedAt        time.Time                      `json:"generated_at"`
}
