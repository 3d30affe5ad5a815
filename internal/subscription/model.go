package subscription

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

type TransactionType string

const (
	TxPurchase TransactionType = "purchase"
	TxConsume  TransactionType = "consume"
	TxRefund   TransactionType = "refund"
)

// ClientSubscription is one ledger entry: a purchased plan with its own credit balance.
// CreditsTotal and AmountPaidCents are snapshots taken at purchase time.
type ClientSubscription struct {
	ID                 int64     `db:"id" json:"id"`
	ClientID           int64     `db:"client_id" json:"client_id"`
	SubscriptionTypeID int64     `db:"subscription_type_id" json:"subscription_type_id"`
	PlanName           string    `db:"plan_name" json:"plan_name,omitempty"`
	StartDate          time.Time `db:"start_date" json:"start_date"`
	EndDate            time.Time `db:"end_date" json:"end_date"`
	CreditsTotal       int       `db:"credits_total" json:"credits_total"`
	CreditsRemaining   int       `db:"credits_remaining" json:"credits_remaining"`
	AmountPaidCents    int64     `db:"amount_paid_cents" json:"amount_paid_cents"`
	Status             Status    `db:"status" json:"status"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`

	// DaysLeft is derived on read, see DaysUntilExpiration.
	DaysLeft int `db:"-" json:"days_until_expiration"`
}

// Today truncates now to its calendar date, expressed at UTC midnight like DATE columns.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Expired reports whether the end date lies before today. The end date itself is still valid.
func (s ClientSubscription) Expired(now time.Time) bool {
	return dateOf(s.EndDate).Before(Today(now))
}

// Current reports status active and not expired, regardless of balance.
func (s ClientSubscription) Current(now time.Time) bool {
	return s.Status == StatusActive && !s.Expired(now)
}

// Usable reports whether a credit can be consumed right now.
func (s ClientSubscription) Usable(now time.Time) bool {
	return s.Current(now) && s.CreditsRemaining > 0
}

// EffectiveStatus reports expired for active entries whose end date passed but were not swept yet.
func (s ClientSubscription) EffectiveStatus(now time.Time) Status {
	if s.Status == StatusActive && s.Expired(now) {
		return StatusExpired
	}
	return s.Status
}

// DaysUntilExpiration counts calendar days from today to the end date, which is
// 0 on the last valid day and never negative once the entry has lapsed.
func (s ClientSubscription) DaysUntilExpiration(now time.Time) int {
	days := int(dateOf(s.EndDate).Sub(Today(now)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// Derive fills the read-time fields: effective status and days left.
func (s *ClientSubscription) Derive(now time.Time) {
	s.Status = s.EffectiveStatus(now)
	s.DaysLeft = s.DaysUntilExpiration(now)
}

type CreditTransaction struct {
	ID             int64           `db:"id" json:"id"`
	SubscriptionID int64           `db:"subscription_id" json:"subscription_id"`
	Delta          int             `db:"delta" json:"delta"`
	Type           TransactionType `db:"type" json:"type"`
	BalanceAfter   int             `db:"balance_after" json:"balance_after"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

type PurchaseRequest struct {
	SubscriptionTypeID int64 `json:"subscription_type_id" binding:"required"`
	AmountPaidCents    int64 `json:"amount_paid_cents" binding:"gte=0"`
}
