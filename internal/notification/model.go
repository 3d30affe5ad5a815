package notification

import "time"

// Candidate is one current subscription of an active client, as read for the monitor.
type Candidate struct {
	ClientID         int64     `db:"client_id"`
	ClientName       string    `db:"client_name"`
	ClientEmail      string    `db:"client_email"`
	SubscriptionID   int64     `db:"subscription_id"`
	PlanID           int64     `db:"plan_id"`
	PlanName         string    `db:"plan_name"`
	CreditsRemaining int       `db:"credits_remaining"`
	CreditsTotal     int       `db:"credits_total"`
	EndDate          time.Time `db:"end_date"`
	Status           string    `db:"status"`
	CreatedAt        time.Time `db:"created_at"`
}

type LowCreditClient struct {
	ClientID         int64     `json:"client_id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	SubscriptionID   int64     `json:"subscription_id"`
	PlanID           int64     `json:"plan_id"`
	PlanName         string    `json:"plan_name"`
	CreditsRemaining int       `json:"credits_remaining"`
	CreditsTotal     int       `json:"credits_total"`
	EndDate          time.Time `json:"end_date"`
}

type PlanCount struct {
	PlanID   int64  `json:"plan_id"`
	PlanName string `json:"plan_name"`
	Count    int    `json:"count"`
}

type Stats struct {
	Total       int         `json:"total"`
	ZeroCredits int         `json:"zero_credits"`
	OneCredit   int         `json:"one_credit"`
	ByPlan      []PlanCount `json:"by_plan"`
}

type Failure struct {
	ClientID int64  `json:"client_id"`
	Email    string `json:"email"`
	Error    string `json:"error"`
}

type NotifyReport struct {
	BatchID    string    `json:"batch_id"`
	Threshold  int       `json:"threshold"`
	Candidates int       `json:"candidates"`
	Sent       int       `json:"sent"`
	Failed     int       `json:"failed"`
	Failures   []Failure `json:"failures"`
}

type LowCreditResponse struct {
	Threshold int               `json:"threshold"`
	Clients   []LowCreditClient `json:"clients"`
	Stats     Stats             `json:"stats"`
}
