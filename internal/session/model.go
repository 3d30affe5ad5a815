package session

import "time"

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

type Type string

const (
	TypePersonalTraining Type = "personal_training"
	TypeGroupTraining    Type = "group_training"
	TypeConsultation     Type = "consultation"
	TypeAssessment       Type = "assessment"
)

func (t Type) Valid() bool {
	switch t {
	case TypePersonalTraining, TypeGroupTraining, TypeConsultation, TypeAssessment:
		return true
	}
	return false
}

const (
	MinDuration = 15
	MaxDuration = 180
)

// Session is a 1:1 appointment paid from one explicitly chosen subscription.
type Session struct {
	ID                   int64      `db:"id" json:"id"`
	ClientID             int64      `db:"client_id" json:"client_id"`
	ClientSubscriptionID int64      `db:"client_subscription_id" json:"client_subscription_id"`
	ScheduledAt          time.Time  `db:"scheduled_at" json:"scheduled_at"`
	DurationMinutes      int        `db:"duration_minutes" json:"duration_minutes"`
	SessionType          Type       `db:"session_type" json:"session_type"`
	Notes                string     `db:"notes" json:"notes"`
	Status               Status     `db:"status" json:"status"`
	CreditsDeducted      bool       `db:"credits_deducted" json:"credits_deducted"`
	CompletedAt          *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updated_at"`
}

type ScheduleRequest struct {
	ClientID             int64  `json:"client_id" binding:"required"`
	ClientSubscriptionID int64  `json:"client_subscription_id" binding:"required"`
	ScheduledAt          string `json:"scheduled_at" binding:"required"`
	DurationMinutes      int    `json:"duration_minutes" binding:"required,min=15,max=180"`
	SessionType          Type   `json:"session_type" binding:"required,oneof=personal_training group_training consultation assessment"`
	Notes                string `json:"notes"`
}

// RescheduleRequest edits a scheduled session. Client and subscription stay fixed.
type RescheduleRequest struct {
	ScheduledAt     string `json:"scheduled_at" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=15,max=180"`
	SessionType     Type   `json:"session_type" binding:"required,oneof=personal_training group_training consultation assessment"`
	Notes           string `json:"notes"`
}

type CompletionResult struct {
	Session          *Session
	AlreadyCompleted bool
	DeductionErr     error
}

type CompletionResponse struct {
	Session          *Session `json:"session"`
	AlreadyCompleted bool     `json:"already_completed"`
	Warning          string   `json:"warning,omitempty"`
	WarningCode      string   `json:"warning_code,omitempty"`
}
