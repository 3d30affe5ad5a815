package session

import "fitstudio/internal/apperr"

var (
	ErrSessionNotFound      = apperr.New(apperr.KindNotFound, "session_not_found", "session not found")
	ErrInvalidTransition    = apperr.New(apperr.KindConflict, "invalid_transition", "only scheduled sessions can change status")
	ErrInvalidDuration      = apperr.Validation("invalid_duration", "duration must be between 15 and 180 minutes")
	ErrInvalidType          = apperr.Validation("invalid_session_type", "session type must be one of personal_training, group_training, consultation, assessment")
	ErrInvalidSchedule      = apperr.Validation("invalid_schedule", "scheduled_at must be an RFC3339 timestamp")
	ErrScheduleInPast       = apperr.Validation("schedule_in_past", "scheduled_at must be in the future")
	ErrSubscriptionMismatch = apperr.Validation("subscription_mismatch", "subscription does not belong to this client")
)
