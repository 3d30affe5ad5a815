package workout

import "fitstudio/internal/apperr"

var (
	ErrWorkoutNotFound = apperr.New(apperr.KindNotFound, "workout_not_found", "workout not found")
	ErrNameRequired    = apperr.Validation("name_required", "name is required")
	ErrInvalidCapacity = apperr.Validation("invalid_capacity", "capacity must be between 1 and 50")
	ErrInvalidDuration = apperr.Validation("invalid_duration", "duration must be between 15 and 180 minutes")
	ErrInvalidSchedule = apperr.Validation("invalid_schedule", "scheduled_at must be an RFC3339 timestamp")
	ErrScheduleInPast  = apperr.Validation("schedule_in_past", "scheduled_at must be in the future")
	ErrInvalidStatus   = apperr.Validation("invalid_status", "status must be one of active, cancelled, completed")
)
