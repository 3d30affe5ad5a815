package plan

import "fitstudio/internal/apperr"

var (
	ErrPlanNotFound   = apperr.New(apperr.KindNotFound, "plan_not_found", "subscription type not found")
	ErrInvalidName    = apperr.Validation("invalid_name", "name is required")
	ErrInvalidCredits = apperr.Validation("invalid_credits", "credits_included must be positive")
	ErrInvalidPrice   = apperr.Validation("invalid_price", "price_cents must not be negative")
	ErrInvalidDays    = apperr.Validation("invalid_validity", "validity_days must be positive")
	ErrInvalidStatus  = apperr.Validation("invalid_status", "status must be active or inactive")
)
