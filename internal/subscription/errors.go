package subscription

import "fitstudio/internal/apperr"

var (
	ErrSubscriptionNotFound = apperr.New(apperr.KindNotFound, "subscription_not_found", "subscription not found")
	ErrInvalidPlan          = apperr.Validation("invalid_plan", "subscription type is not available for purchase")
	ErrInvalidAmount        = apperr.Validation("invalid_amount", "amount paid must not be negative")

	ErrNoCreditsAvailable   = apperr.New(apperr.KindCredit, "no_credits_available", "no credits available")
	ErrSubscriptionExpired  = apperr.New(apperr.KindCredit, "subscription_expired", "subscription has expired")
	ErrSubscriptionInactive = apperr.New(apperr.KindCredit, "subscription_inactive", "subscription is not active")

	ErrNotCancellable = apperr.New(apperr.KindConflict, "subscription_not_cancellable", "only active subscriptions can be cancelled")

	ErrRefundExceedsTotal = apperr.New(apperr.KindConsistency, "refund_exceeds_total", "refund would exceed the subscription's credit total")
)
