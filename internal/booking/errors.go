package booking

import "fitstudio/internal/apperr"

var (
	ErrBookingNotFound  = apperr.New(apperr.KindNotFound, "booking_not_found", "booking not found")
	ErrDuplicateBooking = apperr.New(apperr.KindConflict, "duplicate_booking", "client already booked this workout")
	ErrActivityFull     = apperr.New(apperr.KindConflict, "activity_full", "workout is full or not open for booking")

	// ErrMissingSubscription means a booking was marked deducted without recording which entry paid.
	ErrMissingSubscription = apperr.New(apperr.KindConsistency, "missing_subscription", "deducted booking has no subscription")
)
