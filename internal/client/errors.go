package client

import "fitstudio/internal/apperr"

var (
	ErrClientNotFound = apperr.New(apperr.KindNotFound, "client_not_found", "client not found")
	ErrEmailTaken     = apperr.New(apperr.KindConflict, "email_taken", "a client with this email already exists")
	ErrInvalidStatus  = apperr.Validation("invalid_status", "status must be one of active, inactive, suspended")
	ErrNameRequired   = apperr.Validation("name_required", "name is required")
	ErrEmailRequired  = apperr.Validation("email_required", "email is required")
)

// ErrClientInactive rejects bookings and sessions for clients that are not active.
var ErrClientInactive = apperr.New(apperr.KindConflict, "client_inactive", "client is not active")
