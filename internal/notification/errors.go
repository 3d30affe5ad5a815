package notification

import "fitstudio/internal/apperr"

var ErrInvalidThreshold = apperr.Validation("invalid_threshold", "threshold must be a positive integer")

const codeSendFailed = "notification_failed"
