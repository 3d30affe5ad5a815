package booking

import "time"

type Booking struct {
	ID              int64     `db:"id" json:"id"`
	WorkoutID       int64     `db:"workout_id" json:"workout_id"`
	ClientID        int64     `db:"client_id" json:"client_id"`
	SubscriptionID  *int64    `db:"subscription_id" json:"subscription_id,omitempty"`
	Attended        bool      `db:"attended" json:"attended"`
	CreditsDeducted bool      `db:"credits_deducted" json:"credits_deducted"`
	BookingDate     time.Time `db:"booking_date" json:"booking_date"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

type BookingWithDetails struct {
	Booking
	WorkoutName string    `db:"workout_name" json:"workout_name"`
	ScheduledAt time.Time `db:"scheduled_at" json:"scheduled_at"`
	ClientName  string    `db:"client_name" json:"client_name"`
	ClientEmail string    `db:"client_email" json:"client_email"`
}

type CreateBookingRequest struct {
	ClientID int64 `json:"client_id" binding:"required"`
}

// AttendanceResult reports a recorded attendance. DeductionErr is set when the
// attendance was kept but no credit could be taken.
type AttendanceResult struct {
	Booking         *Booking `json:"booking"`
	AlreadyAttended bool     `json:"already_attended"`
	DeductionErr    error    `json:"-"`
}

type AttendanceResponse struct {
	Booking         *Booking `json:"booking"`
	AlreadyAttended bool     `json:"already_attended"`
	Warning         string   `json:"warning,omitempty"`
	WarningCode     string   `json:"warning_code,omitempty"`
}

type CancelBookingResponse struct {
	Message  string `json:"message"`
	Refunded bool   `json:"refunded"`
}
