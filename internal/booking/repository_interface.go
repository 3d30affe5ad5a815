package booking

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, workoutID, clientID int64, bookingDate time.Time) (*Booking, error)
	GetByID(ctx context.Context, id int64) (*Booking, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*Booking, error)
	Exists(ctx context.Context, workoutID, clientID int64) (bool, error)
	CountByWorkout(ctx context.Context, workoutID int64) (int, error)
	MarkAttended(ctx context.Context, id int64, subscriptionID *int64, deducted bool) (*Booking, error)
	Delete(ctx context.Context, id int64) error
	ListByWorkout(ctx context.Context, workoutID int64) ([]BookingWithDetails, error)
	ListByClient(ctx context.Context, clientID int64) ([]BookingWithDetails, error)
}
