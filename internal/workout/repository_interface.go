package workout

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, w Workout) (*Workout, error)
	GetByID(ctx context.Context, id int64) (*Workout, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*Workout, error)
	GetWithAvailability(ctx context.Context, id int64) (*WorkoutWithAvailability, error)
	ListWithAvailability(ctx context.Context, onlyUpcoming bool, now time.Time) ([]WorkoutWithAvailability, error)
	Update(ctx context.Context, w Workout) (*Workout, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (*Workout, error)
}
