package workout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fitstudio/internal/db"

	"github.com/jmoiron/sqlx"
)

const workoutColumns = `id, name, description, instructor, scheduled_at, capacity, duration_minutes, status, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, w Workout) (*Workout, error) {
	query := `
		INSERT INTO workouts (name, description, instructor, scheduled_at, capacity, duration_minutes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + workoutColumns

	var created Workout
	err := db.Conn(ctx, r.db).GetContext(ctx, &created, query,
		w.Name, w.Description, w.Instructor, w.ScheduledAt, w.Capacity, w.DurationMinutes, string(w.Status))
	if err != nil {
		return nil, fmt.Errorf("insert workout: %w", err)
	}

	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Workout, error) {
	return r.get(ctx, `SELECT `+workoutColumns+` FROM workouts WHERE id = $1`, id)
}

// GetByIDForUpdate locks the workout row until the surrounding transaction ends.
func (r *repository) GetByIDForUpdate(ctx context.Context, id int64) (*Workout, error) {
	return r.get(ctx, `SELECT `+workoutColumns+` FROM workouts WHERE id = $1 FOR UPDATE`, id)
}

func (r *repository) get(ctx context.Context, query string, id int64) (*Workout, error) {
	var w Workout
	err := db.Conn(ctx, r.db).GetContext(ctx, &w, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("get workout %d: %w", id, err)
	}

	return &w, nil
}

const availabilityQuery = `
	SELECT w.id, w.name, w.description, w.instructor, w.scheduled_at, w.capacity, w.duration_minutes,
	       w.status, w.created_at, w.updated_at, COUNT(b.id) AS booked_count
	FROM workouts w
	LEFT JOIN bookings b ON b.workout_id = w.id
`

func (r *repository) GetWithAvailability(ctx context.Context, id int64) (*WorkoutWithAvailability, error) {
	query := availabilityQuery + ` WHERE w.id = $1 GROUP BY w.id`

	var w WorkoutWithAvailability
	err := db.Conn(ctx, r.db).GetContext(ctx, &w, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("get workout availability %d: %w", id, err)
	}

	w.fill()
	return &w, nil
}

func (r *repository) ListWithAvailability(ctx context.Context, onlyUpcoming bool, now time.Time) ([]WorkoutWithAvailability, error) {
	query := availabilityQuery + `
		WHERE (NOT $1 OR w.scheduled_at > $2)
		GROUP BY w.id
		ORDER BY w.scheduled_at ASC
	`

	workouts := []WorkoutWithAvailability{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &workouts, query, onlyUpcoming, now); err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	for i := range workouts {
		workouts[i].fill()
	}
	return workouts, nil
}

// Update rewrites the schedule fields. Existing bookings survive a capacity cut.
func (r *repository) Update(ctx context.Context, w Workout) (*Workout, error) {
	query := `
		UPDATE workouts
		SET name = $1, description = $2, instructor = $3, scheduled_at = $4,
		    capacity = $5, duration_minutes = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING ` + workoutColumns

	var updated Workout
	err := db.Conn(ctx, r.db).GetContext(ctx, &updated, query,
		w.Name, w.Description, w.Instructor, w.ScheduledAt, w.Capacity, w.DurationMinutes, w.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("update workout %d: %w", w.ID, err)
	}

	return &updated, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status Status) (*Workout, error) {
	query := `
		UPDATE workouts
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + workoutColumns

	var updated Workout
	err := db.Conn(ctx, r.db).GetContext(ctx, &updated, query, string(status), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("update workout status %d: %w", id, err)
	}

	return &updated, nil
}
