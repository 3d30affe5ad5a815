package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fitstudio/internal/db"

	"github.com/jmoiron/sqlx"
)

const bookingColumns = `id, workout_id, client_id, subscription_id, attended, credits_deducted, booking_date, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, workoutID, clientID int64, bookingDate time.Time) (*Booking, error) {
	query := `
		INSERT INTO bookings (workout_id, client_id, attended, credits_deducted, booking_date)
		VALUES ($1, $2, FALSE, FALSE, $3)
		RETURNING ` + bookingColumns

	var b Booking
	err := db.Conn(ctx, r.db).GetContext(ctx, &b, query, workoutID, clientID, bookingDate)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrDuplicateBooking
		}
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	return &b, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	return r.get(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
}

func (r *repository) GetByIDForUpdate(ctx context.Context, id int64) (*Booking, error) {
	return r.get(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
}

func (r *repository) get(ctx context.Context, query string, id int64) (*Booking, error) {
	var b Booking
	err := db.Conn(ctx, r.db).GetContext(ctx, &b, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking %d: %w", id, err)
	}

	return &b, nil
}

func (r *repository) Exists(ctx context.Context, workoutID, clientID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE workout_id = $1 AND client_id = $2
		)
	`

	exists, err := db.Exists(ctx, db.Conn(ctx, r.db), query, workoutID, clientID)
	if err != nil {
		return false, fmt.Errorf("check booking exists: %w", err)
	}
	return exists, nil
}

func (r *repository) CountByWorkout(ctx context.Context, workoutID int64) (int, error) {
	var count int
	err := db.Conn(ctx, r.db).GetContext(ctx, &count, `SELECT COUNT(*) FROM bookings WHERE workout_id = $1`, workoutID)
	if err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return count, nil
}

func (r *repository) MarkAttended(ctx context.Context, id int64, subscriptionID *int64, deducted bool) (*Booking, error) {
	query := `
		UPDATE bookings
		SET attended = TRUE, credits_deducted = $1, subscription_id = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING ` + bookingColumns

	var b Booking
	err := db.Conn(ctx, r.db).GetContext(ctx, &b, query, deducted, subscriptionID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("mark booking %d attended: %w", id, err)
	}

	return &b, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := db.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

const detailsQuery = `
	SELECT
		b.id,
		b.workout_id,
		b.client_id,
		b.subscription_id,
		b.attended,
		b.credits_deducted,
		b.booking_date,
		b.created_at,
		b.updated_at,
		w.name AS workout_name,
		w.scheduled_at,
		c.name AS client_name,
		c.email AS client_email
	FROM bookings b
	JOIN workouts w ON b.workout_id = w.id
	JOIN clients c ON b.client_id = c.id
`

func (r *repository) ListByWorkout(ctx context.Context, workoutID int64) ([]BookingWithDetails, error) {
	query := detailsQuery + `
		WHERE b.workout_id = $1
		ORDER BY b.booking_date ASC, b.id ASC
	`

	bookings := []BookingWithDetails{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &bookings, query, workoutID); err != nil {
		return nil, fmt.Errorf("list bookings for workout: %w", err)
	}
	return bookings, nil
}

func (r *repository) ListByClient(ctx context.Context, clientID int64) ([]BookingWithDetails, error) {
	query := detailsQuery + `
		WHERE b.client_id = $1
		ORDER BY w.scheduled_at DESC, b.id DESC
	`

	bookings := []BookingWithDetails{}
	if err := db.Conn(ctx, r.db).SelectContext(ctx, &bookings, query, clientID); err != nil {
		return nil, fmt.Errorf("list bookings for client: %w", err)
	}
	return bookings, nil
}
