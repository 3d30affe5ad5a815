package booking

import (
	"context"
	"errors"
	"time"

	"fitstudio/internal/apperr"
	"fitstudio/internal/client"
	"fitstudio/internal/db"
	"fitstudio/internal/logger"
	"fitstudio/internal/metrics"
	"fitstudio/internal/subscription"
	"fitstudio/internal/workout"
)

type WorkoutLocker interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*workout.Workout, error)
}

type ClientReader interface {
	GetByID(ctx context.Context, id int64) (*client.Client, error)
}

// Ledger is the part of the subscription service bookings need.
type Ledger interface {
	ResolveActiveSubscription(ctx context.Context, clientID int64, now time.Time) (*subscription.ClientSubscription, error)
	ConsumeCredit(ctx context.Context, id int64, now time.Time) (*subscription.ClientSubscription, error)
	RefundCredit(ctx context.Context, id int64) (*subscription.ClientSubscription, error)
}

type Service interface {
	CreateBooking(ctx context.Context, clientID, workoutID int64, now time.Time) (*Booking, error)
	MarkAttended(ctx context.Context, bookingID int64, now time.Time) (*AttendanceResult, error)
	CancelBooking(ctx context.Context, bookingID int64) (bool, error)
	Get(ctx context.Context, id int64) (*Booking, error)
	ListByWorkout(ctx context.Context, workoutID int64) ([]BookingWithDetails, error)
	ListByClient(ctx context.Context, clientID int64) ([]BookingWithDetails, error)
}

type service struct {
	repo     Repository
	workouts WorkoutLocker
	clients  ClientReader
	ledger   Ledger
	tx       db.TxRunner
}

func NewService(repo Repository, workouts WorkoutLocker, clients ClientReader, ledger Ledger, tx db.TxRunner) Service {
	return &service{
		repo:     repo,
		workouts: workouts,
		clients:  clients,
		ledger:   ledger,
		tx:       tx,
	}
}

// CreateBooking reserves a place without deducting a credit. The workout row stays
// locked until the insert commits so the capacity check cannot be raced.
func (s *service) CreateBooking(ctx context.Context, clientID, workoutID int64, now time.Time) (*Booking, error) {
	var created *Booking
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		w, err := s.workouts.GetByIDForUpdate(ctx, workoutID)
		if err != nil {
			return err
		}

		exists, err := s.repo.Exists(ctx, workoutID, clientID)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateBooking
		}

		if !w.IsActive() {
			return ErrActivityFull
		}
		count, err := s.repo.CountByWorkout(ctx, workoutID)
		if err != nil {
			return err
		}
		if count >= w.Capacity {
			return ErrActivityFull
		}

		c, err := s.clients.GetByID(ctx, clientID)
		if err != nil {
			return err
		}
		if !c.IsActive() {
			return client.ErrClientInactive
		}

		if _, err := s.ledger.ResolveActiveSubscription(ctx, clientID, now); err != nil {
			return err
		}

		created, err = s.repo.Create(ctx, workoutID, clientID, now)
		return err
	})
	if err != nil {
		metrics.RecordBooking(outcomeOf(err))
		return nil, err
	}

	metrics.RecordBooking("created")
	logger.Info("booking created", "booking_id", created.ID, "workout_id", workoutID, "client_id", clientID)
	return created, nil
}

func outcomeOf(err error) string {
	if code := apperr.CodeOf(err); code != "" {
		return code
	}
	return "error"
}

// MarkAttended records attendance and takes one credit from the client's active
// subscription. A business rejection from the ledger keeps the attendance and is
// returned in DeductionErr. Calling it again on an attended booking changes nothing.
func (s *service) MarkAttended(ctx context.Context, bookingID int64, now time.Time) (*AttendanceResult, error) {
	result := &AttendanceResult{}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := s.repo.GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.Attended {
			result.Booking = b
			result.AlreadyAttended = true
			return nil
		}

		var subscriptionID *int64
		sub, err := s.ledger.ResolveActiveSubscription(ctx, b.ClientID, now)
		if err == nil {
			sub, err = s.ledger.ConsumeCredit(ctx, sub.ID, now)
		}
		switch {
		case err == nil:
			subscriptionID = &sub.ID
		case apperr.IsBusiness(err):
			result.DeductionErr = err
		default:
			return err
		}

		result.Booking, err = s.repo.MarkAttended(ctx, bookingID, subscriptionID, subscriptionID != nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	switch {
	case result.AlreadyAttended:
		metrics.RecordAttendance("booking", "already_attended")
	case result.DeductionErr != nil:
		metrics.RecordAttendance("booking", "failed")
		logger.Warn("attendance recorded without credit deduction",
			"booking_id", bookingID,
			"client_id", result.Booking.ClientID,
			"reason", apperr.CodeOf(result.DeductionErr),
		)
	default:
		metrics.RecordAttendance("booking", "deducted")
		logger.Info("attendance recorded", "booking_id", bookingID, "subscription_id", *result.Booking.SubscriptionID)
	}
	return result, nil
}

// CancelBooking deletes the booking, refunding the credit when one was taken for a
// class that was never attended. A failed refund keeps the booking.
func (s *service) CancelBooking(ctx context.Context, bookingID int64) (bool, error) {
	var refunded bool
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := s.repo.GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}

		if b.CreditsDeducted && !b.Attended {
			if b.SubscriptionID == nil {
				return ErrMissingSubscription
			}
			if _, err := s.ledger.RefundCredit(ctx, *b.SubscriptionID); err != nil {
				return err
			}
			refunded = true
		}

		return s.repo.Delete(ctx, bookingID)
	})
	if err != nil {
		if errors.Is(err, subscription.ErrRefundExceedsTotal) {
			logger.Error("booking cancellation aborted", "booking_id", bookingID, "error", err)
		}
		return false, err
	}

	metrics.RecordBookingCancellation(refunded)
	logger.Info("booking cancelled", "booking_id", bookingID, "refunded", refunded)
	return refunded, nil
}

func (s *service) Get(ctx context.Context, id int64) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByWorkout(ctx context.Context, workoutID int64) ([]BookingWithDetails, error) {
	return s.repo.ListByWorkout(ctx, workoutID)
}

func (s *service) ListByClient(ctx context.Context, clientID int64) ([]BookingWithDetails, error) {
	return s.repo.ListByClient(ctx, clientID)
}
