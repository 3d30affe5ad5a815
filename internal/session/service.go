package session

import (
	"context"
	"time"

	"fitstudio/internal/apperr"
	"fitstudio/internal/client"
	"fitstudio/internal/db"
	"fitstudio/internal/logger"
	"fitstudio/internal/metrics"
	"fitstudio/internal/subscription"
)

type ClientReader interface {
	GetByID(ctx context.Context, id int64) (*client.Client, error)
}

type Ledger interface {
	Get(ctx context.Context, id int64) (*subscription.ClientSubscription, error)
	ConsumeCredit(ctx context.Context, id int64, now time.Time) (*subscription.ClientSubscription, error)
	RefundCredit(ctx context.Context, id int64) (*subscription.ClientSubscription, error)
}

type Service interface {
	Schedule(ctx context.Context, req ScheduleRequest, now time.Time) (*Session, error)
	Reschedule(ctx context.Context, id int64, req RescheduleRequest, now time.Time) (*Session, error)
	Complete(ctx context.Context, id int64, now time.Time) (*CompletionResult, error)
	Cancel(ctx context.Context, id int64) (*Session, error)
	MarkNoShow(ctx context.Context, id int64) (*Session, error)
	Get(ctx context.Context, id int64) (*Session, error)
	ListByClient(ctx context.Context, clientID int64) ([]Session, error)
}

type service struct {
	repo    Repository
	clients ClientReader
	ledger  Ledger
	tx      db.TxRunner
}

func NewService(repo Repository, clients ClientReader, ledger Ledger, tx db.TxRunner) Service {
	return &service{
		repo:    repo,
		clients: clients,
		ledger:  ledger,
		tx:      tx,
	}
}

func validateSlot(at string, duration int, typ Type, now time.Time) (time.Time, error) {
	scheduledAt, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return time.Time{}, ErrInvalidSchedule
	}
	if !scheduledAt.After(now) {
		return time.Time{}, ErrScheduleInPast
	}
	if duration < MinDuration || duration > MaxDuration {
		return time.Time{}, ErrInvalidDuration
	}
	if !typ.Valid() {
		return time.Time{}, ErrInvalidType
	}
	return scheduledAt, nil
}

func (s *service) Schedule(ctx context.Context, req ScheduleRequest, now time.Time) (*Session, error) {
	scheduledAt, err := validateSlot(req.ScheduledAt, req.DurationMinutes, req.SessionType, now)
	if err != nil {
		return nil, err
	}

	c, err := s.clients.GetByID(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}
	if !c.IsActive() {
		return nil, client.ErrClientInactive
	}

	sub, err := s.ledger.Get(ctx, req.ClientSubscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.ClientID != req.ClientID {
		return nil, ErrSubscriptionMismatch
	}
	if err := subscription.CheckUsable(*sub, now); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, Session{
		ClientID:             req.ClientID,
		ClientSubscriptionID: sub.ID,
		ScheduledAt:          scheduledAt,
		DurationMinutes:      req.DurationMinutes,
		SessionType:          req.SessionType,
		Notes:                req.Notes,
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordSession(string(StatusScheduled))
	logger.Info("session scheduled",
		"session_id", created.ID,
		"client_id", created.ClientID,
		"subscription_id", created.ClientSubscriptionID,
		"type", created.SessionType,
	)
	return created, nil
}

// Reschedule moves or edits a session that has not happened yet. The credit
// ledger is untouched since no debit exists before completion.
func (s *service) Reschedule(ctx context.Context, id int64, req RescheduleRequest, now time.Time) (*Session, error) {
	scheduledAt, err := validateSlot(req.ScheduledAt, req.DurationMinutes, req.SessionType, now)
	if err != nil {
		return nil, err
	}

	var updated *Session
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		sess, err := s.repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sess.Status != StatusScheduled {
			return ErrInvalidTransition
		}

		sess.ScheduledAt = scheduledAt
		sess.DurationMinutes = req.DurationMinutes
		sess.SessionType = req.SessionType
		sess.Notes = req.Notes
		updated, err = s.repo.Reschedule(ctx, *sess)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("session rescheduled",
		"session_id", id,
		"scheduled_at", updated.ScheduledAt.Format(time.RFC3339),
		"duration_minutes", updated.DurationMinutes,
	)
	return updated, nil
}

// Complete marks a scheduled session completed and debits its subscription. As with
// group attendance, a rejected debit does not undo the completion.
func (s *service) Complete(ctx context.Context, id int64, now time.Time) (*CompletionResult, error) {
	result := &CompletionResult{}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		sess, err := s.repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sess.Status == StatusCompleted {
			result.Session = sess
			result.AlreadyCompleted = true
			return nil
		}
		if sess.Status != StatusScheduled {
			return ErrInvalidTransition
		}

		deducted := true
		if _, err := s.ledger.ConsumeCredit(ctx, sess.ClientSubscriptionID, now); err != nil {
			if !apperr.IsBusiness(err) {
				return err
			}
			result.DeductionErr = err
			deducted = false
		}

		result.Session, err = s.repo.Complete(ctx, id, deducted, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	switch {
	case result.AlreadyCompleted:
		metrics.RecordAttendance("session", "already_attended")
	case result.DeductionErr != nil:
		metrics.RecordSession(string(StatusCompleted))
		metrics.RecordAttendance("session", "failed")
		logger.Warn("session completed without credit deduction",
			"session_id", id,
			"subscription_id", result.Session.ClientSubscriptionID,
			"reason", apperr.CodeOf(result.DeductionErr),
		)
	default:
		metrics.RecordSession(string(StatusCompleted))
		metrics.RecordAttendance("session", "deducted")
		logger.Info("session completed", "session_id", id, "subscription_id", result.Session.ClientSubscriptionID)
	}
	return result, nil
}

func (s *service) Cancel(ctx context.Context, id int64) (*Session, error) {
	var cancelled *Session
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		sess, err := s.repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sess.Status != StatusScheduled {
			return ErrInvalidTransition
		}

		if sess.CreditsDeducted {
			if _, err := s.ledger.RefundCredit(ctx, sess.ClientSubscriptionID); err != nil {
				return err
			}
		}

		cancelled, err = s.repo.SetStatus(ctx, id, StatusCancelled, false)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordSession(string(StatusCancelled))
	logger.Info("session cancelled", "session_id", id)
	return cancelled, nil
}

func (s *service) MarkNoShow(ctx context.Context, id int64) (*Session, error) {
	var updated *Session
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		sess, err := s.repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sess.Status != StatusScheduled {
			return ErrInvalidTransition
		}

		updated, err = s.repo.SetStatus(ctx, id, StatusNoShow, sess.CreditsDeducted)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordSession(string(StatusNoShow))
	logger.Info("session marked no-show", "session_id", id, "client_id", updated.ClientID)
	return updated, nil
}

func (s *service) Get(ctx context.Context, id int64) (*Session, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByClient(ctx context.Context, clientID int64) ([]Session, error) {
	return s.repo.ListByClient(ctx, clientID)
}
