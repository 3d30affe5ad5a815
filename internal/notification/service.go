package notification

import (
	"context"
	"time"

	"fitstudio/internal/apperr"
	"fitstudio/internal/logger"
	"fitstudio/internal/metrics"
	"fitstudio/internal/subscription"

	"github.com/google/uuid"
)

// Notifier delivers a low-credit reminder to one client.
type Notifier interface {
	SendLowCredits(ctx context.Context, email, name string, credits int, planName string) error
}

type Service interface {
	FindLowCreditClients(ctx context.Context, threshold int, now time.Time) ([]LowCreditClient, error)
	Stats(ctx context.Context, threshold int, now time.Time) (*Stats, error)
	NotifyLowCredit(ctx context.Context, threshold int, now time.Time) (*NotifyReport, error)
	DefaultThreshold() int
}

type service struct {
	repo             Repository
	notifier         Notifier
	defaultThreshold int
}

func NewService(repo Repository, notifier Notifier, defaultThreshold int) Service {
	return &service{
		repo:             repo,
		notifier:         notifier,
		defaultThreshold: defaultThreshold,
	}
}

func (s *service) DefaultThreshold() int {
	return s.defaultThreshold
}

func (s *service) FindLowCreditClients(ctx context.Context, threshold int, now time.Time) ([]LowCreditClient, error) {
	if threshold <= 0 {
		return nil, ErrInvalidThreshold
	}

	rows, err := s.repo.Candidates(ctx, subscription.Today(now))
	if err != nil {
		return nil, err
	}

	return SelectLowCredit(rows, threshold, now), nil
}

func (s *service) Stats(ctx context.Context, threshold int, now time.Time) (*Stats, error) {
	clients, err := s.FindLowCreditClients(ctx, threshold, now)
	if err != nil {
		return nil, err
	}

	stats := Summarize(clients)
	return &stats, nil
}

// NotifyLowCredit sends one reminder per low-credit client. A failed send is logged and
// counted; the rest of the batch still goes out.
func (s *service) NotifyLowCredit(ctx context.Context, threshold int, now time.Time) (*NotifyReport, error) {
	clients, err := s.FindLowCreditClients(ctx, threshold, now)
	if err != nil {
		return nil, err
	}

	report := &NotifyReport{
		BatchID:    uuid.NewString(),
		Threshold:  threshold,
		Candidates: len(clients),
		Failures:   []Failure{},
	}
	log := logger.With("batch_id", report.BatchID)

	for _, c := range clients {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if err := s.notifier.SendLowCredits(ctx, c.Email, c.Name, c.CreditsRemaining, c.PlanName); err != nil {
			sendErr := apperr.Wrap(apperr.KindExternal, codeSendFailed, "low credit notification failed", err)
			log.Warnw("low credit notification failed",
				"client_id", c.ClientID,
				"email", c.Email,
				"error", sendErr,
			)
			metrics.RecordLowCreditNotification("failed")
			report.Failed++
			report.Failures = append(report.Failures, Failure{
				ClientID: c.ClientID,
				Email:    c.Email,
				Error:    sendErr.Error(),
			})
			continue
		}

		metrics.RecordLowCreditNotification("sent")
		report.Sent++
	}

	log.Infow("low credit notifications processed",
		"candidates", report.Candidates,
		"sent", report.Sent,
		"failed", report.Failed,
	)
	return report, nil
}
