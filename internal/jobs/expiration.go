package jobs

import (
	"context"
	"sync"
	"time"

	"fitstudio/internal/logger"
)

// Expirer persists the expired status of subscriptions whose end date has passed.
type Expirer interface {
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

// ExpirationJob sweeps overdue subscriptions once on start and then on every tick.
type ExpirationJob struct {
	expirer  Expirer
	interval time.Duration
	now      func() time.Time

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewExpirationJob(expirer Expirer, interval time.Duration, now func() time.Time) *ExpirationJob {
	return &ExpirationJob{
		expirer:  expirer,
		interval: interval,
		now:      now,
		done:     make(chan struct{}),
	}
}

// Start runs the job in the background until ctx is cancelled or Stop is called.
func (j *ExpirationJob) Start(ctx context.Context) {
	logger.Info("starting subscription expiration job", "interval", j.interval.String())

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()

		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		j.sweep(ctx)
		for {
			select {
			case <-ticker.C:
				j.sweep(ctx)
			case <-ctx.Done():
				logger.Info("subscription expiration job stopped")
				return
			case <-j.done:
				logger.Info("subscription expiration job stopped")
				return
			}
		}
	}()
}

// Stop ends the loop and waits for an in-flight sweep to finish.
func (j *ExpirationJob) Stop() {
	j.stopOnce.Do(func() { close(j.done) })
	j.wg.Wait()
}

func (j *ExpirationJob) sweep(ctx context.Context) {
	n, err := j.expirer.ExpireOverdue(ctx, j.now())
	if err != nil {
		logger.Error("failed to expire subscriptions", "error", err)
		return
	}
	if n == 0 {
		logger.Debug("no overdue subscriptions")
	}
}
