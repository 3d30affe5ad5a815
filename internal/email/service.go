package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/smtp"
	"time"

	"fitstudio/internal/config"
	"fitstudio/internal/logger"
	"fitstudio/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey  = "emails"
	failedKey = "emails:failed"
	maxTries  = 3

	TypeLowCredits = "low_credits"
)

type EmailJob struct {
	Type    string    `json:"type"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type Service struct {
	redis       *redis.Client
	cfg         config.EmailConfig
	retryDelay  time.Duration
	pollBackoff time.Duration
	deliver     func(job EmailJob) error
}

func New(cfg config.EmailConfig, redisAddr string) *Service {
	return NewWithClient(redis.NewClient(&redis.Options{
		Addr: redisAddr,
	}), cfg)
}

func NewWithClient(rdb *redis.Client, cfg config.EmailConfig) *Service {
	s := &Service{
		redis:       rdb,
		cfg:         cfg,
		retryDelay:  5 * time.Second,
		pollBackoff: 2 * time.Second,
	}
	s.deliver = s.sendNow
	return s
}

// Send queues a message for the worker.
func (s *Service) Send(ctx context.Context, emailType, to, name, subject, body string) error {
	job := EmailJob{
		Type:    emailType,
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal email job: %w", err)
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Error("failed to queue email", "to", to, "type", emailType, "error", err)
		metrics.RecordEmail(emailType, "queue_failed")
		return fmt.Errorf("queue email: %w", err)
	}

	metrics.RecordEmail(emailType, "queued")
	logger.Info("email queued", "to", to, "type", emailType)
	return nil
}

// SendLowCredits queues the top-up reminder.
func (s *Service) SendLowCredits(ctx context.Context, email, name string, credits int, planName string) error {
	subject, body := lowCreditsMessage(name, credits, planName, s.cfg.FromName)
	return s.Send(ctx, TypeLowCredits, email, name, subject, body)
}

func lowCreditsMessage(name string, credits int, planName, signature string) (string, string) {
	body := fmt.Sprintf(`Hi %s,

You have %d %s left on your %s subscription.

Top up at the front desk or online so you don't miss your next class.

- %s`, name, credits, pluralCredits(credits), planName, signature)

	return "Low Credits - Time to Top Up!", body
}

func pluralCredits(n int) string {
	if n == 1 {
		return "credit"
	}
	return "credits"
}

// Start runs the delivery worker until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("email worker stopped")
			return
		default:
			if err := s.processNext(ctx); err != nil {
				logger.Warn("email queue unavailable", "error", err, "backoff", s.pollBackoff.String())
				wait(ctx, s.pollBackoff)
			}
		}
	}
}

func wait(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// processNext handles at most one job. It returns an error only when the queue itself
// could not be read; an empty poll and delivery failures return nil.
func (s *Service) processNext(ctx context.Context) error {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if errors.Is(err, redis.Nil) || ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return err
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Error("bad email payload", "error", err)
		return nil
	}

	job.Tries++
	logger.Debug("sending email", "to", job.To, "attempt", job.Tries)
	if err := s.deliver(job); err != nil {
		logger.Warn("email delivery failed", "to", job.To, "attempt", job.Tries, "error", err)

		if job.Tries < maxTries {
			s.retry(ctx, job)
		} else {
			logger.Error("email dropped after max attempts", "to", job.To, "attempts", job.Tries)
			metrics.RecordEmail(job.Type, "failed")
			s.saveFailed(job, err)
		}
		return nil
	}

	metrics.RecordEmail(job.Type, "sent")
	logger.Info("email sent", "to", job.To, "type", job.Type)
	return nil
}

func (s *Service) retry(ctx context.Context, job EmailJob) {
	wait(ctx, s.retryDelay)

	data, err := json.Marshal(job)
	if err != nil {
		logger.Error("failed to marshal email job for retry", "to", job.To, "error", err)
		return
	}
	if err := s.redis.LPush(context.Background(), queueKey, data).Err(); err != nil {
		logger.Error("failed to requeue email", "to", job.To, "error", err)
		return
	}
	metrics.RecordEmail(job.Type, "retried")
}

func (s *Service) sendNow(job EmailJob) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, s.cfg.From)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.cfg.SMTPUser != "" && s.cfg.SMTPPass != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)
	}

	addr := s.cfg.SMTPHost + ":" + s.cfg.SMTPPort
	return smtp.SendMail(addr, auth, s.cfg.From, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job EmailJob, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, merr := json.Marshal(failed)
	if merr != nil {
		logger.Error("failed to marshal dead letter", "to", job.To, "error", merr)
		return
	}
	if perr := s.redis.LPush(context.Background(), failedKey, data).Err(); perr != nil {
		logger.Error("failed to store dead letter", "to", job.To, "error", perr)
		return
	}
	logger.Error("email moved to failed queue", "to", job.To)
}

// QueueLength reports pending jobs and updates the queue gauge.
func (s *Service) QueueLength(ctx context.Context) (int64, error) {
	length, err := s.redis.LLen(ctx, queueKey).Result()
	if err != nil {
		return 0, err
	}
	metrics.SetEmailQueueLength(length)
	return length, nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

func (s *Service) Close() error {
	return s.redis.Close()
}
