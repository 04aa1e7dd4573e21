package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"deadline_notification_bot/internal/app" // For NotificationService interface
	"deadline_notification_bot/internal/domain/notification"

	"github.com/cenkalti/backoff/v4"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const jobTimeout = 5 * time.Minute

type DigestScheduler struct {
	cronEngine   *cron.Cron
	notifService app.NotificationService // Using the interface
	logger       *logrus.Entry
	cronSpec     string // e.g., "0 8 * * *" (08:00 daily); empty disables the job
	recipients   []string
	maxRetries   int
	location     *time.Location
	newBackOff   func() backoff.BackOff
}

func NewDigestScheduler(
	notifService app.NotificationService,
	logger *logrus.Entry,
	cronSpec string,
	recipients []string,
	maxRetries int,
	loc *time.Location,
) *DigestScheduler {
	if loc == nil {
		loc = time.Local
	}
	return &DigestScheduler{
		cronEngine:   cron.New(cron.WithLocation(loc)), // Digest times follow the configured zone
		notifService: notifService,
		logger:       logger.WithField("component", "scheduler"),
		cronSpec:     cronSpec,
		recipients:   recipients,
		maxRetries:   maxRetries,
		location:     loc,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 2 * time.Second
			b.MaxInterval = 30 * time.Second
			b.MaxElapsedTime = 3 * time.Minute
			return b
		},
	}
}

func (s *DigestScheduler) Start() error {
	if s.cronSpec == "" {
		s.logger.Info("CRON_SPEC_DIGEST is empty, scheduled digest disabled")
		return nil
	}

	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Info("Cron job triggered for deadline digest")
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := s.RunOnce(ctx); err != nil {
			s.logger.WithError(err).Error("Scheduled digest finished with failures")
		}
	})
	if err != nil {
		return fmt.Errorf("could not add digest cron job %q: %w", s.cronSpec, err)
	}

	s.cronEngine.Start()
	s.logger.WithFields(logrus.Fields{
		"cron_spec":  s.cronSpec,
		"recipients": len(s.recipients),
	}).Info("Digest scheduler started")
	return nil
}

// RunOnce composes one digest and delivers it to every configured recipient.
// Recipients are independent: a failure for one does not stop the others.
func (s *DigestScheduler) RunOnce(ctx context.Context) error {
	if len(s.recipients) == 0 {
		s.logger.Warn("No DIGEST_RECIPIENTS configured, skipping scheduled digest")
		return nil
	}

	digest, err := s.notifService.ComposeDigest(ctx, time.Now().In(s.location))
	if err != nil {
		return fmt.Errorf("compose digest: %w", err)
	}

	var errs []error
	for _, recipient := range s.recipients {
		logCtx := s.logger.WithFields(logrus.Fields{
			"digest_id": digest.ID,
			"recipient": recipient,
		})
		if err := s.deliver(ctx, recipient, digest.Text, logCtx); err != nil {
			logCtx.WithError(err).WithField("outcome", notification.OutcomeOf(err)).Error("Digest delivery gave up")
			errs = append(errs, fmt.Errorf("recipient %s: %w", recipient, err))
			continue
		}
		logCtx.Info("Scheduled digest delivered")
	}
	return errors.Join(errs...)
}

// deliver retries upstream failures only. Rejections and missing credentials
// are final on the first attempt.
func (s *DigestScheduler) deliver(ctx context.Context, recipient, text string, logCtx *logrus.Entry) error {
	attempt := 0
	operation := func() error {
		attempt++
		err := s.notifService.Send(ctx, recipient, text)
		if err == nil {
			return nil
		}
		if !notification.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		logCtx.WithError(err).WithField("attempt", attempt).Warn("Digest delivery failed, will retry")
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(s.newBackOff(), uint64(s.maxRetries)), ctx)
	return backoff.Retry(operation, policy)
}

func (s *DigestScheduler) Stop() {
	s.logger.Info("Stopping digest scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Digest scheduler gracefully stopped")
}
