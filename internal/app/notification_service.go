// internal/app/notification_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"deadline_notification_bot/internal/domain/subject"
	domainTelegram "deadline_notification_bot/internal/domain/telegram"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NotificationService is the entry point used by every trigger: HTTP, bot
// commands, the scheduler and the CLI.
type NotificationService interface {
	// ComposeDigest reads the roster once and renders the digest for now.
	ComposeDigest(ctx context.Context, now time.Time) (*Digest, error)
	// SendDigest composes a digest and makes one delivery attempt to recipient.
	SendDigest(ctx context.Context, recipient string, now time.Time) (*Digest, error)
	// Send delivers caller-supplied text as is.
	Send(ctx context.Context, recipient string, text string) error
	Diagnose(ctx context.Context) domainTelegram.Diagnostics
	DefaultRecipients() []string
}

// Digest is one rendered digest. It lives for a single request.
type Digest struct {
	ID          string
	Text        string
	Aggregation Aggregation
	GeneratedAt time.Time
}

// NotificationServiceImpl implements the NotificationService interface.
type NotificationServiceImpl struct {
	subjectRepo       subject.Repository
	dispatcher        *Dispatcher
	gateway           domainTelegram.Client
	formatter         *DigestFormatter
	location          *time.Location
	defaultRecipients []string
	logger            *logrus.Entry
	metrics           Metrics
}

func NewNotificationServiceImpl(
	sr subject.Repository,
	gateway domainTelegram.Client,
	loc *time.Location,
	defaultRecipients []string,
	logger *logrus.Entry,
	metrics Metrics,
) *NotificationServiceImpl {
	if loc == nil {
		loc = time.UTC
	}
	return &NotificationServiceImpl{
		subjectRepo:       sr,
		dispatcher:        NewDispatcher(gateway, logger, metrics),
		gateway:           gateway,
		formatter:         NewDigestFormatter(loc),
		location:          loc,
		defaultRecipients: defaultRecipients,
		logger:            logger.WithField("component", "notification_service"),
		metrics:           metrics,
	}
}

func (s *NotificationServiceImpl) ComposeDigest(ctx context.Context, now time.Time) (*Digest, error) {
	subjects, err := s.subjectRepo.ListAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list subjects")
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}

	agg := Aggregate(subjects, now, s.location)
	digest := &Digest{
		ID:          uuid.NewString(),
		Text:        s.formatter.Format(agg, now),
		Aggregation: agg,
		GeneratedAt: now,
	}

	s.logger.WithFields(logrus.Fields{
		"digest_id": digest.ID,
		"subjects":  agg.Subjects,
		"soon":      len(agg.Soon),
		"overdue":   len(agg.Overdue),
		"ok":        agg.OK,
		"skipped":   agg.Skipped,
	}).Info("Digest composed")
	if agg.Skipped > 0 {
		s.logger.WithField("skipped", agg.Skipped).Debug("Some anchors were missing or unparseable")
	}

	if s.metrics != nil {
		s.metrics.ObserveDigest(agg)
	}
	return digest, nil
}

func (s *NotificationServiceImpl) SendDigest(ctx context.Context, recipient string, now time.Time) (*Digest, error) {
	digest, err := s.ComposeDigest(ctx, now)
	if err != nil {
		return nil, err
	}
	if err := s.dispatcher.Dispatch(ctx, recipient, digest.Text); err != nil {
		return digest, err
	}
	s.logger.WithFields(logrus.Fields{
		"digest_id": digest.ID,
		"recipient": recipient,
	}).Info("Digest sent")
	return digest, nil
}

func (s *NotificationServiceImpl) Send(ctx context.Context, recipient string, text string) error {
	return s.dispatcher.Dispatch(ctx, recipient, text)
}

func (s *NotificationServiceImpl) Diagnose(ctx context.Context) domainTelegram.Diagnostics {
	var report domainTelegram.Diagnostics
	if s.gateway != nil {
		report = s.gateway.Diagnose(ctx)
	} else {
		report = domainTelegram.Diagnostics{Error: "gateway is not configured", CheckedAt: time.Now()}
	}
	report.DefaultRecipients = s.DefaultRecipients()
	return report
}

func (s *NotificationServiceImpl) DefaultRecipients() []string {
	out := make([]string, len(s.defaultRecipients))
	copy(out, s.defaultRecipients)
	return out
}
