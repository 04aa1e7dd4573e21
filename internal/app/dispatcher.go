package app

import (
	"context"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"deadline_notification_bot/internal/domain/notification"
	domainTelegram "deadline_notification_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// MaxMessageLength is the Bot API limit for one message, counted on the text
// left after HTML entity parsing. Longer digests are rejected rather than split.
const MaxMessageLength = 4096

// visibleLength counts the runes Telegram displays for an HTML parse-mode
// text: tags are dropped and entities count as the character they encode.
func visibleLength(text string) int {
	var b strings.Builder
	inTag := false
	for _, r := range text {
		switch {
		case r == '<':
			inTag = true
		case r == '>' && inTag:
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return utf8.RuneCountInString(html.UnescapeString(b.String()))
}

// Metrics receives observations from the notification flow. A nil Metrics
// is valid and records nothing.
type Metrics interface {
	ObserveDelivery(outcome notification.Outcome, elapsed time.Duration)
	ObserveDigest(agg Aggregation)
}

// Dispatcher delivers one text to one recipient through the gateway. It makes
// exactly one attempt; retry policy belongs to the caller.
type Dispatcher struct {
	client  domainTelegram.Client
	logger  *logrus.Entry
	metrics Metrics
}

func NewDispatcher(client domainTelegram.Client, logger *logrus.Entry, metrics Metrics) *Dispatcher {
	return &Dispatcher{
		client:  client,
		logger:  logger.WithField("component", "dispatcher"),
		metrics: metrics,
	}
}

// Dispatch returns nil when the gateway accepted the whole text. Failures are
// *notification.RejectedError, *notification.UpstreamError,
// *notification.MisconfiguredError or notification.ErrMissingCredential.
func (d *Dispatcher) Dispatch(ctx context.Context, recipient string, text string) error {
	start := time.Now()
	err := d.dispatch(ctx, strings.TrimSpace(recipient), text)
	outcome := notification.OutcomeOf(err)

	logCtx := d.logger.WithFields(logrus.Fields{
		"recipient": recipient,
		"outcome":   outcome,
		"length":    utf8.RuneCountInString(text),
	})
	switch outcome {
	case notification.OutcomeDelivered:
		logCtx.Info("Message delivered")
	case notification.OutcomeRejected:
		logCtx.WithError(err).Warn("Message rejected")
	default:
		logCtx.WithError(err).Error("Message delivery failed")
	}

	if d.metrics != nil {
		d.metrics.ObserveDelivery(outcome, time.Since(start))
	}
	return err
}

func (d *Dispatcher) dispatch(ctx context.Context, recipient string, text string) error {
	if recipient == "" {
		return notification.Rejected("recipient is required")
	}
	if strings.TrimSpace(text) == "" {
		return notification.Rejected("text is required")
	}
	if n := visibleLength(text); n > MaxMessageLength {
		return notification.Rejected("text is too long: %d characters, limit is %d", n, MaxMessageLength)
	}
	if d.client == nil {
		return notification.ErrMissingCredential
	}
	return d.client.SendMessage(ctx, recipient, text)
}
