package app

import (
	"context"
	"io"
	"time"

	"deadline_notification_bot/internal/domain/notification"
	"deadline_notification_bot/internal/domain/subject"
	domainTelegram "deadline_notification_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
)

type mockSubjectRepo struct {
	mock.Mock
}

func (m *mockSubjectRepo) ListAll(ctx context.Context) ([]*subject.Subject, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]*subject.Subject), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSubjectRepo) GetByChatID(ctx context.Context, chatID string) (*subject.Subject, error) {
	args := m.Called(ctx, chatID)
	if v := args.Get(0); v != nil {
		return v.(*subject.Subject), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) SendMessage(ctx context.Context, chatID string, text string) error {
	return m.Called(ctx, chatID, text).Error(0)
}

func (m *mockGateway) Diagnose(ctx context.Context) domainTelegram.Diagnostics {
	return m.Called(ctx).Get(0).(domainTelegram.Diagnostics)
}

type recordingMetrics struct {
	outcomes []notification.Outcome
	digests  []Aggregation
}

func (r *recordingMetrics) ObserveDelivery(outcome notification.Outcome, _ time.Duration) {
	r.outcomes = append(r.outcomes, outcome)
}

func (r *recordingMetrics) ObserveDigest(agg Aggregation) {
	r.digests = append(r.digests, agg)
}

func nopLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
