package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"deadline_notification_bot/internal/domain/notification"
	"deadline_notification_bot/internal/domain/subject"
	domainTelegram "deadline_notification_bot/internal/domain/telegram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var serviceNow = time.Date(2022, 1, 15, 0, 0, 0, 0, time.UTC)

func newTestService(repo *mockSubjectRepo, gw *mockGateway, metrics Metrics) *NotificationServiceImpl {
	return NewNotificationServiceImpl(repo, gw, time.UTC, []string{"100", "200"}, nopLogger(), metrics)
}

func TestNotificationService_ComposeDigest(t *testing.T) {
	repo := new(mockSubjectRepo)
	repo.On("ListAll", mock.Anything).Return([]*subject.Subject{
		newSubject(1, "Ayu", "2020-03-15", ""),
	}, nil).Once()
	metrics := &recordingMetrics{}

	digest, err := newTestService(repo, new(mockGateway), metrics).ComposeDigest(context.Background(), serviceNow)

	require.NoError(t, err)
	assert.NotEmpty(t, digest.ID)
	assert.Equal(t, serviceNow, digest.GeneratedAt)
	assert.Len(t, digest.Aggregation.Soon, 1)
	assert.Contains(t, digest.Text, "<b>Ayu</b>")
	assert.Len(t, metrics.digests, 1)
	repo.AssertExpectations(t)
}

func TestNotificationService_ComposeDigest_StoreFailure(t *testing.T) {
	repo := new(mockSubjectRepo)
	repo.On("ListAll", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	digest, err := newTestService(repo, new(mockGateway), nil).ComposeDigest(context.Background(), serviceNow)

	assert.Nil(t, digest)
	assert.ErrorContains(t, err, "failed to list subjects: connection refused")
}

func TestNotificationService_SendDigest(t *testing.T) {
	repo := new(mockSubjectRepo)
	repo.On("ListAll", mock.Anything).Return([]*subject.Subject{newSubject(1, "Ayu", "2020-03-15", "")}, nil)
	gw := new(mockGateway)
	gw.On("SendMessage", mock.Anything, "100", mock.MatchedBy(func(text string) bool {
		return len(text) > 0
	})).Return(nil).Once()

	digest, err := newTestService(repo, gw, nil).SendDigest(context.Background(), "100", serviceNow)

	require.NoError(t, err)
	require.NotNil(t, digest)
	gw.AssertExpectations(t)
}

func TestNotificationService_SendDigest_ReturnsDigestOnDeliveryFailure(t *testing.T) {
	repo := new(mockSubjectRepo)
	repo.On("ListAll", mock.Anything).Return([]*subject.Subject{}, nil)
	gw := new(mockGateway)
	gw.On("SendMessage", mock.Anything, "100", mock.Anything).Return(notification.Upstream("Bad Gateway", nil)).Once()

	digest, err := newTestService(repo, gw, nil).SendDigest(context.Background(), "100", serviceNow)

	require.NotNil(t, digest)
	assert.ErrorIs(t, err, notification.ErrUpstream)
	assert.Equal(t, "Bad Gateway", err.Error())
}

func TestNotificationService_Send(t *testing.T) {
	gw := new(mockGateway)
	gw.On("SendMessage", mock.Anything, "42", "ping").Return(nil).Once()

	require.NoError(t, newTestService(new(mockSubjectRepo), gw, nil).Send(context.Background(), "42", "ping"))
	gw.AssertExpectations(t)
}

func TestNotificationService_Diagnose(t *testing.T) {
	gw := new(mockGateway)
	gw.On("Diagnose", mock.Anything).Return(domainTelegram.Diagnostics{TokenConfigured: true, GatewayReachable: true, BotUsername: "deadline_bot"})

	report := newTestService(new(mockSubjectRepo), gw, nil).Diagnose(context.Background())

	assert.True(t, report.GatewayReachable)
	assert.Equal(t, "deadline_bot", report.BotUsername)
	assert.Equal(t, []string{"100", "200"}, report.DefaultRecipients)
}

func TestNotificationService_DefaultRecipientsIsACopy(t *testing.T) {
	svc := newTestService(new(mockSubjectRepo), new(mockGateway), nil)
	got := svc.DefaultRecipients()
	got[0] = "mutated"
	assert.Equal(t, []string{"100", "200"}, svc.DefaultRecipients())
}
