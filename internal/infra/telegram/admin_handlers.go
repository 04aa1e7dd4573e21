package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"deadline_notification_bot/internal/app"
	"deadline_notification_bot/internal/domain/notification"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const unauthorizedReply = "Error: you are not allowed to run this command."

// RegisterAdminHandlers registers handlers for admin commands.
// An adminTelegramID of 0 lets every chat use them.
func RegisterAdminHandlers(ctx context.Context, b *telebot.Bot, notifService app.NotificationService, adminTelegramID int64, baseLogger *logrus.Entry) {
	b.Handle("/digest", digestHandler(ctx, notifService, adminTelegramID, baseLogger, time.Now))
	b.Handle("/summary", summaryHandler(ctx, notifService, adminTelegramID, baseLogger, time.Now))
}

func digestHandler(ctx context.Context, notifService app.NotificationService, adminTelegramID int64, baseLogger *logrus.Entry, now func() time.Time) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/digest",
			"sender_id": senderID(c),
		})
		handlerLogger.Info("Command received")

		if !isAdmin(adminTelegramID, c) {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(unauthorizedReply)
		}

		recipient := chatID(c)
		digest, err := notifService.SendDigest(ctx, recipient, now())
		if err != nil {
			handlerLogger.WithError(err).WithField("outcome", notification.OutcomeOf(err)).Warn("Digest was not delivered")
			return c.Send(fmt.Sprintf("Digest was not delivered: %s", err.Error()))
		}

		handlerLogger.WithField("digest_id", digest.ID).Info("Digest delivered to admin chat")
		return nil
	}
}

func summaryHandler(ctx context.Context, notifService app.NotificationService, adminTelegramID int64, baseLogger *logrus.Entry, now func() time.Time) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/summary",
			"sender_id": senderID(c),
		})
		if !isAdmin(adminTelegramID, c) {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(unauthorizedReply)
		}

		digest, err := notifService.ComposeDigest(ctx, now())
		if err != nil {
			handlerLogger.WithError(err).Error("Failed to compose digest")
			return c.Send(fmt.Sprintf("Could not read the roster: %s", err.Error()))
		}

		agg := digest.Aggregation
		var response strings.Builder
		response.WriteString("--- Deadline summary ---\n")
		response.WriteString(fmt.Sprintf("Subjects: %d\n", agg.Subjects))
		response.WriteString(fmt.Sprintf("Due soon: %d\n", len(agg.Soon)))
		response.WriteString(fmt.Sprintf("Overdue: %d\n", len(agg.Overdue)))
		response.WriteString(fmt.Sprintf("On track: %d\n", agg.OK))
		response.WriteString(fmt.Sprintf("Missing or invalid dates: %d", agg.Skipped))

		handlerLogger.WithField("digest_id", digest.ID).Info("Summary sent")
		return c.Send(response.String())
	}
}
