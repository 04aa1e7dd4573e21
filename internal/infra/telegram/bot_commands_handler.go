// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"deadline_notification_bot/internal/domain/subject"
	idb "deadline_notification_bot/internal/infra/database" // For ErrSubjectNotFound

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func RegisterBotCommands(
	ctx context.Context,
	b *telebot.Bot,
	adminTelegramID int64,
	subjectRepo subject.Repository,
	baseLogger *logrus.Entry, // For contextual logging
) {
	logger := baseLogger.WithField("handler_group", "start_help")

	b.Handle("/start", startHandler(ctx, adminTelegramID, subjectRepo, logger))
	b.Handle("/help", helpHandler(adminTelegramID, logger))
	b.Handle("/chatid", chatIDHandler(logger))
}

// isAdmin reports whether the sender is the configured admin. An unset admin
// ID matches nobody.
func isAdmin(adminTelegramID int64, c telebot.Context) bool {
	if adminTelegramID == 0 {
		return false
	}
	return c.Sender() != nil && c.Sender().ID == adminTelegramID
}

func senderID(c telebot.Context) int64 {
	if c.Sender() == nil {
		return 0
	}
	return c.Sender().ID
}

func chatID(c telebot.Context) string {
	if c.Chat() == nil {
		return ""
	}
	return strconv.FormatInt(c.Chat().ID, 10)
}

func startHandler(ctx context.Context, adminTelegramID int64, subjectRepo subject.Repository, logger *logrus.Entry) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		logCtx := logger.WithFields(logrus.Fields{
			"command":   "/start",
			"sender_id": senderID(c),
			"chat_id":   chatID(c),
		})
		logCtx.Info("Processing /start command")

		registered, err := subjectRepo.GetByChatID(ctx, chatID(c))
		switch {
		case err == nil:
			logCtx.WithField("subject_id", registered.ID).Info("Chat is registered on a subject")
			reply := fmt.Sprintf("Hello, %s! This chat receives deadline notices for NIP %s.",
				registered.Name, registered.RegistrationNumber)
			if registered.Phone.Valid && registered.Phone.String != "" {
				reply += fmt.Sprintf("\nContact number on file: %s", registered.Phone.String)
			} else {
				reply += "\nNo contact number is on file."
			}
			return c.Send(reply)
		case !errors.Is(err, idb.ErrSubjectNotFound):
			logCtx.WithError(err).Error("Error looking up chat for /start command")
			return c.Send("Something went wrong while checking this chat. Please try again later.")
		}

		if isAdmin(adminTelegramID, c) {
			logCtx.Info("User identified as Admin")
			return c.Send("Hello, administrator! Use /digest to send the deadline digest here or /help for all commands.")
		}

		logCtx.Info("Chat is unknown")
		return c.Send("Hello! I send salary and rank increment deadline digests. " +
			"Send /chatid and give the number to your administrator to receive them here.")
	}
}

func helpHandler(adminTelegramID int64, logger *logrus.Entry) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		logger.WithFields(logrus.Fields{
			"command":   "/help",
			"sender_id": senderID(c),
		}).Info("Processing /help command")

		var helpText strings.Builder
		helpText.WriteString("Available commands:\n\n")
		helpText.WriteString("/start - Check whether this chat is registered.\n")
		helpText.WriteString("/chatid - Show the ID of this chat.\n")
		if isAdmin(adminTelegramID, c) {
			helpText.WriteString("/digest - Send the current deadline digest to this chat.\n")
			helpText.WriteString("/summary - Show deadline counts.\n")
		}
		helpText.WriteString("/help - Show this message.")
		return c.Send(helpText.String())
	}
}

func chatIDHandler(logger *logrus.Entry) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		id := chatID(c)
		logger.WithFields(logrus.Fields{
			"command": "/chatid",
			"chat_id": id,
		}).Info("Processing /chatid command")
		if id == "" {
			return c.Send("This update has no chat.")
		}
		return c.Send(fmt.Sprintf("This chat ID is <code>%s</code>", id), telebot.ModeHTML)
	}
}
