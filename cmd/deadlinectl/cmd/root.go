package cmd

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/telebot.v3"

	"deadline_notification_bot/internal/app"
	"deadline_notification_bot/internal/infra/config"
	idb "deadline_notification_bot/internal/infra/database"
	"deadline_notification_bot/internal/infra/logger"
	"deadline_notification_bot/internal/infra/telegram"
)

var (
	cfg     *config.AppConfig
	db      *sql.DB
	nowFlag string
)

var rootCmd = &cobra.Command{
	Use:   "deadlinectl",
	Short: "Operator CLI for the deadline notification bot",
	Long: `deadlinectl previews and sends the salary and rank increment deadline
digest, checks the Telegram gateway and applies database migrations.

Configuration is read from the same environment variables (and .env file)
as the bot service.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		// Stdout carries command output; logs go to stderr.
		logger.Configure(logger.Log, os.Stderr, cfg.LogLevel, cfg.Environment)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newService wires the notification service from the loaded configuration.
func newService() (app.NotificationService, error) {
	var err error
	db, err = idb.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	gateway, err := newGateway()
	if err != nil {
		return nil, err
	}

	return app.NewNotificationServiceImpl(
		idb.NewSQLSubjectRepository(db),
		gateway,
		cfg.Location,
		cfg.DigestRecipients,
		logrus.NewEntry(logger.Get()),
		nil,
	), nil
}

// newGateway builds an offline adapter: the CLI only sends and never polls.
func newGateway() (*telegram.TelebotAdapter, error) {
	if cfg.TelegramToken == "" {
		return telegram.NewTelebotAdapter(nil, cfg.TelegramAPIURL, cfg.GatewayTimeout), nil
	}
	settings := telegram.BotSettings(cfg.TelegramToken, cfg.TelegramAPIURL, cfg.GatewayTimeout, true, logger.Component("telebot"))
	bot, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("could not create Telegram bot: %w", err)
	}
	return telegram.NewTelebotAdapter(bot, cfg.TelegramAPIURL, cfg.GatewayTimeout), nil
}

// resolveNow parses --now as a calendar date in the configured zone.
func resolveNow() (time.Time, error) {
	if nowFlag == "" {
		return time.Now().In(cfg.Location), nil
	}
	t, err := time.ParseInLocation("2006-01-02", nowFlag, cfg.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q: expected YYYY-MM-DD", nowFlag)
	}
	return t, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&nowFlag, "now", "", "evaluate deadlines as of this date (YYYY-MM-DD)")
}
