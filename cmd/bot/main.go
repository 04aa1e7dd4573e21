package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deadline_notification_bot/internal/app"
	"deadline_notification_bot/internal/infra/config"
	idb "deadline_notification_bot/internal/infra/database"
	"deadline_notification_bot/internal/infra/httpapi"
	"deadline_notification_bot/internal/infra/logger"
	"deadline_notification_bot/internal/infra/metrics"
	"deadline_notification_bot/internal/infra/scheduler"
	"deadline_notification_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	mainLogger := logger.Component("main")
	mainLogger.WithFields(logrus.Fields{
		"environment":       cfg.Environment,
		"database_driver":   cfg.DatabaseDriver,
		"admin_telegram_id": cfg.AdminTelegramID,
		"timezone":          cfg.Location.String(),
		"recipients":        len(cfg.DigestRecipients),
	}).Info("Deadline Notification Bot starting...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize Database Connection
	if cfg.RunMigrations {
		if err := idb.RunMigrations(cfg.DatabaseDriver, cfg.DatabaseURL); err != nil {
			mainLogger.WithError(err).Fatal("Could not apply database migrations")
		}
		mainLogger.Info("Database migrations applied")
	}
	db, err := idb.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not connect to database")
	}
	defer db.Close()
	mainLogger.Info("Database connection established successfully.")

	subjectRepo := idb.NewSQLSubjectRepository(db)

	// Telegram bot and gateway. Without a token the service still runs and
	// every send reports the missing credential.
	var bot *telebot.Bot
	polling := false
	if cfg.TelegramToken != "" {
		bot, polling, err = telegram.NewBot(cfg.TelegramToken, cfg.TelegramAPIURL, cfg.GatewayTimeout, logger.Component("telebot"))
		if err != nil {
			mainLogger.WithError(err).Fatal("Could not create Telegram bot")
		}
	} else {
		mainLogger.Warn("TELEGRAM_BOT_TOKEN is not set: bot commands disabled, deliveries will fail")
	}
	gateway := telegram.NewTelebotAdapter(bot, cfg.TelegramAPIURL, cfg.GatewayTimeout)

	metricsCollector := metrics.NewCollector()
	notifService := app.NewNotificationServiceImpl(
		subjectRepo,
		gateway,
		cfg.Location,
		cfg.DigestRecipients,
		logrus.NewEntry(logger.Get()),
		metricsCollector,
	)

	digestScheduler := scheduler.NewDigestScheduler(
		notifService,
		logrus.NewEntry(logger.Get()),
		cfg.CronSpecDigest,
		cfg.DigestRecipients,
		cfg.DigestMaxRetries,
		cfg.Location,
	)
	if err := digestScheduler.Start(); err != nil {
		mainLogger.WithError(err).Fatal("Could not start digest scheduler")
	}

	router := httpapi.NewRouter(httpapi.RouterConfig{
		NotifyHandler:  httpapi.NewNotifyHandler(notifService, logrus.NewEntry(logger.Get())),
		MetricsHandler: metricsCollector.Handler(),
		Logger:         logger.Component("http"),
	})
	server := httpapi.NewServer(cfg.HTTPAddr, router, logger.Component("http"))
	go func() {
		if err := server.Start(); err != nil {
			mainLogger.WithError(err).Fatal("HTTP server failed")
		}
	}()

	// Bot polling only runs when the startup handshake succeeded.
	if polling {
		botLogger := logger.Component("bot")
		if cfg.AdminTelegramID == 0 {
			mainLogger.Warn("ADMIN_TELEGRAM_ID is not set: /digest and /summary are refused for every chat")
		}
		telegram.RegisterBotCommands(ctx, bot, cfg.AdminTelegramID, subjectRepo, botLogger)
		telegram.RegisterAdminHandlers(ctx, bot, notifService, cfg.AdminTelegramID, botLogger)
		go bot.Start()
		mainLogger.WithField("bot_username", bot.Me.Username).Info("Telegram bot polling started")
	}

	mainLogger.Info("Application setup complete.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	cancel()
	if polling {
		bot.Stop()
	}
	digestScheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		mainLogger.WithError(err).Error("HTTP server did not shut down cleanly")
	}
	mainLogger.Info("Application shut down gracefully.")
}
