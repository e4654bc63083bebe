package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cafe_notice_bot/internal/app"
	"cafe_notice_bot/internal/infra/board"
	"cafe_notice_bot/internal/infra/config"
	idb "cafe_notice_bot/internal/infra/database"
	"cafe_notice_bot/internal/infra/logger"
	"cafe_notice_bot/internal/infra/metrics"
	"cafe_notice_bot/internal/infra/readiness"
	"cafe_notice_bot/internal/infra/scheduler"
	"cafe_notice_bot/internal/infra/systemd"
	"cafe_notice_bot/internal/infra/telegram"

	"github.com/spf13/pflag"
)

func main() {
	fmt.Println("Cafe Notice Bot starting...")

	flagSet := pflag.NewFlagSet("cafe-notice-bot", pflag.ExitOnError)
	envFile := flagSet.String("env-file", "", "load configuration from this dotenv file instead of ./.env")
	once := flagSet.Bool("once", false, "run the pipeline a single time and exit (no command handling)")
	_ = flagSet.Parse(os.Args[1:]) // ExitOnError

	var (
		cfg *config.AppConfig
		err error
	)
	if *envFile != "" {
		cfg, err = config.LoadFile(*envFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	mainLogger := logger.Component("main")
	mainLogger.Infof("Configuration loaded. Environment: %s, group: %d, topic: %d, poll interval: %s",
		cfg.Environment, cfg.GroupID, cfg.TopicID, cfg.PollInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init()

	// Initialize Database Connection
	db, dialect, err := idb.Open(cfg.DatabaseURL)
	if err != nil {
		mainLogger.Fatalf("Could not connect to database: %v", err)
	}
	defer db.Close()
	cursorRepo := idb.NewCursorRepository(db, dialect)
	if err := cursorRepo.EnsureSchema(ctx); err != nil {
		mainLogger.Fatalf("Could not prepare cursor table: %v", err)
	}
	mainLogger.WithField("dialect", dialect.String()).Info("Database connection established successfully.")

	fetcher := board.NewFetcher(board.FetcherConfig{
		UserAgent:         cfg.HTTPUserAgent,
		Timeout:           cfg.HTTPTimeout,
		RequestsPerSecond: cfg.FetchRate,
	})

	ready := readiness.New()

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, metrics.NewRouter(ready), logger.Component("metrics")); err != nil {
				mainLogger.WithError(err).Error("Metrics server stopped")
			}
		}()
	}

	// Initialize Telegram Bot
	tgLogger := logger.Component("telegram")
	bot, err := telegram.NewBot(cfg, tgLogger)
	if err != nil {
		mainLogger.Fatalf("%v", err)
	}
	notifier := telegram.NewNoticeNotifier(telegram.NewTelebotAdapter(bot), cfg.GroupID, cfg.TopicID, tgLogger)

	noticeService := app.NewNoticeServiceImpl(fetcher, board.Default(), cursorRepo, notifier, logger.Component("pipeline"))
	statusService := app.NewStatusService(cursorRepo, noticeService, cfg.AdminTelegramID)

	// Register Handlers
	telegram.RegisterBotCommands(bot, cfg.AdminTelegramID, tgLogger)
	telegram.RegisterAdminHandlers(ctx, bot, statusService, tgLogger)

	// Transport: resolve the group, open the gate, then serve commands until shutdown.
	transportDone := make(chan struct{})
	go func() {
		defer close(transportDone)
		if err := telegram.ResolveGroup(ctx, bot, cfg, tgLogger); err != nil {
			return
		}
		ready.Fire()
		if err := systemd.Ready(mainLogger); err != nil {
			mainLogger.WithError(err).Warn("Could not notify systemd")
		}
		if *once {
			return
		}
		go func() {
			<-ctx.Done()
			bot.Stop()
		}()
		bot.Start()
	}()

	pollScheduler := scheduler.NewPollScheduler(noticeService, ready, cfg.PollInterval, logger.Component("scheduler"))

	if *once {
		err := pollScheduler.RunOnce(ctx)
		<-transportDone
		if err != nil {
			mainLogger.WithError(err).Error("Poll run failed")
			os.Exit(1)
		}
		mainLogger.Info("Poll run completed.")
		return
	}

	mainLogger.Info("Application setup complete. Bot and Scheduler are starting...")
	if err := pollScheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		mainLogger.WithError(err).Error("Scheduler stopped with error")
	}

	mainLogger.Info("Shutting down application...")
	if err := systemd.Stopping(mainLogger); err != nil {
		mainLogger.WithError(err).Warn("Could not notify systemd")
	}
	<-transportDone
	mainLogger.Info("Application shut down gracefully.")
}
