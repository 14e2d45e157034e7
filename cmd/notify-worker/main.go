package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"vencehoje/internal/amqp"
	"vencehoje/internal/config"
	applog "vencehoje/internal/log"
	"vencehoje/internal/notify"
	"vencehoje/internal/storage"
	"vencehoje/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentNotify})
	applog.SetDefault(logger)

	logger.Info("Starting notify-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	sqliteRepo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer sqliteRepo.Close()

	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.NotifyWebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.NotifyWebhookURL)
		logger.Info("Webhook notifier configured", "url", cfg.NotifyWebhookURL)
	} else {
		logger.Info("No webhook configured - reminders go to the log")
	}

	hour, minute, err := cfg.NotifyClock()
	if err != nil {
		logger.Error("Invalid notify time", "error", err)
		os.Exit(1)
	}
	level := notify.ParseInsistence(cfg.NotifyInsistence)

	notifyWorker := worker.NewNotifyWorker(sqliteRepo, notifier, hour, minute, level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Reminder chain: evaluate now, then follow the policy's reschedule
	// intervals.
	g.Go(func() error {
		return notifyWorker.Run(ctx)
	})

	// Safety net under the timer chain: a forced re-evaluation every
	// CheckInterval catches anything a lost timer would miss.
	g.Go(func() error {
		return notifyWorker.RunPeriodic(ctx, cfg.CheckInterval)
	})

	// Bill change events trigger an immediate re-evaluation so a payment
	// silences its reminder right away. Optional: without AMQP the timer
	// chain alone still works.
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, running on timers only", "error", err)
		} else {
			defer amqpClient.Close()
			g.Go(func() error {
				return amqpClient.ConsumeBillEventsWithRetry(ctx, func(msg *amqp.BillEventMessage) error {
					logger.Info("Bill event received, re-evaluating reminders", "kind", msg.Kind, "bill_id", msg.BillID)
					notifyWorker.Refresh(ctx)
					return nil
				})
			})
		}
	}

	logger.Info("Notify worker running",
		"target_time", cfg.NotifyTime,
		"insistence", string(level))

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Notify worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Notify worker stopped gracefully")
}
