package main

import (
	"log"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-saas/internal/config"
	"github.com/BruksfildServices01/booking-saas/internal/logging"
	"github.com/BruksfildServices01/booking-saas/internal/notify"
)

// The worker delivers queued emails over SMTP.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.RedisEnabled() {
		logger.Fatal("REDIS_ADDR is required for the worker")
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.QueueRedisDB,
		},
		asynq.Config{
			Concurrency: 5,
			Logger:      logger.Sugar(),
		},
	)

	smtp := notify.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)

	mux := asynq.NewServeMux()
	mux.Handle(notify.TypeEmailSend, notify.HandleEmailTask(smtp, logger))

	logger.Info("worker started", zap.String("redis", cfg.RedisAddr))
	if err := srv.Run(mux); err != nil {
		logger.Fatal("worker", zap.Error(err))
	}
}
