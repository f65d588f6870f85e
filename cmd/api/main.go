package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-saas/internal/audit"
	"github.com/BruksfildServices01/booking-saas/internal/config"
	dbpkg "github.com/BruksfildServices01/booking-saas/internal/db"
	"github.com/BruksfildServices01/booking-saas/internal/infra/lock"
	"github.com/BruksfildServices01/booking-saas/internal/logging"
	"github.com/BruksfildServices01/booking-saas/internal/metrics"
	"github.com/BruksfildServices01/booking-saas/internal/middleware"
	"github.com/BruksfildServices01/booking-saas/internal/notify"
	"github.com/BruksfildServices01/booking-saas/internal/routes"
	"github.com/BruksfildServices01/booking-saas/internal/storage"
	"github.com/BruksfildServices01/booking-saas/internal/timezone"
)

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
	zap.ReplaceGlobals(logger)

	timezone.SetDefault(cfg.DefaultTimezone)

	db, err := dbpkg.NewDB(cfg, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}

	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Booking lock and mail queue share Redis when it is configured.
	var (
		locker lock.Locker = lock.NewLocalLocker()
		sender notify.Sender = notify.LogSender{Log: logger}
	)
	if cfg.RedisEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		locker = lock.NewRedisLocker(rdb, logger)

		queue := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.QueueRedisDB,
		})
		defer queue.Close()
		sender = notify.NewQueueSender(queue)
	}

	var uploader storage.Uploader
	if cfg.S3Enabled() {
		uploader = storage.NewS3Uploader(cfg)
	}

	dispatcher := audit.NewDispatcher(audit.NewStore(db), logger)
	notifier := notify.NewNotifier(sender, logger)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, logger)
	go func() {
		t := time.NewTicker(time.Minute)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				limiter.Sweep(10 * time.Minute)
			}
		}
	}()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Log:      logger,
		Locker:   locker,
		Audit:    dispatcher,
		Notifier: notifier,
		Uploader: uploader,
		Limiter:  limiter,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	notifier.Wait()
	dispatcher.Close()
}
