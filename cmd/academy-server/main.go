package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"academy-api/internal/assessment"
	"academy-api/internal/assessment/collector"
	"academy-api/internal/assessment/session"
	"academy-api/internal/common/config"
	"academy-api/internal/common/crm"
	"academy-api/internal/common/database"
	"academy-api/internal/common/logger"
	"academy-api/internal/common/observability"
	"academy-api/internal/notify"
	"academy-api/internal/server"
	"academy-api/internal/submission"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	// --- Redis ---
	redisClient, err := database.NewRedis(cfg.Redis)
	if err != nil {
		zapLog.Fatal("failed to create redis client", zap.Error(err))
	}
	defer redisClient.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 10*time.Second)
	err = retryWithBackoff(func() error {
		return redisClient.Ping(pingCtx)
	}, 5, time.Second, zapLog, "redis connection")
	cancelPing()
	if err != nil {
		zapLog.Fatal("redis unavailable", zap.Error(err))
	}

	store := session.NewStore(redisClient, log,
		config.GetTTL(cfg.Assessment.AttemptTTL),
		config.GetTTL(cfg.Assessment.PrefillTTL),
	)

	// --- CRM webhook ---
	crmClient := crm.NewClient(cfg.CRM.WebhookURL, cfg.CRM.APIKey, config.GetDuration(cfg.CRM.Timeout))
	sink, err := submission.NewCRMSink(crmClient, log)
	if err != nil {
		zapLog.Fatal("failed to create CRM sink", zap.Error(err))
	}

	// --- Follow-up notifier ---
	notifier, err := notify.New(context.Background(), cfg.Notifications, log)
	if err != nil {
		zapLog.Fatal("failed to create notifier", zap.Error(err))
	}

	autoAdvance := collector.NewAutoAdvancer(
		collector.NewTimerScheduler(),
		config.GetDuration(cfg.Assessment.AutoAdvanceDelay),
	)
	defer autoAdvance.ReleaseAll()

	svc := assessment.NewService(store, sink, notifier, autoAdvance, log)

	router := server.NewRouter(server.Dependencies{
		Assessment:         svc,
		Store:              store,
		CRM:                crmClient,
		Observability:      obs,
		Logger:             log,
		AutoAdvanceDelayMS: cfg.Assessment.AutoAdvanceDelay,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("academy API listening",
			zap.String("addr", cfg.Server.Addr()),
			zap.String("environment", cfg.App.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("server shutdown failed", zap.Error(err))
	}

	zapLog.Info("academy API stopped gracefully")
}
