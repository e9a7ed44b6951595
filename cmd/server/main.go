package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"farmwork-hub-go/internal/api"
	"farmwork-hub-go/internal/auth"
	"farmwork-hub-go/internal/authclient"
	"farmwork-hub-go/internal/config"
	"farmwork-hub-go/internal/jobs"
	"farmwork-hub-go/internal/seed"
	"farmwork-hub-go/internal/storage"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load configuration
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	logger, err := buildLogger(cfg.Monitoring)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	// Storage: Supabase when configured, otherwise in-memory with seed data.
	var store storage.Store
	if cfg.Database.SupabaseURL != "" {
		store, err = storage.NewSupabaseStore(cfg.Database.SupabaseURL, cfg.Database.SupabaseKey)
		if err != nil {
			sugar.Fatalw("failed to initialize storage", "error", err)
		}
		sugar.Infow("using supabase storage")
	} else {
		mem := storage.NewMemoryStore()
		if err := mem.SaveJobs(seed.Jobs()); err != nil {
			sugar.Fatalw("failed to seed demo jobs", "error", err)
		}
		store = mem
		sugar.Infow("using in-memory storage with seed data")
	}

	// Auth: hosted service when configured, otherwise the local demo one.
	var authSvc auth.TokenService
	if cfg.Auth.ServiceURL != "" {
		authSvc = authclient.NewHTTPService(cfg.Auth.ServiceURL, cfg.Auth.RequestTimeout)
		sugar.Infow("using hosted auth service", "url", cfg.Auth.ServiceURL)
	} else {
		local := authclient.NewLocalService()
		for _, account := range seed.Accounts() {
			local.SeedUser(account.User, account.Password)
		}
		authSvc = local
		sugar.Infow("using local auth service with demo accounts")
	}

	jobSvc, err := jobs.NewService(store, sugar)
	if err != nil {
		sugar.Fatalw("failed to initialize job service", "error", err)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      api.New(jobSvc, authSvc, cfg, sugar).Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Periodically expire jobs whose end date has passed.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go runExpirySweep(sweepCtx, jobSvc, cfg.Jobs.ExpirySweepInterval, sugar)

	go func() {
		sugar.Infow("server listening", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("server failed", "error", err)
		}
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	sugar.Infow("shutting down")
	stopSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("shutdown failed", "error", err)
	}
}

func runExpirySweep(ctx context.Context, jobSvc *jobs.Service, interval time.Duration, logger *zap.SugaredLogger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := jobSvc.ExpireEnded(); err != nil {
				logger.Errorw("expiry sweep failed", "error", err)
			}
		}
	}
}

func buildLogger(cfg config.MonitoringConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.LogJSON {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
