package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xiaot623/gogo/lecturechat/internal/config"
	"github.com/xiaot623/gogo/lecturechat/internal/logger"
	"github.com/xiaot623/gogo/lecturechat/internal/repository"
	"github.com/xiaot623/gogo/lecturechat/internal/service"
	httptransport "github.com/xiaot623/gogo/lecturechat/internal/transport/http"
	"github.com/xiaot623/gogo/lecturechat/policy"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.FatalErr(err, "failed to load config")
	}
	logger.Configure(cfg.Environment, cfg.LogLevel)

	logger.Info("starting lecturechat",
		"http_port", cfg.HTTPPort,
		"store_backend", cfg.StoreBackend,
		"poll_interval", cfg.PollInterval,
	)

	// Initialize store
	store, err := openStore(cfg)
	if err != nil {
		logger.FatalErr(err, "failed to initialize store", "store_backend", cfg.StoreBackend)
	}
	defer store.Close()

	// Initialize policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		logger.FatalErr(err, "failed to initialize policy engine")
	}

	// Initialize service
	svc := service.New(store, service.WithPolicy(policyEngine, cfg.MaxMessageLength))

	server, err := httptransport.NewServer(svc, cfg)
	if err != nil {
		logger.FatalErr(err, "failed to create server")
	}

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.FatalErr(err, "failed to start server")
		}
	}()

	logger.Info("session API started", "port", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("failed to shutdown server gracefully", "error", err)
	}

	logger.Info("lecturechat stopped")
}

func openStore(cfg *config.Config) (repository.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return repository.NewMemoryStore(), nil
	case config.BackendBadger:
		return repository.NewBadgerStore(cfg.BadgerPath)
	case config.BackendRedis:
		return repository.NewRedisStoreFromURL(cfg.RedisURL)
	default:
		return repository.NewSQLiteStore(cfg.DatabaseURL)
	}
}
