// Package main provides the API server entry point for the portfolio tracker service.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/api"
	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/config"
	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/logging"
	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/service"
	"github.com/ShinraXBT/crypto-portfolio-tracker/internal/storage"
)

// healthProbe adapts the Postgres pool and wallet repository to the
// health endpoint.
type healthProbe struct {
	db      *storage.PostgresDB
	wallets *storage.WalletRepository
}

func (p *healthProbe) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

func (p *healthProbe) WalletCount(ctx context.Context) (int64, error) {
	return p.wallets.Count(ctx)
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	logLevel := logging.ParseLogLevel(cfg.Logging.Level)
	logFormat := logging.ParseLogFormat(cfg.Logging.Format)
	logging.InitGlobalLogger(logLevel, logFormat)

	logger := logging.GetGlobalLogger()
	logger.WithFields(map[string]interface{}{
		"level":  cfg.Logging.Level,
		"format": cfg.Logging.Format,
	}).Info("Structured logging initialized")

	// Connect to Postgres
	postgres, err := storage.NewPostgresDB(&cfg.Postgres)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Postgres")
	}
	defer postgres.Close()

	// Connect to Redis. The server runs without it; aggregation reads
	// just skip the cache.
	var redis *storage.RedisCache
	if r, err := storage.NewRedisCache(&cfg.Redis); err != nil {
		logger.WithError(err).Warn("Redis unavailable, response caching disabled")
	} else {
		redis = r
		defer redis.Close()
	}

	logger.Info("Database connections established")

	// Initialize repositories
	walletRepo := storage.NewWalletRepository(postgres)
	monthlyRepo := storage.NewMonthlyEntryRepository(postgres)
	dailyRepo := storage.NewDailyEntryRepository(postgres)
	alertRepo := storage.NewAlertRepository(postgres)

	// Initialize services
	cache := service.NewResponseCache(redis, cfg.Cache.TTL)
	walletService := service.NewWalletService(walletRepo, cache)
	entryService := service.NewEntryService(walletRepo, monthlyRepo, dailyRepo, cache)
	summaryService := service.NewSummaryService(walletRepo, monthlyRepo, dailyRepo, cache)
	alertService := service.NewAlertService(alertRepo, walletRepo, summaryService)

	logger.Info("Services initialized")

	serverConfig := &api.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		RateLimitRPS:    cfg.RateLimit.RequestsPerSecond,
	}

	server := api.NewServer(
		serverConfig,
		walletService,
		entryService,
		summaryService,
		alertService,
		&healthProbe{db: postgres, wallets: walletRepo},
	)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	logger.WithFields(map[string]interface{}{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
