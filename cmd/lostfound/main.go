package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/lostfound/internal/config"
	dbRedis "github.com/kailas-cloud/lostfound/internal/db/redis"
	logpkg "github.com/kailas-cloud/lostfound/internal/logger"
	"github.com/kailas-cloud/lostfound/internal/metrics"
	connectionrepo "github.com/kailas-cloud/lostfound/internal/repository/connection"
	itemrepo "github.com/kailas-cloud/lostfound/internal/repository/item"
	messagerepo "github.com/kailas-cloud/lostfound/internal/repository/message"
	chiTransport "github.com/kailas-cloud/lostfound/internal/transport/chi"
	connectionuc "github.com/kailas-cloud/lostfound/internal/usecase/connection"
	contactuc "github.com/kailas-cloud/lostfound/internal/usecase/contact"
	healthuc "github.com/kailas-cloud/lostfound/internal/usecase/health"
	ownershipuc "github.com/kailas-cloud/lostfound/internal/usecase/ownership"
	reportuc "github.com/kailas-cloud/lostfound/internal/usecase/report"
	"github.com/kailas-cloud/lostfound/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting lostfound API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("key_prefix", cfg.Storage.KeyPrefix),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:       cfg.Database.Addrs,
		Username:    cfg.Database.Username,
		Password:    cfg.Database.Password,
		DB:          cfg.Database.DB,
		ClientName:  "lostfound",
		DialTimeout: time.Duration(cfg.Database.DialTimeoutMs) * time.Millisecond,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	metrics.RegisterDomainMetrics()

	weights := cfg.Matching.Weights()
	thresholds := cfg.Verification.Thresholds()
	logger.Info("Scoring configured",
		zap.Int("min_percentage", weights.MinPercentage),
		zap.Bool("conditional_maxima", weights.ConditionalMaxima),
		zap.Int("pass_threshold", thresholds.PassThreshold),
	)

	itemRepo := itemrepo.New(store, cfg.Storage.KeyPrefix)
	connRepo := connectionrepo.New(store, cfg.Storage.KeyPrefix)
	messageRepo := messagerepo.New(store, cfg.Storage.KeyPrefix)

	reportSvc := reportuc.New(itemRepo).
		WithPagination(cfg.Listing.DefaultPageSize, cfg.Listing.MaxPageSize)
	connSvc := connectionuc.New(connRepo, itemRepo).WithWeights(weights)
	ownershipSvc := ownershipuc.New(itemRepo).WithThresholds(thresholds)
	healthSvc := healthuc.New(store).WithLimits(
		time.Duration(cfg.Health.TimeoutMs)*time.Millisecond,
		time.Duration(cfg.Health.SlowMs)*time.Millisecond,
	)

	server := chiTransport.NewServer(reportSvc, connSvc, ownershipSvc, healthSvc, logger).
		WithScoring(weights, thresholds).
		WithMessages(contactuc.New(messageRepo))

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.RequestLogger(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware("/metrics"))
	r.Use(chiTransport.BodyLimit(cfg.HTTP.MaxBodyBytes))
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
