package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/user/phish-dataset/internal/adapter/postgres"
	redis_adapter "github.com/user/phish-dataset/internal/adapter/redis"
	"github.com/user/phish-dataset/internal/bootstrap"
	"github.com/user/phish-dataset/internal/delivery/http/handler"
	"github.com/user/phish-dataset/internal/delivery/http/router"
	"github.com/user/phish-dataset/internal/usecase"
	"github.com/user/phish-dataset/internal/worker"
	"github.com/user/phish-dataset/pkg/config"
	"github.com/user/phish-dataset/pkg/logger"
	"github.com/user/phish-dataset/pkg/metrics"
	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// --- Logger ---
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("Logger initialized", zap.String("level", cfg.LogLevel))

	// --- Metrics ---
	metrics.Init()

	// --- Database Connections ---
	ctx := context.Background()

	dbpool, err := bootstrap.NewPostgres(ctx, cfg)
	if err != nil {
		log.Fatal("Unable to connect to database", zap.Error(err))
	}
	defer dbpool.Close()
	log.Info("PostgreSQL connection pool established")

	rdb, err := bootstrap.NewRedis(ctx, cfg)
	if err != nil {
		log.Fatal("Unable to connect to Redis", zap.Error(err))
	}
	defer rdb.Close()
	log.Info("Redis connection established")

	// --- Repositories ---
	visitedRepo := redis_adapter.NewVisitedRepo(rdb)
	queueRepo := redis_adapter.NewQueueRepo(rdb)
	geoCache := redis_adapter.NewGeoCache(rdb)
	rowRepo := postgres.NewDatasetRowRepo(dbpool)
	failedURLRepo := postgres.NewFailedURLRepo(dbpool)

	if size, err := queueRepo.Size(ctx); err == nil {
		metrics.URLsInQueue.Set(float64(size))
	}

	// --- Lookups ---
	lookups, err := bootstrap.NewLookups(cfg, geoCache, log)
	if err != nil {
		log.Fatal("Unable to create lookup adapters", zap.Error(err))
	}

	// --- Use Cases ---
	dedupWindow := time.Duration(cfg.DeduplicationHours) * time.Hour
	urlManager := usecase.NewURLManager(visitedRepo, queueRepo, rowRepo, failedURLRepo, dedupWindow, log.Named("url_manager"))
	enricher := usecase.NewEnricher(
		lookups.Resolver, lookups.Whois,
		queueRepo, rowRepo, failedURLRepo,
		config.Seconds(cfg.EnrichTimeout), log.Named("enricher"),
	)

	// --- Workers ---
	workerCtx, stopWorkers := context.WithCancel(ctx)
	pool := worker.NewPool(
		cfg.EnrichWorkers,
		time.Duration(cfg.QueuePollInterval)*time.Millisecond,
		enricher.ProcessURLFromQueue,
		log.Named("worker"),
	)
	pool.Start(workerCtx)

	// --- HTTP Server ---
	checks := map[string]handler.HealthCheck{
		"postgres": dbpool.Ping,
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}
	apiHandler := handler.NewHandler(urlManager, rowRepo, checks, cfg.MaxFeatureBatch, log.Named("http"))
	httpRouter := router.New(apiHandler, log.Named("http"))

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("Starting server", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Could not listen on port", zap.String("port", cfg.ServerPort), zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	pool.Stop()
	stopWorkers()

	log.Info("Server exiting")
}
