package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"todo-app/internal/auth"
	"todo-app/internal/cache"
	"todo-app/internal/config"
	"todo-app/internal/controller"
	"todo-app/internal/database"
	"todo-app/internal/middleware"
	"todo-app/internal/queue"
	"todo-app/internal/repository"
	"todo-app/internal/routes"
	"todo-app/internal/service"
	"todo-app/internal/worker"
	"todo-app/pkg/logger"
)

func main() {
	config.LoadEnvFile(".env")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		logger.Error(ctx, "Config load failed", "error", err)
		os.Exit(1)
	}
	logger.SetLevel(cfg.LogLevel)

	db, err := database.Open(ctx, cfg.Database.URL, cfg.Database.PoolSize)
	if err != nil {
		logger.Error(ctx, "Database not available; exiting", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	migrator, err := database.NewMigrator(db)
	if err == nil {
		err = migrator.Up(ctx)
	}
	if err != nil {
		logger.Error(ctx, "Schema migration failed", "error", err)
		os.Exit(1)
	}

	tokens, err := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)
	if err != nil {
		logger.Error(ctx, "Token manager init failed", "error", err)
		os.Exit(1)
	}

	todoRepo := repository.NewTodoRepository(db)
	checks := map[string]controller.Check{"database": db.PingContext}

	// Redis is optional: without it lists are read straight from Postgres and
	// the auth rate limiter is per process.
	var (
		todoCache service.TodoCache
		limiter   middleware.RateLimiter
		warmer    *worker.Warmer
	)
	if cfg.CacheEnabled() {
		rdb, err := cache.NewClient(ctx, cfg.Redis.URL, cfg.Redis.PoolSize)
		if err != nil {
			logger.Error(ctx, "Redis not available; exiting", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		tc := cache.NewTodoCache(rdb, cfg.Redis.CacheTTL)
		todoCache = tc
		limiter = cache.NewRedisRateLimiter(rdb)
		warmer = worker.NewWarmer(todoRepo, tc)
		checks["redis"] = tc.Ping
	} else {
		mem := cache.NewMemoryRateLimiter()
		defer mem.Close()
		limiter = mem
	}

	var events service.EventPublisher = queue.NopPublisher{}
	if cfg.EventsEnabled() {
		queue.EnsureTopic(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.Partitions)
		producer := queue.NewProducer(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		events = producer

		// Start worker in background (consumes todo events, re-warms list cache)
		if warmer != nil {
			go worker.Run(ctx, worker.Config{
				Brokers: cfg.Kafka.Brokers,
				Topic:   cfg.Kafka.Topic,
				GroupID: cfg.Kafka.GroupID,
			}, warmer)
		}
	}

	authSvc := service.NewAuthService(repository.NewUserRepository(db), tokens)
	todoSvc := service.NewTodoService(todoRepo, todoCache, events)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	server := &http.Server{
		Addr: ":" + cfg.HTTPPort,
		Handler: routes.Router(routes.Deps{
			Auth:       authSvc,
			Verifier:   authSvc,
			Todos:      todoSvc,
			Limiter:    limiter,
			RateLimit:  cfg.Auth.RateLimit,
			RateWindow: cfg.Auth.RateWindow,
			Checks:     checks,
			Registry:   registry,
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		logger.Info(ctx, "HTTP server listening", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info(ctx, "Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Server shutdown error", "error", err)
	}
	logger.Info(ctx, "Server stopped")
}
