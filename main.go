package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskmanager-be/internal/cache"
	"taskmanager-be/internal/config"
	"taskmanager-be/internal/database"
	"taskmanager-be/internal/logging"
	"taskmanager-be/internal/repository"
	"taskmanager-be/internal/server"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Stop on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// Initialize Redis cache (optional - continue if Redis is unavailable)
	var taskCache cache.Cache
	if cfg.RedisURL != "" {
		taskCache, err = cache.NewRedisCache(ctx, cfg.RedisURL, "taskmanager:")
		if err != nil {
			logger.Warn("failed to connect to redis, continuing without cache", "error", err)
		} else {
			logger.Info("connected to redis cache")
			defer func() { _ = cache.Close(taskCache) }()
		}
	}

	router, err := server.NewRouter(server.Deps{
		Config: cfg,
		Logger: logger,
		Store:  store,
		Cache:  taskCache,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore connects to Postgres and runs migrations, or falls back to the
// in-memory store when no DATABASE_URL is configured.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (server.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory store; data is lost on restart")
		mem := repository.NewMemoryStore()
		return server.Store{Users: mem.Users(), Tasks: mem.Tasks()}, func() {}, nil
	}

	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return server.Store{}, nil, err
	}
	if err := database.RunMigrations(db); err != nil {
		_ = db.Close()
		return server.Store{}, nil, err
	}
	logger.Info("connected to database")

	store := server.Store{
		Users: repository.NewUserRepository(db),
		Tasks: repository.NewTaskRepository(db),
	}
	return store, func() { _ = db.Close() }, nil
}
