// main.go — user API server
// ============================================================
// Startup order:
//
//  1. Configuration (.env + environment)
//  2. Structured logger
//  3. Connection pool, retried while the database comes up
//  4. echo server with the user routes
//  5. Graceful shutdown on SIGINT / SIGTERM
//
// The schema is applied separately with cmd/migrate.
// ============================================================
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Skryldev/user-api/api"
	"github.com/Skryldev/user-api/config"
	"github.com/Skryldev/user-api/db"
	"github.com/Skryldev/user-api/repo"
)

func main() {
	// ── 1. Configuration ─────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	// ── 2. Structured logger ─────────────────────────────────────────────
	logger := config.NewLogger(cfg, nil)
	log.Logger = logger
	zerolog.DefaultContextLogger = &logger

	// ── 3. DB initialisation ─────────────────────────────────────────────
	database, err := openDB(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer database.Close()

	logger.Info().
		Str("driver", database.Dialect().Name()).
		Int("max_open_conns", database.Stats().MaxOpenConnections).
		Msg("database connected")

	// ── 4. HTTP server ───────────────────────────────────────────────────
	handler := api.NewUserHandler(repo.NewUserRepo(database), logger)
	e := api.NewServer(handler, logger, api.ServerConfig{
		RateLimit: cfg.RateLimit,
		RateBurst: cfg.RateBurst,
	})

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("server starting")
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// ── 5. Graceful shutdown ─────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
		return
	}
	logger.Info().Msg("server shutdown complete")
}

// openDB opens the pool described by DATABASE_URL, retrying connection
// failures and timeouts DB_CONNECT_ATTEMPTS times.
func openDB(cfg config.Config, logger zerolog.Logger) (*db.DB, error) {
	dbCfg := db.Config{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 2 * time.Minute,
		Hooks: []db.Hook{
			db.NewLogHook(db.LogHookConfig{
				Logger:             &logger,
				SlowQueryThreshold: cfg.DBSlowQuery,
				LogArgs:            cfg.DBLogArgs,
			}),
		},
	}

	var database *db.DB
	attempt := 0
	err := db.WithRetry(context.Background(), db.RetryConfig{
		MaxAttempts: cfg.DBConnectAttempts,
		Delay:       2 * time.Second,
	}, func() error {
		attempt++
		d, err := db.OpenURL(cfg.DatabaseURL, dbCfg)
		if err != nil {
			logger.Warn().Err(err).Int("attempt", attempt).Msg("database not ready")
			return err
		}
		database = d
		return nil
	})
	return database, err
}
