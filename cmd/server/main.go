package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/AnshRaj112/codinglearn-backend/internal/config"
	"github.com/AnshRaj112/codinglearn-backend/internal/database"
	"github.com/AnshRaj112/codinglearn-backend/internal/handlers"
	"github.com/AnshRaj112/codinglearn-backend/internal/logging"
	"github.com/AnshRaj112/codinglearn-backend/internal/middleware"
	"github.com/AnshRaj112/codinglearn-backend/internal/routes"
	"github.com/AnshRaj112/codinglearn-backend/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load env
	envErr := godotenv.Load()

	// Load configuration
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)
	if envErr != nil {
		slog.Info("no .env file found, using process environment")
	}

	if cfg.UsesDefaultSecret() {
		if cfg.IsProduction() {
			slog.Warn("JWT_SECRET is not set; tokens are signed with the development secret")
		} else {
			slog.Info("using development JWT secret")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Select persistence backend
	var store database.Store
	switch cfg.StoreBackend {
	case config.StoreRedis:
		client, err := database.ConnectRedis(ctx, cfg.RedisURI)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer client.Close()
		store = database.NewRedisStore(client, cfg.RedisKey)
	default:
		store = database.NewFileStore(cfg.DataPath)
		slog.Info("using file store", "path", cfg.DataPath)
	}

	tokens := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	api := handlers.NewAPI(database.NewSerialized(store), tokens, cfg.MaxBodyBytes)

	// Setup router
	router := routes.NewRouter(api, tokens, routes.Options{
		AllowedOrigins:    cfg.AllowedOrigins,
		Production:        cfg.IsProduction(),
		Logger:            slog.Default(),
		CredentialLimiter: middleware.NewIPRateLimiter(middleware.CredentialRateEvery, middleware.CredentialRateBurst),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("codinglearn backend listening", "port", cfg.Port, "env", cfg.Environment, "store", cfg.StoreBackend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	}
}
