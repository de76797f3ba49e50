// cvchat - chat backend for an interactive CV website
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

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/kwieczorek/cvchat/internal/api"
	"github.com/kwieczorek/cvchat/internal/config"
	"github.com/kwieczorek/cvchat/internal/llm"
	"github.com/kwieczorek/cvchat/internal/middleware"
	"github.com/kwieczorek/cvchat/internal/observability"
	"github.com/kwieczorek/cvchat/internal/profile"
	"github.com/kwieczorek/cvchat/internal/prompt"
	"github.com/kwieczorek/cvchat/internal/ratelimit"
	"github.com/kwieczorek/cvchat/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "model", cfg.Model)

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	profiles := profile.NewLoader(cfg.ProfilePath)
	if _, err := profiles.Load(); err != nil {
		// Warn rather than exit: the file may land after deployment, and
		// the chat handler reports a clean 500 until it does.
		slog.Warn("Profile not loadable at startup", "path", cfg.ProfilePath, "error", err)
	}

	completer := llm.NewClient(llm.Options{
		BaseURL:     cfg.OpenAIBaseURL,
		APIKey:      cfg.OpenAIAPIKey,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Timeout:     cfg.UpstreamTimeout,
	})

	metrics := observability.NewMetrics(cfg.MetricsNamespace)
	chatLimiter := ratelimit.New(cfg.ChatRateCeiling, cfg.RateWindow)
	visitLimiter := ratelimit.New(cfg.VisitRateCeiling, cfg.RateWindow)

	// Initialize handlers.
	handler := api.NewHandler(repo, completer, profiles, prompt.Default(),
		chatLimiter, visitLimiter, metrics, cfg.HistoryLimit)
	healthHandler := api.NewHealthHandler(repo)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS(cfg.AllowedOrigins, cfg.DefaultOrigin))
	r.Use(middleware.Auth(cfg.AuthSecret))

	healthHandler.RegisterHealth(r)
	handler.RegisterRoutes(r)
	r.Handle("/metrics", observability.MetricsHandler())

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.UpstreamTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
