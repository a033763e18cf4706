// Classboard - classroom discussion web client
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

	"github.com/classboard/classboard/internal/classroom"
	"github.com/classboard/classboard/internal/config"
	"github.com/classboard/classboard/internal/metrics"
	"github.com/classboard/classboard/internal/middleware"
	"github.com/classboard/classboard/internal/session"
	"github.com/classboard/classboard/internal/store"
	webui "github.com/classboard/classboard/internal/web"
	"github.com/classboard/classboard/web"
)

// sessionCleanupInterval is how often stale sessions are pruned.
const sessionCleanupInterval = time.Hour

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

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

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

	m := metrics.New()

	client := classroom.New(cfg.ResolveAPIBase(""), cfg.APITimeout, m, logger)
	slog.Info("Classroom backend configured", "base_url", client.BaseURL(), "timeout", cfg.APITimeout)

	sessions := session.NewManager(repo, client, cfg.SessionTTL, !cfg.IsDevelopment(), logger)
	sessions.Cleanup(context.Background())

	handler, err := webui.NewHandler(web.Templates(), client, sessions, m, logger)
	if err != nil {
		slog.Error("Failed to initialize view handler", "error", err)
		os.Exit(1)
	}

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.WithSession(sessions))

	r.Handle("/metrics", m.Handler())
	r.Handle("/static/*", web.StaticHandler())

	handler.RegisterRoutes(r)

	// Create server.
	// Note: no WriteTimeout; AI-backed requests and thread websockets can
	// legitimately run for a minute or longer.
	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Prune stale sessions periodically.
	go func() {
		ticker := time.NewTicker(sessionCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sessions.Cleanup(ctx)
			}
		}
	}()

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
