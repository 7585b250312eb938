// NACC IT Intake - decision-tree troubleshooting server
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

	"github.com/cewiley/NACCIT-Intake/internal/api"
	"github.com/cewiley/NACCIT-Intake/internal/chat"
	"github.com/cewiley/NACCIT-Intake/internal/config"
	"github.com/cewiley/NACCIT-Intake/internal/engine"
	"github.com/cewiley/NACCIT-Intake/internal/escalate"
	"github.com/cewiley/NACCIT-Intake/internal/jira"
	"github.com/cewiley/NACCIT-Intake/internal/middleware"
	"github.com/cewiley/NACCIT-Intake/internal/session"
	"github.com/cewiley/NACCIT-Intake/internal/store"
	"github.com/cewiley/NACCIT-Intake/internal/tree"
	"github.com/cewiley/NACCIT-Intake/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
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

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize dependencies.
	archive, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize escalation archive", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := archive.Close(); closeErr != nil {
			slog.Error("Failed to close archive", "error", closeErr)
		}
	}()

	if err := archive.Ping(context.Background()); err != nil {
		slog.Error("Archive health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Escalation archive connected")

	// The tree definition is validated here, at load time; per-session
	// requests never re-validate it.
	decisionTree := tree.Default()

	sessions := session.NewMemoryStore()
	eng := engine.New(sessions, decisionTree)

	submitter := jira.NewClient(jira.Config{
		BaseURL:    cfg.Jira.BaseURL,
		Email:      cfg.Jira.Email,
		APIToken:   cfg.Jira.APIToken,
		ProjectKey: cfg.Jira.ProjectKey,
		IssueType:  cfg.Jira.IssueType,
	}, nil)

	assembler := escalate.New(sessions, submitter, archive, escalate.Config{
		NotifyEmail:      cfg.NotifyEmail,
		SubjectPrefix:    cfg.SubjectPrefix,
		LoginTicketURL:   cfg.LoginTicketURL,
		LoginTicketLabel: cfg.LoginTicketLabel,
	})

	// Initialize handlers.
	intakeHandler := api.NewIntakeHandler(eng, assembler, archive)
	healthHandler := api.NewHealthHandler(archive)
	wsHandler := chat.NewWebSocketHandler(eng, assembler, cfg.FrontendURL, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	healthHandler.RegisterHealth(r)
	intakeHandler.RegisterRoutes(r)

	// WebSocket chat transport.
	r.Get("/ws/chat", wsHandler.ServeHTTP)

	// Serve embedded frontend.
	r.Handle("/*", web.Handler())

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start session TTL worker.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session.StartTTLWorker(ctx, sessions, cfg.SessionTTL)

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
