// Package main is the entry point for the bot.
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
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mazdakdev/mattermost-clickup-bot/internal/clickup"
	"github.com/mazdakdev/mattermost-clickup-bot/internal/config"
	"github.com/mazdakdev/mattermost-clickup-bot/internal/handler"
	"github.com/mazdakdev/mattermost-clickup-bot/internal/mattermost"
	"github.com/mazdakdev/mattermost-clickup-bot/internal/middleware"
	"github.com/mazdakdev/mattermost-clickup-bot/internal/model"
	natsclient "github.com/mazdakdev/mattermost-clickup-bot/internal/nats"
	"github.com/mazdakdev/mattermost-clickup-bot/internal/session"
	"github.com/mazdakdev/mattermost-clickup-bot/internal/workflow"
	"github.com/mazdakdev/mattermost-clickup-bot/pkg/logger"
	"github.com/mazdakdev/mattermost-clickup-bot/pkg/metrics"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting bot")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to NATS when configured; the audit stream is optional.
	var events workflow.EventPublisher
	var natsConn *natsclient.Client
	if cfg.NATSURL != "" {
		natsConn, err = natsclient.Connect(ctx, natsclient.Config{
			URL:   cfg.NATSURL,
			Token: cfg.NATSToken,
		}, log)
		if err != nil {
			log.Error("failed to connect to NATS", zap.Error(err))
			os.Exit(1)
		}
		defer natsConn.Close()

		publisher := natsclient.NewEventPublisher(natsConn)
		if err := publisher.EnsureStream(ctx); err != nil {
			log.Error("failed to ensure stream", zap.Error(err))
			os.Exit(1)
		}
		events = publisher
	}

	// Initialize services
	clickupClient := clickup.NewClient(clickup.Config{
		APIToken: cfg.ClickUpAPIToken,
		BaseURL:  cfg.ClickUpBaseURL,
		Timeout:  cfg.ClickUpTimeout,
	}, log)

	sessions := session.NewMemoryStore()
	engine := workflow.NewEngine(sessions, clickupClient, events, log)

	serverURL := fmt.Sprintf("%s:%d", cfg.MattermostURL, cfg.MattermostPort)
	chat := mattermost.NewClient(serverURL, cfg.BotToken, log)

	// Initialize handlers
	var natsChecker handler.ConnChecker
	if natsConn != nil {
		natsChecker = natsConn
	}
	healthHandler := handler.NewHealthHandler(chat, natsChecker, cfg.ClickUpAPIToken != "")

	// Create router
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("health server listening", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Run the event loop until a shutdown signal arrives.
	dispatch := func(ctx context.Context, msg model.InboundMessage) []string {
		replies := engine.HandleMessage(ctx, msg)
		metrics.RepliesTotal.Add(float64(len(replies)))
		return replies
	}

	if err := chat.Listen(ctx, dispatch); err != nil && ctx.Err() == nil {
		log.Error("event loop terminated", zap.Error(err))
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("bot stopped")
}
