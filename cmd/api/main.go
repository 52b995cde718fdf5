// Package main is the entry point for the API server.
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

	"github.com/Raikadier/Captus-sub002/internal/ai"
	"github.com/Raikadier/Captus-sub002/internal/config"
	"github.com/Raikadier/Captus-sub002/internal/handler"
	"github.com/Raikadier/Captus-sub002/internal/llm"
	"github.com/Raikadier/Captus-sub002/internal/middleware"
	natsclient "github.com/Raikadier/Captus-sub002/internal/nats"
	"github.com/Raikadier/Captus-sub002/internal/service"
	"github.com/Raikadier/Captus-sub002/internal/store"
	"github.com/Raikadier/Captus-sub002/internal/tool"
	"github.com/Raikadier/Captus-sub002/pkg/logger"
	"github.com/Raikadier/Captus-sub002/pkg/tracing"
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

	log.Info("starting API server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "captus-ai", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Open storage
	st, err := store.Open(cfg.DatabasePath, log)
	if err != nil {
		log.Error("failed to open store", zap.Error(err))
		os.Exit(1)
	}
	defer st.Close()

	// Connect to NATS when configured. Notification fan-out is optional;
	// the assistant runs without it.
	var nc *natsclient.Client
	var notifier *natsclient.Notifier
	if cfg.NATSURL != "" {
		nc, err = natsclient.Connect(natsclient.Config{
			URL:   cfg.NATSURL,
			Token: cfg.NATSToken,
		}, log)
		if err != nil {
			log.Warn("failed to connect to NATS, notifications disabled", zap.Error(err))
		} else {
			defer nc.Close()
			notifier = natsclient.NewNotifier(nc)
			if err := notifier.EnsureStream(ctx); err != nil {
				log.Warn("failed to ensure notification stream", zap.Error(err))
			}
		}
	}

	// Initialize LLM client
	var llmClient llm.Client
	if cfg.AnthropicAPIKey != "" {
		llmClient, err = llm.NewClient(llm.ProviderAnthropic, cfg.AnthropicAPIKey)
	} else if cfg.OpenAIAPIKey != "" {
		llmClient, err = llm.NewClient(llm.ProviderOpenAI, cfg.OpenAIAPIKey)
	} else {
		log.Error("no LLM API key configured")
		os.Exit(1)
	}
	if err != nil {
		log.Error("failed to create LLM client", zap.Error(err))
		os.Exit(1)
	}
	llmClient = llm.WithRetry(llmClient, cfg.LLMTimeout, cfg.LLMMaxElapsed)

	// Assemble the orchestration core
	registry := tool.NewRegistry(st, notifier, log)
	contexts := ai.NewContextProvider(st, log)
	router := ai.NewRouter(llmClient, cfg.FastModel, log)
	orchestrator := ai.NewOrchestrator(ai.Params{
		Reasoning:      llmClient,
		Fast:           llmClient,
		ReasoningModel: cfg.ReasoningModel,
		FastModel:      cfg.FastModel,
	}, registry, contexts, log)

	// Initialize services
	chatSvc := service.NewChatService(st, router, orchestrator, log)
	conversationSvc := service.NewConversationService(st, cfg.RetentionWindow, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(st, nc)
	chatHandler := handler.NewChatHandler(chatSvc, log)
	conversationHandler := handler.NewConversationHandler(conversationSvc, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS())

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes with authentication
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.UserRateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Post("/ai/chat", chatHandler.Chat)

		r.Route("/conversations", func(r chi.Router) {
			r.Get("/", conversationHandler.List)
			r.Get("/{id}/messages", conversationHandler.Messages)
		})
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
