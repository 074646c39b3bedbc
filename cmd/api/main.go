package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	openai "github.com/sashabaranov/go-openai"

	"github.com/inovatech/concierge/internal/api/router"
	appconfig "github.com/inovatech/concierge/internal/config"
	"github.com/inovatech/concierge/internal/conversation"
	"github.com/inovatech/concierge/internal/events"
	"github.com/inovatech/concierge/internal/http/handlers"
	"github.com/inovatech/concierge/internal/leads"
	"github.com/inovatech/concierge/internal/media"
	"github.com/inovatech/concierge/internal/messaging"
	"github.com/inovatech/concierge/internal/observability/metrics"
	"github.com/inovatech/concierge/internal/session"
	"github.com/inovatech/concierge/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting concierge API server", "env", cfg.Env, "port", cfg.Port)

	ctx := context.Background()

	// Persistence: Postgres when configured, in-memory otherwise (dev).
	var (
		pool         *pgxpool.Pool
		sessionStore session.Store
		leadsRepo    leads.Repository
	)
	if cfg.DatabaseURL != "" {
		var err error
		pool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open database pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		sessionStore = session.NewPostgresStore(pool)
		leadsRepo = leads.NewPostgresRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set; using in-memory stores")
		sessionStore = session.NewMemoryStore()
		leadsRepo = leads.NewInMemoryRepository()
	}

	// Webhook dedup is optional; without Redis redeliveries reach the AI.
	var dedup handlers.Deduper
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis not available; webhook dedup disabled", "error", err)
		} else {
			dedup = events.NewSeenStore(redisClient)
			defer func() { _ = redisClient.Close() }()
		}
	}

	// AI completion via OpenRouter's OpenAI-compatible API.
	completionCfg := openai.DefaultConfig(cfg.OpenRouterAPIKey)
	completionCfg.BaseURL = cfg.OpenRouterBaseURL
	gateway := conversation.NewGateway(
		openai.NewClientWithConfig(completionCfg),
		cfg.OpenRouterModel,
		logger.Component("gateway"),
	)

	// Speech-to-text goes to the OpenAI audio endpoint directly.
	var ingestor conversation.MediaIngestor
	if cfg.OpenAIAPIKey != "" {
		ingestor = media.NewIngestor(
			openai.NewClient(cfg.OpenAIAPIKey),
			cfg.ZAPIClientToken,
			cfg.TranscribeModel,
			logger.Component("media"),
		)
	} else {
		logger.Warn("OPENAI_API_KEY not set; audio messages will be ignored")
	}

	sender := messaging.NewZAPISender(cfg.ZAPIInstanceID, cfg.ZAPIToken, cfg.ZAPIClientToken, logger.Component("zapi"))

	convMetrics := metrics.NewConversationMetrics(nil)
	orchestrator := conversation.NewOrchestrator(
		gateway,
		ingestor,
		sessionStore,
		leadsRepo,
		sender,
		logger.Component("orchestrator"),
		conversation.WithSnoozeDuration(cfg.SnoozeDuration),
		conversation.WithMetrics(convMetrics),
	)

	r := router.New(&router.Config{
		Logger:             logger,
		ChatHandler:        handlers.NewChatHandler(gateway, leadsRepo, logger.Component("chat")),
		WhatsAppHandler:    handlers.NewWhatsAppHandler(orchestrator, dedup, logger.Component("whatsapp")),
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute, // webhook turns wait on the AI call
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
