package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bot-pedidos/internal/business"
	"bot-pedidos/internal/cache"
	"bot-pedidos/internal/channel"
	"bot-pedidos/internal/config"
	"bot-pedidos/internal/convo"
	"bot-pedidos/internal/httpserver"
	"bot-pedidos/internal/kb"
	"bot-pedidos/internal/llm"
	"bot-pedidos/internal/logging"
	"bot-pedidos/internal/metrics"
	"bot-pedidos/internal/repo"
	"bot-pedidos/internal/session"
	"bot-pedidos/internal/webhook"
	"bot-pedidos/migrations"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting bot-pedidos", "env", cfg.AppEnv, "channel", cfg.ChannelProvider)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricRegistry := metrics.Registry(cfg.MetricsNamespace)

	var repository repo.Repository
	switch cfg.DatabaseDriver {
	case "postgres":
		repository, err = repo.NewPostgres(ctx, cfg.DatabaseURL, logger)
	case "sqlite":
		repository, err = repo.NewSQLite(ctx, cfg.SQLitePath, logger)
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	defer repository.Close()

	if err := repository.RunMigrations(ctx, migrations.Files); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrated", "driver", cfg.DatabaseDriver)

	redisClient := cache.New(cache.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		UseTLS:   cfg.RedisTLS,
	}, logger)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("failed closing redis", "error", err)
		}
	}()
	if err := redisClient.Ping(ctx); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}

	sessions := session.NewStore(redisClient, cfg.SessionTTL, cfg.DedupTTL, logger)

	profile, err := business.Load(cfg.BusinessConfigPath, logger)
	if err != nil {
		return fmt.Errorf("load business profile: %w", err)
	}

	knowledge, err := kb.Load(cfg.KnowledgeBasePath, logger)
	if err != nil {
		return fmt.Errorf("load knowledge base: %w", err)
	}

	generator, err := llm.New(llm.Config{
		Provider:  cfg.LLMProvider,
		APIKey:    cfg.LLMAPIKey,
		Model:     cfg.LLMModel,
		BaseURL:   cfg.LLMBaseURL,
		Timeout:   cfg.LLMTimeout,
		MaxTokens: cfg.LLMMaxTokens,
	}, metricRegistry, logger)
	if err != nil {
		return fmt.Errorf("init llm gateway: %w", err)
	}
	if cfg.LLMCacheTTL > 0 && generator.Name() != "disabled" {
		generator = llm.NewCached(generator, redisClient, cfg.LLMCacheTTL, logger)
	}

	var sender channel.Sender
	switch cfg.ChannelProvider {
	case "meta":
		sender = channel.NewMetaSender(channel.MetaConfig{
			AccessToken: cfg.WhatsAppAccessToken,
			PhoneID:     cfg.WhatsAppPhoneID,
			BaseURL:     cfg.WhatsAppAPIBaseURL,
			Timeout:     cfg.SendTimeout,
		}, metricRegistry, logger)
	case "twilio":
		sender, err = channel.NewTwilioSender(channel.TwilioConfig{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
			FromNumber: cfg.TwilioFromNumber,
		}, metricRegistry, logger)
		if err != nil {
			return fmt.Errorf("init twilio sender: %w", err)
		}
	default:
		return fmt.Errorf("unsupported channel provider %q", cfg.ChannelProvider)
	}

	engine := convo.NewEngine(convo.Dependencies{
		Store:     repository,
		Sessions:  sessions,
		Sender:    sender,
		Knowledge: knowledge,
		Generator: generator,
		Profile:   profile,
		Metrics:   metricRegistry,
		Logger:    logger,
	})

	webhookHandler := webhook.NewMetaHandler(cfg.WhatsAppVerifyToken, engine, metricRegistry, logger)

	httpSrv := httpserver.New(cfg.HTTPListenAddr, logger, metricRegistry, httpserver.Handlers{
		WebhookVerify:  webhookHandler.Verify,
		WebhookReceive: webhookHandler.Receive,
	}, httpserver.Dependencies{
		Repository: repository,
		Redis:      redisClient,
		Knowledge:  knowledge,
	}, cfg.PublicBasePath)

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Start(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	return nil
}
