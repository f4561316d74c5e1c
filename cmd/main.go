package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/gin-gonic/gin"

	"creator-marketplace/internal/auth"
	"creator-marketplace/internal/billing"
	"creator-marketplace/internal/cache"
	"creator-marketplace/internal/config"
	"creator-marketplace/internal/database"
	"creator-marketplace/internal/email"
	"creator-marketplace/internal/events"
	"creator-marketplace/internal/handlers"
	"creator-marketplace/internal/jobs"
	"creator-marketplace/internal/logging"
	"creator-marketplace/internal/repository"
	"creator-marketplace/internal/services"
	"creator-marketplace/internal/storage"
)

func main() {
	logger := logging.New("creator-marketplace")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fatal(logger, "failed to load configuration", err)
	}

	// Connect to database
	db, err := database.Connect(cfg.GetDSN())
	if err != nil {
		fatal(logger, "failed to connect to database", err)
	}

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		fatal(logger, "failed to run migrations", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo := repository.NewRepository(db)

	// Trade catalogue cache (optional)
	var trades *cache.TradeCache
	if cfg.Redis.URL != "" {
		client, err := cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			logger.Warn("redis unavailable, trade cache disabled", "error", err)
		} else {
			defer client.Close()
			trades = cache.NewTradeCache(client, cfg.Redis.TradeTTL)
		}
	}

	// Lifecycle events: Kafka when brokers are configured, otherwise the log
	var publisher events.Publisher = events.NewLogPublisher(logger)
	if len(cfg.Kafka.Brokers) > 0 {
		kafka, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			fatal(logger, "failed to create kafka publisher", err)
		}
		defer kafka.Close()
		publisher = kafka
		logger.Info("publishing events to kafka", "topic", cfg.Kafka.Topic)
	}

	// AWS: SES for email, S3 for uploads
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		fatal(logger, "failed to load aws configuration", err)
	}
	var sender email.Sender = email.NewLogSender(logger)
	if cfg.AWS.SESFromEmail != "" {
		sender = email.NewSESSender(awsCfg, cfg.AWS.SESFromEmail, cfg.AWS.SESReplyTo)
	} else {
		logger.Warn("SES_FROM_EMAIL not set, emails will only be logged")
	}
	uploader := storage.NewUploader(awsCfg, cfg.AWS.UploadsBucket)

	// Payments (optional)
	var billingClient billing.Client
	if cfg.Stripe.SecretKey != "" {
		billingClient = billing.NewStripeClient(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)
		if cfg.Stripe.WebhookSecret == "" {
			logger.Warn("STRIPE_WEBHOOK_SECRET not set, webhooks will be rejected")
		}
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set, billing disabled")
	}

	// Initialize services
	notifier := services.NewNotificationService(repo, sender, cfg.Server.AppURL, logger)
	profiles := services.NewProfileService(repo, trades, logger)
	briefs := services.NewBriefService(repo, publisher, logger)
	applications := services.NewApplicationService(repo, notifier, publisher, logger)
	search := services.NewSearchService(repo)
	subscriptions := services.NewSubscriptionService(repo, billingClient, cfg.Plans, cfg.Stripe, notifier, publisher, logger)

	// Start brief match notifier
	matchJob := jobs.NewMatchNotifierJob(notifier, cfg.Jobs.MatchNotifyInterval, logger)
	matchJob.Start(ctx)

	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(handlers.Dependencies{
		Logger:         logger,
		Verifier:       auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		Authorizer:     auth.NewAuthorizer(),
		Profiles:       profiles,
		Briefs:         briefs,
		Applications:   applications,
		Search:         search,
		Subscriptions:  subscriptions,
		Uploader:       uploader,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fatal(logger, "failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	select {
	case <-matchJob.Done():
	case <-shutdownCtx.Done():
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("server exited")
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
