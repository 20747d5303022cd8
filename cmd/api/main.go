// cmd/api/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/ai4local/ai4local/internal/aiclient"
	"github.com/ai4local/ai4local/internal/auth"
	"github.com/ai4local/ai4local/internal/config"
	"github.com/ai4local/ai4local/internal/database"
	"github.com/ai4local/ai4local/internal/email"
	gql "github.com/ai4local/ai4local/internal/graphql"
	"github.com/ai4local/ai4local/internal/handler"
	"github.com/ai4local/ai4local/internal/httpserver"
	"github.com/ai4local/ai4local/internal/logging"
	"github.com/ai4local/ai4local/internal/ratelimit"
	"github.com/ai4local/ai4local/internal/repository"
	"github.com/ai4local/ai4local/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize structured logger
	logger, err := logging.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	// Initialize database
	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("setting up database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	tx := repository.NewTransactor(db)

	// Initialize auth services
	passwordHasher := auth.NewPasswordHasher()
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiryPeriod)

	// Initialize email service
	emailService, err := email.NewEmailService(cfg, email.Provider(cfg.Email.Provider))
	if err != nil {
		return fmt.Errorf("initializing email service: %w", err)
	}

	// Initialize cache service
	cacheService := service.NewCacheService(service.CacheConfig{
		TTL:         10 * time.Second,
		CleanupFreq: time.Minute,
	})
	defer cacheService.Close()

	// Initialize rate limiter
	limiter, closeLimiter, err := setupLimiter(cfg)
	if err != nil {
		return err
	}
	defer closeLimiter()

	// Initialize AI client
	aiClient := aiclient.NewClient(&aiclient.Config{
		BaseURL:       cfg.AI.ServiceURL,
		HTTPClient:    &http.Client{},
		Timeout:       cfg.AI.Timeout,
		HealthTimeout: cfg.AI.HealthTimeout,
	})

	// Initialize services
	activityService := service.NewActivityService(repository.NewActivityLogRepository(db))
	userService := service.NewUserService(userRepo, orgRepo, tx, passwordHasher, tokenManager, emailService, cfg)
	customerService := service.NewCustomerService(repository.NewCustomerRepository(db), tx, activityService)
	campaignService := service.NewCampaignService(repository.NewCampaignRepository(db), tx, activityService, aiClient)
	aiService := service.NewAIService(aiClient, cacheService)

	schema, err := gql.NewSchema(gql.Services{
		Users:     userService,
		Customers: customerService,
		Campaigns: campaignService,
	})
	if err != nil {
		return fmt.Errorf("building graphql schema: %w", err)
	}

	// Initialize handlers
	router := handler.NewRouter(handler.Handlers{
		Auth:      handler.NewAuthHandler(userService),
		Customers: handler.NewCustomerHandler(customerService),
		Campaigns: handler.NewCampaignHandler(campaignService),
		Products:  handler.NewProductHandler(service.NewProductService(repository.NewProductRepository(db), tx, activityService)),
		Courses:   handler.NewCourseHandler(service.NewCourseService(repository.NewCourseRepository(db), tx, activityService)),
		Payments:  handler.NewPaymentHandler(service.NewPaymentService(repository.NewPaymentRepository(db), tx, activityService)),
		Activity:  handler.NewActivityHandler(activityService),
		AI:        handler.NewAIHandler(aiService),
		System:    handler.NewSystemHandler(db, aiService, cfg.Server.StaticDir),
		GraphQL:   gql.NewHandler(&schema, tokenManager, cfg.IsDevelopment()),
	}, handler.RouterOptions{
		Logger:         logger,
		TokenManager:   tokenManager,
		Limiter:        limiter,
		CORSOrigins:    cfg.Server.CORSOrigins,
		RequestTimeout: cfg.Server.WriteTimeout,
	})

	srv := httpserver.New(":"+cfg.Server.Port, router, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)

	logger.Info("server starting", "port", cfg.Server.Port, "env", cfg.Env, "ai_service", cfg.AI.ServiceURL)
	return httpserver.Run(srv, logger)
}

// setupLimiter uses Redis when REDIS_URL is set and process memory otherwise.
func setupLimiter(cfg *config.Config) (ratelimit.Limiter, func(), error) {
	if cfg.Redis.URL == "" {
		l := ratelimit.NewMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
		return l, l.Stop, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rdb, err := ratelimit.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to redis: %w", err)
	}
	l := ratelimit.NewRedisLimiter(rdb, "ai4local:ratelimit", cfg.RateLimit.Requests, cfg.RateLimit.Window)
	return l, func() { rdb.Close() }, nil
}
