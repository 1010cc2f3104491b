package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/thecloudsteward/proposals/config"
	"github.com/thecloudsteward/proposals/pkg/api/handlers"
	"github.com/thecloudsteward/proposals/pkg/cache"
	"github.com/thecloudsteward/proposals/pkg/email"
	"github.com/thecloudsteward/proposals/pkg/jobs"
	"github.com/thecloudsteward/proposals/pkg/logger"
	"github.com/thecloudsteward/proposals/pkg/metrics"
	custommiddleware "github.com/thecloudsteward/proposals/pkg/middleware"
	"github.com/thecloudsteward/proposals/pkg/pages"
	"github.com/thecloudsteward/proposals/pkg/payments"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Printf("🔧 Configuration loaded (environment: %s)", cfg.APIEnvironment)

	appLogger := logger.New(cfg.LogLevel)

	// Initialize Sentry for error tracking
	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.SentryEnvironment,
			AttachStacktrace: true,
		})
		if err != nil {
			log.Printf("⚠️  Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s)", cfg.SentryEnvironment)
			defer sentry.Flush(2 * time.Second)
		}
	} else {
		log.Printf("ℹ️  Sentry disabled (no DSN configured)")
	}

	// Initialize Redis (page store backend)
	redisClient, err := cache.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Printf("✅ Redis connected")

	// Initialize Prometheus metrics
	prometheusMetrics := metrics.New()

	// Initialize services
	pageStore := pages.NewStore(redisClient, cfg.SiteURL)
	emailService := email.NewService(cfg.EmailFrom, cfg.EmailFromName, cfg.SendGridAPIKey)

	stripeClient := payments.NewClient(
		cfg.StripeSecretKey,
		cfg.StripeWebhookSecret,
		time.Duration(cfg.StripeTimeoutSeconds)*time.Second,
	)
	paymentService := payments.NewService(stripeClient, pageStore, &payments.Config{
		SiteURL:         cfg.SiteURL,
		TrialPeriodDays: cfg.SubscriptionTrialDays,
	}, appLogger, prometheusMetrics)
	webhookService := payments.NewWebhookService(stripeClient, emailService, appLogger, prometheusMetrics)

	// Initialize cron manager for the expired-page janitor
	cronManager := jobs.NewCronManager(pageStore, prometheusMetrics, log.Default())
	if err := cronManager.SetupJobs(); err != nil {
		log.Fatalf("❌ Failed to setup cron jobs: %v", err)
	}
	cronManager.Start()
	log.Printf("✅ Cron jobs started (daily expired-page purge)")

	// Initialize handlers
	pageHandler := handlers.NewPageHandler(pageStore, prometheusMetrics)
	checkoutHandler := handlers.NewCheckoutHandler(paymentService)
	webhookHandler := handlers.NewWebhookHandler(webhookService)
	adminHandler := handlers.NewAdminHandler(pageStore)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Rate limiters
	globalRateLimiter := custommiddleware.NewRateLimiter(cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst)
	webhookRateLimiter := custommiddleware.NewRateLimiter(100, 20) // Stripe retries burst

	// Global middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Printf("[%s] %s - Status: %d", c.Request().Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	if cfg.SentryDSN != "" {
		e.Use(sentryecho.New(sentryecho.Options{
			Repanic: true,
		}))
	}

	e.Use(prometheusMetrics.Middleware())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSAllowedOrigins,
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"Stripe-Signature",
		},
	}))

	e.Use(middleware.Gzip())
	e.Use(middleware.Secure())
	e.Use(globalRateLimiter.RateLimitMiddleware())

	// Health and status endpoints (public)
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"name":        "Cloud Steward Proposals API",
			"status":      "running",
			"environment": cfg.APIEnvironment,
			"timestamp":   time.Now().Unix(),
		})
	})

	e.GET("/health", func(c echo.Context) error {
		if err := redisClient.Redis.Ping(c.Request().Context()).Err(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]any{
				"status": "unhealthy",
				"store":  "down",
			})
		}
		return c.JSON(http.StatusOK, map[string]any{
			"status": "healthy",
			"store":  "up",
		})
	})

	// Prometheus metrics endpoint (public)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// API routes
	api := e.Group("/api")
	api.GET("/pages/:slug", pageHandler.GetPage)
	api.POST("/create-checkout-session", checkoutHandler.CreateCheckoutSession)
	api.GET("/order/success", checkoutHandler.OrderSuccess)
	// Stripe webhook with its own rate limit bucket
	api.POST("/stripe/webhook", webhookHandler.HandleStripeWebhook, webhookRateLimiter.RateLimitMiddleware())

	// Admin routes (shared-token guarded)
	admin := api.Group("/admin", custommiddleware.AdminAuth(cfg.AdminAPIToken))
	admin.POST("/pages", adminHandler.CreatePage)
	admin.PUT("/pages/:slug", adminHandler.UpdatePage)
	admin.DELETE("/pages/:slug", adminHandler.DeletePage)

	// Start server
	address := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	log.Printf("🚀 Proposals API starting on %s", address)
	log.Printf("🛡️  Rate limiting: %d req/min (burst: %d), webhook 100/min", cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst)
	if cfg.SubscriptionTrialDays > 0 {
		log.Printf("🗓️  Bundled subscriptions start with a %d-day trial", cfg.SubscriptionTrialDays)
	}

	// Graceful shutdown
	go func() {
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	cronManager.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server gracefully stopped")
}
