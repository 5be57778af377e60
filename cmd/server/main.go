package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/booknest/booknest-server/internal/config"
	"github.com/booknest/booknest-server/internal/database"
	"github.com/booknest/booknest-server/internal/handlers"
	"github.com/booknest/booknest-server/internal/logging"
	"github.com/booknest/booknest-server/internal/middleware"
	"github.com/booknest/booknest-server/internal/ratelimit"
	"github.com/booknest/booknest-server/internal/routes"
	"github.com/booknest/booknest-server/internal/services"
	"github.com/booknest/booknest-server/internal/session"
	"github.com/booknest/booknest-server/internal/storage"
	"github.com/booknest/booknest-server/internal/validation"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	stdout := logging.NewStdoutHandler(cfg.LogLevel)
	pgLogHandler := logging.NewPGHandler(database.DB, 5*time.Second, slog.New(stdout))
	slog.SetDefault(slog.New(logging.NewMultiHandler(stdout, pgLogHandler)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	// Session revocation and the shared auth rate limit live in Redis when
	// it is configured; otherwise they stay in-process.
	var revoker session.Revoker = session.NewMemoryRevoker()
	var authLimiter middleware.QuotaTaker
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		revoker = session.NewRedisRevoker(redisClient)

		quota, err := ratelimit.NewQuota(redisClient, "booknest:ratelimit:auth", cfg.AuthRateLimitPerMin, time.Minute)
		if err != nil {
			slog.Error("auth rate limiter init failed", "error", err)
			os.Exit(1)
		}
		authLimiter = quota
		slog.Info("redis enabled", "addr", cfg.RedisAddr)
	}

	// Image hosting
	store, err := storage.NewMinioStore(context.Background(), storage.MinioOptions{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	})
	if err != nil {
		slog.Error("object store init failed", "error", err)
		os.Exit(1)
	}

	// Services
	validator := validation.New()
	profileService := services.NewProfileService(database.DB)
	googleVerifier := services.NewGoogleJWKSClient("", cfg.GoogleAudiences())
	authService := services.NewAuthService(database.DB, cfg, googleVerifier, revoker, profileService)
	imageService := services.NewImageService(store, cfg.MinioPublicURL, cfg.UploadMaxBytes, cfg.ImageMaxPixels, cfg.ImageSize)
	postService := services.NewPostService(database.DB, profileService, imageService)
	applicationService := services.NewApplicationService(database.DB, profileService, imageService)
	messageService := services.NewMessageService(database.DB, profileService, cfg.Location())
	dashboardService := services.NewDashboardService(database.DB, profileService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, validator)
	healthHandler := handlers.NewHealthHandler(database.DB)
	legalHandler := handlers.NewLegalHandler(cfg.AppName)
	profileHandler := handlers.NewProfileHandler(profileService, validator)
	postHandler := handlers.NewPostHandler(postService, applicationService, validator)
	applicationHandler := handlers.NewApplicationHandler(applicationService, validator)
	messageHandler := handlers.NewMessageHandler(messageService, validator)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	uploadHandler := handlers.NewUploadHandler(imageService)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Multipart uploads need headroom over the image limit.
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		BodyLimit:    int(cfg.UploadMaxBytes) + 1024*1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "no-referrer")
		return c.Next()
	})

	routes.Setup(app, cfg, revoker, authLimiter,
		authHandler, healthHandler, legalHandler,
		profileHandler, postHandler, applicationHandler,
		messageHandler, dashboardHandler, uploadHandler,
	)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "app", cfg.AppName)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}

	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error",
			"method", c.Method(),
			"path", c.Path(),
			"error", err.Error(),
			"request_id", c.Locals("requestid"),
		)
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
