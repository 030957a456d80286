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
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"

	"github.com/civicpulse/backend/internal/config"
	"github.com/civicpulse/backend/internal/database"
	"github.com/civicpulse/backend/internal/handlers"
	"github.com/civicpulse/backend/internal/id"
	"github.com/civicpulse/backend/internal/logging"
	"github.com/civicpulse/backend/internal/middleware"
	"github.com/civicpulse/backend/internal/realtime"
	"github.com/civicpulse/backend/internal/routes"
	"github.com/civicpulse/backend/internal/services"
	"github.com/civicpulse/backend/internal/store"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(!cfg.IsProduction())

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := id.Init(cfg.NodeID); err != nil {
		slog.Error("id generator init failed", "node_id", cfg.NodeID, "error", err)
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
	if err := database.Seed(database.DB); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	logging.WithSink(!cfg.IsProduction(), pgLogHandler)

	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.Env,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Realtime: local hub, optionally fanned out across instances through redis
	hub := realtime.NewHub()
	var channel realtime.Channel = hub
	realtimeMode := "local"
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		redisClient = redis.NewClient(opts)
		broker := realtime.NewRedisBroker(redisClient, cfg.RedisChannel, hub)
		go func() {
			if err := broker.Run(ctx); err != nil {
				slog.Error("realtime backplane stopped", "component", "realtime", "error", err)
			}
		}()
		channel = broker
		realtimeMode = "redis"
	}

	// Stores and services
	stores := store.NewStores(database.DB)
	authService := services.NewAuthService(stores.Users(), stores.RefreshTokens(), cfg)
	notificationService := services.NewNotificationService(stores.Notifications(), stores.Users(), channel)
	filter := services.NewContentFilter()
	reportService := services.NewReportService(stores.Reports(), stores.Categories(), filter, notificationService)
	lifecycleService := services.NewLifecycleService(stores.Reports(), stores.Operators(), stores.Categories(), notificationService)
	workflowService := services.NewWorkflowService(stores.Reports(), stores.Operators(), stores.Users(), notificationService)
	commentService := services.NewCommentService(stores.Comments(), stores.Reports(), filter, notificationService)
	directoryService := services.NewDirectoryService(stores.Operators(), stores.Categories())

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			slog.Error("admin bootstrap failed", "error", err)
			os.Exit(1)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestContext())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	routes.Setup(app, cfg, routes.Handlers{
		Auth:          handlers.NewAuthHandler(authService),
		Health:        handlers.NewHealthHandler(database.Ping, realtimeMode),
		Reports:       handlers.NewReportHandler(reportService, lifecycleService),
		Comments:      handlers.NewCommentHandler(commentService),
		Notifications: handlers.NewNotificationHandler(notificationService),
		Directory:     handlers.NewDirectoryHandler(directoryService),
		Workflow:      handlers.NewWorkflowHandler(workflowService),
		Admin:         handlers.NewAdminHandler(authService),
		Realtime:      realtime.NewHandler(hub, socketAuthenticator(authService)),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "realtime", realtimeMode)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	cancel()
	close(cleanupDone)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}

	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

// socketAuthenticator maps an access token to the user key and role rooms of a socket.
func socketAuthenticator(auth *services.AuthService) realtime.Authenticator {
	return func(token string) (realtime.Identity, error) {
		p, err := auth.ParseAccessToken(token)
		if err != nil {
			return realtime.Identity{}, err
		}
		roles := make([]string, 0, len(p.RoleTypes))
		for _, t := range p.RoleTypes {
			roles = append(roles, string(t))
		}
		return realtime.Identity{UserKey: p.ExternalID, Roles: roles}, nil
	}
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
		slog.ErrorContext(c.UserContext(), "unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
