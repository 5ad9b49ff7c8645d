package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/clinic-admin-api/internal/config"
	"github.com/noah-isme/clinic-admin-api/internal/database"
	"github.com/noah-isme/clinic-admin-api/internal/dto"
	"github.com/noah-isme/clinic-admin-api/internal/handler"
	"github.com/noah-isme/clinic-admin-api/internal/middleware"
	"github.com/noah-isme/clinic-admin-api/internal/models"
	"github.com/noah-isme/clinic-admin-api/internal/observability"
	"github.com/noah-isme/clinic-admin-api/internal/repository"
	"github.com/noah-isme/clinic-admin-api/internal/router"
	"github.com/noah-isme/clinic-admin-api/internal/service"
)

func main() {
	startTime := time.Now()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.ActivityLog{}, &models.SystemLog{}, &models.ContentFlag{}, &models.ModerationAction{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Redis is optional; without it analytics snapshots are memoized in-process.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, analytics cache is in-process only")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	latency := observability.NewLatencyTracker()

	activityRepo := repository.NewActivityLogRepository(db)
	systemLogRepo := repository.NewSystemLogRepository(db)
	flagRepo := repository.NewFlagRepository(db)
	counterSource := repository.NewCRUDCounterSource(db)

	activityService := service.NewActivityLogService(activityRepo, validate, cfg.LogRetentionDays, logger)
	systemLogService := service.NewSystemLogService(systemLogRepo, validate, cfg.LogRetentionDays, logger)
	analyticsService := service.NewAnalyticsService(activityRepo, systemLogRepo, counterSource, redisClient, cfg.AnalyticsCacheTTL, latency, startTime, logger)
	moderationService := service.NewModerationService(flagRepo, validate, systemLogService, logger)
	exportService := service.NewExportService(activityRepo, systemLogRepo, validate, logger)
	dashboardService := service.NewDashboardService(analyticsService, activityService, systemLogService, moderationService, activityRepo, systemLogRepo, cfg.Health, startTime, logger)
	retentionService := service.NewRetentionService(activityRepo, systemLogRepo, cfg.LogRetentionDays, cfg.MaxLogEntries, logger)

	activityHandler := handler.NewActivityLogHandler(activityService, logger)
	systemLogHandler := handler.NewSystemLogHandler(systemLogService, logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, analyticsService, logger)
	moderationHandler := handler.NewModerationHandler(moderationService, logger)
	exportHandler := handler.NewExportHandler(exportService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, Latency: latency})
	router.Register(app, cfg, router.Dependencies{
		ActivityLogHandler: activityHandler,
		SystemLogHandler:   systemLogHandler,
		DashboardHandler:   dashboardHandler,
		ModerationHandler:  moderationHandler,
		ExportHandler:      exportHandler,
	})

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go runRetentionSweeps(sweepCtx, retentionService, cfg.RetentionSweep, logger)

	recordStartup(systemLogService, cfg, logger)

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

// recordStartup writes a boot marker into the system log so restarts show up
// in the admin timeline.
func recordStartup(events service.SystemEventRecorder, cfg config.Config, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := events.Record(ctx, dto.SystemLogCreateRequest{
		Level:     string(models.SeverityInfo),
		Component: "startup",
		Message:   "admin api started",
		Metadata: map[string]interface{}{
			"environment": cfg.AppEnv,
			"port":        cfg.AppPort,
		},
	}); err != nil {
		logger.Warn().Err(err).Msg("failed to record startup event")
	}
}

func runRetentionSweeps(ctx context.Context, retention service.RetentionService, interval time.Duration, logger zerolog.Logger) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := retention.Sweep(ctx); err != nil {
				logger.Error().Err(err).Msg("retention sweep failed")
			}
		}
	}
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
