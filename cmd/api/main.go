package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/placement-portal-api/internal/config"
	"github.com/noah-isme/placement-portal-api/internal/database"
	"github.com/noah-isme/placement-portal-api/internal/handler"
	"github.com/noah-isme/placement-portal-api/internal/logger"
	"github.com/noah-isme/placement-portal-api/internal/middleware"
	"github.com/noah-isme/placement-portal-api/internal/repository"
	"github.com/noah-isme/placement-portal-api/internal/router"
	"github.com/noah-isme/placement-portal-api/internal/service"
	cloud "github.com/noah-isme/placement-portal-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to access database pool")
	}
	defer sqlDB.Close()

	if cfg.AutoMigrate {
		if err := database.RunMigrations(sqlDB, appLogger); err != nil {
			appLogger.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	probes := []handler.HealthProbe{{Name: "database", Check: database.PingPostgres(db)}}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			appLogger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		probes = append(probes, handler.HealthProbe{Name: "redis", Check: database.PingRedis(redisClient)})
	} else {
		appLogger.Warn().Msg("redis not configured, caches and cross-node events disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			appLogger.Fatal().Err(err).Msg("failed to connect to nats")
		}
		defer natsConn.Close()
	}

	var storage service.FileStorage
	cloudCfg := cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}
	if cloudCfg.Enabled() {
		store, err := cloud.New(cloudCfg, appLogger)
		if err != nil {
			appLogger.Fatal().Err(err).Msg("failed to create cloudinary client")
		}
		storage = store
	} else {
		appLogger.Warn().Msg("cloudinary not configured, resume uploads disabled")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	studentRepo := repository.NewStudentRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	adminStudentRepo := repository.NewAdminStudentRepository(db)
	noticeRepo := repository.NewNoticeRepository(db)
	statisticsRepo := repository.NewStatisticsRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	statisticsService := service.NewStatisticsService(statisticsRepo, redisClient, cfg.StatisticsCacheTTL, appLogger)
	authService := service.NewAuthService(studentRepo, adminRepo, validate, service.AuthConfig{
		Secret:        cfg.JWTSecret,
		TTL:           cfg.JWTTTL,
		AdminUsername: cfg.AdminUsername,
		Statistics:    statisticsService,
	}, appLogger)
	activityService := service.NewActivityService(activityRepo, appLogger)
	noticeEvents := service.NewNoticeEvents(redisClient, cfg.EventsChannel, natsConn, appLogger)
	noticeService := service.NewNoticeService(noticeRepo, studentRepo, validate, service.NoticeServiceConfig{
		Cache:        redisClient,
		CompaniesTTL: cfg.CompaniesCacheTTL,
		Events:       noticeEvents,
		Activity:     activityService,
		Statistics:   statisticsService,
	}, appLogger)
	profileService := service.NewStudentProfileService(studentRepo, validate, appLogger)
	resumeService := service.NewResumeService(storage, studentRepo, cfg.UploadMaxMB, appLogger)
	adminStudentService := service.NewAdminStudentService(adminStudentRepo, validate, activityService, statisticsService, appLogger)

	ensureAdmin(authService, cfg, appLogger)

	eventsCtx, stopEvents := context.WithCancel(context.Background())
	defer stopEvents()
	noticeEvents.Start(eventsCtx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.UploadMaxMB + 1) * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{Logger: &appLogger, AllowOrigins: cfg.CORSAllowOrigins})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:          handler.NewAuthHandler(authService, middleware.RateLimit("login", cfg.LoginRateLimitMax, cfg.LoginRateLimitWindow), appLogger),
		NoticeHandler:        handler.NewNoticeHandler(noticeService, appLogger),
		NoticeLiveHandler:    handler.NewNoticeLiveHandler(noticeService, 30*time.Second, appLogger),
		StudentHandler:       handler.NewStudentHandler(profileService, resumeService, appLogger),
		AdminStudentHandler:  handler.NewAdminStudentHandler(adminStudentService, statisticsService, appLogger),
		AdminActivityHandler: handler.NewAdminActivityHandler(activityService, appLogger),
		HealthProbes:         probes,
		JWTMiddleware:        middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			appLogger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, appLogger)
}

func ensureAdmin(auth service.AuthService, cfg config.Config, logger zerolog.Logger) {
	if cfg.AdminPassword == "" {
		logger.Warn().Str("username", cfg.AdminUsername).Msg("admin password not configured, skipping admin bootstrap")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	created, err := auth.EnsureAdmin(ctx, service.AdminSeed{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure admin account")
	}
	if created {
		logger.Info().Str("username", cfg.AdminUsername).Msg("admin account bootstrapped")
	}
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
