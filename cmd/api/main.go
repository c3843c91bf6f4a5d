package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"lifecourse/api/internal/billing"
	"lifecourse/api/internal/cache"
	"lifecourse/api/internal/config"
	"lifecourse/api/internal/database"
	"lifecourse/api/internal/handlers"
	"lifecourse/api/internal/jobs"
	"lifecourse/api/internal/log"
	"lifecourse/api/internal/mail"
	"lifecourse/api/internal/repository"
	"lifecourse/api/internal/security"
	"lifecourse/api/internal/server"
	"lifecourse/api/internal/service"
	"lifecourse/api/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	if err := database.Migrate(ctx, dbPool); err != nil {
		logger.Fatal().Err(err).Msg("database migration failed")
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}
	if err := objectStore.EnsureBucket(ctx); err != nil {
		logger.Warn().Err(err).Msg("ensure bucket failed")
	}

	users := repository.NewUserRepository(dbPool)
	sessions := repository.NewSessionRepository(dbPool)
	reflections := repository.NewReflectionRepository(dbPool)

	mailer := mail.NewEnqueuer(redisClient, cfg.Mail)
	billingClient := billing.NewClient(cfg.Payment)
	mediaCipher := security.NewMediaCipher(cfg.Security.MediaSecret)

	authService := service.NewAuthService(users, redisClient, mailer, billingClient, cfg, logger)
	courseService := service.NewCourseService(users, sessions, mediaCipher, cfg, logger)
	adminService := service.NewAdminService(users, sessions, cfg, logger)
	mediaService := service.NewMediaService(sessions, objectStore, logger)
	reflectionService := service.NewReflectionService(reflections, users, sessions, logger)

	bootCtx, bootCancel := context.WithTimeout(ctx, 30*time.Second)
	if err := authService.EnsureSuperAdmin(bootCtx); err != nil {
		logger.Error().Err(err).Msg("super admin bootstrap failed")
	}
	if err := courseService.EnsureCatalog(bootCtx); err != nil {
		logger.Error().Err(err).Msg("catalog seed failed")
	}
	bootCancel()

	handlerSet := handlers.New(handlers.Deps{
		Cfg:         cfg,
		Log:         logger,
		DB:          dbPool,
		Cache:       redisClient,
		Auth:        authService,
		Courses:     courseService,
		Admin:       adminService,
		Media:       mediaService,
		Reflections: reflectionService,
		Billing:     billingClient,
		Users:       users,
	})
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(adminService, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, dbPool, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *pgxpool.Pool, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("forced shutdown failed")
		}
	}

	scheduler.Stop()

	db.Close()
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}
