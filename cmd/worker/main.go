package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lifecourse/api/internal/cache"
	"lifecourse/api/internal/config"
	"lifecourse/api/internal/log"
	"lifecourse/api/internal/mail"
	"lifecourse/api/internal/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	defer redisClient.Close()

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "mail-worker"
	}

	mailClient := mail.NewClient(cfg.Mail)
	handler := queue.NewMailHandler(mailClient, logger)
	consumer := queue.NewConsumer(
		redisClient,
		cfg.Mail.Stream,
		cfg.Mail.Group,
		hostname,
		time.Minute,
		logger,
		handler,
	)

	if err := consumer.EnsureGroup(ctx); err != nil {
		logger.Fatal().Err(err).Msg("consumer group setup failed")
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("stream", cfg.Mail.Stream).
		Str("group", cfg.Mail.Group).
		Str("consumer", hostname).
		Msg("mail worker starting")

	go func() {
		if err := consumer.Start(runCtx); err != nil && err != context.Canceled {
			logger.Fatal().Err(err).Msg("consumer stopped unexpectedly")
		}
	}()

	<-runCtx.Done()
	logger.Info().Msg("shutdown signal received")
	time.Sleep(500 * time.Millisecond)
}
