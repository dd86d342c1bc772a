package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/redis/go-redis/v9"

	"github.com/myauth/auth-service/config"
	"github.com/myauth/auth-service/db"
	"github.com/myauth/auth-service/internal/auth/domain"
	"github.com/myauth/auth-service/internal/auth/handler"
	"github.com/myauth/auth-service/internal/auth/ledger"
	"github.com/myauth/auth-service/internal/auth/mailer"
	repo "github.com/myauth/auth-service/internal/auth/repository/postgres"
	"github.com/myauth/auth-service/internal/auth/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		logger.Error("connect postgres", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	var revocationLedger domain.RevocationLedger
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Error("connect redis", "error", err)
			os.Exit(1)
		}
		revocationLedger = ledger.NewRedisLedger(client)
	} else {
		logger.Warn("REDIS_ADDR not set, using in-process revocation ledger; revocation state will not be shared across instances")
		revocationLedger = ledger.NewMemoryLedger()
	}

	var emailSender domain.EmailSender
	if cfg.MailHost != "" {
		emailSender = mailer.NewSMTPSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom)
	} else {
		logger.Warn("MAIL_HOST not set, outbound email disabled")
		emailSender = mailer.NoopSender{}
	}

	userRepo := repo.NewPostgresRepository(dbPool)
	tokenService := service.NewTokenService(
		cfg.AccessTokenSecret, cfg.RefreshTokenSecret,
		cfg.AccessExpiryMin, cfg.RefreshExpiryMin, cfg.VerifyExpiryMin, cfg.ResetExpiryMin,
	)
	hasher := service.NewBcryptHasher()
	userService := service.NewUserService(userRepo, tokenService, revocationLedger, hasher)
	verificationService := service.NewVerificationService(userRepo, tokenService, hasher, emailSender, cfg.ClientURL, logger)

	authHandler := handler.NewAuthHandler(
		userService, verificationService,
		time.Duration(cfg.AccessExpiryMin)*time.Minute,
		time.Duration(cfg.RefreshExpiryMin)*time.Minute,
		cfg.IsProduction(), logger,
	)

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ","),
		AllowCredentials: true,
	}))
	handler.RegisterRoutes(app, authHandler)

	logger.Info("starting auth service", "port", cfg.Port, "env", cfg.Env)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
