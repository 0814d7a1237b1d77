package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/marcingarbarczyk/membership-service/config"
	"github.com/marcingarbarczyk/membership-service/db"
	"github.com/marcingarbarczyk/membership-service/internal/mailer"
	"github.com/marcingarbarczyk/membership-service/internal/membership/geoip"
	"github.com/marcingarbarczyk/membership-service/internal/membership/guard"
	"github.com/marcingarbarczyk/membership-service/internal/membership/handler"
	repo "github.com/marcingarbarczyk/membership-service/internal/membership/repository/postgres"
	"github.com/marcingarbarczyk/membership-service/internal/membership/service"
	"github.com/marcingarbarczyk/membership-service/internal/membership/token"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg.Env)
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer dbPool.Close()

	redisClient, err := db.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close() //nolint:errcheck

	userRepo := repo.NewPostgresRepository(dbPool)

	locator := geoip.NewLocator(cfg.GeoIPBaseURL, redisClient,
		time.Duration(cfg.GeoIPCacheTTLMin)*time.Minute, logger)
	loginGuard := guard.New(userRepo, locator, cfg.LoginAttemptsWindowMin, cfg.MaxLoginAttempts)

	revocationList := service.NewRedisRevocationList(redisClient)
	tokenService := service.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret,
		cfg.AccessExpiryMin, cfg.RefreshExpiryMin, revocationList)

	activation := token.NewActivationGenerator(cfg.ActivationTokenSecret,
		cfg.TokenBucketMinutes, cfg.TokenMaxBuckets)
	passwordReset := token.NewPasswordResetGenerator(cfg.ActivationTokenSecret,
		cfg.TokenBucketMinutes, cfg.TokenMaxBuckets)

	userService := service.NewUserService(userRepo, tokenService, loginGuard,
		newMailer(cfg, logger), activation, passwordReset, cfg.FrontendBaseURL, logger)

	authHandler := handler.NewAuthHandler(userService, tokenService, cfg.Env == "production")

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler)

	logger.Info("listening", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(env string) *zap.Logger {
	if env == "production" {
		logger, err := zap.NewProduction()
		if err != nil {
			panic(err)
		}
		return logger
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return logger
}

// newMailer picks SMTP when configured and falls back to logging the links,
// which is enough for local development.
func newMailer(cfg *config.Config, logger *zap.Logger) mailer.Mailer {
	if cfg.SMTPHost == "" {
		return mailer.NewLogMailer(logger)
	}
	return mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername,
		cfg.SMTPPassword, cfg.EmailFrom)
}
