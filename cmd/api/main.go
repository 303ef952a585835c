package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/standard-backend/userapi/internal/api"
	"github.com/standard-backend/userapi/internal/api/handlers"
	"github.com/standard-backend/userapi/internal/repository"
	"github.com/standard-backend/userapi/internal/services"
	"github.com/standard-backend/userapi/pkg/auth"
	"github.com/standard-backend/userapi/pkg/config"
	"github.com/standard-backend/userapi/pkg/database"
	"github.com/standard-backend/userapi/pkg/logger"

	// Generated by swag init
	_ "github.com/standard-backend/userapi/docs"
)

// @title           User API
// @version         1.0
// @description     User registration, authentication and profile management.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg := config.MustLoad()

	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("starting userapi",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
		zap.String("password_hasher", cfg.PasswordHasher),
	)
	if cfg.UsesDevSecret() {
		log.Warn("JWT_SECRET not set, signing tokens with the development secret")
	}

	ctx := context.Background()
	db, err := database.OpenPostgres(ctx, cfg)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to get sql db", zap.Error(err))
	}
	defer sqlDB.Close()
	log.Info("database connected")

	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal("auto migration failed", zap.Error(err))
		}
		log.Info("database schema up to date")
	}

	hasher, err := services.NewPasswordHasher(cfg.PasswordHasher, cfg.BcryptCost)
	if err != nil {
		log.Fatal("invalid password hasher", zap.Error(err))
	}
	tokens := auth.NewTokenManager([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.JWTTTL)

	// Repositories
	userRepo := repository.NewUserRepository(db)

	// Services
	userSvc := services.NewUserService(userRepo, hasher)
	authSvc := services.NewAuthService(userRepo, hasher, tokens)

	router := api.NewRouter(api.Dependencies{
		Tokens:         tokens,
		AuthHandler:    handlers.NewAuthHandler(authSvc, userSvc),
		UsersHandler:   handlers.NewUsersHandler(userSvc),
		HealthHandler:  handlers.NewHealthHandler(sqlDB),
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		TrustProxy:     cfg.TrustProxy,
		EnableDocs:     !cfg.IsProduction(),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server exited gracefully")
	}
}
