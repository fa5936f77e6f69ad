package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/daiskipp/documenter/internal/api"
	"github.com/daiskipp/documenter/internal/api/handlers"
	"github.com/daiskipp/documenter/internal/repository"
	"github.com/daiskipp/documenter/internal/services"
	"github.com/daiskipp/documenter/pkg/config"
	"github.com/daiskipp/documenter/pkg/database"
	"github.com/daiskipp/documenter/pkg/logger"

	// Import generated docs (created by swag init)
	_ "github.com/daiskipp/documenter/docs"
)

// @title           Documenter API
// @version         1.0
// @description     Multi-project Markdown document editor with automatic version history

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

	log.Info("starting documenter api",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
	)

	ctx := context.Background()
	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	log.Info("database connected")

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	versionRepo := repository.NewVersionRepository(db)

	// Retention pruning runs through the worker; without redis the API still
	// serves, captures simply never enqueue.
	var asynqClient *asynq.Client
	if cfg.RedisAddr != "" {
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer asynqClient.Close()
	} else {
		log.Warn("REDIS_ADDR not set, retention pruning disabled")
	}

	documentSvc := services.NewDocumentService(db, projectRepo, documentRepo, asynqClient, cfg.VersionRetentionLimit)
	projectSvc := services.NewProjectService(db, projectRepo)
	versionSvc := services.NewVersionService(documentRepo, versionRepo, documentSvc)

	jwtSecret := []byte(cfg.JWTSecret)
	var authHandler *handlers.AuthHandler
	if len(jwtSecret) > 0 {
		authHandler = handlers.NewAuthHandler(services.NewAuthService(userRepo, jwtSecret))
	} else {
		log.Warn("JWT_SECRET not set, running without authentication")
	}

	router := api.NewRouter(api.Dependencies{
		HMACSecret:       jwtSecret,
		AuthHandler:      authHandler,
		ProjectsHandler:  handlers.NewProjectsHandler(projectSvc),
		DocumentsHandler: handlers.NewDocumentsHandler(documentSvc),
		VersionsHandler:  handlers.NewVersionsHandler(versionSvc),
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
		log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
