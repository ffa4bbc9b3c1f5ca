package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/me-api/adapters/event"
	httpAdapter "github.com/khoahotran/me-api/adapters/http"
	"github.com/khoahotran/me-api/adapters/persistence"
	profileUC "github.com/khoahotran/me-api/internal/application/usecase/profile"
	queryUC "github.com/khoahotran/me-api/internal/application/usecase/query"
	searchUC "github.com/khoahotran/me-api/internal/application/usecase/search"
	seedUC "github.com/khoahotran/me-api/internal/application/usecase/seed"
	"github.com/khoahotran/me-api/internal/config"
	"github.com/khoahotran/me-api/pkg/logger"
	"github.com/khoahotran/me-api/pkg/tracing"
)

const serviceName = "me-api"

func main() {
	fmt.Println("Start Me-API Server...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	if cfg.IsProduction() && cfg.Auth.APIKey == config.DevAPIKey {
		appLogger.Warn("Running in production with the development API key, set API_KEY")
	}

	shutdownTracing, err := tracing.Setup(cfg, appLogger, serviceName)
	if err != nil {
		appLogger.Fatal("Cannot initialize tracing", err)
	}

	ctx := context.Background()

	// Initialize dependencies
	if cfg.DB.AutoMigrate {
		if err := persistence.RunMigrations(cfg.DB.DSN, appLogger); err != nil {
			appLogger.Fatal("Cannot run migrations", err)
		}
	}

	dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Postgres", err)
	}
	defer dbPool.Close()

	publisher := event.NewPublisher(cfg, appLogger)
	if kafkaClient, ok := publisher.(*event.KafkaProducerClient); ok {
		defer kafkaClient.Close()
	}

	// Repositories
	tx := persistence.NewPostgresTransactor(dbPool, appLogger)
	profileRepo := persistence.NewPostgresProfileRepo(dbPool, appLogger)
	skillRepo := persistence.NewPostgresSkillRepo(dbPool, appLogger)
	projectRepo := persistence.NewPostgresProjectRepo(dbPool, appLogger)
	workRepo := persistence.NewPostgresWorkRepo(dbPool, appLogger)

	// Use Cases
	profileUseCase := profileUC.NewProfileUseCase(tx, profileRepo, skillRepo, projectRepo, workRepo, publisher, appLogger)
	queryUseCase := queryUC.NewQueryUseCase(projectRepo, skillRepo, appLogger)
	searchUseCase := searchUC.NewSearchUseCase(projectRepo, skillRepo, workRepo, appLogger)

	if cfg.Seed.Enabled {
		doc, err := seedUC.LoadDocument(cfg.Seed.File)
		if err != nil {
			appLogger.Fatal("Cannot load seed document", err)
		}
		if _, err := seedUC.NewSeedUseCase(profileUseCase, appLogger).Execute(ctx, doc); err != nil {
			appLogger.Error("Seeding failed, continuing without seed data", err)
		}
	}

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpAdapter.NewRouter(
		httpAdapter.RouterConfig{APIKey: cfg.Auth.APIKey, ServiceName: serviceName},
		httpAdapter.Handlers{
			Profile: httpAdapter.NewProfileHandler(profileUseCase, appLogger),
			Query:   httpAdapter.NewQueryHandler(queryUseCase, appLogger),
			Search:  httpAdapter.NewSearchHandler(searchUseCase, appLogger),
		},
		appLogger,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		appLogger.Error("Failed to flush traces", err)
	}
	appLogger.Info("Server exited")
}
