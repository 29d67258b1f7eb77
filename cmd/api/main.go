package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/straye-as/staffing-api/docs"
	"github.com/straye-as/staffing-api/internal/auth"
	"github.com/straye-as/staffing-api/internal/config"
	"github.com/straye-as/staffing-api/internal/database"
	"github.com/straye-as/staffing-api/internal/http/handler"
	"github.com/straye-as/staffing-api/internal/http/middleware"
	"github.com/straye-as/staffing-api/internal/http/router"
	"github.com/straye-as/staffing-api/internal/jobs"
	"github.com/straye-as/staffing-api/internal/logger"
	"github.com/straye-as/staffing-api/internal/metrics"
	"github.com/straye-as/staffing-api/internal/repository"
	"github.com/straye-as/staffing-api/internal/service"
	"github.com/straye-as/staffing-api/internal/storage"
	"go.uber.org/zap"
)

// @title Straye Staffing API
// @version 1.0
// @description Labor estimates and staffing requests for project modules

// @contact.name API Support
// @contact.email support@straye.io

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Basic configuration first, for logging setup
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	if basicCfg.App.Environment == "development" {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Secrets come from env vars in development and Azure Key Vault elsewhere
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	metricsManager := metrics.NewManager(metrics.WithGoCollectors())

	// Repositories
	projectRepo := repository.NewProjectRepository(db)
	moduleRepo := repository.NewModuleRepository(db)
	pointRepo := repository.NewComplexityPointRepository(db)
	laborEstimateRepo := repository.NewLaborEstimateRepository(db)
	requestRepo := repository.NewStaffingRequestRepository(db)
	positionRepo := repository.NewPositionRepository(db)

	// Services
	laborEstimateService := service.NewLaborEstimateService(
		db, moduleRepo, pointRepo, laborEstimateRepo, requestRepo, positionRepo, metricsManager, log,
	)
	projectLaborEstimateService := service.NewProjectLaborEstimateService(projectRepo, moduleRepo, laborEstimateService, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(&cfg.Auth, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Handlers
	laborEstimateHandler := handler.NewLaborEstimateHandler(laborEstimateService, log)
	projectLaborEstimateHandler := handler.NewProjectLaborEstimateHandler(projectLaborEstimateService, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		metricsManager,
		authMiddleware,
		rateLimiter,
		laborEstimateHandler,
		projectLaborEstimateHandler,
	)

	// Background jobs
	var scheduler *jobs.Scheduler
	if cfg.Report.Enabled {
		reportStorage, err := storage.NewStorage(&cfg.Storage, log)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

		scheduler = jobs.NewScheduler(log)
		reportJob := jobs.NewFundingGapReportJob(
			laborEstimateService,
			reportStorage,
			metricsManager,
			log,
			cfg.Report.TimeoutDuration(),
			cfg.Report.Prefix,
		)
		if err := jobs.RegisterFundingGapReportJob(scheduler, reportJob, cfg.Report.Cron); err != nil {
			return fmt.Errorf("failed to register funding gap report: %w", err)
		}
		scheduler.Start()
	} else {
		log.Info("Funding gap report disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      http.TimeoutHandler(rt.Setup(), cfg.Server.RequestTimeoutDuration(), "request timed out"),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			<-scheduler.Stop().Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
