// Package cmd provides the laborctl commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/straye-as/staffing-api/internal/config"
	"github.com/straye-as/staffing-api/internal/database"
	"github.com/straye-as/staffing-api/internal/logger"
	"github.com/straye-as/staffing-api/internal/repository"
	"github.com/straye-as/staffing-api/internal/service"
	"go.uber.org/zap"
)

var (
	outputFormat string
	verbose      bool
)

// app holds the services commands run against
type app struct {
	logger         *zap.Logger
	moduleService  *service.LaborEstimateService
	projectService *service.ProjectLaborEstimateService
	close          func()
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "laborctl",
	Short: "Inspect and reconcile module labor estimates",
	Long: `laborctl computes labor estimates of modules and projects and runs the
reconciliation actions against the staffing database.

Examples:
  laborctl estimate expected --module 6f1c...
  laborctl estimate saved-minus-requested --module 6f1c... --format json
  laborctl project saved --project 2b7d...
  laborctl reconcile promote --module 6f1c...`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "table", "output format (table, json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(reconcileCmd)
}

// newApp connects to the database configured for the API and builds the services
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	moduleRepo := repository.NewModuleRepository(db)
	moduleService := service.NewLaborEstimateService(
		db,
		moduleRepo,
		repository.NewComplexityPointRepository(db),
		repository.NewLaborEstimateRepository(db),
		repository.NewStaffingRequestRepository(db),
		repository.NewPositionRepository(db),
		nil,
		log,
	)

	return &app{
		logger:         log,
		moduleService:  moduleService,
		projectService: service.NewProjectLaborEstimateService(repository.NewProjectRepository(db), moduleRepo, moduleService, log),
		close: func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
			_ = log.Sync()
		},
	}, nil
}
