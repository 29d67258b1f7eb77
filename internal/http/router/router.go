package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/straye-as/staffing-api/internal/auth"
	"github.com/straye-as/staffing-api/internal/config"
	"github.com/straye-as/staffing-api/internal/database"
	"github.com/straye-as/staffing-api/internal/http/handler"
	"github.com/straye-as/staffing-api/internal/http/middleware"
	"github.com/straye-as/staffing-api/internal/metrics"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/straye-as/staffing-api/docs" // Registers swagger docs
)

type Router struct {
	cfg                         *config.Config
	logger                      *zap.Logger
	db                          *gorm.DB
	metrics                     *metrics.Manager
	authMiddleware              *auth.Middleware
	rateLimiter                 *middleware.RateLimiter
	laborEstimateHandler        *handler.LaborEstimateHandler
	projectLaborEstimateHandler *handler.ProjectLaborEstimateHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	metricsManager *metrics.Manager,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	laborEstimateHandler *handler.LaborEstimateHandler,
	projectLaborEstimateHandler *handler.ProjectLaborEstimateHandler,
) *Router {
	return &Router{
		cfg:                         cfg,
		logger:                      logger,
		db:                          db,
		metrics:                     metricsManager,
		authMiddleware:              authMiddleware,
		rateLimiter:                 rateLimiter,
		laborEstimateHandler:        laborEstimateHandler,
		projectLaborEstimateHandler: projectLaborEstimateHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger, rt.metrics))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Get("/health/db", rt.databaseHealth)
	r.Get("/health/ready", rt.readiness)

	if rt.cfg.Metrics.Enabled {
		r.Handle(rt.cfg.Metrics.Path, rt.metrics.Handler())
	}

	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.authMiddleware.Authenticate)
		r.Use(rt.rateLimiter.LimitByUser)

		r.Route("/modules/{id}/labor-estimate", func(r chi.Router) {
			r.Get("/expected", rt.laborEstimateHandler.GetExpected)
			r.Post("/expected/save", rt.laborEstimateHandler.SaveExpected)
			r.Get("/saved", rt.laborEstimateHandler.GetSaved)
			r.Put("/saved", rt.laborEstimateHandler.UpdateSaved)
			r.Get("/requested", rt.laborEstimateHandler.GetRequested)
			r.Post("/requests", rt.laborEstimateHandler.CreateRequest)
			r.Get("/expected-minus-saved", rt.laborEstimateHandler.GetExpectedMinusSaved)
			r.Get("/saved-minus-requested", rt.laborEstimateHandler.GetSavedMinusRequested)
		})

		r.Get("/projects/{id}/labor-estimate/{kind}", rt.projectLaborEstimateHandler.Get)
	})

	return r
}

// databaseHealth is the readiness probe with connection pool stats
func (rt *Router) databaseHealth(w http.ResponseWriter, r *http.Request) {
	stats, err := database.HealthCheckWithStats(rt.db)
	if err != nil {
		rt.logger.Error("Database health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "unhealthy",
			"error":   err.Error(),
			"service": "database",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "database",
		"stats": map[string]interface{}{
			"max_open_connections": stats.MaxOpenConnections,
			"open_connections":     stats.OpenConnections,
			"in_use":               stats.InUse,
			"idle":                 stats.Idle,
			"wait_count":           stats.WaitCount,
			"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
		},
	})
}

// readiness checks every dependency the API needs to serve estimates
func (rt *Router) readiness(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]interface{})
	status := http.StatusOK

	if err := database.HealthCheck(rt.db); err != nil {
		rt.logger.Error("Database health check failed", zap.Error(err))
		checks["database"] = map[string]interface{}{"status": "unhealthy", "error": err.Error()}
		status = http.StatusServiceUnavailable
	} else {
		checks["database"] = map[string]interface{}{"status": "healthy"}
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}
	writeJSON(w, status, map[string]interface{}{
		"status": overall,
		"checks": checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
