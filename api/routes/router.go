package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mantoshmedhansh-dot/lsp-backend/api/controllers"
	"github.com/mantoshmedhansh-dot/lsp-backend/api/middleware"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/allocation"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/controltower"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/metricstore"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/prediction/sla"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/risk"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/bigquery"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/config"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/db"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/logger"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs. Optional pingers may
// be nil; the readiness endpoint reports them as skipped.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *redis.Client
	BigQuery bigquery.Pinger

	Allocation   allocation.Service
	ControlTower controltower.Service
	MetricStore  metricstore.Store
	SLAPredictor *sla.Predictor
	RiskScanner  *risk.Scanner
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	var redisPinger redis.Pinger
	if deps.Redis != nil {
		redisPinger = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, redisPinger, deps.BigQuery))
	})

	allocatePolicy := middleware.NewRateLimitPolicy(
		"allocate",
		cfg.RateLimit.AllocateWindow,
		cfg.RateLimit.AllocateIPLimit,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CompanyContext(logg))

		r.With(middleware.RateLimit(allocatePolicy, deps.Redis, logg)).
			Post("/allocations/{shipmentID}", controllers.AllocateShipment(deps.Allocation, logg))
		r.Get("/allocations/{shipmentID}/decisions", controllers.ListAllocationDecisions(deps.Allocation, logg))

		r.Route("/allocation-rules", func(r chi.Router) {
			r.Post("/", controllers.SaveAllocationRule(deps.Allocation, logg))
			r.Get("/", controllers.ListAllocationRules(deps.Allocation, logg))
			r.Delete("/{ruleID}", controllers.DeactivateAllocationRule(deps.Allocation, logg))
		})

		r.Route("/csr-configs", func(r chi.Router) {
			r.Post("/", controllers.SaveCSRConfig(deps.Allocation, logg))
			r.Get("/", controllers.ListCSRConfigs(deps.Allocation, logg))
		})

		r.Get("/control-tower/snapshot", controllers.ControlTowerSnapshot(deps.ControlTower, logg))

		r.Route("/orders/{orderID}", func(r chi.Router) {
			r.Get("/sla", controllers.OrderSLA(deps.MetricStore, deps.SLAPredictor, logg))
			r.Get("/risk", controllers.OrderRisk(deps.RiskScanner, logg))
		})

		r.Get("/risk/scan", controllers.RiskScan(deps.RiskScanner, logg))
	})

	return r
}
