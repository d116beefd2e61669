package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mantoshmedhansh-dot/lsp-backend/api/routes"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/allocation"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/analytics"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/controltower"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/metricstore"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/prediction/capacity"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/prediction/dayperf"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/prediction/sla"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/risk"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/bigquery"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/config"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/db"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/logger"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/metrics"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/migrate"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	engineMetrics := metrics.NewEngineMetrics(prometheus.DefaultRegisterer)

	allocService, err := allocation.NewService(allocation.NewRepository(dbClient.DB()), dbClient, logg, engineMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create allocation service", err)
		os.Exit(1)
	}

	var bqPinger bigquery.Pinger
	var statsProvider metricstore.StatsProvider
	if cfg.FeatureFlags.UseBigQuery {
		bqClient, err := bigquery.NewClient(context.Background(), cfg.GCP, cfg.BigQuery, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap bigquery", err)
			os.Exit(1)
		}
		defer func() {
			if err := bqClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing bigquery", err)
			}
		}()

		stats, err := analytics.NewStatsService(bqClient, bqClient.ProjectID(), cfg.BigQuery.Dataset, cfg.BigQuery.OrderFactsTable)
		if err != nil {
			logg.Error(context.Background(), "failed to create stats service", err)
			os.Exit(1)
		}
		bqPinger = bqClient
		statsProvider = stats
	}

	store := metricstore.NewStore(dbClient.DB(), statsProvider, logg)

	slaPredictor := sla.NewPredictor(sla.ConfigFromApp(cfg.Prediction))
	dayPerfPredictor := dayperf.NewPredictor(dayperf.ConfigFromApp(cfg.Prediction), slaPredictor)
	capacityPredictor := capacity.NewPredictor(capacity.ConfigFromApp(cfg.Capacity))

	scanner, err := risk.NewScanner(store, cfg.Risk, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create risk scanner", err)
		os.Exit(1)
	}

	towerService, err := controltower.NewService(controltower.Params{
		Store:    store,
		Cache:    redisClient,
		Scanner:  scanner,
		SLA:      slaPredictor,
		DayPerf:  dayPerfPredictor,
		Capacity: capacityPredictor,
		Logger:   logg,
		Metrics:  engineMetrics,
		Config:   cfg.ControlTower,
		Demand:   cfg.Capacity,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create control tower service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:       cfg,
			Logger:       logg,
			DB:           dbClient,
			Redis:        redisClient,
			BigQuery:     bqPinger,
			Allocation:   allocService,
			ControlTower: towerService,
			MetricStore:  store,
			SLAPredictor: slaPredictor,
			RiskScanner:  scanner,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
