package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mantoshmedhansh-dot/lsp-backend/internal/alerting"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/allocation"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/analytics"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/controltower"
	"github.com/mantoshmedhansh-dot/lsp-backend/internal/cron"
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
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/pubsub"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/redis"
)

const lockKeyFormat = "lsp:cron-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
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

	allocRepo := allocation.NewRepository(dbClient.DB())

	var bqClient *bigquery.Client
	var statsProvider metricstore.StatsProvider
	if cfg.FeatureFlags.UseBigQuery {
		bqClient, err = bigquery.NewClient(context.Background(), cfg.GCP, cfg.BigQuery, logg)
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

	registry := cron.NewRegistry()

	snapshotJob, err := cron.NewSnapshotRefreshJob(cron.SnapshotRefreshJobParams{
		Logger:    logg,
		Companies: store,
		Snapshots: towerService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create snapshot refresh job", err)
		os.Exit(1)
	}
	registry.Register(snapshotJob)

	retentionJob, err := cron.NewDecisionRetentionJob(cron.DecisionRetentionJobParams{
		Logger:    logg,
		Decisions: allocRepo,
		Retention: cfg.Allocation.DecisionRetention,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create decision retention job", err)
		os.Exit(1)
	}
	registry.Register(retentionJob)

	if cfg.FeatureFlags.PublishAlerts {
		psClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := psClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()

		alertsPublisher, err := alerting.NewPublisher(psClient, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create alert publisher", err)
			os.Exit(1)
		}

		sweepJob, err := cron.NewAnomalySweepJob(cron.AnomalySweepJobParams{
			Logger:    logg,
			Companies: store,
			Scanner:   scanner,
			Publisher: alertsPublisher,
		})
		if err != nil {
			logg.Error(context.Background(), "failed to create anomaly sweep job", err)
			os.Exit(1)
		}
		registry.Register(sweepJob)
	}

	if cfg.FeatureFlags.UseBigQuery {
		exporter, err := analytics.NewExporter(bqClient, store, analytics.ExporterConfig{
			Table: cfg.BigQuery.OrderFactsTable,
			RetryPolicy: analytics.RetryPolicy{
				MaxAttempts: cfg.BigQuery.FetchMaxAttempts,
			},
		})
		if err != nil {
			logg.Error(context.Background(), "failed to create order facts exporter", err)
			os.Exit(1)
		}

		exportJob, err := cron.NewOrderFactsExportJob(cron.OrderFactsExportJobParams{
			Logger:    logg,
			Companies: store,
			Exporter:  exporter,
		})
		if err != nil {
			logg.Error(context.Background(), "failed to create order facts export job", err)
			os.Exit(1)
		}
		registry.Register(exportJob)
	}

	metricsCollector := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
