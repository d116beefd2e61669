package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/mantoshmedhansh-dot/lsp-backend/api/responses"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/bigquery"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/config"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/db"
	pkgerrors "github.com/mantoshmedhansh-dot/lsp-backend/pkg/errors"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/logger"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/redis"
)

const readyCheckTimeout = 5 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-LSP-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger, bigqueryP bigquery.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-LSP-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		checks := map[string]string{}
		failed := false

		run := func(name string, ping func(context.Context) error) {
			if err := ping(ctx); err != nil {
				checks[name] = "down"
				failed = true
				if logg != nil {
					logg.Error(logg.WithField(ctx, "dependency", name), "readiness check failed", err)
				}
				return
			}
			checks[name] = "up"
		}

		if dbP != nil {
			run("db", dbP.Ping)
		} else {
			checks["db"] = "skipped"
		}
		if redisP != nil {
			run("redis", redisP.Ping)
		} else {
			checks["redis"] = "skipped"
		}
		if bigqueryP != nil {
			run("bigquery", bigqueryP.Ping)
		} else {
			checks["bigquery"] = "skipped"
		}

		if failed {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependency not ready").WithDetails(checks)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
