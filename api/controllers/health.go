package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/parmaperfumes/catalog-backend/api/responses"
	"github.com/parmaperfumes/catalog-backend/pkg/config"
	"github.com/parmaperfumes/catalog-backend/pkg/db"
	"github.com/parmaperfumes/catalog-backend/pkg/logger"
	pkgredis "github.com/parmaperfumes/catalog-backend/pkg/redis"
)

const readinessTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Parma-Env", cfg.App.Env)
		responses.WriteJSON(w, http.StatusOK, map[string]string{"status": "live"})
	}
}

// HealthReady reports dependency health. A missing store is reported as
// "unconfigured", not a failure: the service intentionally runs without one.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP pkgredis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Parma-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{
			"db":    pingStatus(ctx, logg, "db", dbP),
			"redis": pingStatus(ctx, logg, "redis", redisP),
		}

		status := http.StatusOK
		for _, state := range checks {
			if state == "down" {
				status = http.StatusServiceUnavailable
			}
		}

		responses.WriteJSON(w, status, map[string]any{"status": "ready", "checks": checks})
	}
}

type ctxPinger interface {
	Ping(context.Context) error
}

func pingStatus(ctx context.Context, logg *logger.Logger, name string, p ctxPinger) string {
	switch {
	case p == nil:
		return "unconfigured"
	default:
		if err := p.Ping(ctx); err != nil {
			if logg != nil {
				logg.Warn(logg.WithField(ctx, "dependency", name), "health.dependency_down")
			}
			return "down"
		}
		return "up"
	}
}
