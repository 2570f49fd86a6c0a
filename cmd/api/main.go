package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/parmaperfumes/catalog-backend/api/routes"
	"github.com/parmaperfumes/catalog-backend/internal/catalog"
	"github.com/parmaperfumes/catalog-backend/pkg/config"
	"github.com/parmaperfumes/catalog-backend/pkg/db"
	"github.com/parmaperfumes/catalog-backend/pkg/logger"
	"github.com/parmaperfumes/catalog-backend/pkg/metrics"
	"github.com/parmaperfumes/catalog-backend/pkg/migrate"
	pkgredis "github.com/parmaperfumes/catalog-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "catalog-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "catalog-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	catalogMetrics := metrics.NewCatalogMetrics(promRegistry)

	// The store is optional: without a DSN, or when the connection attempt
	// fails, the service boots anyway and reads serve the fallback dataset.
	var dbClient *db.Client
	var dbPinger db.Pinger
	if cfg.DB.Configured() {
		dbClient, err = db.New(context.Background(), cfg.DB, logg)
		if err != nil {
			logg.Warn(logg.WithField(context.Background(), "error", err.Error()),
				"catalog store unreachable at boot, serving fallback dataset")
			dbClient = nil
		}
	} else {
		logg.Warn(context.Background(), "no catalog store configured, serving fallback dataset")
	}
	if dbClient != nil {
		dbPinger = dbClient
		defer func() {
			if err := dbClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing database", err)
			}
		}()

		if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
			logg.Error(context.Background(), "failed to run dev migrations", err)
			os.Exit(1)
		}
	}

	var redisClient *pkgredis.Client
	var redisPinger pkgredis.Pinger
	if cfg.Redis.Enabled() {
		redisClient, err = pkgredis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Warn(logg.WithField(context.Background(), "error", err.Error()),
				"redis unreachable, list cache disabled")
			redisClient = nil
		}
	}
	if redisClient != nil {
		redisPinger = redisClient
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}

	var store *catalog.Repository
	if dbClient != nil {
		store = catalog.NewRepository(dbClient.DB(), logg, catalogMetrics)
	}

	listCache := catalog.NewListCache(redisClient, cfg.Redis.ListTTL, logg, catalogMetrics)
	cachePolicy := catalog.NewCachePolicy(cfg.Cache)
	catalogService := newCatalogService(store, listCache, logg, catalogMetrics)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":              cfg.App.Env,
		"addr":             addr,
		"store_configured": dbClient != nil,
	})
	logg.Info(ctx, "starting catalog api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbPinger, redisPinger, catalogService, cachePolicy, promRegistry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "catalog api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// newCatalogService keeps the nil-store case out of the Service constructor:
// a nil *Repository must become a nil interface.
func newCatalogService(store *catalog.Repository, cache *catalog.ListCache, logg *logger.Logger, m *metrics.CatalogMetrics) catalog.Service {
	if store == nil {
		return catalog.NewService(nil, catalog.NewFallbackProvider(), cache, logg, m)
	}
	return catalog.NewService(store, catalog.NewFallbackProvider(), cache, logg, m)
}
