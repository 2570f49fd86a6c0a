package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/parmaperfumes/catalog-backend/api/controllers"
	"github.com/parmaperfumes/catalog-backend/api/middleware"
	"github.com/parmaperfumes/catalog-backend/internal/catalog"
	"github.com/parmaperfumes/catalog-backend/pkg/config"
	"github.com/parmaperfumes/catalog-backend/pkg/db"
	"github.com/parmaperfumes/catalog-backend/pkg/logger"
	pkgredis "github.com/parmaperfumes/catalog-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP pkgredis.Pinger,
	catalogService catalog.Service,
	cachePolicy *catalog.CachePolicy,
	promRegistry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	requireAdmin := middleware.RequireAdmin(cfg.JWT, logg)

	r.Route("/catalog", func(r chi.Router) {
		r.Get("/", controllers.ListCatalog(catalogService, cachePolicy, logg))
		r.Get("/{id}", controllers.GetCatalogItem(catalogService, cachePolicy, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Post("/", controllers.CreateCatalogItem(catalogService, cachePolicy, logg))
			r.Put("/{id}", controllers.UpdateCatalogItem(catalogService, cachePolicy, logg))
			r.Patch("/", controllers.ToggleCatalogItem(catalogService, cachePolicy, logg))
			r.Delete("/{id}", controllers.DeleteCatalogItem(catalogService, cachePolicy, logg))
		})
	})

	return r
}
