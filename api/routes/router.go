package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/freshnest/insights-backend/api/controllers"
	"github.com/freshnest/insights-backend/api/middleware"
	"github.com/freshnest/insights-backend/internal/insights"
	"github.com/freshnest/insights-backend/internal/records"
	"github.com/freshnest/insights-backend/pkg/config"
	"github.com/freshnest/insights-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	provider records.Provider,
	queryService insights.Service,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.Origins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, provider))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/ai/query", controllers.AIQuery(queryService, logg))
		r.Get("/dataset/summary", controllers.DatasetSummary(provider))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	return r
}
