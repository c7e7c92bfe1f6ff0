package controllers

import (
	"net/http"

	"github.com/freshnest/insights-backend/api/responses"
	"github.com/freshnest/insights-backend/internal/records"
	"github.com/freshnest/insights-backend/pkg/config"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Insights-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready once the record set is loaded; the service has
// no external dependencies to probe.
func HealthReady(cfg *config.Config, provider records.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Insights-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]any{
			"status":  "ready",
			"records": len(provider.Records()),
		})
	}
}
