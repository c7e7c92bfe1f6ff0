package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/freshnest/insights-backend/internal/insights"
	"github.com/freshnest/insights-backend/internal/records"
	"github.com/freshnest/insights-backend/pkg/config"
	"github.com/freshnest/insights-backend/pkg/logger"
)

type stubQueryService struct{}

func (stubQueryService) Answer(context.Context, string, string) insights.QueryResult {
	return insights.QueryResult{Content: "ok", Kind: insights.KindFallback}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.CORS.Origins = []string{"http://localhost:3000"}
	logg := logger.New(logger.Options{ServiceName: "routes-test"})
	provider := records.NewStaticProvider(nil)
	return NewRouter(cfg, logg, provider, stubQueryService{}, prometheus.NewRegistry())
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := rr.Header().Get("X-Insights-Env"); got != "test" {
		t.Fatalf("expected env header, got %q", got)
	}
}

func TestQueryRouteWired(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/query", strings.NewReader(`{"query":"hello"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestDatasetSummaryRouteWired(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dataset/summary", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
