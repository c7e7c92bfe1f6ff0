package insights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/freshnest/insights-backend/internal/aggregate"
	"github.com/freshnest/insights-backend/internal/convo"
	"github.com/freshnest/insights-backend/internal/records"
	"github.com/freshnest/insights-backend/pkg/logger"
	"github.com/freshnest/insights-backend/pkg/metrics"
)

// Service answers free-text questions about the campaign record set.
type Service interface {
	Answer(ctx context.Context, query, sessionID string) QueryResult
}

type ServiceParams struct {
	Provider records.Provider
	Store    convo.Store
	Logger   *logger.Logger
	Metrics  *metrics.QueryMetrics
}

func NewService(params ServiceParams) (Service, error) {
	if params.Provider == nil {
		return nil, fmt.Errorf("record provider required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("context store required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	s := &service{
		provider: params.Provider,
		store:    params.Store,
		logg:     params.Logger,
		metrics:  params.Metrics,
	}
	s.routes = s.buildRoutes()
	return s, nil
}

type service struct {
	provider records.Provider
	store    convo.Store
	logg     *logger.Logger
	metrics  *metrics.QueryMetrics
	routes   []route
}

// route is one entry of the classifier cascade. Evaluation order is the
// slice order and the first matching guard consumes the query.
type route struct {
	name   string
	match  func(q *queryContext) bool
	handle func(q *queryContext) QueryResult
}

// queryContext carries the lower-cased query, the record set and the
// pre-computed lexical detections every guard keys off.
type queryContext struct {
	raw       string
	lower     string
	records   []records.Record
	convo     *convo.Context
	platform  string
	campaign  string
	metric    aggregate.Metric
	hasMetric bool
}

// buildRoutes assembles the cascade. Order is load-bearing: more specific
// guards sit above the broader ones they would otherwise be shadowed by.
func (s *service) buildRoutes() []route {
	return []route{
		{name: "brand_composition", match: matchBrandComposition, handle: s.handleBrandComposition},
		{name: "brand_analytics", match: matchBrandAnalytics, handle: s.handleBrandAnalytics},
		{name: "campaign_summary", match: matchCampaignSummary, handle: s.handleCampaignSummary},
		{name: "optimization", match: matchOptimization, handle: s.handleOptimization},
		{name: "top_creatives", match: matchTopCreatives, handle: s.handleTopCreatives},
		{name: "top_platforms", match: matchTopPlatforms, handle: s.handleTopPlatforms},
		{name: "chart_request", match: matchChartRequest, handle: s.handleChartRequest},
		{name: "top_campaigns", match: matchTopCampaigns, handle: s.handleTopCampaigns},
		{name: "campaign_list", match: matchCampaignList, handle: s.handleCampaignList},
		{name: "audiences", match: matchAudiences, handle: s.handleAudiences},
		{name: "anomalies", match: matchAnomalies, handle: s.handleAnomalies},
		{name: "platform_metric", match: matchPlatformMetric, handle: s.handlePlatformMetric},
		{name: "platform_performance", match: matchPlatformPerformance, handle: s.handlePlatformPerformance},
		{name: "comparative", match: matchComparative, handle: s.handleComparative},
		{name: "metric_summary", match: matchMetricSummary, handle: s.handleMetricSummary},
		{name: "executive_summary", match: matchExecSummary, handle: s.handleExecSummary},
	}
}

// Answer classifies the query and produces a result. It never returns an
// error: every failure mode maps to a well-formed QueryResult.
func (s *service) Answer(ctx context.Context, query, sessionID string) QueryResult {
	start := time.Now()

	q := &queryContext{
		raw:     strings.TrimSpace(query),
		records: s.provider.Records(),
		convo:   s.store.Get(sessionID),
	}
	q.lower = strings.ToLower(q.raw)
	q.platform = detectPlatform(q.lower)
	q.campaign = detectCampaign(q.lower, q.records)
	q.metric, q.hasMetric = detectMetric(q.lower)

	result := s.dispatch(ctx, q)

	s.store.Update(sessionID, q.raw, result.Content, string(result.Kind), lastResultFor(q, result))
	s.metrics.ObserveQuery(string(result.Kind), time.Since(start))

	logCtx := s.logg.WithSessionID(ctx, sessionID)
	logCtx = s.logg.WithIntent(logCtx, string(result.Kind))
	s.logg.Info(logCtx, "query answered")

	return result
}

func (s *service) dispatch(ctx context.Context, q *queryContext) QueryResult {
	// Context-aware drill-down gets first refusal on every query.
	if q.convo != nil && q.convo.LastResult != nil {
		if result := s.resolveDrillDown(q); result != nil {
			return *result
		}
	}
	for _, r := range s.routes {
		if !r.match(q) {
			continue
		}
		return s.runHandler(ctx, r, q)
	}
	return fallbackResult()
}

// runHandler guards each handler: a panic inside one branch becomes a
// generic error result instead of taking down the request.
func (s *service) runHandler(ctx context.Context, r route, q *queryContext) (result QueryResult) {
	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("panic in %s handler: %v", r.name, rec)
			s.logg.Error(ctx, "query handler panicked", err)
			result = errorResult()
		}
	}()
	return r.handle(q)
}

// lastResultFor distills the answer into the summary the drill-down
// resolver reads next turn.
func lastResultFor(q *queryContext, result QueryResult) *convo.LastResult {
	last := &convo.LastResult{
		Kind:     string(result.Kind),
		Platform: q.platform,
		Campaign: q.campaign,
	}
	if q.hasMetric {
		last.Metric = string(q.metric)
	}
	if rows, ok := result.Payload["rows"].([]convo.ResultRow); ok {
		last.Rows = rows
	}
	if p, ok := result.Payload["platform"].(string); ok && p != "" {
		last.Platform = p
	}
	if c, ok := result.Payload["campaign"].(string); ok && c != "" {
		last.Campaign = c
	}
	return last
}
