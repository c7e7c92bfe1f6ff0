package insights

import (
	"fmt"
	"strings"

	"github.com/freshnest/insights-backend/internal/aggregate"
)

// drillMetrics are the metrics a bare follow-up ("roas", "what about ctr")
// re-scopes to the previous result's top entity.
var drillMetrics = map[aggregate.Metric]bool{
	aggregate.MetricROAS:  true,
	aggregate.MetricCTR:   true,
	aggregate.MetricSpend: true,
}

// resolveDrillDown interprets the query against the previous turn. It
// returns nil when the query stands on its own, which hands it back to the
// normal cascade.
func (s *service) resolveDrillDown(q *queryContext) *QueryResult {
	last := q.convo.LastResult
	words := len(strings.Fields(q.lower))
	contextual := hasAnaphora(q.lower) || words <= 4

	// "Chart this" over whatever the previous answer ranked.
	if hasChartWord(q.lower) && len(last.Rows) > 0 && (hasAnaphora(q.lower) || words <= 2) {
		metric := rankingMetric(q.lower)
		if metric == aggregate.MetricROAS && last.Metric != "" {
			metric = aggregate.Metric(last.Metric)
		}
		result := QueryResult{
			Kind:    KindChartData,
			Content: fmt.Sprintf("Here is a %s chart of the previous result by %s.", chartType(q.lower), metricLabel(metric)),
			Payload: map[string]any{
				"chart_type": chartType(q.lower),
				"metric":     string(metric),
				"rows":       last.Rows,
			},
		}
		return &result
	}

	// A bare metric re-scoped to the previous subject.
	if q.hasMetric && drillMetrics[q.metric] && q.platform == "" && q.campaign == "" &&
		!hasTopWord(q.lower) && !hasWorstWord(q.lower) && words <= 3 &&
		!containsAny(q.lower, []string{"our", "overall", "total", "everything"}) {
		switch {
		case last.Kind == string(KindTopPerforming) && len(last.Rows) > 0:
			return s.drillCampaignMetric(q, last.Rows[0].Name)
		case last.Kind == string(KindTopPlatforms) && len(last.Rows) > 0:
			return s.drillPlatformMetric(q, last.Rows[0].Name)
		case last.Campaign != "":
			return s.drillCampaignMetric(q, last.Campaign)
		case last.Platform != "":
			return s.drillPlatformMetric(q, last.Platform)
		}
	}

	// "Which campaigns?" after a platform-scoped answer.
	if last.Platform != "" && contextual && !hasTopWord(q.lower) &&
		strings.Contains(q.lower, "campaign") && q.campaign == "" && q.platform == "" {
		filter := &aggregate.Filter{Platform: last.Platform}
		buckets := aggregate.Aggregate(q.records, []aggregate.Dimension{aggregate.DimCampaign}, filter)
		if len(buckets) == 0 {
			result := noDataResult(last.Platform)
			return &result
		}
		aggregate.SortByMetric(buckets, aggregate.MetricROAS, true)
		rows := rowsFromBuckets(buckets, false)
		result := QueryResult{
			Kind:    KindDrillDown,
			Content: fmt.Sprintf("Campaigns on %s:\n%s", last.Platform, rankedLines(rows, aggregate.MetricROAS)),
			Payload: map[string]any{"platform": last.Platform, "rows": rows},
		}
		return &result
	}

	// "Which platforms?" after a campaign-scoped answer.
	if last.Campaign != "" && contextual && !hasTopWord(q.lower) &&
		strings.Contains(q.lower, "platform") && q.campaign == "" && q.platform == "" {
		filter := &aggregate.Filter{CampaignContains: last.Campaign}
		buckets := aggregate.Aggregate(q.records, []aggregate.Dimension{aggregate.DimPlatform}, filter)
		if len(buckets) == 0 {
			result := noDataResult(last.Campaign)
			return &result
		}
		aggregate.SortByMetric(buckets, aggregate.MetricROAS, true)
		rows := rowsFromBuckets(buckets, false)
		result := QueryResult{
			Kind:    KindDrillDown,
			Content: fmt.Sprintf("%s runs on these platforms:\n%s", last.Campaign, rankedLines(rows, aggregate.MetricROAS)),
			Payload: map[string]any{"campaign": last.Campaign, "rows": rows},
		}
		return &result
	}

	return nil
}

func (s *service) drillCampaignMetric(q *queryContext, campaign string) *QueryResult {
	total := aggregate.Totals(q.records, &aggregate.Filter{CampaignContains: campaign})
	if total.Impressions == 0 {
		result := noDataResult(campaign)
		return &result
	}
	v := aggregate.Value(total, q.metric)
	payload := metricsPayload(total)
	payload["campaign"] = campaign
	payload["metric"] = string(q.metric)
	payload["value"] = v
	result := QueryResult{
		Kind:    KindDrillDown,
		Content: fmt.Sprintf("%s for %s: %s.", metricLabel(q.metric), campaign, formatMetric(q.metric, v)),
		Payload: payload,
	}
	return &result
}

func (s *service) drillPlatformMetric(q *queryContext, platform string) *QueryResult {
	total := aggregate.Totals(q.records, &aggregate.Filter{Platform: platform})
	if total.Impressions == 0 {
		result := noDataResult(platform)
		return &result
	}
	v := aggregate.Value(total, q.metric)
	payload := metricsPayload(total)
	payload["platform"] = platform
	payload["metric"] = string(q.metric)
	payload["value"] = v
	result := QueryResult{
		Kind:    KindDrillDown,
		Content: fmt.Sprintf("%s for %s: %s.", metricLabel(q.metric), platform, formatMetric(q.metric, v)),
		Payload: payload,
	}
	return &result
}
