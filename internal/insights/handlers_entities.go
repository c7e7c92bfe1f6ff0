package insights

import (
	"fmt"
	"strings"

	"github.com/freshnest/insights-backend/internal/aggregate"
)

// sa360AudienceRefusal is the fixed answer for audience questions scoped to
// the search platform. The wording is part of the product contract.
const sa360AudienceRefusal = "Sa360 is a search platform and does not target audiences. " +
	"Try asking about audiences on Meta, Dv360, or Amazon instead."

// handleCampaignSummary reports one campaign in full. Rates use the legacy
// per-record average; the platform breakdown rows feed later drill-downs.
func (s *service) handleCampaignSummary(q *queryContext) QueryResult {
	filter := &aggregate.Filter{CampaignContains: q.campaign}
	total := aggregate.Totals(q.records, filter)
	if total.Impressions == 0 {
		return noDataResult(q.campaign)
	}
	avgCTR, avgCPC, avgCPA := aggregate.AveragedRates(q.records, filter)
	platforms := aggregate.Aggregate(q.records, []aggregate.Dimension{aggregate.DimPlatform}, filter)
	aggregate.SortByMetric(platforms, aggregate.MetricROAS, true)
	rows := rowsFromBuckets(platforms, false)

	content := fmt.Sprintf(
		"%s summary:\nSpend: %s\nRevenue: %s\nROAS: %s\nAvg CTR: %s\nAvg CPC: %s\nAvg CPA: %s\nConversions: %s\nRunning on %d platforms.",
		q.campaign, formatMoney(total.Spend), formatMoney(total.Revenue), formatROAS(total.ROAS()),
		formatPercent(avgCTR), formatMoneyF(avgCPC), formatMoneyF(avgCPA),
		formatCount(total.Conversions), len(platforms),
	)
	payload := metricsPayload(total)
	payload["ctr"] = avgCTR
	payload["cpc"] = avgCPC
	payload["cpa"] = avgCPA
	payload["campaign"] = q.campaign
	payload["rows"] = rows
	return QueryResult{Kind: KindCampaignSummary, Content: content, Payload: payload}
}

// handlePlatformMetric answers "<metric> on <platform>" with the single
// number plus the supporting totals.
func (s *service) handlePlatformMetric(q *queryContext) QueryResult {
	total := aggregate.Totals(q.records, &aggregate.Filter{Platform: q.platform})
	if total.Impressions == 0 {
		return noDataResult(q.platform)
	}
	v := aggregate.Value(total, q.metric)
	content := fmt.Sprintf("%s %s: %s (spend %s, revenue %s).",
		q.platform, metricLabel(q.metric), formatMetric(q.metric, v),
		formatMoney(total.Spend), formatMoney(total.Revenue))
	payload := metricsPayload(total)
	payload["platform"] = q.platform
	payload["metric"] = string(q.metric)
	payload["value"] = v
	return QueryResult{Kind: KindPlatformMetric, Content: content, Payload: payload}
}

// handlePlatformPerformance is the full readout for one platform. The
// campaign breakdown rows let "which campaigns?" follow-ups drill in.
func (s *service) handlePlatformPerformance(q *queryContext) QueryResult {
	filter := &aggregate.Filter{Platform: q.platform}
	total := aggregate.Totals(q.records, filter)
	if total.Impressions == 0 {
		return noDataResult(q.platform)
	}
	campaigns := aggregate.Aggregate(q.records, []aggregate.Dimension{aggregate.DimCampaign}, filter)
	aggregate.SortByMetric(campaigns, aggregate.MetricROAS, true)
	rows := rowsFromBuckets(campaigns, false)

	content := fmt.Sprintf("%s performance:\n%s\nRunning %d campaigns.",
		q.platform, metricsBlock(total), len(campaigns))
	payload := metricsPayload(total)
	payload["platform"] = q.platform
	payload["rows"] = rows
	return QueryResult{Kind: KindPlatformPerf, Content: content, Payload: payload}
}

// handleAudiences breaks performance down by audience, scoped to a platform
// when one is named. The search platform gets the fixed refusal.
func (s *service) handleAudiences(q *queryContext) QueryResult {
	if q.platform == SearchPlatform {
		return QueryResult{
			Kind:    KindAudienceRefusal,
			Content: sa360AudienceRefusal,
			Payload: map[string]any{"platform": q.platform},
		}
	}
	buckets := aggregate.Aggregate(q.records, []aggregate.Dimension{aggregate.DimAudience}, platformFilter(q))
	if len(buckets) == 0 {
		return noDataResult(entityLabel(q, "audiences"))
	}
	aggregate.SortByMetric(buckets, aggregate.MetricROAS, true)
	top := aggregate.TopN(buckets, aggregate.TopAudiences)
	rows := rowsFromBuckets(top, false)

	scope := "all platforms"
	if q.platform != "" {
		scope = q.platform
	}
	content := fmt.Sprintf("Top audiences on %s by ROAS:\n%s", scope, rankedLines(rows, aggregate.MetricROAS))
	payload := map[string]any{"rows": rows}
	if q.platform != "" {
		payload["platform"] = q.platform
	}
	return QueryResult{Kind: KindAudiences, Content: content, Payload: payload}
}

// handleOptimization turns the weakest spots of the account into concrete
// recommendations: the lagging campaign and platform, and the format worth
// shifting budget toward.
func (s *service) handleOptimization(q *queryContext) QueryResult {
	campaigns := aggregate.Aggregate(q.records, []aggregate.Dimension{aggregate.DimCampaign}, nil)
	platforms := aggregate.Aggregate(q.records, []aggregate.Dimension{aggregate.DimPlatform}, nil)
	formats := aggregate.Aggregate(q.records, []aggregate.Dimension{aggregate.DimFormat}, nil)
	if len(campaigns) == 0 {
		return noDataResult("your account")
	}
	aggregate.SortByMetric(campaigns, aggregate.MetricROAS, false)
	aggregate.SortByMetric(platforms, aggregate.MetricROAS, false)
	aggregate.SortByMetric(formats, aggregate.MetricROAS, true)

	var recs []string
	worst := campaigns[0]
	if len(campaigns) > 1 {
		best := campaigns[len(campaigns)-1]
		recs = append(recs, fmt.Sprintf(
			"Shift budget from %s (ROAS %s) toward %s (ROAS %s).",
			worst.Name, formatROAS(worst.ROAS()), best.Name, formatROAS(best.ROAS())))
	}
	if len(platforms) > 1 {
		lagging := platforms[0]
		recs = append(recs, fmt.Sprintf(
			"%s is your weakest platform at %s ROAS and %s CPA. Review its targeting before adding spend.",
			lagging.Name, formatROAS(lagging.ROAS()), formatMoneyF(lagging.CPA())))
	}
	if len(formats) > 0 {
		recs = append(recs, fmt.Sprintf(
			"%s creatives lead on ROAS (%s). Test more of them in the lagging campaigns.",
			formats[0].Name, formatROAS(formats[0].ROAS())))
	}
	combos := aggregate.Aggregate(q.records,
		[]aggregate.Dimension{aggregate.DimCampaign, aggregate.DimPlatform}, nil)
	aggregate.SortByMetric(combos, aggregate.MetricROAS, true)
	combos = aggregate.TopN(combos, aggregate.TopCombinations)
	if len(combos) > 0 {
		recs = append(recs, fmt.Sprintf(
			"Your strongest campaign-platform pairing is %s at %s ROAS. Scale it first.",
			combos[0].Name, formatROAS(combos[0].ROAS())))
	}

	var b strings.Builder
	b.WriteString("Recommendations:\n")
	for i, r := range recs {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r)
	}
	return QueryResult{
		Kind:    KindOptimization,
		Content: strings.TrimRight(b.String(), "\n"),
		Payload: map[string]any{
			"recommendations": recs,
			"rows":            rowsFromBuckets(combos, false),
		},
	}
}
