package insights

import (
	"fmt"
	"strings"

	"github.com/freshnest/insights-backend/internal/aggregate"
	"github.com/freshnest/insights-backend/internal/records"
)

// handleBrandComposition answers structural "how many" questions with
// distinct counts rather than performance numbers.
func (s *service) handleBrandComposition(q *queryContext) QueryResult {
	total := aggregate.Totals(q.records, nil)
	if total.Impressions == 0 {
		return noDataResult("your account")
	}
	campaigns := total.DistinctCount(aggregate.DimCampaign)
	platforms := total.DistinctCount(aggregate.DimPlatform)
	creatives := total.DistinctCount(aggregate.DimCreative)
	audiences := total.DistinctCount(aggregate.DimAudience)

	content := fmt.Sprintf(
		"You are running %d campaigns across %d platforms, with %d creatives targeting %d audiences.\n\nCampaigns:\n%s",
		campaigns, platforms, creatives, audiences,
		bulleted(total.DistinctValues(aggregate.DimCampaign)),
	)
	return QueryResult{
		Kind:    KindBrandComposition,
		Content: content,
		Payload: map[string]any{
			"campaigns": campaigns,
			"platforms": platforms,
			"creatives": creatives,
			"audiences": audiences,
		},
	}
}

// handleBrandAnalytics is the brand-wide overview. Spend, revenue and ROAS
// come from summed totals; CTR/CPC/CPA use the legacy per-record average.
func (s *service) handleBrandAnalytics(q *queryContext) QueryResult {
	total := aggregate.Totals(q.records, nil)
	if total.Impressions == 0 {
		return noDataResult("your account")
	}
	avgCTR, avgCPC, avgCPA := aggregate.AveragedRates(q.records, nil)
	brand := brandName(q.records)

	content := fmt.Sprintf(
		"%s overall performance:\nSpend: %s\nRevenue: %s\nROAS: %s\nAvg CTR: %s\nAvg CPC: %s\nAvg CPA: %s\nConversions: %s",
		brand, formatMoney(total.Spend), formatMoney(total.Revenue), formatROAS(total.ROAS()),
		formatPercent(avgCTR), formatMoneyF(avgCPC), formatMoneyF(avgCPA),
		formatCount(total.Conversions),
	)
	platforms := aggregate.Aggregate(q.records, []aggregate.Dimension{aggregate.DimPlatform}, nil)
	aggregate.SortByMetric(platforms, aggregate.MetricROAS, true)

	payload := metricsPayload(total)
	payload["ctr"] = avgCTR
	payload["cpc"] = avgCPC
	payload["cpa"] = avgCPA
	payload["brand"] = brand
	payload["rows"] = rowsFromBuckets(platforms, false)
	return QueryResult{Kind: KindBrandAnalytics, Content: content, Payload: payload}
}

// handleMetricSummary answers a bare metric question over the whole account.
func (s *service) handleMetricSummary(q *queryContext) QueryResult {
	total := aggregate.Totals(q.records, nil)
	if total.Impressions == 0 {
		return noDataResult("your account")
	}
	v := aggregate.Value(total, q.metric)
	content := fmt.Sprintf("Overall %s: %s (spend %s, revenue %s across %d campaigns).",
		metricLabel(q.metric), formatMetric(q.metric, v),
		formatMoney(total.Spend), formatMoney(total.Revenue),
		total.DistinctCount(aggregate.DimCampaign))
	campaigns := aggregate.Aggregate(q.records, []aggregate.Dimension{aggregate.DimCampaign}, nil)
	aggregate.SortByMetric(campaigns, q.metric, true)

	payload := metricsPayload(total)
	payload["metric"] = string(q.metric)
	payload["value"] = v
	payload["rows"] = rowsFromBuckets(campaigns, false)
	return QueryResult{Kind: KindMetricSummary, Content: content, Payload: payload}
}

// handleExecSummary is the one-paragraph readout: totals, the leading
// campaign and platform, and the covered date range.
func (s *service) handleExecSummary(q *queryContext) QueryResult {
	total := aggregate.Totals(q.records, nil)
	if total.Impressions == 0 {
		return noDataResult("your account")
	}
	campaigns := aggregate.Aggregate(q.records, []aggregate.Dimension{aggregate.DimCampaign}, nil)
	aggregate.SortByMetric(campaigns, aggregate.MetricROAS, true)
	platforms := aggregate.Aggregate(q.records, []aggregate.Dimension{aggregate.DimPlatform}, nil)
	aggregate.SortByMetric(platforms, aggregate.MetricROAS, true)
	from, to := records.DateRange(q.records)

	var b strings.Builder
	fmt.Fprintf(&b, "Executive summary (%s to %s):\n", from.Format("Jan 2, 2006"), to.Format("Jan 2, 2006"))
	fmt.Fprintf(&b, "Total spend %s drove %s in revenue, a %s ROAS.\n",
		formatMoney(total.Spend), formatMoney(total.Revenue), formatROAS(total.ROAS()))
	if len(campaigns) > 0 {
		fmt.Fprintf(&b, "Best campaign: %s at %s ROAS.\n", campaigns[0].Name, formatROAS(campaigns[0].ROAS()))
	}
	if len(platforms) > 0 {
		fmt.Fprintf(&b, "Best platform: %s at %s ROAS.", platforms[0].Name, formatROAS(platforms[0].ROAS()))
	}

	payload := metricsPayload(total)
	payload["rows"] = rowsFromBuckets(aggregate.TopN(campaigns, aggregate.TopCampaigns), false)
	return QueryResult{Kind: KindExecSummary, Content: strings.TrimRight(b.String(), "\n"), Payload: payload}
}

func brandName(recs []records.Record) string {
	for _, r := range recs {
		if r.Brand != "" && r.Brand != records.UnknownValue {
			return r.Brand
		}
	}
	return "Brand"
}

func bulleted(values []string) string {
	var b strings.Builder
	for _, v := range values {
		fmt.Fprintf(&b, "- %s\n", v)
	}
	return strings.TrimRight(b.String(), "\n")
}
