package insights

import (
	"fmt"
	"strings"

	"github.com/freshnest/insights-backend/internal/aggregate"
	"github.com/freshnest/insights-backend/internal/records"
)

// handleTopCampaigns ranks campaigns by the requested metric, ROAS by
// default. "Worst"-style wording flips the sort direction.
func (s *service) handleTopCampaigns(q *queryContext) QueryResult {
	metric := rankingMetric(q.lower)
	desc := sortDirection(q.lower)
	buckets := aggregate.Aggregate(q.records, []aggregate.Dimension{aggregate.DimCampaign}, platformFilter(q))
	if len(buckets) == 0 {
		return noDataResult(entityLabel(q, "campaigns"))
	}
	aggregate.SortByMetric(buckets, metric, desc)
	top := aggregate.TopN(buckets, aggregate.TopCampaigns)
	rows := rowsFromBuckets(top, false)

	direction := "Top"
	if !desc {
		direction = "Lowest"
	}
	content := fmt.Sprintf("%s campaigns by %s:\n%s", direction, metricLabel(metric), rankedLines(rows, metric))
	return QueryResult{
		Kind:    KindTopPerforming,
		Content: content,
		Payload: map[string]any{"metric": string(metric), "rows": rows},
	}
}

// handleTopPlatforms ranks platforms. Conversion counts in the rows are the
// revenue/ROAS estimate, matching the creative breakdown.
func (s *service) handleTopPlatforms(q *queryContext) QueryResult {
	metric := rankingMetric(q.lower)
	desc := sortDirection(q.lower)
	buckets := aggregate.Aggregate(q.records, []aggregate.Dimension{aggregate.DimPlatform}, nil)
	if len(buckets) == 0 {
		return noDataResult("platforms")
	}
	aggregate.SortByMetric(buckets, metric, desc)
	top := aggregate.TopN(buckets, aggregate.TopPlatforms)
	rows := rowsFromBuckets(top, true)

	direction := "Top"
	if !desc {
		direction = "Lowest"
	}
	content := fmt.Sprintf("%s platforms by %s:\n%s", direction, metricLabel(metric), rankedLines(rows, metric))
	return QueryResult{
		Kind:    KindTopPlatforms,
		Content: content,
		Payload: map[string]any{"metric": string(metric), "rows": rows},
	}
}

// handleTopCreatives ranks creatives, optionally scoped to a platform named
// in the query.
func (s *service) handleTopCreatives(q *queryContext) QueryResult {
	metric := rankingMetric(q.lower)
	desc := sortDirection(q.lower)
	buckets := aggregate.Aggregate(q.records, []aggregate.Dimension{aggregate.DimCreative}, platformFilter(q))
	if len(buckets) == 0 {
		return noDataResult(entityLabel(q, "creatives"))
	}
	aggregate.SortByMetric(buckets, metric, desc)
	top := aggregate.TopN(buckets, aggregate.TopCreatives)
	rows := rowsFromBuckets(top, true)

	direction := "Top"
	if !desc {
		direction = "Lowest"
	}
	content := fmt.Sprintf("%s creatives by %s:\n%s", direction, metricLabel(metric), rankedLines(rows, metric))
	return QueryResult{
		Kind:    KindTopCreatives,
		Content: content,
		Payload: map[string]any{"metric": string(metric), "rows": rows},
	}
}

// handleChartRequest builds a fresh chart when no prior result is being
// referenced: platform breakdown if the query says so, campaigns otherwise.
func (s *service) handleChartRequest(q *queryContext) QueryResult {
	dim := aggregate.DimCampaign
	label := "campaign"
	if strings.Contains(q.lower, "platform") || strings.Contains(q.lower, "channel") {
		dim = aggregate.DimPlatform
		label = "platform"
	}
	metric := rankingMetric(q.lower)
	buckets := aggregate.Aggregate(q.records, []aggregate.Dimension{dim}, nil)
	if len(buckets) == 0 {
		return noDataResult("your account")
	}
	aggregate.SortByMetric(buckets, metric, true)
	rows := rowsFromBuckets(buckets, false)

	content := fmt.Sprintf("Here is a %s chart of %s by %s.", chartType(q.lower), label, metricLabel(metric))
	return QueryResult{
		Kind:    KindChartData,
		Content: content,
		Payload: map[string]any{
			"chart_type": chartType(q.lower),
			"metric":     string(metric),
			"rows":       rows,
		},
	}
}

// handleCampaignList enumerates the campaigns with their covered dates.
func (s *service) handleCampaignList(q *queryContext) QueryResult {
	names := records.Campaigns(q.records)
	if len(names) == 0 {
		return noDataResult("campaigns")
	}
	from, to := records.DateRange(q.records)
	content := fmt.Sprintf("%d campaigns active between %s and %s:\n%s",
		len(names), from.Format("Jan 2, 2006"), to.Format("Jan 2, 2006"), bulleted(names))
	return QueryResult{
		Kind:    KindCampaignList,
		Content: content,
		Payload: map[string]any{"campaigns": names},
	}
}

// handleComparative puts every platform (or campaign, when asked) side by
// side, best ROAS first.
func (s *service) handleComparative(q *queryContext) QueryResult {
	dim := aggregate.DimPlatform
	label := "Platform"
	estimate := true
	if strings.Contains(q.lower, "campaign") {
		dim = aggregate.DimCampaign
		label = "Campaign"
		estimate = false
	}
	buckets := aggregate.Aggregate(q.records, []aggregate.Dimension{dim}, nil)
	if len(buckets) == 0 {
		return noDataResult("your account")
	}
	aggregate.SortByMetric(buckets, aggregate.MetricROAS, true)
	rows := rowsFromBuckets(buckets, estimate)

	var b strings.Builder
	fmt.Fprintf(&b, "%s comparison (best ROAS first):\n", label)
	for i, bucket := range buckets {
		fmt.Fprintf(&b, "%d. %s: ROAS %s, CTR %s, spend %s, revenue %s\n",
			i+1, bucket.Name, formatROAS(bucket.ROAS()), formatPercent(bucket.CTR()),
			formatMoney(bucket.Spend), formatMoney(bucket.Revenue))
	}
	return QueryResult{
		Kind:    KindComparative,
		Content: strings.TrimRight(b.String(), "\n"),
		Payload: map[string]any{"rows": rows},
	}
}

// platformFilter scopes an aggregation to the platform named in the query,
// or not at all.
func platformFilter(q *queryContext) *aggregate.Filter {
	if q.platform == "" {
		return nil
	}
	return &aggregate.Filter{Platform: q.platform}
}

func entityLabel(q *queryContext, plural string) string {
	if q.platform != "" {
		return q.platform + " " + plural
	}
	return plural
}
