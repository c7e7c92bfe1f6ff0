package aggregate

import (
	"sort"

	"github.com/freshnest/insights-backend/internal/records"
	"github.com/shopspring/decimal"
)

// Metric names a sortable/reportable measure over a bucket.
type Metric string

const (
	MetricROAS        Metric = "roas"
	MetricCTR         Metric = "ctr"
	MetricCPA         Metric = "cpa"
	MetricCPC         Metric = "cpc"
	MetricCPM         Metric = "cpm"
	MetricSpend       Metric = "spend"
	MetricRevenue     Metric = "revenue"
	MetricImpressions Metric = "impressions"
	MetricClicks      Metric = "clicks"
	MetricConversions Metric = "conversions"
)

// Value reads the named metric from a bucket, derived rates from summed
// totals.
func Value(b *Bucket, m Metric) float64 {
	switch m {
	case MetricROAS:
		return b.ROAS()
	case MetricCTR:
		return b.CTR()
	case MetricCPA:
		return b.CPA()
	case MetricCPC:
		return b.CPC()
	case MetricCPM:
		return b.CPM()
	case MetricSpend:
		return b.SpendF()
	case MetricRevenue:
		return b.RevenueF()
	case MetricImpressions:
		return float64(b.Impressions)
	case MetricClicks:
		return float64(b.Clicks)
	case MetricConversions:
		return float64(b.Conversions)
	default:
		return 0
	}
}

// SortByMetric orders buckets by the metric. The sort is stable so ties keep
// bucket-creation order.
func SortByMetric(buckets []*Bucket, m Metric, descending bool) {
	sort.SliceStable(buckets, func(i, j int) bool {
		if descending {
			return Value(buckets[i], m) > Value(buckets[j], m)
		}
		return Value(buckets[i], m) < Value(buckets[j], m)
	})
}

// TopN slices the first n buckets after sorting.
func TopN(buckets []*Bucket, n int) []*Bucket {
	if n >= len(buckets) {
		return buckets
	}
	return buckets[:n]
}

// AveragedRates is the legacy summary path: it averages the per-record CTR,
// CPC and CPA values instead of recomputing them from summed totals. Brand
// and campaign summaries have always reported rates this way, while platform
// and creative rankings use the summed path; the divergence is intentional
// and preserved.
func AveragedRates(recs []records.Record, filter *Filter) (ctr, cpc, cpa float64) {
	var n float64
	for _, r := range recs {
		if !filter.match(r) {
			continue
		}
		ctr += r.CTR
		cpc += r.CPC
		cpa += r.CPA
		n++
	}
	if n == 0 {
		return 0, 0, 0
	}
	return ctr / n, cpc / n, cpa / n
}

// EstimatedConversions approximates a conversion count from revenue and
// ROAS, assuming a $100 average order value. The record-level conversions
// field is considered unreliable for creative and platform breakdowns, so
// those reports use this estimate instead of the summed field. Deliberate
// approximation, kept as-is.
func EstimatedConversions(revenue decimal.Decimal, roas float64) float64 {
	if roas <= 0 {
		return 0
	}
	return revenue.InexactFloat64() / (roas * assumedOrderValue)
}
