package insights

import (
	"fmt"
	"strings"

	"github.com/freshnest/insights-backend/internal/aggregate"
	"github.com/freshnest/insights-backend/internal/convo"
	"github.com/shopspring/decimal"
)

func formatMoney(d decimal.Decimal) string {
	return "$" + groupThousands(d.StringFixed(2))
}

func formatMoneyF(v float64) string {
	return formatMoney(decimal.NewFromFloat(v))
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

func formatROAS(v float64) string {
	return fmt.Sprintf("%.2fx", v)
}

func formatCount(v int64) string {
	return groupThousands(fmt.Sprintf("%d", v))
}

func groupThousands(s string) string {
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	if len(intPart) <= 3 {
		return intPart + frac
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return b.String() + frac
}

// formatMetric renders a metric value in its conventional unit.
func formatMetric(m aggregate.Metric, v float64) string {
	switch m {
	case aggregate.MetricROAS:
		return formatROAS(v)
	case aggregate.MetricCTR:
		return formatPercent(v)
	case aggregate.MetricCPA, aggregate.MetricCPC, aggregate.MetricCPM,
		aggregate.MetricSpend, aggregate.MetricRevenue:
		return formatMoneyF(v)
	default:
		return formatCount(int64(v + 0.5))
	}
}

func metricLabel(m aggregate.Metric) string {
	switch m {
	case aggregate.MetricROAS:
		return "ROAS"
	case aggregate.MetricCTR:
		return "CTR"
	case aggregate.MetricCPA:
		return "CPA"
	case aggregate.MetricCPC:
		return "CPC"
	case aggregate.MetricCPM:
		return "CPM"
	case aggregate.MetricSpend:
		return "spend"
	case aggregate.MetricRevenue:
		return "revenue"
	case aggregate.MetricImpressions:
		return "impressions"
	case aggregate.MetricClicks:
		return "clicks"
	case aggregate.MetricConversions:
		return "conversions"
	default:
		return string(m)
	}
}

// rowFromBucket flattens a bucket into the uniform tabular row shape shared
// with the context store and the chart component. When estimateConversions
// is set the conversions column uses the revenue/ROAS approximation instead
// of the summed field (creative and platform breakdowns).
func rowFromBucket(b *aggregate.Bucket, estimateConversions bool) convo.ResultRow {
	row := convo.ResultRow{
		Name:        b.Name,
		ROAS:        b.ROAS(),
		CTR:         b.CTR(),
		CPA:         b.CPA(),
		Spend:       b.SpendF(),
		Revenue:     b.RevenueF(),
		Conversions: float64(b.Conversions),
	}
	if estimateConversions {
		row.Conversions = aggregate.EstimatedConversions(b.Revenue, b.ROAS())
	}
	return row
}

func rowsFromBuckets(buckets []*aggregate.Bucket, estimateConversions bool) []convo.ResultRow {
	rows := make([]convo.ResultRow, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, rowFromBucket(b, estimateConversions))
	}
	return rows
}

// rankedLines renders a numbered ranking for the answer text.
func rankedLines(rows []convo.ResultRow, m aggregate.Metric) string {
	var b strings.Builder
	for i, row := range rows {
		v := rowMetric(row, m)
		fmt.Fprintf(&b, "%d. %s: %s %s (spend %s, revenue %s)\n",
			i+1, row.Name, metricLabel(m), formatMetric(m, v),
			formatMoneyF(row.Spend), formatMoneyF(row.Revenue))
	}
	return strings.TrimRight(b.String(), "\n")
}

func rowMetric(row convo.ResultRow, m aggregate.Metric) float64 {
	switch m {
	case aggregate.MetricCTR:
		return row.CTR
	case aggregate.MetricCPA:
		return row.CPA
	case aggregate.MetricSpend:
		return row.Spend
	case aggregate.MetricRevenue:
		return row.Revenue
	case aggregate.MetricConversions:
		return row.Conversions
	default:
		return row.ROAS
	}
}

// metricsBlock renders the standard metric block for a single entity.
func metricsBlock(b *aggregate.Bucket) string {
	return fmt.Sprintf(
		"Spend: %s\nRevenue: %s\nROAS: %s\nCTR: %s\nImpressions: %s\nClicks: %s\nConversions: %s",
		formatMoney(b.Spend), formatMoney(b.Revenue), formatROAS(b.ROAS()),
		formatPercent(b.CTR()), formatCount(b.Impressions), formatCount(b.Clicks),
		formatCount(b.Conversions),
	)
}

func metricsPayload(b *aggregate.Bucket) map[string]any {
	return map[string]any{
		"spend":       b.SpendF(),
		"revenue":     b.RevenueF(),
		"roas":        b.ROAS(),
		"ctr":         b.CTR(),
		"cpa":         b.CPA(),
		"cpc":         b.CPC(),
		"cpm":         b.CPM(),
		"impressions": b.Impressions,
		"clicks":      b.Clicks,
		"conversions": b.Conversions,
	}
}

// chartType picks the chart sub-type from the query, defaulting to bar.
func chartType(lower string) string {
	switch {
	case strings.Contains(lower, "pie"):
		return "pie"
	case strings.Contains(lower, "line") || strings.Contains(lower, "trend"):
		return "line"
	default:
		return "bar"
	}
}
