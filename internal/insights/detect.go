package insights

import (
	"strings"

	"github.com/freshnest/insights-backend/internal/aggregate"
	"github.com/freshnest/insights-backend/internal/records"
)

// The platform vocabulary is fixed: these are the only platforms the
// trafficking team buys on.
var platformNames = []string{"Meta", "Dv360", "Cm360", "Sa360", "Amazon", "Tradedesk"}

// SearchPlatform never targets audiences, so audience questions scoped to it
// get a fixed refusal instead of an empty breakdown.
const SearchPlatform = "Sa360"

var platformAliases = map[string]string{
	"meta":           "Meta",
	"dv360":          "Dv360",
	"dv 360":         "Dv360",
	"cm360":          "Cm360",
	"cm 360":         "Cm360",
	"sa360":          "Sa360",
	"sa 360":         "Sa360",
	"amazon":         "Amazon",
	"tradedesk":      "Tradedesk",
	"trade desk":     "Tradedesk",
	"the trade desk": "Tradedesk",
}

// detectPlatform finds the first known platform named in the query.
func detectPlatform(lower string) string {
	for _, name := range platformNames {
		if strings.Contains(lower, strings.ToLower(name)) {
			return name
		}
	}
	for alias, name := range platformAliases {
		if strings.Contains(lower, alias) {
			return name
		}
	}
	return ""
}

// detectCampaign matches the query against the campaign names present in the
// record set. A campaign is detected when the query contains either the full
// name or its distinctive tail (the name with the shared brand prefix
// stripped), so "the summer grilling campaign" resolves to
// "FreshNest Summer Grilling".
func detectCampaign(lower string, recs []records.Record) string {
	for _, name := range records.Campaigns(recs) {
		if name == records.UnknownValue {
			continue
		}
		if strings.Contains(lower, strings.ToLower(name)) {
			return name
		}
		if tail := campaignTail(name); tail != "" && strings.Contains(lower, tail) {
			return name
		}
	}
	return ""
}

func campaignTail(name string) string {
	parts := strings.SplitN(name, " ", 2)
	if len(parts) < 2 {
		return ""
	}
	tail := strings.ToLower(strings.TrimSpace(parts[1]))
	// Too-short tails ("sale") would false-positive all over the place.
	if len(tail) < 5 {
		return ""
	}
	return tail
}

// metricKeywords maps each metric to its synonym phrases. Detection order
// matters: multi-word phrases like "cost per click" must win before the bare
// "cost"/"click" style synonyms of broader metrics, so detectMetric walks
// metricDetectionOrder rather than the map.
var metricKeywords = map[aggregate.Metric][]string{
	aggregate.MetricROAS:        {"roas", "return on ad spend", "return on advertising spend", "return on investment", "roi"},
	aggregate.MetricCTR:         {"ctr", "click-through rate", "click through rate", "click rate", "clickthrough"},
	aggregate.MetricCPA:         {"cpa", "cost per acquisition", "cost per conversion"},
	aggregate.MetricCPC:         {"cpc", "cost per click"},
	aggregate.MetricCPM:         {"cpm", "cost per thousand", "cost per mille"},
	aggregate.MetricRevenue:     {"revenue", "sales", "income"},
	aggregate.MetricSpend:       {"spend", "budget", "total cost", "how much did we spend"},
	aggregate.MetricImpressions: {"impressions", "views"},
	aggregate.MetricClicks:      {"clicks", "click volume"},
	aggregate.MetricConversions: {"conversions", "conversion"},
}

var metricDetectionOrder = []aggregate.Metric{
	aggregate.MetricROAS,
	aggregate.MetricCTR,
	aggregate.MetricCPA,
	aggregate.MetricCPC,
	aggregate.MetricCPM,
	aggregate.MetricRevenue,
	aggregate.MetricSpend,
	aggregate.MetricImpressions,
	aggregate.MetricClicks,
	aggregate.MetricConversions,
}

func detectMetric(lower string) (aggregate.Metric, bool) {
	for _, m := range metricDetectionOrder {
		if containsAny(lower, metricKeywords[m]) {
			return m, true
		}
	}
	return "", false
}

var (
	topWords      = []string{"top", "best", "highest", "leading", "most effective", "strongest"}
	worstWords    = []string{"worst", "lowest", "bottom", "weakest", "underperform", "least effective"}
	chartWords    = []string{"chart", "graph", "plot", "visualize", "visualise", "visualization", "download"}
	anaphoraWords = []string{"this", "that", "it", "these", "those"}
)

func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func hasTopWord(lower string) bool   { return containsAny(lower, topWords) }
func hasWorstWord(lower string) bool { return containsAny(lower, worstWords) }
func hasChartWord(lower string) bool { return containsAny(lower, chartWords) }

func hasAnaphora(lower string) bool {
	for _, w := range anaphoraWords {
		if containsWord(lower, w) {
			return true
		}
	}
	return false
}

// containsWord matches w on word boundaries so "it" does not match inside
// "creatives".
func containsWord(lower, w string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], w)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(w)
		beforeOK := start == 0 || !isWordChar(lower[start-1])
		afterOK := end == len(lower) || !isWordChar(lower[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

// sortDirection picks the ranking direction: "worst/lowest" queries sort
// ascending, everything else descending.
func sortDirection(lower string) bool {
	return !hasWorstWord(lower)
}

// rankingMetric picks the metric a ranked answer sorts by, defaulting to
// ROAS when the query names none.
func rankingMetric(lower string) aggregate.Metric {
	if m, ok := detectMetric(lower); ok {
		return m
	}
	return aggregate.MetricROAS
}
