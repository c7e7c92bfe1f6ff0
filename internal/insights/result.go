package insights

// Kind tags a QueryResult with the intent that produced it. The set is
// closed: every classifier branch maps to exactly one tag and the UI keys
// its textual templates off it.
type Kind string

const (
	KindDrillDown        Kind = "drill_down"
	KindChartData        Kind = "chart_data"
	KindBrandComposition Kind = "brand_composition"
	KindBrandAnalytics   Kind = "brand_analytics"
	KindCampaignSummary  Kind = "campaign_summary"
	KindOptimization     Kind = "optimization_recommendations"
	KindTopCreatives     Kind = "top_creatives"
	KindTopPlatforms     Kind = "top_platforms"
	KindTopPerforming    Kind = "top_performing"
	KindCampaignList     Kind = "campaign_list"
	KindAudiences        Kind = "audience_performance"
	KindAudienceRefusal  Kind = "audience_refusal"
	KindAnomalies        Kind = "anomaly_detection"
	KindPlatformMetric   Kind = "platform_metric"
	KindPlatformPerf     Kind = "platform_performance"
	KindComparative      Kind = "comparative_analysis"
	KindMetricSummary    Kind = "metric_summary"
	KindExecSummary      Kind = "executive_summary"
	KindNoData           Kind = "no_data"
	KindFallback         Kind = "fallback"
	KindError            Kind = "error"
)

// QueryResult is the structured answer for one query. Content is the
// rendered text; Payload carries the kind-specific structured data and is
// non-nil for every kind that implies it.
type QueryResult struct {
	Content string
	Kind    Kind
	Payload map[string]any
}

var fallbackExamples = []string{
	"What is our ROAS?",
	"How is Meta performing?",
	"Top performing campaigns",
	"Which creatives work best?",
	"Show me audience performance",
	"Compare platform performance",
	"What should we optimize?",
	"Chart this",
}

func fallbackResult() QueryResult {
	return QueryResult{
		Kind: KindFallback,
		Content: "I can answer questions about your campaign performance. Try one of these:\n" +
			"- What is our ROAS?\n" +
			"- How is Meta performing?\n" +
			"- Top performing campaigns\n" +
			"- Which creatives work best?\n" +
			"- Compare platform performance\n" +
			"- What should we optimize?",
		Payload: map[string]any{"examples": fallbackExamples},
	}
}

func noDataResult(entity string) QueryResult {
	return QueryResult{
		Kind:    KindNoData,
		Content: "No data found for " + entity + ". Check the name or try a different date range.",
		Payload: map[string]any{"entity": entity},
	}
}

func errorResult() QueryResult {
	return QueryResult{
		Kind:    KindError,
		Content: "Something went wrong answering that. Please try again.",
		Payload: map[string]any{},
	}
}
