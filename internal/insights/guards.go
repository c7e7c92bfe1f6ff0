package insights

import "strings"

// Route guards. Each one is a cheap lexical predicate over the lower-cased
// query plus the pre-computed detections; the cascade order in buildRoutes
// resolves overlaps.

var (
	compositionWords = []string{"composition", "brand mix", "split by platform", "split across"}
	structureNouns   = []string{"campaign", "platform", "creative", "audience", "ad group"}
	optimizeWords    = []string{"optimiz", "optimis", "recommend", "improve", "suggestion", "suggest", "what should we", "advice"}
	listWords        = []string{"list", "which campaigns", "what campaigns", "all campaigns", "running", "active"}
	anomalyWords     = []string{"anomal", "unusual", "spike", "outlier", "irregular", "sudden drop", "weird"}
	compareWords     = []string{"compare", "comparison", " vs ", " vs.", "versus", "difference between", "against each other"}
	summaryWords     = []string{"summary", "overview", "executive", "recap", "overall performance", "key metrics", "how are we doing", "big picture"}
	performWords     = []string{"perform", "doing", "results", "analytics", "health"}
	audienceWords    = []string{"audience", "targeting", "demographic", "segment"}
)

// "How many clicks did we get?" is a metric question, not a structural one,
// so the count phrasing only routes here when it names a dimension noun and
// no metric.
func matchBrandComposition(q *queryContext) bool {
	if containsAny(q.lower, compositionWords) {
		return true
	}
	return strings.Contains(q.lower, "how many") && !q.hasMetric && containsAny(q.lower, structureNouns)
}

func matchBrandAnalytics(q *queryContext) bool {
	return q.campaign == "" &&
		(strings.Contains(q.lower, "brand") || strings.Contains(q.lower, "freshnest")) &&
		containsAny(q.lower, performWords)
}

func matchCampaignSummary(q *queryContext) bool {
	return q.campaign != "" && !hasChartWord(q.lower)
}

func matchOptimization(q *queryContext) bool {
	return containsAny(q.lower, optimizeWords)
}

func matchTopCreatives(q *queryContext) bool {
	return (strings.Contains(q.lower, "creative") || strings.Contains(q.lower, "ad copy")) &&
		(hasTopWord(q.lower) || hasWorstWord(q.lower) || strings.Contains(q.lower, "work") || strings.Contains(q.lower, "perform"))
}

func matchTopPlatforms(q *queryContext) bool {
	return (strings.Contains(q.lower, "platform") || strings.Contains(q.lower, "channel")) &&
		(hasTopWord(q.lower) || hasWorstWord(q.lower))
}

func matchChartRequest(q *queryContext) bool {
	return hasChartWord(q.lower)
}

// Audience rankings belong to the audience handler further down the
// cascade, so the generic ranking guard must not consume them.
func matchTopCampaigns(q *queryContext) bool {
	return (hasTopWord(q.lower) || hasWorstWord(q.lower)) && !containsAny(q.lower, audienceWords)
}

func matchCampaignList(q *queryContext) bool {
	return strings.Contains(q.lower, "campaign") && !q.hasMetric && containsAny(q.lower, listWords)
}

func matchAudiences(q *queryContext) bool {
	return containsAny(q.lower, audienceWords)
}

func matchAnomalies(q *queryContext) bool {
	return containsAny(q.lower, anomalyWords)
}

func matchPlatformMetric(q *queryContext) bool {
	return q.platform != "" && q.hasMetric
}

func matchPlatformPerformance(q *queryContext) bool {
	return q.platform != ""
}

func matchComparative(q *queryContext) bool {
	return containsAny(q.lower, compareWords)
}

func matchMetricSummary(q *queryContext) bool {
	return q.hasMetric
}

func matchExecSummary(q *queryContext) bool {
	return containsAny(q.lower, summaryWords)
}
