package insights

import (
	"testing"

	"github.com/freshnest/insights-backend/internal/aggregate"
)

func TestDetectPlatformAliases(t *testing.T) {
	cases := map[string]string{
		"how is meta doing":              "Meta",
		"spend on the trade desk":        "Tradedesk",
		"dv 360 results please":          "Dv360",
		"tell me about sa360":            "Sa360",
		"how are our campaigns overall?": "",
	}
	for query, want := range cases {
		if got := detectPlatform(query); got != want {
			t.Errorf("detectPlatform(%q) = %q, want %q", query, got, want)
		}
	}
}

func TestDetectMetricPrefersLongerPhrases(t *testing.T) {
	if m, ok := detectMetric("what's the cost per click on amazon"); !ok || m != aggregate.MetricCPC {
		t.Fatalf("expected cpc, got %v", m)
	}
	if m, ok := detectMetric("what's our click-through rate"); !ok || m != aggregate.MetricCTR {
		t.Fatalf("expected ctr, got %v", m)
	}
	if m, ok := detectMetric("return on ad spend please"); !ok || m != aggregate.MetricROAS {
		t.Fatalf("expected roas before spend, got %v", m)
	}
	if _, ok := detectMetric("banana"); ok {
		t.Fatalf("expected no metric for nonsense")
	}
}

func TestDetectCampaignMatchesTail(t *testing.T) {
	recs := fixture()
	if got := detectCampaign("how did the summer grilling push do", recs); got != "FreshNest Summer Grilling" {
		t.Fatalf("expected tail match, got %q", got)
	}
	if got := detectCampaign("how did freshnest back to school do", recs); got != "FreshNest Back to School" {
		t.Fatalf("expected full-name match, got %q", got)
	}
	if got := detectCampaign("how are things", recs); got != "" {
		t.Fatalf("expected no campaign, got %q", got)
	}
}

func TestAnaphoraRespectsWordBoundaries(t *testing.T) {
	if hasAnaphora("compare with last week") {
		t.Fatalf("'it' inside 'with' must not count as anaphora")
	}
	if !hasAnaphora("chart it") {
		t.Fatalf("bare 'it' is anaphora")
	}
	if !hasAnaphora("break this down") {
		t.Fatalf("'this' is anaphora")
	}
}

func TestSortDirection(t *testing.T) {
	if sortDirection("worst campaigns") {
		t.Fatalf("worst must sort ascending")
	}
	if !sortDirection("top campaigns") {
		t.Fatalf("top must sort descending")
	}
}
