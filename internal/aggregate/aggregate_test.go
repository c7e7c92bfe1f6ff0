package aggregate

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/freshnest/insights-backend/internal/records"
)

func rec(day, campaign, platform, audience string, impressions, clicks, conversions int64, spend, revenue int64) records.Record {
	date, _ := time.Parse("2006-01-02", day)
	r := records.Record{
		Date:        date,
		Brand:       "FreshNest",
		Campaign:    campaign,
		Platform:    platform,
		Audience:    audience,
		Impressions: impressions,
		Clicks:      clicks,
		Conversions: conversions,
		Spend:       decimal.NewFromInt(spend),
		Revenue:     decimal.NewFromInt(revenue),
	}
	if impressions > 0 {
		r.CTR = float64(clicks) / float64(impressions)
	}
	if clicks > 0 {
		r.CPC = float64(spend) / float64(clicks)
	}
	if conversions > 0 {
		r.CPA = float64(spend) / float64(conversions)
	}
	return r
}

func fixture() []records.Record {
	return []records.Record{
		rec("2025-06-01", "FreshNest Summer Grilling", "Meta", "Grill Masters", 10000, 200, 20, 400, 1800),
		rec("2025-06-02", "FreshNest Summer Grilling", "Amazon", "Deal Seekers", 8000, 150, 12, 200, 700),
		rec("2025-06-01", "FreshNest Back to School", "Meta", "Busy Parents", 12000, 90, 10, 250, 500),
		rec("2025-06-02", "FreshNest Back to School", "Dv360", "Busy Parents", 5000, 300, 15, 150, 290),
	}
}

func TestAggregateConservesTotals(t *testing.T) {
	recs := fixture()
	total := Totals(recs, nil)
	buckets := Aggregate(recs, []Dimension{DimCampaign}, nil)

	var spend, revenue decimal.Decimal
	var impressions int64
	for _, b := range buckets {
		spend = spend.Add(b.Spend)
		revenue = revenue.Add(b.Revenue)
		impressions += b.Impressions
	}
	if !spend.Equal(total.Spend) {
		t.Fatalf("bucket spend %s does not match total %s", spend, total.Spend)
	}
	if !revenue.Equal(total.Revenue) {
		t.Fatalf("bucket revenue %s does not match total %s", revenue, total.Revenue)
	}
	if impressions != total.Impressions {
		t.Fatalf("bucket impressions %d do not match total %d", impressions, total.Impressions)
	}
}

func TestDerivedRatesComeFromSums(t *testing.T) {
	recs := fixture()
	total := Totals(recs, nil)

	wantCTR := float64(200+150+90+300) / float64(10000+8000+12000+5000)
	if math.Abs(total.CTR()-wantCTR) > 1e-12 {
		t.Fatalf("expected CTR %v, got %v", wantCTR, total.CTR())
	}
	wantROAS := 3290.0 / 1000.0
	if math.Abs(total.ROAS()-wantROAS) > 1e-12 {
		t.Fatalf("expected ROAS %v, got %v", wantROAS, total.ROAS())
	}
	wantCPM := 1000.0 / 35000.0 * 1000
	if math.Abs(total.CPM()-wantCPM) > 1e-9 {
		t.Fatalf("expected CPM %v, got %v", wantCPM, total.CPM())
	}
}

func TestZeroGuards(t *testing.T) {
	var b Bucket
	if b.CTR() != 0 || b.ROAS() != 0 || b.CPA() != 0 || b.CPC() != 0 || b.CPM() != 0 {
		t.Fatalf("empty bucket must report zero for every derived rate")
	}
}

func TestFilterPlatformAndCampaign(t *testing.T) {
	recs := fixture()

	meta := Totals(recs, &Filter{Platform: "meta"})
	if meta.Impressions != 22000 {
		t.Fatalf("platform match should be case-insensitive exact, got %d impressions", meta.Impressions)
	}

	grilling := Totals(recs, &Filter{CampaignContains: "summer grilling"})
	if got := grilling.Spend.IntPart(); got != 600 {
		t.Fatalf("expected campaign substring filter to capture spend 600, got %d", got)
	}

	none := Totals(recs, &Filter{Platform: "Tradedesk"})
	if none.Impressions != 0 {
		t.Fatalf("expected empty result for absent platform")
	}
}

func TestSortByMetricStableAndTopN(t *testing.T) {
	recs := fixture()
	buckets := Aggregate(recs, []Dimension{DimCampaign}, nil)
	SortByMetric(buckets, MetricROAS, true)
	if buckets[0].Name != "FreshNest Summer Grilling" {
		t.Fatalf("expected Summer Grilling first by ROAS, got %s", buckets[0].Name)
	}
	top := TopN(buckets, 1)
	if len(top) != 1 {
		t.Fatalf("expected TopN to cap at 1, got %d", len(top))
	}
	if got := TopN(buckets, 10); len(got) != len(buckets) {
		t.Fatalf("TopN beyond length must return everything")
	}
}

func TestSortAscendingForWorst(t *testing.T) {
	recs := fixture()
	buckets := Aggregate(recs, []Dimension{DimCampaign}, nil)
	SortByMetric(buckets, MetricROAS, false)
	if buckets[0].Name != "FreshNest Back to School" {
		t.Fatalf("expected Back to School first ascending, got %s", buckets[0].Name)
	}
}

// The brand and campaign summaries average per-record rates instead of
// recomputing them from sums. The two paths must stay distinct.
func TestAveragedRatesDivergeFromSummed(t *testing.T) {
	recs := fixture()
	avgCTR, avgCPC, avgCPA := AveragedRates(recs, nil)
	total := Totals(recs, nil)

	if avgCTR == total.CTR() {
		t.Fatalf("averaged CTR should differ from summed CTR on this fixture")
	}
	if avgCPC <= 0 || avgCPA <= 0 {
		t.Fatalf("averaged rates must be positive on a non-empty fixture")
	}

	emptyCTR, emptyCPC, emptyCPA := AveragedRates(nil, nil)
	if emptyCTR != 0 || emptyCPC != 0 || emptyCPA != 0 {
		t.Fatalf("averaged rates over no records must be zero")
	}
}

func TestEstimatedConversions(t *testing.T) {
	got := EstimatedConversions(decimal.NewFromInt(3000), 3.0)
	if math.Abs(got-10.0) > 1e-9 {
		t.Fatalf("expected 3000 revenue at 3.0x to estimate 10 conversions, got %v", got)
	}
	if EstimatedConversions(decimal.NewFromInt(3000), 0) != 0 {
		t.Fatalf("zero ROAS must estimate zero conversions")
	}
}

func TestDistinctChildren(t *testing.T) {
	recs := fixture()
	total := Totals(recs, nil)
	if got := total.DistinctCount(DimCampaign); got != 2 {
		t.Fatalf("expected 2 distinct campaigns, got %d", got)
	}
	if got := total.DistinctCount(DimPlatform); got != 3 {
		t.Fatalf("expected 3 distinct platforms, got %d", got)
	}
	values := total.DistinctValues(DimPlatform)
	if len(values) != 3 || values[0] != "Amazon" {
		t.Fatalf("expected sorted distinct platforms, got %v", values)
	}
}
