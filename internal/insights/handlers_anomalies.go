package insights

import (
	"fmt"
	"math"
	"strings"

	"github.com/freshnest/insights-backend/internal/aggregate"
)

// anomalyZScore is the cutoff for flagging a day: the daily ROAS has to sit
// more than two standard deviations from the campaign's mean.
const anomalyZScore = 2.0

// anomalyMinDays is the smallest sample a campaign needs before its spread
// is worth scoring.
const anomalyMinDays = 3

type anomaly struct {
	Campaign string  `json:"campaign"`
	Date     string  `json:"date"`
	ROAS     float64 `json:"roas"`
	Baseline float64 `json:"baseline"`
}

// handleAnomalies scans each campaign's daily ROAS series for days that sit
// far outside the campaign's own baseline.
func (s *service) handleAnomalies(q *queryContext) QueryResult {
	daily := aggregate.Aggregate(q.records,
		[]aggregate.Dimension{aggregate.DimCampaign, aggregate.DimDate}, platformFilter(q))
	if len(daily) == 0 {
		return noDataResult(entityLabel(q, "campaigns"))
	}

	series := make(map[string][]*aggregate.Bucket)
	var order []string
	for _, b := range daily {
		campaign := b.Values[0]
		if _, ok := series[campaign]; !ok {
			order = append(order, campaign)
		}
		series[campaign] = append(series[campaign], b)
	}

	var found []anomaly
	var flagged []*aggregate.Bucket
	for _, campaign := range order {
		days := series[campaign]
		if len(days) < anomalyMinDays {
			continue
		}
		mean, stddev := roasSpread(days)
		if stddev == 0 {
			continue
		}
		for _, day := range days {
			roas := day.ROAS()
			if math.Abs(roas-mean)/stddev > anomalyZScore {
				found = append(found, anomaly{
					Campaign: campaign,
					Date:     day.Values[1],
					ROAS:     roas,
					Baseline: mean,
				})
				flagged = append(flagged, day)
			}
		}
	}

	if len(found) == 0 {
		return QueryResult{
			Kind:    KindAnomalies,
			Content: "No anomalies detected. Daily ROAS is within the normal range for every campaign.",
			Payload: map[string]any{"anomalies": []anomaly{}},
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d unusual day(s):\n", len(found))
	for _, a := range found {
		direction := "above"
		if a.ROAS < a.Baseline {
			direction = "below"
		}
		fmt.Fprintf(&b, "- %s on %s: ROAS %s, well %s its %s baseline\n",
			a.Campaign, a.Date, formatROAS(a.ROAS), direction, formatROAS(a.Baseline))
	}
	// The flagged days double as result rows so a "chart this" follow-up
	// plots the outliers instead of starting over.
	return QueryResult{
		Kind:    KindAnomalies,
		Content: strings.TrimRight(b.String(), "\n"),
		Payload: map[string]any{
			"anomalies": found,
			"rows":      rowsFromBuckets(flagged, false),
		},
	}
}

func roasSpread(days []*aggregate.Bucket) (mean, stddev float64) {
	for _, d := range days {
		mean += d.ROAS()
	}
	mean /= float64(len(days))
	var variance float64
	for _, d := range days {
		diff := d.ROAS() - mean
		variance += diff * diff
	}
	variance /= float64(len(days))
	return mean, math.Sqrt(variance)
}
