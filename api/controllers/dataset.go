package controllers

import (
	"net/http"

	"github.com/freshnest/insights-backend/api/responses"
	"github.com/freshnest/insights-backend/internal/aggregate"
	"github.com/freshnest/insights-backend/internal/records"
)

// DatasetSummary exposes the loaded record set's shape: row count, distinct
// dimensions and the covered date range.
func DatasetSummary(provider records.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs := provider.Records()
		total := aggregate.Totals(recs, nil)
		from, to := records.DateRange(recs)

		summary := map[string]any{
			"rows":      len(recs),
			"campaigns": records.Campaigns(recs),
			"platforms": records.Platforms(recs),
			"from":      "",
			"to":        "",
			"totals": map[string]any{
				"spend":       total.SpendF(),
				"revenue":     total.RevenueF(),
				"impressions": total.Impressions,
				"clicks":      total.Clicks,
				"conversions": total.Conversions,
			},
		}
		if !from.IsZero() {
			summary["from"] = from.Format("2006-01-02")
			summary["to"] = to.Format("2006-01-02")
		}
		responses.WriteSuccess(w, summary)
	}
}
