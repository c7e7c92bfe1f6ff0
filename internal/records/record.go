package records

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnknownValue sentinels a dimension that was absent in the source row.
const UnknownValue = "Unknown"

// Record is one day/platform/campaign/creative/audience row of campaign
// performance. Records are created once at load time and shared read-only
// across requests; nothing in the service mutates them.
type Record struct {
	Date time.Time

	Brand          string
	Campaign       string
	CampaignID     string
	Platform       string
	Audience       string
	CreativeID     string
	CreativeName   string
	CreativeFormat string
	AdGroup        string

	Impressions int64
	Clicks      int64
	Conversions int64
	Spend       decimal.Decimal
	Revenue     decimal.Decimal

	// Per-row derived rates. Loaded from the source when present, otherwise
	// computed from the row's own counts. The legacy summary paths average
	// these directly instead of recomputing from summed totals.
	CTR  float64
	CPC  float64
	CPM  float64
	CPA  float64
	ROAS float64
}

// Provider hands back the already-loaded record set. Implementations must
// return the same immutable slice on every call.
type Provider interface {
	Records() []Record
}

// StaticProvider serves a fixed in-memory record set.
type StaticProvider struct {
	records []Record
}

func NewStaticProvider(records []Record) *StaticProvider {
	return &StaticProvider{records: records}
}

func (p *StaticProvider) Records() []Record {
	return p.records
}

// Platforms returns the distinct platform names in first-seen order.
func Platforms(records []Record) []string {
	return distinct(records, func(r Record) string { return r.Platform })
}

// Campaigns returns the distinct campaign names in first-seen order.
func Campaigns(records []Record) []string {
	return distinct(records, func(r Record) string { return r.Campaign })
}

func distinct(records []Record, key func(Record) string) []string {
	seen := make(map[string]struct{}, len(records))
	var out []string
	for _, r := range records {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// DateRange returns the earliest and latest record dates.
func DateRange(records []Record) (time.Time, time.Time) {
	var min, max time.Time
	for _, r := range records {
		if min.IsZero() || r.Date.Before(min) {
			min = r.Date
		}
		if max.IsZero() || r.Date.After(max) {
			max = r.Date
		}
	}
	return min, max
}
