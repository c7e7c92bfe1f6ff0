package aggregate

import (
	"sort"
	"strings"
	"time"

	"github.com/freshnest/insights-backend/internal/records"
	"github.com/shopspring/decimal"
)

// Dimension names a grouping axis over the record set.
type Dimension string

const (
	DimBrand    Dimension = "brand"
	DimCampaign Dimension = "campaign"
	DimPlatform Dimension = "platform"
	DimAudience Dimension = "audience"
	DimCreative Dimension = "creative"
	DimFormat   Dimension = "format"
	DimAdGroup  Dimension = "ad_group"
	DimDate     Dimension = "date"
)

// Fixed result sizes for ranked answers. These are part of the product
// contract, not tunables.
const (
	TopCampaigns      = 3
	TopPlatforms      = 3
	TopCreatives      = 3
	TopAudiences      = 5
	TopCombinations   = 10
	assumedOrderValue = 100
)

const keySeparator = "\x1f"

// Filter narrows the record set before grouping. Platform is a
// case-insensitive exact match; CampaignContains is a case-insensitive
// substring match; the date bounds are inclusive and optional.
type Filter struct {
	Platform         string
	CampaignContains string
	From             time.Time
	To               time.Time
}

func (f *Filter) match(r records.Record) bool {
	if f == nil {
		return true
	}
	if f.Platform != "" && !strings.EqualFold(f.Platform, r.Platform) {
		return false
	}
	if f.CampaignContains != "" &&
		!strings.Contains(strings.ToLower(r.Campaign), strings.ToLower(f.CampaignContains)) {
		return false
	}
	if !f.From.IsZero() && r.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && r.Date.After(f.To) {
		return false
	}
	return true
}

// Bucket is the aggregate of all records sharing one grouping-key tuple.
// Derived rates are computed from the summed totals on demand, never
// averaged from per-record values.
type Bucket struct {
	Name   string
	Values []string

	Impressions int64
	Clicks      int64
	Conversions int64
	Spend       decimal.Decimal
	Revenue     decimal.Decimal

	children map[Dimension]map[string]struct{}
}

func (b *Bucket) add(r records.Record) {
	b.Impressions += r.Impressions
	b.Clicks += r.Clicks
	b.Conversions += r.Conversions
	b.Spend = b.Spend.Add(r.Spend)
	b.Revenue = b.Revenue.Add(r.Revenue)
	b.noteChild(DimCampaign, r.Campaign)
	b.noteChild(DimPlatform, r.Platform)
	b.noteChild(DimCreative, r.CreativeName)
	b.noteChild(DimAudience, r.Audience)
}

func (b *Bucket) noteChild(dim Dimension, value string) {
	if b.children == nil {
		b.children = make(map[Dimension]map[string]struct{})
	}
	set, ok := b.children[dim]
	if !ok {
		set = make(map[string]struct{})
		b.children[dim] = set
	}
	set[value] = struct{}{}
}

// DistinctCount reports how many distinct values of dim fell into the bucket.
func (b *Bucket) DistinctCount(dim Dimension) int {
	return len(b.children[dim])
}

// DistinctValues returns the sorted distinct values of dim in the bucket.
func (b *Bucket) DistinctValues(dim Dimension) []string {
	set := b.children[dim]
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (b *Bucket) SpendF() float64   { return b.Spend.InexactFloat64() }
func (b *Bucket) RevenueF() float64 { return b.Revenue.InexactFloat64() }

func (b *Bucket) CTR() float64 {
	if b.Impressions == 0 {
		return 0
	}
	return float64(b.Clicks) / float64(b.Impressions)
}

func (b *Bucket) ROAS() float64 {
	if !b.Spend.IsPositive() {
		return 0
	}
	return b.RevenueF() / b.SpendF()
}

func (b *Bucket) CPA() float64 {
	if b.Conversions == 0 {
		return 0
	}
	return b.SpendF() / float64(b.Conversions)
}

func (b *Bucket) CPC() float64 {
	if b.Clicks == 0 {
		return 0
	}
	return b.SpendF() / float64(b.Clicks)
}

func (b *Bucket) CPM() float64 {
	if b.Impressions == 0 {
		return 0
	}
	return b.SpendF() / float64(b.Impressions) * 1000
}

// Aggregate filters records, then groups them by the ordered dimension
// tuple. Buckets come back in first-seen order, so later stable sorts keep
// record order as the tiebreak.
func Aggregate(recs []records.Record, groupBy []Dimension, filter *Filter) []*Bucket {
	byKey := make(map[string]*Bucket)
	var order []*Bucket
	for _, r := range recs {
		if !filter.match(r) {
			continue
		}
		values := make([]string, len(groupBy))
		for i, dim := range groupBy {
			values[i] = dimensionValue(r, dim)
		}
		key := strings.Join(values, keySeparator)
		bucket, ok := byKey[key]
		if !ok {
			bucket = &Bucket{Name: strings.Join(values, " / "), Values: values}
			byKey[key] = bucket
			order = append(order, bucket)
		}
		bucket.add(r)
	}
	return order
}

// Totals aggregates the filtered record set into a single bucket.
func Totals(recs []records.Record, filter *Filter) *Bucket {
	total := &Bucket{Name: "Total"}
	for _, r := range recs {
		if !filter.match(r) {
			continue
		}
		total.add(r)
	}
	return total
}

func dimensionValue(r records.Record, dim Dimension) string {
	switch dim {
	case DimBrand:
		return r.Brand
	case DimCampaign:
		return r.Campaign
	case DimPlatform:
		return r.Platform
	case DimAudience:
		return r.Audience
	case DimCreative:
		return r.CreativeName
	case DimFormat:
		return r.CreativeFormat
	case DimAdGroup:
		return r.AdGroup
	case DimDate:
		return r.Date.Format("2006-01-02")
	default:
		return records.UnknownValue
	}
}
