package records

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/multierr"
)

var dateLayouts = []string{"2006-01-02", "2006/01/02", "01/02/2006"}

// LoadFile reads a campaign performance dataset from a .csv or .xlsx file.
//
// Rows with zero impressions are dropped here so the rest of the service can
// rely on the impressions > 0 invariant. Missing dimension cells fall back to
// the Unknown sentinel. Row-level parse failures do not abort the load: they
// are accumulated and returned alongside whatever parsed, so callers can log
// them. The error is only fatal when no rows parsed at all.
func LoadFile(path string) ([]Record, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("dataset %s: need a header row and at least one data row", path)
	}
	return parseRows(rows[0], rows[1:])
}

func readRows(path string) ([][]string, error) {
	name := strings.ToLower(path)
	switch {
	case strings.HasSuffix(name, ".xlsx"):
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("open workbook %s: %w", path, err)
		}
		defer f.Close()
		rows, err := f.GetRows(f.GetSheetName(0))
		if err != nil {
			return nil, fmt.Errorf("read workbook %s: %w", path, err)
		}
		return rows, nil
	case strings.HasSuffix(name, ".csv"):
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open dataset %s: %w", path, err)
		}
		defer f.Close()
		r := csv.NewReader(f)
		r.FieldsPerRecord = -1
		rows, err := r.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("parse csv %s: %w", path, err)
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("unsupported dataset format: %s", path)
	}
}

type columnIndexes struct {
	date                                  int
	brand, campaign, campaignID, platform int
	audience, creativeID, creativeName    int
	creativeFormat, adGroup               int
	impressions, clicks, conversions      int
	spend, revenue                        int
	ctr, cpc, cpm, cpa, roas              int
}

func detectColumns(header []string) (columnIndexes, error) {
	cols := columnIndexes{
		date:           findIndex(header, "date", "day"),
		brand:          findIndex(header, "brand"),
		campaign:       findIndex(header, "campaign", "campaign_name"),
		campaignID:     findIndex(header, "campaign_id"),
		platform:       findIndex(header, "platform", "channel"),
		audience:       findIndex(header, "audience", "audience_name"),
		creativeID:     findIndex(header, "creative_id"),
		creativeName:   findIndex(header, "creative_name", "creative"),
		creativeFormat: findIndex(header, "creative_format", "format"),
		adGroup:        findIndex(header, "ad_group", "adgroup"),
		impressions:    findIndex(header, "impressions"),
		clicks:         findIndex(header, "clicks"),
		conversions:    findIndex(header, "conversions"),
		spend:          findIndex(header, "spend", "cost"),
		revenue:        findIndex(header, "revenue"),
		ctr:            findIndex(header, "ctr"),
		cpc:            findIndex(header, "cpc"),
		cpm:            findIndex(header, "cpm"),
		cpa:            findIndex(header, "cpa"),
		roas:           findIndex(header, "roas"),
	}
	var missing []string
	if cols.date == -1 {
		missing = append(missing, "date")
	}
	if cols.campaign == -1 {
		missing = append(missing, "campaign")
	}
	if cols.platform == -1 {
		missing = append(missing, "platform")
	}
	if cols.impressions == -1 {
		missing = append(missing, "impressions")
	}
	if cols.spend == -1 {
		missing = append(missing, "spend")
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("dataset header missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

// findIndex returns the index of the first matching candidate header.
func findIndex(header []string, candidates ...string) int {
	for _, candidate := range candidates {
		for i, cell := range header {
			if strings.EqualFold(strings.TrimSpace(cell), candidate) {
				return i
			}
		}
	}
	return -1
}

func parseRows(header []string, dataRows [][]string) ([]Record, error) {
	cols, err := detectColumns(header)
	if err != nil {
		return nil, err
	}

	var out []Record
	var rowErrs error
	for i, row := range dataRows {
		rec, err := parseRow(cols, row)
		if err != nil {
			rowErrs = multierr.Append(rowErrs, fmt.Errorf("row %d: %w", i+2, err))
			continue
		}
		if rec.Impressions == 0 {
			continue
		}
		out = append(out, rec)
	}
	if len(out) == 0 {
		return nil, multierr.Append(fmt.Errorf("dataset contained no usable rows"), rowErrs)
	}
	return out, rowErrs
}

func parseRow(cols columnIndexes, row []string) (Record, error) {
	date, err := parseDate(cell(row, cols.date))
	if err != nil {
		return Record{}, err
	}

	impressions, err := parseCount(cell(row, cols.impressions), "impressions")
	if err != nil {
		return Record{}, err
	}
	clicks, err := parseCount(cell(row, cols.clicks), "clicks")
	if err != nil {
		return Record{}, err
	}
	conversions, err := parseCount(cell(row, cols.conversions), "conversions")
	if err != nil {
		return Record{}, err
	}
	spend, err := parseMoney(cell(row, cols.spend), "spend")
	if err != nil {
		return Record{}, err
	}
	revenue, err := parseMoney(cell(row, cols.revenue), "revenue")
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		Date:           date,
		Brand:          dimension(row, cols.brand),
		Campaign:       dimension(row, cols.campaign),
		CampaignID:     dimension(row, cols.campaignID),
		Platform:       dimension(row, cols.platform),
		Audience:       dimension(row, cols.audience),
		CreativeID:     dimension(row, cols.creativeID),
		CreativeName:   dimension(row, cols.creativeName),
		CreativeFormat: dimension(row, cols.creativeFormat),
		AdGroup:        dimension(row, cols.adGroup),
		Impressions:    impressions,
		Clicks:         clicks,
		Conversions:    conversions,
		Spend:          spend,
		Revenue:        revenue,
		CTR:            parseRate(cell(row, cols.ctr)),
		CPC:            parseRate(cell(row, cols.cpc)),
		CPM:            parseRate(cell(row, cols.cpm)),
		CPA:            parseRate(cell(row, cols.cpa)),
		ROAS:           parseRate(cell(row, cols.roas)),
	}
	fillDerivedRates(&rec)
	return rec, nil
}

// fillDerivedRates computes the per-row rates that were absent in the source
// from the row's own counts.
func fillDerivedRates(rec *Record) {
	spend := rec.Spend.InexactFloat64()
	revenue := rec.Revenue.InexactFloat64()
	if rec.CTR == 0 && rec.Impressions > 0 {
		rec.CTR = float64(rec.Clicks) / float64(rec.Impressions)
	}
	if rec.CPC == 0 && rec.Clicks > 0 {
		rec.CPC = spend / float64(rec.Clicks)
	}
	if rec.CPM == 0 && rec.Impressions > 0 {
		rec.CPM = spend / float64(rec.Impressions) * 1000
	}
	if rec.CPA == 0 && rec.Conversions > 0 {
		rec.CPA = spend / float64(rec.Conversions)
	}
	if rec.ROAS == 0 && spend > 0 {
		rec.ROAS = revenue / spend
	}
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func dimension(row []string, idx int) string {
	if v := cell(row, idx); v != "" {
		return v
	}
	return UnknownValue
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}

func parseCount(value, field string) (int64, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		// Some exports write counts as floats ("1200.0").
		f, ferr := strconv.ParseFloat(value, 64)
		if ferr != nil {
			return 0, fmt.Errorf("%s %q: %w", field, value, err)
		}
		n = int64(f)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must be non-negative, got %d", field, n)
	}
	return n, nil
}

func parseMoney(value, field string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	cleaned := strings.ReplaceAll(strings.TrimPrefix(value, "$"), ",", "")
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %q: %w", field, value, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must be non-negative, got %s", field, d)
	}
	return d, nil
}

func parseRate(value string) float64 {
	if value == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(value, "%"), 64)
	if err != nil {
		return 0
	}
	if strings.HasSuffix(value, "%") {
		f /= 100
	}
	return f
}
