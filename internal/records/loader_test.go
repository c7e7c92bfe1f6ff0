package records

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp csv: %v", err)
	}
	return path
}

func TestLoadFileParsesCSV(t *testing.T) {
	path := writeTempCSV(t, `date,brand,campaign,platform,audience,creative_name,creative_format,impressions,clicks,conversions,spend,revenue
2025-06-01,FreshNest,FreshNest Summer Grilling,Meta,Grill Masters,Sizzle Video,VIDEO,10000,200,20,"$1,250.50",4000
2025-06-02,FreshNest,FreshNest Summer Grilling,Amazon,,Grill Carousel,CAROUSEL,8000,150,12,200,700
2025-06-03,FreshNest,FreshNest Back to School,Meta,Busy Parents,Lunchbox Static,STATIC,0,0,0,50,0
`)
	recs, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records after dropping the zero-impression row, got %d", len(recs))
	}
	first := recs[0]
	if got := first.Spend.StringFixed(2); got != "1250.50" {
		t.Fatalf("expected spend 1250.50, got %s", got)
	}
	if first.CTR == 0 {
		t.Fatalf("expected derived CTR to be filled from counts")
	}
	if want := float64(200) / float64(10000); first.CTR != want {
		t.Fatalf("expected CTR %v, got %v", want, first.CTR)
	}
	if recs[1].Audience != UnknownValue {
		t.Fatalf("expected empty audience cell to fall back to %q, got %q", UnknownValue, recs[1].Audience)
	}
}

func TestLoadFileAccumulatesRowErrors(t *testing.T) {
	path := writeTempCSV(t, `date,campaign,platform,impressions,clicks,conversions,spend,revenue
not-a-date,FreshNest Summer Grilling,Meta,1000,10,1,100,300
2025-06-01,FreshNest Summer Grilling,Meta,1000,10,1,100,300
`)
	recs, err := LoadFile(path)
	if err == nil {
		t.Fatalf("expected the bad row to surface as an error")
	}
	if len(recs) != 1 {
		t.Fatalf("expected the good row to survive, got %d records", len(recs))
	}
}

func TestLoadFileMissingRequiredColumns(t *testing.T) {
	path := writeTempCSV(t, `date,campaign,clicks
2025-06-01,FreshNest Summer Grilling,10
`)
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected an error for missing platform/impressions/spend columns")
	}
}

func TestLoadFileParsesXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.xlsx")
	f := excelize.NewFile()
	rows := [][]any{
		{"date", "campaign", "platform", "impressions", "clicks", "conversions", "spend", "revenue"},
		{"2025-06-01", "FreshNest Summer Grilling", "Meta", 10000, 200, 20, 400, 1800},
		{"2025-06-02", "FreshNest Back to School", "Dv360", 8000, 90, 10, 250, 500},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}

	recs, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Platform != "Meta" || recs[1].Platform != "Dv360" {
		t.Fatalf("unexpected platforms: %q, %q", recs[0].Platform, recs[1].Platform)
	}
}

func TestLoadFileUnsupportedFormat(t *testing.T) {
	if _, err := LoadFile("dataset.parquet"); err == nil {
		t.Fatalf("expected an unsupported format error")
	}
}
