package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/medcab/medcab/internal/domain/inventory"
)

func exportRecord(t *testing.T, name string) inventory.Record {
	t.Helper()
	expiry, err := inventory.ParseDate("2027-01-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return inventory.Record{
		ID:                  uuid.New(),
		CommercialName:      name,
		Brand:               "Acme Pharma",
		Class:               "Analgesic",
		AdministrationRoute: "Oral",
		Cabinet:             "A",
		Location:            "Shelf 2",
		MinQuantity:         5,
		MaxQuantity:         50,
		DailyUsage:          2,
		LotExpiryDate:       expiry,
		CurrentStock:        20,
		CreatedAt:           time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC),
	}
}

func TestWriteExport_CSV(t *testing.T) {
	col := inventory.Collection{Medications: []inventory.Record{exportRecord(t, "Dipyrone 500mg")}}
	out := filepath.Join(t.TempDir(), "export.csv")

	path, err := writeExport(col, "csv", out, time.Date(2026, 8, 22, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != out {
		t.Errorf("expected path %q, got %q", out, path)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(data), "Dipyrone 500mg") {
		t.Error("expected medication name in CSV output")
	}
	if !strings.Contains(string(data), "commercial_name") {
		t.Error("expected header row in CSV output")
	}
}

func TestWriteExport_XLSX(t *testing.T) {
	col := inventory.Collection{Medications: []inventory.Record{exportRecord(t, "Amoxicillin 875mg")}}
	out := filepath.Join(t.TempDir(), "export.xlsx")

	if _, err := writeExport(col, "xlsx", out, time.Date(2026, 8, 22, 12, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wb, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer wb.Close()

	rows, err := wb.GetRows("Medications")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1][1] != "Amoxicillin 875mg" {
		t.Errorf("expected medication name in sheet, got %q", rows[1][1])
	}
}

func TestWriteExport_HTML(t *testing.T) {
	col := inventory.Collection{Medications: []inventory.Record{exportRecord(t, "Omeprazole 20mg")}}
	out := filepath.Join(t.TempDir(), "report.html")

	if _, err := writeExport(col, "html", out, time.Date(2026, 8, 22, 12, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	html := string(data)
	if !strings.Contains(html, "<h1>Medication Inventory</h1>") {
		t.Error("expected report heading in HTML output")
	}
	if !strings.Contains(html, "Omeprazole 20mg") {
		t.Error("expected medication name in HTML output")
	}
}

func TestWriteExport_UnknownFormat(t *testing.T) {
	col := inventory.Collection{}
	_, err := writeExport(col, "pdf", filepath.Join(t.TempDir(), "out.pdf"), time.Now())
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestDefaultExportName(t *testing.T) {
	now := time.Date(2026, 8, 22, 12, 0, 0, 0, time.UTC)
	got := defaultExportName("csv", now)
	want := "medications_20260822_120000.csv"
	if got != want {
		t.Errorf("defaultExportName() = %q, want %q", got, want)
	}
}

func TestCountBackups(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"backup_20260801103000.json", "backup_20260802114500.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "backup_nested.json"), 0o755); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := countBackups(dir); got != 2 {
		t.Errorf("countBackups() = %d, want 2", got)
	}
}

func TestCountBackups_MissingDir(t *testing.T) {
	if got := countBackups(filepath.Join(t.TempDir(), "absent")); got != 0 {
		t.Errorf("countBackups() = %d, want 0 for missing directory", got)
	}
}
