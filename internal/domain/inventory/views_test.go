package inventory

import (
	"testing"
	"time"
)

func TestStatusFor(t *testing.T) {
	if got := StatusFor(-1); got != StatusExpired {
		t.Errorf("expected Expired below zero, got %s", got)
	}
	if got := StatusFor(0); got != StatusSoon {
		t.Errorf("expected Soon at zero days, got %s", got)
	}
	if got := StatusFor(30); got != StatusSoon {
		t.Errorf("expected Soon at 30 days, got %s", got)
	}
	if got := StatusFor(31); got != StatusOk {
		t.Errorf("expected Ok at 31 days, got %s", got)
	}
}

func TestDaysToExpiry(t *testing.T) {
	today := time.Date(2026, 8, 22, 14, 45, 3, 0, time.UTC)

	r := Record{LotExpiryDate: testDate(t, "2026-08-30")}
	if got := DaysToExpiry(r, today); got != 8 {
		t.Errorf("expected 8 days, got %d", got)
	}

	r.LotExpiryDate = testDate(t, "2026-08-22")
	if got := DaysToExpiry(r, today); got != 0 {
		t.Errorf("expected 0 days on the expiry date itself, got %d", got)
	}

	r.LotExpiryDate = testDate(t, "2026-08-20")
	if got := DaysToExpiry(r, today); got != -2 {
		t.Errorf("expected -2 days past expiry, got %d", got)
	}
}

func TestDaysOfStockRemaining(t *testing.T) {
	r := Record{CurrentStock: 10, DailyUsage: 2}
	days, ok := DaysOfStockRemaining(r)
	if !ok || days != 5.0 {
		t.Errorf("expected 5.0 days, got %v (ok=%v)", days, ok)
	}

	r = Record{CurrentStock: 10, DailyUsage: 3}
	days, ok = DaysOfStockRemaining(r)
	if !ok || days != 3.3 {
		t.Errorf("expected 3.3 days after rounding, got %v (ok=%v)", days, ok)
	}

	r = Record{CurrentStock: 7, DailyUsage: 2}
	days, ok = DaysOfStockRemaining(r)
	if !ok || days != 3.5 {
		t.Errorf("expected 3.5 days, got %v (ok=%v)", days, ok)
	}

	r = Record{CurrentStock: 10, DailyUsage: 0}
	if _, ok := DaysOfStockRemaining(r); ok {
		t.Error("expected undefined forecast at zero usage")
	}
}

func TestStockView(t *testing.T) {
	today := time.Date(2026, 8, 22, 9, 0, 0, 0, time.UTC)
	col := Collection{Medications: []Record{
		{CommercialName: "Dipyrone 500mg", Cabinet: "A", Location: "Shelf 2",
			CurrentStock: 12, LotExpiryDate: testDate(t, "2026-08-10")},
		{CommercialName: "Amoxicillin 500mg", Cabinet: "B", Location: "Drawer 1",
			CurrentStock: 40, LotExpiryDate: testDate(t, "2026-12-24")},
	}}

	lines := StockView(col, today)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Status != StatusExpired || lines[0].DaysToExpiry != -12 {
		t.Errorf("expected Expired/-12, got %s/%d", lines[0].Status, lines[0].DaysToExpiry)
	}
	if lines[1].Status != StatusOk || lines[1].DaysToExpiry != 124 {
		t.Errorf("expected Ok/124, got %s/%d", lines[1].Status, lines[1].DaysToExpiry)
	}
	if lines[0].Cabinet != "A" || lines[0].Location != "Shelf 2" || lines[0].CurrentStock != 12 {
		t.Error("expected record fields carried onto the line")
	}
}

func TestForecastView(t *testing.T) {
	col := Collection{Medications: []Record{
		{CommercialName: "Dipyrone 500mg", CurrentStock: 10, DailyUsage: 4},
		{CommercialName: "Saline 0.9%", CurrentStock: 6, DailyUsage: 0},
	}}

	lines := ForecastView(col)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].DaysRemaining == nil || *lines[0].DaysRemaining != 2.5 {
		t.Errorf("expected 2.5 days remaining, got %v", lines[0].DaysRemaining)
	}
	if lines[1].DaysRemaining != nil {
		t.Errorf("expected nil days remaining at zero usage, got %v", *lines[1].DaysRemaining)
	}
}

func TestSummarize(t *testing.T) {
	today := time.Date(2026, 8, 22, 9, 0, 0, 0, time.UTC)
	col := Collection{Medications: []Record{
		{Class: "Analgesic", MinQuantity: 5, CurrentStock: 2,
			LotExpiryDate: testDate(t, "2026-08-01")},
		{Class: "Analgesic", MinQuantity: 5, CurrentStock: 30,
			LotExpiryDate: testDate(t, "2026-09-10")},
		{Class: "Antibiotic", MinQuantity: 10, CurrentStock: 10,
			LotExpiryDate: testDate(t, "2027-02-01")},
	}}

	st := Summarize(col, today)
	if st.Total != 3 {
		t.Errorf("expected total 3, got %d", st.Total)
	}
	if st.ByClass["Analgesic"] != 2 || st.ByClass["Antibiotic"] != 1 {
		t.Errorf("unexpected class counts: %v", st.ByClass)
	}
	if st.ByStatus[StatusExpired] != 1 || st.ByStatus[StatusSoon] != 1 || st.ByStatus[StatusOk] != 1 {
		t.Errorf("unexpected status counts: %v", st.ByStatus)
	}
	if st.LowStock != 1 {
		t.Errorf("expected 1 low-stock record, got %d", st.LowStock)
	}
}
