package inventory

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Status buckets a record's proximity to lot expiry.
type Status string

const (
	StatusExpired Status = "Expired"
	StatusSoon    Status = "Soon"
	StatusOk      Status = "Ok"
)

// soonWindowDays is the expiry warning window: anything due within this many
// days, today included, is Soon.
const soonWindowDays = 30

// DaysToExpiry returns the civil days from today until the record's lot
// expiry date. Negative once the lot has expired.
func DaysToExpiry(r Record, today time.Time) int {
	return int(r.LotExpiryDate.Sub(DateOf(today).Time).Hours() / 24)
}

// StatusFor buckets a days-to-expiry value: Expired below zero, Soon through
// soonWindowDays, Ok beyond.
func StatusFor(daysToExpiry int) Status {
	switch {
	case daysToExpiry < 0:
		return StatusExpired
	case daysToExpiry <= soonWindowDays:
		return StatusSoon
	default:
		return StatusOk
	}
}

// DaysOfStockRemaining forecasts how many days the current stock lasts at
// the recorded daily usage, rounded to one decimal. The second return is
// false when daily usage is zero and the forecast is undefined.
func DaysOfStockRemaining(r Record) (float64, bool) {
	if r.DailyUsage == 0 {
		return 0, false
	}
	return math.Round(float64(r.CurrentStock)/r.DailyUsage*10) / 10, true
}

// StockLine is one row of the stock view.
type StockLine struct {
	ID             uuid.UUID `json:"id"`
	CommercialName string    `json:"commercial_name"`
	Cabinet        string    `json:"cabinet"`
	Location       string    `json:"location"`
	CurrentStock   int       `json:"current_stock"`
	LotExpiryDate  Date      `json:"lot_expiry_date"`
	DaysToExpiry   int       `json:"days_to_expiry"`
	Status         Status    `json:"status"`
}

// StockView computes expiry distance and status for every record, in
// collection order.
func StockView(col Collection, today time.Time) []StockLine {
	lines := make([]StockLine, 0, len(col.Medications))
	for _, r := range col.Medications {
		days := DaysToExpiry(r, today)
		lines = append(lines, StockLine{
			ID:             r.ID,
			CommercialName: r.CommercialName,
			Cabinet:        r.Cabinet,
			Location:       r.Location,
			CurrentStock:   r.CurrentStock,
			LotExpiryDate:  r.LotExpiryDate,
			DaysToExpiry:   days,
			Status:         StatusFor(days),
		})
	}
	return lines
}

// ForecastLine is one row of the consumption forecast. DaysRemaining is nil
// when daily usage is zero.
type ForecastLine struct {
	ID             uuid.UUID `json:"id"`
	CommercialName string    `json:"commercial_name"`
	CurrentStock   int       `json:"current_stock"`
	DailyUsage     float64   `json:"daily_usage"`
	DaysRemaining  *float64  `json:"days_remaining"`
}

// ForecastView computes the days-of-stock forecast for every record, in
// collection order.
func ForecastView(col Collection) []ForecastLine {
	lines := make([]ForecastLine, 0, len(col.Medications))
	for _, r := range col.Medications {
		line := ForecastLine{
			ID:             r.ID,
			CommercialName: r.CommercialName,
			CurrentStock:   r.CurrentStock,
			DailyUsage:     r.DailyUsage,
		}
		if days, ok := DaysOfStockRemaining(r); ok {
			line.DaysRemaining = &days
		}
		lines = append(lines, line)
	}
	return lines
}

// Stats aggregates simple counts over the collection.
type Stats struct {
	Total    int            `json:"total"`
	ByClass  map[string]int `json:"by_class"`
	ByStatus map[Status]int `json:"by_status"`
	LowStock int            `json:"low_stock"`
}

// Summarize counts records in total, by therapeutic class, by expiry status,
// and below their minimum quantity.
func Summarize(col Collection, today time.Time) Stats {
	st := Stats{
		Total:    len(col.Medications),
		ByClass:  make(map[string]int),
		ByStatus: make(map[Status]int),
	}
	for _, r := range col.Medications {
		st.ByClass[r.Class]++
		st.ByStatus[StatusFor(DaysToExpiry(r, today))]++
		if r.CurrentStock < r.MinQuantity {
			st.LowStock++
		}
	}
	return st
}
