package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// dateLayout is the wire format for civil dates in the persisted document.
const dateLayout = "2006-01-02"

// Date is a civil date (no time of day, no zone) serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// DateOf truncates t to its civil date in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Record is one tracked medication: metadata, quantity bounds, consumption
// rate, and lot expiry.
type Record struct {
	ID                  uuid.UUID `json:"id"`
	CommercialName      string    `json:"commercial_name"`
	Brand               string    `json:"brand"`
	Class               string    `json:"class"`
	AdministrationRoute string    `json:"administration_route"`
	Cabinet             string    `json:"cabinet"`
	Location            string    `json:"location"`
	MinQuantity         int       `json:"min_quantity"`
	MaxQuantity         int       `json:"max_quantity"`
	DailyUsage          float64   `json:"daily_usage"`
	LotExpiryDate       Date      `json:"lot_expiry_date"`
	CurrentStock        int       `json:"current_stock"`
	CreatedAt           time.Time `json:"created_at"`
}

// Patch carries the editable fields of a record. Nil means unchanged; only
// current stock, daily usage, and lot expiry date may be edited after
// creation.
type Patch struct {
	CurrentStock  *int     `json:"current_stock"`
	DailyUsage    *float64 `json:"daily_usage"`
	LotExpiryDate *Date    `json:"lot_expiry_date"`
}

// Collection is the full ordered set of records, the unit of persistence.
// Order is insertion order. All operations are value-level: they return a
// new collection and never mutate the receiver, so state is threaded
// explicitly through each call.
type Collection struct {
	Medications []Record `json:"medications"`
}

// normalizeName is the comparison form for the uniqueness check.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// HasName reports whether a record with the given commercial name exists
// under case/whitespace-insensitive comparison.
func (c Collection) HasName(name string) bool {
	want := normalizeName(name)
	for _, r := range c.Medications {
		if normalizeName(r.CommercialName) == want {
			return true
		}
	}
	return false
}

// FindID returns the record with the given identifier.
func (c Collection) FindID(id uuid.UUID) (Record, bool) {
	for _, r := range c.Medications {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

// Append returns a new collection with r added at the end.
func (c Collection) Append(r Record) Collection {
	meds := make([]Record, 0, len(c.Medications)+1)
	meds = append(meds, c.Medications...)
	meds = append(meds, r)
	return Collection{Medications: meds}
}

// RemoveID returns a new collection without the matching record. Removing an
// absent id is a no-op, not an error.
func (c Collection) RemoveID(id uuid.UUID) Collection {
	meds := make([]Record, 0, len(c.Medications))
	for _, r := range c.Medications {
		if r.ID != id {
			meds = append(meds, r)
		}
	}
	return Collection{Medications: meds}
}

// ApplyPatch returns a new collection with the editable fields of the
// matching record replaced, and reports whether a record matched.
func (c Collection) ApplyPatch(id uuid.UUID, p Patch) (Collection, bool) {
	meds := make([]Record, len(c.Medications))
	copy(meds, c.Medications)
	for i := range meds {
		if meds[i].ID != id {
			continue
		}
		if p.CurrentStock != nil {
			meds[i].CurrentStock = *p.CurrentStock
		}
		if p.DailyUsage != nil {
			meds[i].DailyUsage = *p.DailyUsage
		}
		if p.LotExpiryDate != nil {
			meds[i].LotExpiryDate = *p.LotExpiryDate
		}
		return Collection{Medications: meds}, true
	}
	return Collection{Medications: meds}, false
}
