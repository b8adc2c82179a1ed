package inventory

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// utf8BOM prefixes the CSV dump so spreadsheet tools detect the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// exportHeader is the column order for the flat dumps.
var exportHeader = []string{
	"id", "commercial_name", "brand", "class", "administration_route",
	"cabinet", "location", "min_quantity", "max_quantity", "daily_usage",
	"lot_expiry_date", "current_stock", "created_at",
}

func exportRow(r Record) []string {
	return []string{
		r.ID.String(),
		r.CommercialName,
		r.Brand,
		r.Class,
		r.AdministrationRoute,
		r.Cabinet,
		r.Location,
		strconv.Itoa(r.MinQuantity),
		strconv.Itoa(r.MaxQuantity),
		strconv.FormatFloat(r.DailyUsage, 'f', -1, 64),
		r.LotExpiryDate.String(),
		strconv.Itoa(r.CurrentStock),
		r.CreatedAt.Format(time.RFC3339),
	}
}

// WriteCSV dumps every record field as delimited text in collection order.
func WriteCSV(w io.Writer, col Collection) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("export csv: write bom: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("export csv: write header: %w", err)
	}
	for _, r := range col.Medications {
		if err := cw.Write(exportRow(r)); err != nil {
			return fmt.Errorf("export csv: write record: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export csv: flush: %w", err)
	}
	return nil
}

const xlsxSheet = "Medications"

// WriteXLSX dumps every record field as a single-sheet workbook. Numeric
// fields stay numeric cells.
func WriteXLSX(w io.Writer, col Collection) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("export xlsx: rename sheet: %w", err)
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("export xlsx: write header: %w", err)
	}
	for i, r := range col.Medications {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("export xlsx: cell name: %w", err)
		}
		row := []interface{}{
			r.ID.String(),
			r.CommercialName,
			r.Brand,
			r.Class,
			r.AdministrationRoute,
			r.Cabinet,
			r.Location,
			r.MinQuantity,
			r.MaxQuantity,
			r.DailyUsage,
			r.LotExpiryDate.String(),
			r.CurrentStock,
			r.CreatedAt.Format(time.RFC3339),
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("export xlsx: write row: %w", err)
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}
	return nil
}

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Medication Inventory</title>
<style>
body { font-family: sans-serif; margin: 2em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #999; padding: 4px 8px; text-align: left; }
th { background: #eee; }
</style>
</head>
<body>
<h1>Medication Inventory</h1>
<p>Generated at {{.GeneratedAt}}</p>
<table>
<thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

type reportData struct {
	GeneratedAt string
	Header      []string
	Rows        [][]string
}

// RenderHTML writes the collection as a printable HTML table report.
func RenderHTML(w io.Writer, col Collection, generatedAt time.Time) error {
	data := reportData{
		GeneratedAt: generatedAt.UTC().Format(time.RFC3339),
		Header:      exportHeader,
	}
	for _, r := range col.Medications {
		data.Rows = append(data.Rows, exportRow(r))
	}
	if err := reportTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("export html: %w", err)
	}
	return nil
}
