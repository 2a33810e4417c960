// Package export renders repair records and dashboard facets into XLSX
// workbooks.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dalemusser/repairhub/internal/app/system/facets"
	"github.com/dalemusser/repairhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/repairhub/internal/app/system/locale"
	"github.com/dalemusser/repairhub/internal/domain/models"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the workbooks this package writes.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	repairsSheet   = "Repairs"
	dashboardSheet = "Dashboard"
)

var (
	carHeader    = []any{"Customer name", "VIN", "Registration", "Make / Model", "Engine"}
	repairHeader = []any{"Repair date", "Kilometers", "Amount due", "Note"}
	facetHeader  = []any{"User", "Repairs", "Profit"}
)

// RepairSheet is the content of a repair export: one car and some of its
// repairs.
type RepairSheet struct {
	Shop    models.ShopInfo
	Car     models.Car
	Repairs []models.Repair
}

// DashboardRow is one user line of a dashboard export.
type DashboardRow struct {
	Username string
	Count    int
	Profit   string // formatted money
}

// DashboardSheet is the content of a dashboard export.
type DashboardSheet struct {
	Title       string
	CountLabel  string
	ProfitLabel string
	Rows        []DashboardRow
	TotalCount  int
	TotalProfit string
}

// DashboardRows turns facets into rows ordered by username.
func DashboardRows(f facets.Facets, loc *locale.Locale) []DashboardRow {
	names := f.Usernames()
	rows := make([]DashboardRow, 0, len(names))
	for _, u := range names {
		rows = append(rows, DashboardRow{
			Username: u,
			Count:    f.Count[u],
			Profit:   loc.Money(f.Profit[u]),
		})
	}
	return rows
}

// Document identifies one generated file.
type Document struct {
	ID       string
	Filename string
}

// NewDocument assigns a fresh ID and a download filename built from prefix.
func NewDocument(prefix string) Document {
	id := uuid.NewString()
	prefix = strings.Trim(strings.ToLower(strings.ReplaceAll(prefix, " ", "-")), "-")
	if prefix == "" {
		prefix = "export"
	}
	return Document{ID: id, Filename: fmt.Sprintf("%s-%s.xlsx", prefix, id[:8])}
}

type styles struct {
	title  int
	header int
	body   int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	var err error
	if s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "234465"},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return s, err
	}
	border := []excelize.Border{
		{Type: "left", Color: "234465", Style: 1},
		{Type: "right", Color: "234465", Style: 1},
		{Type: "top", Color: "234465", Style: 1},
		{Type: "bottom", Color: "234465", Style: 1},
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"234465"}, Pattern: 1},
		Border: border,
	}); err != nil {
		return s, err
	}
	if s.body, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Color: "234465"},
		Border:    border,
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	}); err != nil {
		return s, err
	}
	return s, nil
}

// WriteRepairs writes a repair sheet: shop header, car table, repair table
// and a signature footer.
func WriteRepairs(w io.Writer, doc Document, loc *locale.Locale, sheet RepairSheet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", repairsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	st, err := newStyles(f)
	if err != nil {
		return fmt.Errorf("styles: %w", err)
	}

	row := 1
	for _, line := range []string{
		sheet.Shop.Name,
		sheet.Shop.Address,
		sheet.Shop.City,
		"Phone: " + sheet.Shop.Phone,
	} {
		if err := title(f, st, row, line); err != nil {
			return err
		}
		row++
	}
	row++

	car := sheet.Car
	if err := table(f, st, row, carHeader, [][]any{{car.CustomerName, car.VIN, car.Registration, car.Make, car.Engine}}); err != nil {
		return err
	}
	row += 3

	body := make([][]any, 0, len(sheet.Repairs))
	for _, r := range sheet.Repairs {
		body = append(body, []any{
			loc.Day(r.Date),
			r.KM,
			loc.Money(facets.ParseProfit(r.Profit)),
			htmlsanitize.PlainText(r.Description),
		})
	}
	if err := table(f, st, row, repairHeader, body); err != nil {
		return err
	}
	row += len(body) + 3

	if err := f.SetCellValue(repairsSheet, cell(1, row), "Handed over by: ........................"); err != nil {
		return err
	}
	if err := f.SetCellValue(repairsSheet, cell(4, row), "Received by: ........................"); err != nil {
		return err
	}
	if err := f.SetCellValue(repairsSheet, cell(1, row+2), "Document "+doc.ID); err != nil {
		return err
	}

	if err := f.SetColWidth(repairsSheet, "A", "E", 22); err != nil {
		return err
	}
	if err := f.SetColWidth(repairsSheet, "D", "D", 48); err != nil {
		return err
	}
	return f.Write(w)
}

// WriteDashboard writes the per-user facet table.
func WriteDashboard(w io.Writer, doc Document, generated time.Time, loc *locale.Locale, sheet DashboardSheet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dashboardSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	st, err := newStyles(f)
	if err != nil {
		return fmt.Errorf("styles: %w", err)
	}

	if err := f.SetCellValue(dashboardSheet, "A1", sheet.Title); err != nil {
		return err
	}
	if err := f.SetCellStyle(dashboardSheet, "A1", "A1", st.title); err != nil {
		return err
	}
	meta := [][]any{
		{"Repairs range", sheet.CountLabel},
		{"Profit range", sheet.ProfitLabel},
		{"Generated", loc.DateTime(generated)},
		{"Document", doc.ID},
	}
	for i, m := range meta {
		if err := f.SetSheetRow(dashboardSheet, cell(1, i+2), &m); err != nil {
			return err
		}
	}

	start := len(meta) + 3
	body := make([][]any, 0, len(sheet.Rows)+1)
	for _, r := range sheet.Rows {
		body = append(body, []any{r.Username, r.Count, r.Profit})
	}
	body = append(body, []any{"Total", sheet.TotalCount, sheet.TotalProfit})
	if err := table(f, st, start, facetHeader, body); err != nil {
		return err
	}
	if err := f.SetColWidth(dashboardSheet, "A", "C", 24); err != nil {
		return err
	}
	return f.Write(w)
}

func title(f *excelize.File, st styles, row int, text string) error {
	from, to := cell(1, row), cell(5, row)
	if err := f.MergeCell(repairsSheet, from, to); err != nil {
		return err
	}
	if err := f.SetCellValue(repairsSheet, from, text); err != nil {
		return err
	}
	return f.SetCellStyle(repairsSheet, from, to, st.title)
}

// table writes header at row and body beneath it on the first sheet of f.
func table(f *excelize.File, st styles, row int, header []any, body [][]any) error {
	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, cell(1, row), &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cell(1, row), cell(len(header), row), st.header); err != nil {
		return err
	}
	for i, r := range body {
		if err := f.SetSheetRow(sheet, cell(1, row+1+i), &r); err != nil {
			return err
		}
	}
	if len(body) > 0 {
		if err := f.SetCellStyle(sheet, cell(1, row+1), cell(len(header), row+len(body)), st.body); err != nil {
			return err
		}
	}
	return nil
}

func cell(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		// Only reachable with non-positive coordinates, which callers never pass.
		panic(err)
	}
	return name
}
