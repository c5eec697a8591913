// Package report writes the audit spreadsheet: two header rows (merged
// section groups over field names), one data row per merged record, appended
// in insertion order. The first run creates the file with headers and
// styling; later runs append after the existing last row without touching
// prior rows.
package report

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/zombar/blogaudit/models"
)

const costNumFmt = "$#,##0.00000"

var sectionColors = map[string][2]string{
	"Title":                  {"193661", "C1C9D4"},
	"Basic Information":      {"00BABE", "E5F9F9"},
	"Quality & Brand Fit":    {"E34E64", "FFEFEF"},
	"Tone & Voice":           {"193661", "C1C9D4"},
	"SEO Analysis":           {"00BABE", "E5F9F9"},
	"Multimedia Assessment":  {"E34E64", "FFEFEF"},
	"Content Categorization": {"193661", "C1C9D4"},
	"Performance Metrics":    {"00BABE", "E5F9F9"},
	"Cost Analysis":          {"E34E64", "FFEFEF"},
}

// score columns get a red-yellow-green color scale over the data range
var scoreColumns = map[string]bool{
	"Overall Quality Score":          true,
	"Natural/Conversational Score":   true,
	"Authentic/Approachable Score":   true,
	"Gender-Neutral/Inclusive Score": true,
	"Keyword Integration Score":      true,
	"Meta Description Quality Score": true,
}

// flagColumns get a red fill when their value is "No Clear Match"
var flagColumns = map[string]bool{
	"Category":           true,
	"Use Case":           true,
	"Next Best Use Case": true,
}

// Writer appends merged records to one spreadsheet file.
type Writer struct {
	path     string
	sheet    string
	sections []Section
	logger   *slog.Logger
}

// NewWriter creates a report writer for the given file. A nil sections slice
// selects the default layout.
func NewWriter(path string, sections []Section, logger *slog.Logger) *Writer {
	if sections == nil {
		sections = DefaultSections()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		path:     path,
		sheet:    "Sheet1",
		sections: sections,
		logger:   logger,
	}
}

// Path returns the report file path.
func (w *Writer) Path() string { return w.path }

// columns flattens the section layout in order.
func (w *Writer) columns() []Column {
	var cols []Column
	for _, s := range w.sections {
		cols = append(cols, s.Columns...)
	}
	return cols
}

// columnIndex returns the 1-based column number for a field name, 0 if absent.
func (w *Writer) columnIndex(name string) int {
	for i, col := range w.columns() {
		if col.Name == name {
			return i + 1
		}
	}
	return 0
}

// Append writes the records after the current last row, creating the file
// with headers on first use.
func (w *Writer) Append(records []models.MergedRecord) error {
	f, created, err := w.open()
	if err != nil {
		return err
	}
	defer f.Close()

	if created {
		if err := w.writeHeaders(f); err != nil {
			return fmt.Errorf("failed to write report headers: %w", err)
		}
	}

	rows, err := f.GetRows(w.sheet)
	if err != nil {
		return fmt.Errorf("failed to read report rows: %w", err)
	}
	startRow := len(rows) + 1
	if startRow < 3 {
		startRow = 3
	}

	styles, err := newRowStyles(f)
	if err != nil {
		return fmt.Errorf("failed to create report styles: %w", err)
	}

	for i := range records {
		if err := w.writeRow(f, styles, startRow+i, &records[i]); err != nil {
			return fmt.Errorf("failed to write report row: %w", err)
		}
	}

	lastRow := startRow + len(records) - 1
	if err := w.applyColorScales(f, lastRow); err != nil {
		return fmt.Errorf("failed to apply report formatting: %w", err)
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	w.logger.Info("report updated", "path", w.path, "rows_appended", len(records), "first_row", startRow)
	return nil
}

// open returns the workbook, creating a fresh one when the file is missing.
func (w *Writer) open() (*excelize.File, bool, error) {
	if _, err := os.Stat(w.path); os.IsNotExist(err) {
		return excelize.NewFile(), true, nil
	}
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open report file: %w", err)
	}
	w.sheet = f.GetSheetName(0)
	return f, false, nil
}

func (w *Writer) writeHeaders(f *excelize.File) error {
	col := 1
	for _, section := range w.sections {
		start := col
		end := col + len(section.Columns) - 1

		headerStyle, subStyle, err := sectionStyles(f, section.Name)
		if err != nil {
			return err
		}

		startCell, _ := excelize.CoordinatesToCellName(start, 1)
		endCell, _ := excelize.CoordinatesToCellName(end, 1)
		if err := f.SetCellValue(w.sheet, startCell, section.Name); err != nil {
			return err
		}
		if start != end {
			if err := f.MergeCell(w.sheet, startCell, endCell); err != nil {
				return err
			}
		}
		if err := f.SetCellStyle(w.sheet, startCell, endCell, headerStyle); err != nil {
			return err
		}

		for i, c := range section.Columns {
			cell, _ := excelize.CoordinatesToCellName(start+i, 2)
			if err := f.SetCellValue(w.sheet, cell, c.Name); err != nil {
				return err
			}
			if err := f.SetCellStyle(w.sheet, cell, cell, subStyle); err != nil {
				return err
			}
		}

		col = end + 1
	}

	// URL column stays narrow; everything else is wide enough for notes.
	lastCol, _ := excelize.ColumnNumberToName(col - 1)
	if err := f.SetColWidth(w.sheet, "A", lastCol, 30); err != nil {
		return err
	}
	if urlCol := w.columnIndex("URL"); urlCol > 0 {
		name, _ := excelize.ColumnNumberToName(urlCol)
		if err := f.SetColWidth(w.sheet, name, name, 15); err != nil {
			return err
		}
	}

	return f.SetPanes(w.sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      2,
		TopLeftCell: "B3",
		ActivePane:  "bottomRight",
	})
}

type rowStyles struct {
	data    int
	url     int
	cost    int
	redFill int
}

func newRowStyles(f *excelize.File) (rowStyles, error) {
	data, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Color: "444444"},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true},
		Border:    thinBorder(),
	})
	if err != nil {
		return rowStyles{}, err
	}

	url, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Color: "0563C1", Underline: "single"},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
		Border:    thinBorder(),
	})
	if err != nil {
		return rowStyles{}, err
	}

	costFmt := costNumFmt
	cost, err := f.NewStyle(&excelize.Style{
		CustomNumFmt: &costFmt,
		Font:         &excelize.Font{Color: "444444"},
		Alignment:    &excelize.Alignment{Horizontal: "left", Vertical: "center"},
		Border:       thinBorder(),
	})
	if err != nil {
		return rowStyles{}, err
	}

	redFill, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
		Font:      &excelize.Font{Color: "9C0006"},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true},
		Border:    thinBorder(),
	})
	if err != nil {
		return rowStyles{}, err
	}

	return rowStyles{data: data, url: url, cost: cost, redFill: redFill}, nil
}

func (w *Writer) writeRow(f *excelize.File, styles rowStyles, row int, record *models.MergedRecord) error {
	for i, col := range w.columns() {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		value := col.Value(record)
		if err := f.SetCellValue(w.sheet, cell, value); err != nil {
			return err
		}

		style := styles.data
		switch {
		case col.Name == "URL":
			style = styles.url
			if u, ok := value.(string); ok && strings.HasPrefix(u, "http") {
				if err := f.SetCellHyperLink(w.sheet, cell, u, "External"); err != nil {
					return err
				}
			}
		case col.Name == "API Cost":
			style = styles.cost
		case col.Name == "Personal Pronoun Count":
			if n, ok := value.(int); ok && n > 0 {
				style = styles.redFill
			}
		case flagColumns[col.Name]:
			if s, ok := value.(string); ok && s == "No Clear Match" {
				style = styles.redFill
			}
		}

		if err := f.SetCellStyle(w.sheet, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

// applyColorScales refreshes the red-yellow-green scale on score columns over
// the full data range.
func (w *Writer) applyColorScales(f *excelize.File, lastRow int) error {
	if lastRow < 3 {
		return nil
	}
	for i, col := range w.columns() {
		if !scoreColumns[col.Name] {
			continue
		}
		name, _ := excelize.ColumnNumberToName(i + 1)
		rangeRef := fmt.Sprintf("%s3:%s%d", name, name, lastRow)
		err := f.SetConditionalFormat(w.sheet, rangeRef, []excelize.ConditionalFormatOptions{
			{
				Type:     "3_color_scale",
				Criteria: "=",
				MinType:  "min",
				MinColor: "#FF0000",
				MidType:  "percentile",
				MidValue: "50",
				MidColor: "#FFFF00",
				MaxType:  "max",
				MaxColor: "#00FF00",
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "E3E3E3", Style: 1},
		{Type: "right", Color: "E3E3E3", Style: 1},
		{Type: "top", Color: "E3E3E3", Style: 1},
		{Type: "bottom", Color: "E3E3E3", Style: 1},
	}
}

func sectionStyles(f *excelize.File, name string) (int, int, error) {
	colors, ok := sectionColors[name]
	if !ok {
		colors = [2]string{"193661", "C1C9D4"}
	}

	header, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{colors[0]}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return 0, 0, err
	}

	sub, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{colors[1]}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "444444"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return 0, 0, err
	}

	return header, sub, nil
}

// costValue converts the stored "$0.01234" cost string to a number so the
// cost column's number format applies. Unparseable values pass through as-is.
func costValue(cost string) any {
	trimmed := strings.TrimPrefix(strings.TrimSpace(cost), "$")
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return v
	}
	return cost
}
