// Package tabular reads hotel PMS exports in CSV, XLS, and XLSX form into a
// uniform string table. Readers locate the header row, trim and compact the
// grid, and collapse the Visual Matrix multi-row layout into one row per
// guest, so later stages never deal with format quirks.
package tabular

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Sentinel errors for source ingestion.
var (
	// ErrUnsupportedFormat indicates a file extension outside csv, xls, xlsx.
	ErrUnsupportedFormat = errors.New("unsupported source format")

	// ErrEmptySource indicates a source with no data rows after cleaning.
	ErrEmptySource = errors.New("empty source")

	// ErrSourceDecode indicates a source that could not be parsed as its
	// declared format.
	ErrSourceDecode = errors.New("cannot decode source")
)

// Format identifies the source file format.
type Format string

// Supported source formats.
const (
	FormatCSV  Format = "csv"
	FormatXLS  Format = "xls"
	FormatXLSX Format = "xlsx"
)

// Table is a cleaned tabular source: one header row plus data rows of equal
// width. RowNums carries the 1-based row number each data row had in the
// source file, so diagnostics can point at the spreadsheet the user sees.
type Table struct {
	Header  []string
	Rows    [][]string
	RowNums []int

	Format    Format
	Sheet     string // worksheet name, spreadsheet formats only
	HeaderRow int    // 0-based header position in the source
	Encoding  string // detected character encoding, CSV only

	// VisualMatrix reports whether the Visual Matrix collapse ran and
	// produced guest rows.
	VisualMatrix bool
}

// Reader turns raw source bytes into a cleaned Table.
type Reader interface {
	Read(name string, data []byte) (*Table, error)
}

// FileReader reads sources by file extension. Stateless and safe for
// concurrent use.
type FileReader struct{}

// NewFileReader creates a FileReader.
func NewFileReader() *FileReader {
	return &FileReader{}
}

// Read parses data according to the extension of name. Spreadsheet sources
// get header-row detection and, when the header mentions a guest column, the
// Visual Matrix collapse.
func (r *FileReader) Read(name string, data []byte) (*Table, error) {
	var (
		table *Table
		err   error
	)

	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".csv":
		table, err = readCSV(data)
	case ".xls":
		table, err = readXLS(data)
	case ".xlsx":
		table, err = readXLSX(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	table.clean()

	if table.Format != FormatCSV && mentionsGuestColumn(table.Header) {
		table = CollapseVisualMatrix(table)
	}

	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("%w: no data rows in %s", ErrEmptySource, name)
	}
	return table, nil
}

// headerKeywords are header-text fragments typical of PMS arrival exports.
// A row containing several of them is almost certainly the header row.
var headerKeywords = []string{
	"guest", "name", "status", "arrive", "depart", "room", "rate", "type",
}

// findHeaderRow scans for the first row that looks like a header: at least
// five non-empty cells and at least three keyword hits. Falls back to the
// first row when nothing qualifies.
func findHeaderRow(rows [][]string) int {
	for i, row := range rows {
		vals := nonEmptyCells(row)
		if len(vals) < 5 {
			continue
		}

		text := strings.ToLower(strings.Join(vals, " "))
		hits := 0
		for _, kw := range headerKeywords {
			if strings.Contains(text, kw) {
				hits++
			}
		}
		if hits >= 3 {
			return i
		}
	}
	return 0
}

// splitHeader separates raw rows into header and data at the detected header
// row. When the detected header is entirely blank, the first data row within
// the next five holding at least three values is promoted instead.
func splitHeader(raw [][]string) (header []string, data [][]string, headerRow int) {
	headerRow = findHeaderRow(raw)
	header = raw[headerRow]
	data = raw[headerRow+1:]

	if len(nonEmptyCells(header)) > 0 {
		return header, data, headerRow
	}

	limit := len(data)
	if limit > 5 {
		limit = 5
	}
	for i := 0; i < limit; i++ {
		if len(nonEmptyCells(data[i])) >= 3 {
			header = data[i]
			headerRow += 1 + i
			data = data[i+1:]
			break
		}
	}
	return header, data, headerRow
}

func nonEmptyCells(row []string) []string {
	var vals []string
	for _, cell := range row {
		if v := strings.TrimSpace(cell); v != "" {
			vals = append(vals, v)
		}
	}
	return vals
}

// clean trims every cell, pads rows to a common width, and drops rows and
// columns that hold no data at all. RowNums stays aligned with Rows.
func (t *Table) clean() {
	width := len(t.Header)
	for _, row := range t.Rows {
		if len(row) > width {
			width = len(row)
		}
	}

	t.Header = padTrimmed(t.Header, width)
	for i, row := range t.Rows {
		t.Rows[i] = padTrimmed(row, width)
	}

	t.dropEmptyColumns(width)
	t.dropEmptyRows()
}

func padTrimmed(row []string, width int) []string {
	out := make([]string, width)
	for i, cell := range row {
		out[i] = strings.TrimSpace(cell)
	}
	return out
}

func (t *Table) dropEmptyColumns(width int) {
	if len(t.Rows) == 0 {
		return
	}

	keep := make([]int, 0, width)
	for j := 0; j < width; j++ {
		for _, row := range t.Rows {
			if row[j] != "" {
				keep = append(keep, j)
				break
			}
		}
	}
	if len(keep) == width {
		return
	}

	t.Header = pickColumns(t.Header, keep)
	for i, row := range t.Rows {
		t.Rows[i] = pickColumns(row, keep)
	}
}

func pickColumns(row []string, keep []int) []string {
	out := make([]string, len(keep))
	for i, j := range keep {
		out[i] = row[j]
	}
	return out
}

func (t *Table) dropEmptyRows() {
	rows := t.Rows[:0]
	nums := t.RowNums[:0]
	for i, row := range t.Rows {
		if len(nonEmptyCells(row)) == 0 {
			continue
		}
		rows = append(rows, row)
		nums = append(nums, t.RowNums[i])
	}
	t.Rows = rows
	t.RowNums = nums
}
