package tabular

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// readXLSX parses a modern spreadsheet. Only the first worksheet is read,
// matching how PMS exports are produced.
func readXLSX(data []byte) (*Table, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceDecode, err)
	}
	defer func() { _ = file.Close() }()

	sheet := file.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: no worksheet", ErrEmptySource)
	}

	raw, err := file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceDecode, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: worksheet %q has no rows", ErrEmptySource, sheet)
	}

	return tableFromGrid(raw, FormatXLSX, sheet), nil
}

// tableFromGrid builds a Table from a raw spreadsheet grid, locating the
// header row first. Row numbers are 1-based source positions.
func tableFromGrid(raw [][]string, format Format, sheet string) *Table {
	header, data, headerRow := splitHeader(raw)

	table := &Table{
		Header:    header,
		Rows:      make([][]string, 0, len(data)),
		RowNums:   make([]int, 0, len(data)),
		Format:    format,
		Sheet:     sheet,
		HeaderRow: headerRow,
	}
	for i, row := range data {
		table.Rows = append(table.Rows, row)
		table.RowNums = append(table.RowNums, headerRow+2+i)
	}
	return table
}
