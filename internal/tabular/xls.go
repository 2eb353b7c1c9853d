package tabular

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
)

// xlsMaxRows bounds how many rows are pulled from a legacy workbook. PMS
// arrival exports are small; the cap only guards against corrupt files.
const xlsMaxRows = 100000

// readXLS parses a legacy binary workbook. Only the first worksheet is read.
func readXLS(data []byte) (*Table, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceDecode, err)
	}
	if workbook.NumSheets() == 0 {
		return nil, fmt.Errorf("%w: no worksheet", ErrEmptySource)
	}

	sheet := ""
	if ws := workbook.GetSheet(0); ws != nil {
		sheet = ws.Name
	}

	raw := workbook.ReadAllCells(xlsMaxRows)
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: worksheet %q has no rows", ErrEmptySource, sheet)
	}

	return tableFromGrid(raw, FormatXLS, sheet), nil
}
