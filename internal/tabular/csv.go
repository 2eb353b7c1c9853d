package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeText detects the character encoding of raw CSV bytes and returns
// UTF-8 text plus the encoding label. Valid UTF-8 passes through, with or
// without a byte order mark. Anything else decodes as Windows-1252, which
// covers the ISO-8859-1 range and never fails.
func decodeText(data []byte) (string, string) {
	if bytes.HasPrefix(data, utf8BOM) {
		return string(data[len(utf8BOM):]), "utf-8-sig"
	}
	if utf8.Valid(data) {
		return string(data), "utf-8"
	}

	decoded, _ := charmap.Windows1252.NewDecoder().Bytes(data)
	return string(decoded), "windows-1252"
}

// readCSV parses comma-separated text. The first record is the header. Rows
// may be ragged; blank lines are skipped. Row numbers come from the parser
// so they survive multi-line quoted fields.
func readCSV(data []byte) (*Table, error) {
	text, encoding := decodeText(data)

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	table := &Table{
		Format:   FormatCSV,
		Encoding: encoding,
	}

	first := true
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSourceDecode, err)
		}

		line, _ := r.FieldPos(0)
		if first {
			table.Header = record
			table.HeaderRow = line - 1
			first = false
			continue
		}
		table.Rows = append(table.Rows, record)
		table.RowNums = append(table.RowNums, line)
	}

	if first {
		return nil, fmt.Errorf("%w: no rows", ErrEmptySource)
	}
	return table, nil
}
