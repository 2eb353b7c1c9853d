package tabular

import (
	"strings"
	"unicode"
)

// Visual Matrix arrival reports spread one reservation across several rows:
// the guest row holds name and stay columns, and the confirmation number
// sits one to three rows below behind a "Conf:" marker cell.

const (
	confirmationMarker = "Conf:"
	confirmationColumn = "Confirmation"

	vmLookahead   = 3
	minConfLength = 3
)

func mentionsGuestColumn(header []string) bool {
	for _, cell := range header {
		if strings.Contains(cell, "Guest") {
			return true
		}
	}
	return false
}

// CollapseVisualMatrix folds the multi-row Visual Matrix layout into one row
// per guest. Guest rows are those whose name cell holds a "Last, First"
// value; each gets the confirmation number found in the following rows, or
// an empty cell when the marker never appears. When no guest rows exist the
// table is returned unchanged.
func CollapseVisualMatrix(t *Table) *Table {
	guestCol := -1
	for j, cell := range t.Header {
		if strings.Contains(cell, "Guest") || strings.Contains(cell, "Name") {
			guestCol = j
			break
		}
	}
	if guestCol < 0 {
		return t
	}

	confCol := -1
	header := t.Header
	for j, cell := range header {
		if cell == confirmationColumn {
			confCol = j
			break
		}
	}
	if confCol < 0 {
		header = append(append([]string(nil), t.Header...), confirmationColumn)
		confCol = len(header) - 1
	}

	var (
		rows [][]string
		nums []int
	)
	for i, row := range t.Rows {
		name := row[guestCol]
		if name == "" || !strings.Contains(name, ",") {
			continue
		}

		guest := make([]string, len(header))
		copy(guest, row)
		guest[confCol] = lookAheadConfirmation(t.Rows, i)

		rows = append(rows, guest)
		nums = append(nums, t.RowNums[i])
	}

	if len(rows) == 0 {
		return t
	}

	collapsed := *t
	collapsed.Header = header
	collapsed.Rows = rows
	collapsed.RowNums = nums
	collapsed.VisualMatrix = true
	return &collapsed
}

// lookAheadConfirmation scans the rows after a guest row for the "Conf:"
// marker and returns the cleaned value that follows it. Empty cells are
// compacted out first because the marker and the number rarely share column
// alignment with the guest row.
func lookAheadConfirmation(rows [][]string, guestRow int) string {
	for ahead := 1; ahead <= vmLookahead && guestRow+ahead < len(rows); ahead++ {
		vals := nonEmptyCells(rows[guestRow+ahead])
		for j, val := range vals {
			if val != confirmationMarker || j+1 >= len(vals) {
				continue
			}
			if conf := cleanConfirmation(vals[j+1]); len(conf) >= minConfLength {
				return conf
			}
		}
	}
	return ""
}

// cleanConfirmation keeps letters, digits, and dashes.
func cleanConfirmation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
