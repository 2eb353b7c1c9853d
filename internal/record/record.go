// Package record turns cleaned table rows into validated guest stay records.
// Validation is per row: a bad row is recorded with a reason and the batch
// carries on, so one typo in a 500-row export never blocks 497 good passes.
package record

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/alnah/go-pms2pass/internal/dateparse"
	"github.com/alnah/go-pms2pass/internal/schema"
	"github.com/alnah/go-pms2pass/internal/tabular"
)

// ErrInvalidPattern indicates a confirmation fallback pattern that does not
// compile.
var ErrInvalidPattern = errors.New("invalid confirmation pattern")

// Row failure reasons. These are stable strings surfaced in error reports.
const (
	ReasonMissingConfirmation = "missing confirmation"
	ReasonUnparsableDate      = "unparsable date"
	ReasonNonPositiveStay     = "non-positive stay"
)

// Record is one validated guest stay. Arrival and Departure are date-only
// UTC values; the Text fields carry them in the canonical output format used
// on the printed pass and in the QR payload.
type Record struct {
	Confirmation  string
	Arrival       time.Time
	Departure     time.Time
	Nights        int
	ArrivalText   string
	DepartureText string
	RowNum        int
}

// Outcome is the per-row result: either a Record or a failure located by
// role and reason. RowNum is the 1-based source row.
type Outcome struct {
	RowNum int
	Record *Record
	Field  schema.Role
	Reason string
}

// Valid reports whether the row produced a record.
func (o Outcome) Valid() bool {
	return o.Record != nil
}

// Builder validates table rows against a complete column mapping.
type Builder interface {
	Build(table *tabular.Table, det schema.Detection) []Outcome
}

// StayBuilder validates rows using a date normalizer and an optional
// regex fallback for confirmation numbers buried in row text. Immutable
// after construction and safe for concurrent use.
type StayBuilder struct {
	dates   *dateparse.Normalizer
	confPat *regexp.Regexp
}

// NewStayBuilder creates a builder. pattern is the confirmation fallback
// regex with one capture group; empty disables the fallback.
func NewStayBuilder(dates *dateparse.Normalizer, pattern string) (*StayBuilder, error) {
	b := &StayBuilder{dates: dates}
	if pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
		}
		b.confPat = re
	}
	return b, nil
}

// Build validates every row and returns one Outcome per row, in input
// order. The mapping must cover all roles; checks run in a fixed order
// (confirmation, arrival, departure, stay) and the first failure decides
// the row's reason.
func (b *StayBuilder) Build(table *tabular.Table, det schema.Detection) []Outcome {
	confCol := det.Columns[schema.RoleConfirmation]
	arrCol := det.Columns[schema.RoleArrival]
	depCol := det.Columns[schema.RoleDeparture]

	outcomes := make([]Outcome, 0, len(table.Rows))
	for i, row := range table.Rows {
		outcomes = append(outcomes, b.buildRow(row, table.RowNums[i], confCol, arrCol, depCol))
	}
	return outcomes
}

func (b *StayBuilder) buildRow(row []string, rowNum, confCol, arrCol, depCol int) Outcome {
	conf := cellAt(row, confCol)
	if conf == "" {
		conf = b.fallbackConfirmation(row)
	}
	if conf == "" {
		return Outcome{RowNum: rowNum, Field: schema.RoleConfirmation, Reason: ReasonMissingConfirmation}
	}

	arrival, err := b.dates.Parse(cellAt(row, arrCol))
	if err != nil {
		return Outcome{RowNum: rowNum, Field: schema.RoleArrival, Reason: ReasonUnparsableDate}
	}

	departure, err := b.dates.Parse(cellAt(row, depCol))
	if err != nil {
		return Outcome{RowNum: rowNum, Field: schema.RoleDeparture, Reason: ReasonUnparsableDate}
	}

	nights := int(departure.Sub(arrival) / (24 * time.Hour))
	if nights <= 0 {
		return Outcome{RowNum: rowNum, Field: schema.RoleDeparture, Reason: ReasonNonPositiveStay}
	}

	return Outcome{
		RowNum: rowNum,
		Record: &Record{
			Confirmation:  conf,
			Arrival:       arrival,
			Departure:     departure,
			Nights:        nights,
			ArrivalText:   b.dates.Format(arrival),
			DepartureText: b.dates.Format(departure),
			RowNum:        rowNum,
		},
	}
}

// fallbackConfirmation searches the whole row's text for the configured
// pattern. Visual Matrix exports sometimes leave the mapped cell blank while
// a "Conf: 123456" fragment survives elsewhere in the row.
func (b *StayBuilder) fallbackConfirmation(row []string) string {
	if b.confPat == nil {
		return ""
	}

	var vals []string
	for _, cell := range row {
		if cell != "" {
			vals = append(vals, cell)
		}
	}

	m := b.confPat.FindStringSubmatch(strings.Join(vals, " "))
	if len(m) > 1 {
		return m[1]
	}
	return ""
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// SortOrder selects the ordering of valid records before composition.
type SortOrder string

// Supported orderings. SortNone preserves source row order.
const (
	SortNone         SortOrder = ""
	SortArrival      SortOrder = "arrival"
	SortConfirmation SortOrder = "confirmation"
)

// KnownSortOrder reports whether by is a supported ordering.
func KnownSortOrder(by SortOrder) bool {
	switch by {
	case SortNone, SortArrival, SortConfirmation:
		return true
	}
	return false
}

// Sort orders records in place. Sorting is stable, so rows that compare
// equal keep their source order.
func Sort(records []Record, by SortOrder) {
	switch by {
	case SortArrival:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Arrival.Before(records[j].Arrival)
		})
	case SortConfirmation:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Confirmation < records[j].Confirmation
		})
	}
}
