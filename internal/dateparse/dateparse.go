// Package dateparse normalizes heterogeneous date strings against an ordered
// list of candidate format patterns, producing canonical calendar dates.
package dateparse

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for date normalization.
var (
	// ErrInvalidFormat indicates a malformed format pattern. Raised at
	// construction time, before any row processing.
	ErrInvalidFormat = errors.New("invalid date format")

	// ErrUnparsableDate indicates a value no candidate format could parse.
	// Raised per row and recorded, never fatal to a batch.
	ErrUnparsableDate = errors.New("unparsable date")
)

// MaxFormatLength limits format string length to prevent abuse.
const MaxFormatLength = 50

// formatTokens maps user-friendly tokens to Go time format components.
// Ordered by length descending for greedy matching.
var formatTokens = []struct {
	token string
	goFmt string
	mask  component
}{
	{"YYYY", "2006", compYear},
	{"MMMM", "January", compMonth},
	{"MMM", "Jan", compMonth},
	{"YY", "06", compYear},
	{"MM", "01", compMonth},
	{"DD", "02", compDay},
	{"M", "1", compMonth},
	{"D", "2", compDay},
}

// component tracks which calendar parts a pattern covers.
type component uint8

const (
	compYear component = 1 << iota
	compMonth
	compDay

	compAll = compYear | compMonth | compDay
)

// CompileFormat converts a user-friendly format string to Go's time layout.
// Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D
// Use brackets to escape literal text: [Arr] preserves "Arr" literally.
// Any non-token characters outside brackets are preserved as literals.
// Returns ErrInvalidFormat if the format is empty, too long, has unclosed
// brackets, or does not cover year, month, and day.
func CompileFormat(format string) (string, error) {
	layout, mask, err := compile(format)
	if err != nil {
		return "", err
	}
	if mask != compAll {
		return "", fmt.Errorf("%w: %q must contain year, month, and day tokens", ErrInvalidFormat, format)
	}
	return layout, nil
}

func compile(format string) (string, component, error) {
	if format == "" {
		return "", 0, fmt.Errorf("%w: format cannot be empty", ErrInvalidFormat)
	}
	if len(format) > MaxFormatLength {
		return "", 0, fmt.Errorf("%w: format exceeds %d characters", ErrInvalidFormat, MaxFormatLength)
	}

	var result strings.Builder
	result.Grow(len(format) + 10)

	var mask component
	i := 0
	for i < len(format) {
		// Handle bracket-escaped literal text
		if format[i] == '[' {
			end := strings.Index(format[i+1:], "]")
			if end == -1 {
				return "", 0, fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidFormat, i)
			}
			result.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false

		// Try to match tokens (longest first due to slice order)
		for _, t := range formatTokens {
			if strings.HasPrefix(format[i:], t.token) {
				result.WriteString(t.goFmt)
				mask |= t.mask
				i += len(t.token)
				matched = true
				break
			}
		}

		if !matched {
			// Preserve literal character
			result.WriteByte(format[i])
			i++
		}
	}

	return result.String(), mask, nil
}

// Normalizer parses raw date strings against its candidate input formats in
// order and formats canonical dates with its single output format. Immutable
// after construction and safe for concurrent use.
type Normalizer struct {
	patterns []string // original token patterns, for error reporting
	layouts  []string // compiled Go layouts, same order
	output   string   // compiled output layout
}

// NewNormalizer compiles the ordered candidate input patterns and the output
// pattern. Every pattern must cover year, month, and day.
func NewNormalizer(inputs []string, output string) (*Normalizer, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: at least one input format is required", ErrInvalidFormat)
	}

	layouts := make([]string, len(inputs))
	for i, pattern := range inputs {
		layout, err := CompileFormat(pattern)
		if err != nil {
			return nil, err
		}
		layouts[i] = layout
	}

	out, err := CompileFormat(output)
	if err != nil {
		return nil, err
	}

	return &Normalizer{
		patterns: append([]string(nil), inputs...),
		layouts:  layouts,
		output:   out,
	}, nil
}

// Parse attempts each candidate format in order and returns the first
// successful parse as a date-only value in UTC. The parsed value is
// independent of which candidate matched.
func (n *Normalizer) Parse(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrUnparsableDate)
	}

	for _, layout := range n.layouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}

	return time.Time{}, fmt.Errorf("%w: %q matched none of %s", ErrUnparsableDate, value, strings.Join(n.patterns, ", "))
}

// Format renders a date in the canonical output pattern, decoupled from
// whichever input pattern matched at parse time.
func (n *Normalizer) Format(t time.Time) string {
	return t.Format(n.output)
}
