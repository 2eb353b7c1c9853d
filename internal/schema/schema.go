// Package schema identifies which source columns carry the reservation
// fields a parking pass needs. Detection is keyword containment over
// normalized header text; it never guesses beyond that, and an unmatched
// role is a reportable outcome rather than an error.
package schema

import (
	"strings"
	"unicode"
)

// Role names a logical reservation field to locate in the source table.
type Role string

// Roles a pass needs. Order is the reporting order.
const (
	RoleConfirmation Role = "confirmation"
	RoleArrival      Role = "arrival"
	RoleDeparture    Role = "departure"
)

// AllRoles returns every role in reporting order.
func AllRoles() []Role {
	return []Role{RoleConfirmation, RoleArrival, RoleDeparture}
}

// Keywords holds per-role candidate header fragments, highest priority
// first. A header matches a role when any fragment is a substring of the
// normalized header text.
type Keywords struct {
	Confirmation []string `yaml:"confirmation"`
	Arrival      []string `yaml:"arrival"`
	Departure    []string `yaml:"departure"`
}

// DefaultKeywords covers the header spellings seen across PMS exports.
func DefaultKeywords() Keywords {
	return Keywords{
		Confirmation: []string{"Conf", "Conf #", "Confirmation", "Conf:", "Confirmation #"},
		Arrival:      []string{"Arrive", "Arrival", "Check-In", "Check In", "Arrival Date"},
		Departure:    []string{"Departs", "Departure", "Check-Out", "Check Out", "Departure Date"},
	}
}

// ForRole returns the keyword list for a role.
func (k Keywords) ForRole(role Role) []string {
	switch role {
	case RoleConfirmation:
		return k.Confirmation
	case RoleArrival:
		return k.Arrival
	case RoleDeparture:
		return k.Departure
	}
	return nil
}

// Detection maps roles to source column indexes. Roles absent from Columns
// appear in Unmatched; Keyword records which fragment matched, for
// diagnostics.
type Detection struct {
	Columns   map[Role]int
	Keyword   map[Role]string
	Unmatched []Role
}

// SetColumn assigns a role to a column, overriding whatever detection
// found, and recomputes the unmatched set. Used for manual mapping.
func (d *Detection) SetColumn(role Role, column int) {
	d.Columns[role] = column
	delete(d.Keyword, role)

	d.Unmatched = d.Unmatched[:0]
	for _, r := range AllRoles() {
		if _, ok := d.Columns[r]; !ok {
			d.Unmatched = append(d.Unmatched, r)
		}
	}
}

// Detector locates role columns in a header row.
type Detector interface {
	Detect(header []string) Detection
}

// KeywordDetector matches headers against configured keyword lists.
// Immutable after construction and safe for concurrent use.
type KeywordDetector struct {
	keywords Keywords
}

// NewKeywordDetector creates a detector over the given keyword lists.
func NewKeywordDetector(keywords Keywords) *KeywordDetector {
	return &KeywordDetector{keywords: keywords}
}

// Detect resolves each role independently: keywords are tried in priority
// order, and the first keyword with a hit claims its leftmost matching
// column. A column may serve several roles; detection never fails.
func (d *KeywordDetector) Detect(header []string) Detection {
	norm := make([]string, len(header))
	for i, h := range header {
		norm[i] = normalizeHeader(h)
	}

	det := Detection{
		Columns: make(map[Role]int),
		Keyword: make(map[Role]string),
	}

	for _, role := range AllRoles() {
		assigned := false
		for _, kw := range d.keywords.ForRole(role) {
			want := normalizeHeader(kw)
			if want == "" {
				continue
			}
			for col, have := range norm {
				if strings.Contains(have, want) {
					det.Columns[role] = col
					det.Keyword[role] = kw
					assigned = true
					break
				}
			}
			if assigned {
				break
			}
		}
		if !assigned {
			det.Unmatched = append(det.Unmatched, role)
		}
	}
	return det
}

// normalizeHeader lower-cases, turns punctuation into spaces, and collapses
// runs of whitespace, so "Conf. #" and "conf" compare equal and "Check-In"
// matches both its spaced and hyphenated spellings.
func normalizeHeader(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
