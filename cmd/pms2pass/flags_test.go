package main

// Notes:
// - parseGenerateFlags/parseInspectFlags: we test flag combinations including
//   short/long forms, repeatable flags, and positional arguments.
// - parseMappings/parseRows: we test the role=INDEX and row list grammars,
//   including the rejections users actually hit (typos, ranges, duplicates).
// - We don't test pflag internals (library responsibility).
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"reflect"
	"testing"
)

// ---------------------------------------------------------------------------
// TestParseGenerateFlags - generate command flag parsing
// ---------------------------------------------------------------------------

func TestParseGenerateFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		args           []string
		wantOutput     string
		wantTemplate   string
		wantLayout     string
		wantConfig     string
		wantWorkers    int
		wantOverlay    bool
		wantQuiet      bool
		wantVerbose    bool
		wantRows       string
		wantSort       string
		wantMaps       []string
		wantDateIn     []string
		wantDateOut    string
		wantConfRegex  string
		wantPositional []string
		wantErr        bool
	}{
		{
			name:           "no args",
			args:           []string{},
			wantPositional: []string{},
		},
		{
			name:           "single source",
			args:           []string{"export.csv"},
			wantPositional: []string{"export.csv"},
		},
		{
			name:           "output flag short",
			args:           []string{"-o", "passes.pdf", "export.csv"},
			wantOutput:     "passes.pdf",
			wantPositional: []string{"export.csv"},
		},
		{
			name:           "template and layout",
			args:           []string{"--template", "blank.pdf", "--layout", "layout.yml", "export.csv"},
			wantTemplate:   "blank.pdf",
			wantLayout:     "layout.yml",
			wantPositional: []string{"export.csv"},
		},
		{
			name:           "short flags",
			args:           []string{"-c", "work", "-t", "blank.pdf", "-l", "wide", "-q", "-v", "export.csv"},
			wantConfig:     "work",
			wantTemplate:   "blank.pdf",
			wantLayout:     "wide",
			wantQuiet:      true,
			wantVerbose:    true,
			wantPositional: []string{"export.csv"},
		},
		{
			name:           "overlay only",
			args:           []string{"--overlay-only", "export.csv"},
			wantOverlay:    true,
			wantPositional: []string{"export.csv"},
		},
		{
			name:           "workers flag",
			args:           []string{"-w", "4", "export.csv"},
			wantWorkers:    4,
			wantPositional: []string{"export.csv"},
		},
		{
			name:           "selection flags",
			args:           []string{"--rows", "2,5,7-10", "--sort", "arrival", "export.csv"},
			wantRows:       "2,5,7-10",
			wantSort:       "arrival",
			wantPositional: []string{"export.csv"},
		},
		{
			name:           "repeatable map flag",
			args:           []string{"--map", "confirmation=2", "--map", "arrival=0", "export.csv"},
			wantMaps:       []string{"confirmation=2", "arrival=0"},
			wantPositional: []string{"export.csv"},
		},
		{
			name:           "date overrides",
			args:           []string{"--date-in", "DD/MM/YYYY", "--date-in", "YYYY-MM-DD", "--date-out", "DD/MM", "export.csv"},
			wantDateIn:     []string{"DD/MM/YYYY", "YYYY-MM-DD"},
			wantDateOut:    "DD/MM",
			wantPositional: []string{"export.csv"},
		},
		{
			name:           "confirmation regex",
			args:           []string{"--conf-regex", `PM[0-9]+`, "export.csv"},
			wantConfRegex:  `PM[0-9]+`,
			wantPositional: []string{"export.csv"},
		},
		{
			name:           "flags after positional argument",
			args:           []string{"export.csv", "-o", "./out/", "--verbose"},
			wantOutput:     "./out/",
			wantVerbose:    true,
			wantPositional: []string{"export.csv"},
		},
		{
			name:           "multiple sources",
			args:           []string{"a.csv", "b.xlsx", "exports/"},
			wantPositional: []string{"a.csv", "b.xlsx", "exports/"},
		},
		{
			name:    "unknown flag returns error",
			args:    []string{"--unknown"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flags, positional, err := parseGenerateFlags(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if flags.output != tt.wantOutput {
				t.Errorf("output = %q, want %q", flags.output, tt.wantOutput)
			}
			if flags.template != tt.wantTemplate {
				t.Errorf("template = %q, want %q", flags.template, tt.wantTemplate)
			}
			if flags.layout != tt.wantLayout {
				t.Errorf("layout = %q, want %q", flags.layout, tt.wantLayout)
			}
			if flags.common.config != tt.wantConfig {
				t.Errorf("config = %q, want %q", flags.common.config, tt.wantConfig)
			}
			if flags.workers != tt.wantWorkers {
				t.Errorf("workers = %d, want %d", flags.workers, tt.wantWorkers)
			}
			if flags.overlayOnly != tt.wantOverlay {
				t.Errorf("overlayOnly = %v, want %v", flags.overlayOnly, tt.wantOverlay)
			}
			if flags.common.quiet != tt.wantQuiet {
				t.Errorf("quiet = %v, want %v", flags.common.quiet, tt.wantQuiet)
			}
			if flags.common.verbose != tt.wantVerbose {
				t.Errorf("verbose = %v, want %v", flags.common.verbose, tt.wantVerbose)
			}
			if flags.selection.rows != tt.wantRows {
				t.Errorf("rows = %q, want %q", flags.selection.rows, tt.wantRows)
			}
			if flags.selection.sort != tt.wantSort {
				t.Errorf("sort = %q, want %q", flags.selection.sort, tt.wantSort)
			}
			if !reflect.DeepEqual(flags.mapping.columns, tt.wantMaps) {
				t.Errorf("map = %v, want %v", flags.mapping.columns, tt.wantMaps)
			}
			if !reflect.DeepEqual(flags.dates.input, tt.wantDateIn) {
				t.Errorf("date-in = %v, want %v", flags.dates.input, tt.wantDateIn)
			}
			if flags.dates.output != tt.wantDateOut {
				t.Errorf("date-out = %q, want %q", flags.dates.output, tt.wantDateOut)
			}
			if flags.confPattern != tt.wantConfRegex {
				t.Errorf("conf-regex = %q, want %q", flags.confPattern, tt.wantConfRegex)
			}
			if !reflect.DeepEqual(positional, tt.wantPositional) {
				t.Errorf("positional = %v, want %v", positional, tt.wantPositional)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParseInspectFlags - inspect command flag parsing
// ---------------------------------------------------------------------------

func TestParseInspectFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		args           []string
		wantJSON       bool
		wantConfig     string
		wantMaps       []string
		wantPositional []string
		wantErr        bool
	}{
		{
			name:           "source only",
			args:           []string{"export.xls"},
			wantPositional: []string{"export.xls"},
		},
		{
			name:           "json flag",
			args:           []string{"--json", "export.xls"},
			wantJSON:       true,
			wantPositional: []string{"export.xls"},
		},
		{
			name:           "config and map",
			args:           []string{"-c", "work", "--map", "departure=7", "export.xls"},
			wantConfig:     "work",
			wantMaps:       []string{"departure=7"},
			wantPositional: []string{"export.xls"},
		},
		{
			name:    "unknown flag returns error",
			args:    []string{"--workers", "2", "export.xls"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flags, positional, err := parseInspectFlags(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if flags.json != tt.wantJSON {
				t.Errorf("json = %v, want %v", flags.json, tt.wantJSON)
			}
			if flags.common.config != tt.wantConfig {
				t.Errorf("config = %q, want %q", flags.common.config, tt.wantConfig)
			}
			if !reflect.DeepEqual(flags.mapping.columns, tt.wantMaps) {
				t.Errorf("map = %v, want %v", flags.mapping.columns, tt.wantMaps)
			}
			if !reflect.DeepEqual(positional, tt.wantPositional) {
				t.Errorf("positional = %v, want %v", positional, tt.wantPositional)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParseMappings - role=INDEX grammar
// ---------------------------------------------------------------------------

func TestParseMappings(t *testing.T) {
	t.Parallel()

	intPtr := func(n int) *int { return &n }

	tests := []struct {
		name             string
		pairs            []string
		wantConfirmation *int
		wantArrival      *int
		wantDeparture    *int
		wantNil          bool
		wantErr          bool
	}{
		{
			name:    "no pairs yields nil overrides",
			pairs:   nil,
			wantNil: true,
		},
		{
			name:             "single role",
			pairs:            []string{"confirmation=2"},
			wantConfirmation: intPtr(2),
		},
		{
			name:             "all roles",
			pairs:            []string{"confirmation=2", "arrival=0", "departure=5"},
			wantConfirmation: intPtr(2),
			wantArrival:      intPtr(0),
			wantDeparture:    intPtr(5),
		},
		{
			name:        "role is case insensitive",
			pairs:       []string{"Arrival=1"},
			wantArrival: intPtr(1),
		},
		{
			name:          "spaces around role and index",
			pairs:         []string{" departure = 3 "},
			wantDeparture: intPtr(3),
		},
		{
			name:    "missing equals sign",
			pairs:   []string{"confirmation:2"},
			wantErr: true,
		},
		{
			name:    "unknown role",
			pairs:   []string{"checkout=2"},
			wantErr: true,
		},
		{
			name:    "negative index",
			pairs:   []string{"arrival=-1"},
			wantErr: true,
		},
		{
			name:    "non-numeric index",
			pairs:   []string{"arrival=first"},
			wantErr: true,
		},
		{
			name:    "role mapped twice",
			pairs:   []string{"arrival=1", "arrival=2"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseMappings(tt.pairs)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrInvalidMapping) {
					t.Errorf("error should wrap ErrInvalidMapping, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.wantNil {
				if got != nil {
					t.Fatalf("expected nil overrides, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected overrides, got nil")
			}

			checkColumn(t, "confirmation", got.Confirmation, tt.wantConfirmation)
			checkColumn(t, "arrival", got.Arrival, tt.wantArrival)
			checkColumn(t, "departure", got.Departure, tt.wantDeparture)
		})
	}
}

// checkColumn compares an optional column override against the expectation.
func checkColumn(t *testing.T, role string, got, want *int) {
	t.Helper()

	switch {
	case want == nil && got != nil:
		t.Errorf("%s = %d, want unset", role, *got)
	case want != nil && got == nil:
		t.Errorf("%s unset, want %d", role, *want)
	case want != nil && got != nil && *got != *want:
		t.Errorf("%s = %d, want %d", role, *got, *want)
	}
}

// ---------------------------------------------------------------------------
// TestParseRows - row list grammar
// ---------------------------------------------------------------------------

func TestParseRows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    []int
		wantErr bool
	}{
		{
			name:  "empty selects everything",
			input: "",
			want:  nil,
		},
		{
			name:  "single row",
			input: "2",
			want:  []int{2},
		},
		{
			name:  "comma list",
			input: "2,5",
			want:  []int{2, 5},
		},
		{
			name:  "range",
			input: "7-10",
			want:  []int{7, 8, 9, 10},
		},
		{
			name:  "mixed list and range",
			input: "2,5,7-10",
			want:  []int{2, 5, 7, 8, 9, 10},
		},
		{
			name:  "spaces around entries",
			input: " 2 , 5 ",
			want:  []int{2, 5},
		},
		{
			name:  "single element range",
			input: "4-4",
			want:  []int{4},
		},
		{
			name:    "row zero",
			input:   "0",
			wantErr: true,
		},
		{
			name:    "non-numeric",
			input:   "abc",
			wantErr: true,
		},
		{
			name:    "reversed range",
			input:   "5-3",
			wantErr: true,
		},
		{
			name:    "open-ended range",
			input:   "1-",
			wantErr: true,
		},
		{
			name:    "empty entry",
			input:   "2,,5",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseRows(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrInvalidRows) {
					t.Errorf("error should wrap ErrInvalidRows, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseRows(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
