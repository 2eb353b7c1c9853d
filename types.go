package pms2pass

import (
	"log/slog"

	"github.com/alnah/go-pms2pass/internal/layout"
	"github.com/alnah/go-pms2pass/internal/schema"
)

// Default limits and fallbacks applied when no option overrides them.
const (
	// DefaultMaxSourceSize caps source files at 16 MiB.
	DefaultMaxSourceSize int64 = 16 << 20

	// DefaultConfirmationPattern extracts a confirmation number from joined
	// row text when the mapped cell is blank. One capture group.
	DefaultConfirmationPattern = `Conf[:#]?\s*(\d+)`
)

// SortMode selects the ordering of valid records in the output document.
type SortMode string

// Supported orderings. SortNone keeps the source row order.
const (
	SortNone         SortMode = ""
	SortArrival      SortMode = "arrival"
	SortConfirmation SortMode = "confirmation"
)

// Input contains generation parameters for one source file.
type Input struct {
	SourceName string // file name whose extension selects the reader (required)
	Source     []byte // raw export content (required)

	// Template is the single-page pass template PDF. Required unless
	// OverlayOnly is set.
	Template []byte

	Mapping *ColumnOverrides // manual column mapping (optional)

	// Rows restricts output to these source row numbers, counted the way
	// the spreadsheet shows them (the header usually sits on row 1). Every
	// number must belong to a valid record. Empty means all valid records.
	Rows []int

	Sort SortMode // ordering of the selected records

	// OverlayOnly composes passes on blank pages instead of the template,
	// for checking alignment against pre-printed stock.
	OverlayOnly bool
}

// ColumnOverrides pins roles to 0-based source column indexes. A set role
// wins over detection; nil fields leave detection alone.
type ColumnOverrides struct {
	Confirmation *int
	Arrival      *int
	Departure    *int
}

// Result is a completed generation run.
type Result struct {
	PDF    []byte  // composed document
	Report *Report // per-row outcomes and counts
}

// Report summarizes one run. Rows holds one outcome per data row in source
// order, including the invalid rows, which are never drawn.
type Report struct {
	RunID    string // unique id assigned per run
	Total    int    // data rows read
	Valid    int    // rows that produced a record
	Invalid  int    // rows recorded with a reason
	Selected int    // records chosen for rendering
	Pages    int    // pages in the output document
	Rows     []RowOutcome
}

// RowOutcome is one data row's fate. Row is the 1-based source row number;
// dates carry the canonical output format.
type RowOutcome struct {
	Row          int
	Valid        bool
	Confirmation string
	Arrival      string
	Departure    string
	Nights       int
	Field        string // role whose check failed, invalid rows only
	Reason       string // failure reason, invalid rows only
}

// Inspection describes a source table without building records. It backs
// the manual mapping workflow: headers, value samples, and where each role
// would come from.
type Inspection struct {
	Format       string        // csv, xls, or xlsx
	Sheet        string        // worksheet name, spreadsheet sources only
	Encoding     string        // detected character encoding, CSV only
	HeaderRow    int           // 1-based header position in the source
	DataRows     int           // data rows below the header after cleaning
	VisualMatrix bool          // whether the Visual Matrix collapse ran
	Columns      []Column      // per-column headers and value samples
	Mapped       []RoleMapping // roles with a column, detected or overridden
	Unmatched    []string      // roles with no column
}

// Column is one source column with its first few non-empty values.
type Column struct {
	Index   int
	Header  string
	Samples []string
}

// RoleMapping records where one role's data comes from.
type RoleMapping struct {
	Role    string
	Column  int
	Keyword string // keyword that matched; empty for manual overrides
}

// Layout is the declarative pass geometry: page, two panels, three text
// fields, and a QR block. Start from DefaultLayout and adjust; the zero
// value fails validation.
type Layout struct {
	Page   PageGeometry
	Fields FieldSet
	QR     QRBlock
}

// PageGeometry is the output page in points plus the rendering density used
// to convert QR pixel sizes to points.
type PageGeometry struct {
	DPI    float64
	Width  float64
	Height float64
	Panels PanelPair
}

// PanelPair holds the two half-page pass regions.
type PanelPair struct {
	Top    Panel
	Bottom Panel
}

// Panel is one pass region: a top-left origin and a height. Field offsets
// are measured downward from the origin on both panels alike.
type Panel struct {
	Origin [2]float64 // x, y in points from the page's top-left corner
	Height float64
}

// FieldSet holds the three text field definitions.
type FieldSet struct {
	Confirmation TextField
	Date         TextField
	Nights       TextField
}

// TextField positions one text run inside a panel.
type TextField struct {
	Offset   [2]float64 // x, y from the panel origin, in points
	Font     string     // one of the built-in PDF fonts
	FontSize float64    // points
	Color    [3]int     // 8-bit RGB
	MaxWidth float64    // above zero enables auto-fit
	MinSize  float64    // auto-fit floor in points
}

// QRBlock configures the QR stamp.
type QRBlock struct {
	ContentTemplate string     // payload with {confirmation} {arrival} {nights}
	SizePx          int        // square side in pixels at the page DPI
	Offset          [2]float64 // x, y from the panel origin, in points
	Border          int        // quiet zone in modules
	Level           string     // error correction level: L, M, Q, or H
}

// DefaultLayout returns the layout shipped with the tool: US Letter at
// 72 dpi, passes anchored at y=100 and y=400, Helvetica fields, auto-fit on
// the confirmation line.
func DefaultLayout() Layout {
	return fromLayoutSpec(layout.DefaultSpec())
}

// Validate checks the layout the way generation will: geometry, panels,
// fields, colors, and the QR block.
func (l Layout) Validate() error {
	return toLayoutSpec(l).Validate()
}

// Keywords are the per-role header fragments detection matches against,
// highest priority first. A header matches a role when any fragment is a
// substring of the normalized header text.
type Keywords struct {
	Confirmation []string
	Arrival      []string
	Departure    []string
}

// DefaultKeywords covers the header spellings seen across PMS exports.
func DefaultKeywords() Keywords {
	return fromSchemaKeywords(schema.DefaultKeywords())
}

// DateFormats holds the ordered candidate input patterns plus the single
// canonical output pattern, in YYYY MM DD token syntax.
type DateFormats struct {
	Input  []string
	Output string
}

// DefaultDateFormats matches the date spellings of common PMS exports and
// prints US-style dates.
func DefaultDateFormats() DateFormats {
	return DateFormats{
		Input:  []string{"MM/DD/YY", "MM/DD/YYYY", "YYYY-MM-DD", "DD/MM/YYYY"},
		Output: "MM/DD/YYYY",
	}
}

// Option configures a Generator. Options only record settings; NewGenerator
// validates everything once all options are applied.
type Option func(*Generator)

// WithLayout replaces the default pass layout.
func WithLayout(l Layout) Option {
	return func(g *Generator) { g.layoutCfg = l }
}

// WithKeywords replaces the default detection keyword lists.
func WithKeywords(k Keywords) Option {
	return func(g *Generator) { g.keywords = k }
}

// WithDateFormats replaces the default date patterns.
func WithDateFormats(f DateFormats) Option {
	return func(g *Generator) { g.formats = f }
}

// WithConfirmationPattern replaces the fallback regex applied to row text
// when the mapped confirmation cell is blank. Empty disables the fallback.
func WithConfirmationPattern(pattern string) Option {
	return func(g *Generator) { g.pattern = pattern }
}

// WithMaxSourceSize caps accepted sources at n bytes. Values at or below
// zero keep the default.
func WithMaxSourceSize(n int64) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxSource = n
		}
	}
}

// WithLogger attaches a structured logger for stage-level diagnostics. The
// default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// Conversions between the public value objects and the internal packages
// that consume them.

func toLayoutSpec(l Layout) layout.Spec {
	return layout.Spec{
		Page: layout.Page{
			DPI:    l.Page.DPI,
			Width:  l.Page.Width,
			Height: l.Page.Height,
			Panels: layout.Panels{
				Top:    toLayoutPanel(l.Page.Panels.Top),
				Bottom: toLayoutPanel(l.Page.Panels.Bottom),
			},
		},
		Fields: layout.Fields{
			Confirmation: toLayoutField(l.Fields.Confirmation),
			Date:         toLayoutField(l.Fields.Date),
			Nights:       toLayoutField(l.Fields.Nights),
		},
		QR: layout.QRBlock{
			ContentTemplate: l.QR.ContentTemplate,
			SizePx:          l.QR.SizePx,
			Offset:          layout.Vec2(l.QR.Offset),
			Border:          l.QR.Border,
			Level:           l.QR.Level,
		},
	}
}

func toLayoutPanel(p Panel) layout.Panel {
	return layout.Panel{Origin: layout.Vec2(p.Origin), Height: p.Height}
}

func toLayoutField(f TextField) layout.TextField {
	return layout.TextField{
		Offset:   layout.Vec2(f.Offset),
		Font:     f.Font,
		FontSize: f.FontSize,
		Color:    layout.RGB(f.Color),
		MaxWidth: f.MaxWidth,
		MinSize:  f.MinSize,
	}
}

func fromLayoutSpec(s layout.Spec) Layout {
	return Layout{
		Page: PageGeometry{
			DPI:    s.Page.DPI,
			Width:  s.Page.Width,
			Height: s.Page.Height,
			Panels: PanelPair{
				Top:    fromLayoutPanel(s.Page.Panels.Top),
				Bottom: fromLayoutPanel(s.Page.Panels.Bottom),
			},
		},
		Fields: FieldSet{
			Confirmation: fromLayoutField(s.Fields.Confirmation),
			Date:         fromLayoutField(s.Fields.Date),
			Nights:       fromLayoutField(s.Fields.Nights),
		},
		QR: QRBlock{
			ContentTemplate: s.QR.ContentTemplate,
			SizePx:          s.QR.SizePx,
			Offset:          [2]float64(s.QR.Offset),
			Border:          s.QR.Border,
			Level:           s.QR.Level,
		},
	}
}

func fromLayoutPanel(p layout.Panel) Panel {
	return Panel{Origin: [2]float64(p.Origin), Height: p.Height}
}

func fromLayoutField(f layout.TextField) TextField {
	return TextField{
		Offset:   [2]float64(f.Offset),
		Font:     f.Font,
		FontSize: f.FontSize,
		Color:    [3]int(f.Color),
		MaxWidth: f.MaxWidth,
		MinSize:  f.MinSize,
	}
}

func toSchemaKeywords(k Keywords) schema.Keywords {
	return schema.Keywords{
		Confirmation: k.Confirmation,
		Arrival:      k.Arrival,
		Departure:    k.Departure,
	}
}

func fromSchemaKeywords(k schema.Keywords) Keywords {
	return Keywords{
		Confirmation: k.Confirmation,
		Arrival:      k.Arrival,
		Departure:    k.Departure,
	}
}
