// Package layout turns the declarative pass layout into absolute page
// geometry. The engine only resolves coordinates and font sizes; drawing
// belongs to the compositor, which keeps geometry testable against
// arbitrary layout values.
package layout

import (
	"errors"
	"fmt"
)

// Sentinel errors for layout resolution. The category sentinels wrap
// ErrInvalidLayout, so errors.Is against the umbrella matches any
// validation failure while callers can still pinpoint the category.
var (
	// ErrInvalidLayout indicates a layout document that fails validation.
	ErrInvalidLayout = errors.New("invalid layout")

	// ErrInvalidGeometry covers page-level values: dpi and dimensions.
	ErrInvalidGeometry = fmt.Errorf("%w: page geometry", ErrInvalidLayout)

	// ErrInvalidPanel covers the two pass regions.
	ErrInvalidPanel = fmt.Errorf("%w: panel", ErrInvalidLayout)

	// ErrInvalidField covers the three text field definitions.
	ErrInvalidField = fmt.Errorf("%w: text field", ErrInvalidLayout)

	// ErrInvalidColor covers color triples outside 0-255.
	ErrInvalidColor = fmt.Errorf("%w: color", ErrInvalidLayout)

	// ErrInvalidQRBlock covers the QR stamp configuration.
	ErrInvalidQRBlock = fmt.Errorf("%w: qr block", ErrInvalidLayout)

	// ErrUnknownPanel indicates a panel name other than top or bottom.
	ErrUnknownPanel = errors.New("unknown panel")
)

// fitStep is how much auto-fit shrinks the font per iteration, in points.
const fitStep = 0.5

// Vec2 is an x,y pair in points, top-left origin.
type Vec2 [2]float64

// X returns the horizontal component.
func (v Vec2) X() float64 { return v[0] }

// Y returns the vertical component.
func (v Vec2) Y() float64 { return v[1] }

// RGB is an 8-bit color triple.
type RGB [3]int

// R returns the red component.
func (c RGB) R() int { return c[0] }

// G returns the green component.
func (c RGB) G() int { return c[1] }

// B returns the blue component.
func (c RGB) B() int { return c[2] }

// PanelName identifies one of the two half-page pass regions.
type PanelName string

// The two panels of a pass page.
const (
	PanelTop    PanelName = "top"
	PanelBottom PanelName = "bottom"
)

// Spec is the full declarative layout: page geometry, the two panels, the
// three text fields, and the QR block. Loaded once per run and read-only
// afterwards, so concurrent runs can share it.
type Spec struct {
	Page   Page    `yaml:"page"`
	Fields Fields  `yaml:"fields"`
	QR     QRBlock `yaml:"qr"`
}

// Page is the output page geometry in points, plus the rendering density
// used to convert QR pixel sizes to points.
type Page struct {
	DPI    float64 `yaml:"dpi"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Panels Panels  `yaml:"panels"`
}

// Panels holds the two pass regions.
type Panels struct {
	Top    Panel `yaml:"top"`
	Bottom Panel `yaml:"bottom"`
}

// Panel is one pass region: a top-left origin and a height. Field offsets
// are measured from the origin, downwards, on both panels alike.
type Panel struct {
	Origin Vec2    `yaml:"origin"`
	Height float64 `yaml:"height"`
}

// Fields holds the three text field definitions.
type Fields struct {
	Confirmation TextField `yaml:"confirmation"`
	Date         TextField `yaml:"date"`
	Nights       TextField `yaml:"nights"`
}

// TextField positions one text run inside a panel. MaxWidth above zero
// enables auto-fit down to MinSize.
type TextField struct {
	Offset   Vec2    `yaml:"offset"`
	Font     string  `yaml:"font"`
	FontSize float64 `yaml:"font_size"`
	Color    RGB     `yaml:"color"`
	MaxWidth float64 `yaml:"max_width"`
	MinSize  float64 `yaml:"min_size"`
}

// QRBlock configures the QR stamp: a payload template with {confirmation},
// {arrival}, and {nights} placeholders, pixel dimensions, quiet-zone border
// in modules, and error-correction level (L, M, Q, or H).
type QRBlock struct {
	ContentTemplate string `yaml:"content_template"`
	SizePx          int    `yaml:"size_px"`
	Offset          Vec2   `yaml:"offset"`
	Border          int    `yaml:"border"`
	Level           string `yaml:"error_correction"`
}

// DefaultSpec is the layout shipped in assets: US Letter at 72 dpi, passes
// anchored at y=100 and y=400, Helvetica fields, auto-fit on the
// confirmation line.
func DefaultSpec() Spec {
	return Spec{
		Page: Page{
			DPI:    72,
			Width:  612,
			Height: 792,
			Panels: Panels{
				Top:    Panel{Origin: Vec2{50, 100}, Height: 300},
				Bottom: Panel{Origin: Vec2{50, 400}, Height: 300},
			},
		},
		Fields: Fields{
			Confirmation: TextField{
				Offset:   Vec2{100, 50},
				Font:     "Helvetica",
				FontSize: 14,
				Color:    RGB{0, 0, 0},
				MaxWidth: 180,
				MinSize:  8,
			},
			Date: TextField{
				Offset:   Vec2{100, 80},
				Font:     "Helvetica",
				FontSize: 14,
				Color:    RGB{0, 0, 0},
			},
			Nights: TextField{
				Offset:   Vec2{100, 110},
				Font:     "Helvetica",
				FontSize: 14,
				Color:    RGB{0, 0, 0},
			},
		},
		QR: QRBlock{
			ContentTemplate: "CONF={confirmation};ARR={arrival};NIGHTS={nights}",
			SizePx:          100,
			Offset:          Vec2{300, 50},
			Border:          2,
			Level:           "M",
		},
	}
}

// Validate checks the spec before any row processing starts.
func (s Spec) Validate() error {
	if s.Page.DPI <= 0 {
		return fmt.Errorf("%w: dpi must be positive", ErrInvalidGeometry)
	}
	if s.Page.Width <= 0 || s.Page.Height <= 0 {
		return fmt.Errorf("%w: dimensions must be positive", ErrInvalidGeometry)
	}
	for _, p := range []struct {
		name  PanelName
		panel Panel
	}{{PanelTop, s.Page.Panels.Top}, {PanelBottom, s.Page.Panels.Bottom}} {
		if p.panel.Height <= 0 {
			return fmt.Errorf("%w %q: height must be positive", ErrInvalidPanel, p.name)
		}
		if p.panel.Origin.X() < 0 || p.panel.Origin.Y() < 0 {
			return fmt.Errorf("%w %q: origin must not be negative", ErrInvalidPanel, p.name)
		}
	}
	for _, f := range []struct {
		name  string
		field TextField
	}{
		{"confirmation", s.Fields.Confirmation},
		{"date", s.Fields.Date},
		{"nights", s.Fields.Nights},
	} {
		if err := f.field.validate(f.name); err != nil {
			return err
		}
	}
	return s.QR.validate()
}

func (f TextField) validate(name string) error {
	if f.Font == "" {
		return fmt.Errorf("%w %q: needs a font", ErrInvalidField, name)
	}
	if f.FontSize <= 0 {
		return fmt.Errorf("%w %q: font size must be positive", ErrInvalidField, name)
	}
	for _, c := range f.Color {
		if c < 0 || c > 255 {
			return fmt.Errorf("%w: field %q components must be 0-255", ErrInvalidColor, name)
		}
	}
	if f.MaxWidth < 0 {
		return fmt.Errorf("%w %q: max width must not be negative", ErrInvalidField, name)
	}
	if f.MaxWidth > 0 && (f.MinSize <= 0 || f.MinSize > f.FontSize) {
		return fmt.Errorf("%w %q: min size must be between 0 and the font size when auto-fit is on", ErrInvalidField, name)
	}
	return nil
}

func (q QRBlock) validate() error {
	if q.ContentTemplate == "" {
		return fmt.Errorf("%w: content template cannot be empty", ErrInvalidQRBlock)
	}
	if q.SizePx <= 0 {
		return fmt.Errorf("%w: size must be positive", ErrInvalidQRBlock)
	}
	if q.Border < 0 {
		return fmt.Errorf("%w: border must not be negative", ErrInvalidQRBlock)
	}
	switch q.Level {
	case "L", "M", "Q", "H":
	default:
		return fmt.Errorf("%w: error correction must be L, M, Q, or H, got %q", ErrInvalidQRBlock, q.Level)
	}
	return nil
}

// QRSizePt converts the configured pixel size into points at the page
// rendering density.
func (s Spec) QRSizePt() float64 {
	return float64(s.QR.SizePx) * 72 / s.Page.DPI
}

// Panel returns the named panel definition.
func (s Spec) Panel(name PanelName) (Panel, error) {
	switch name {
	case PanelTop:
		return s.Page.Panels.Top, nil
	case PanelBottom:
		return s.Page.Panels.Bottom, nil
	}
	return Panel{}, fmt.Errorf("%w: %q", ErrUnknownPanel, name)
}
