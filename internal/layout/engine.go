package layout

import (
	"fmt"
	"strconv"
)

// TextMeasurer reports the rendered width of text in points. Implemented by
// the PDF backend so auto-fit sees the same font metrics the compositor
// draws with.
type TextMeasurer interface {
	TextWidth(text, font string, size float64) (float64, error)
}

// PassText is the printable content of one pass. Arrival carries the
// canonical output format; the departure date never appears on the pass.
type PassText struct {
	Confirmation string
	Arrival      string
	Nights       int
}

// TextPlacement is one resolved text run: absolute baseline coordinates and
// the final font size after auto-fit.
type TextPlacement struct {
	Text  string
	X, Y  float64
	Font  string
	Size  float64
	Color RGB
}

// QRPlacement is the resolved QR box: absolute top-left corner and the
// square's side in points.
type QRPlacement struct {
	X, Y float64
	Size float64
}

// Pass is the drawable geometry of one panel's pass.
type Pass struct {
	Panel PanelName
	Texts []TextPlacement
	QR    QRPlacement
}

// Engine resolves pass geometry against one layout spec. Immutable after
// construction and safe for concurrent use.
type Engine struct {
	spec    Spec
	measure TextMeasurer
}

// NewEngine creates an engine. The measurer is required because auto-fit
// needs real font metrics.
func NewEngine(spec Spec, measure TextMeasurer) (*Engine, error) {
	if measure == nil {
		return nil, fmt.Errorf("%w: text measurer is required", ErrInvalidLayout)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &Engine{spec: spec, measure: measure}, nil
}

// Spec returns the layout the engine resolves against.
func (e *Engine) Spec() Spec {
	return e.spec
}

// ResolvePass computes absolute coordinates for every field of one pass.
// Both panels use the same downward field offsets from their own origin, so
// a pass looks identical on either half of the page. Text order is
// confirmation, arrival date, nights.
func (e *Engine) ResolvePass(text PassText, panel PanelName) (Pass, error) {
	p, err := e.spec.Panel(panel)
	if err != nil {
		return Pass{}, err
	}

	confSize, err := e.fitSize(text.Confirmation, e.spec.Fields.Confirmation)
	if err != nil {
		return Pass{}, err
	}

	origin := p.Origin
	place := func(f TextField, value string, size float64) TextPlacement {
		return TextPlacement{
			Text:  value,
			X:     origin.X() + f.Offset.X(),
			Y:     origin.Y() + f.Offset.Y(),
			Font:  f.Font,
			Size:  size,
			Color: f.Color,
		}
	}

	return Pass{
		Panel: panel,
		Texts: []TextPlacement{
			place(e.spec.Fields.Confirmation, text.Confirmation, confSize),
			place(e.spec.Fields.Date, text.Arrival, e.spec.Fields.Date.FontSize),
			place(e.spec.Fields.Nights, strconv.Itoa(text.Nights), e.spec.Fields.Nights.FontSize),
		},
		QR: QRPlacement{
			X:    origin.X() + e.spec.QR.Offset.X(),
			Y:    origin.Y() + e.spec.QR.Offset.Y(),
			Size: e.spec.QRSizePt(),
		},
	}, nil
}

// fitSize shrinks the font in fixed steps until the text fits the field's
// box or the floor is reached. At the floor the text may still overflow;
// legibility wins over containment.
func (e *Engine) fitSize(text string, f TextField) (float64, error) {
	size := f.FontSize
	if f.MaxWidth <= 0 || text == "" {
		return size, nil
	}

	floor := f.MinSize
	if floor > size {
		floor = size
	}

	for {
		width, err := e.measure.TextWidth(text, f.Font, size)
		if err != nil {
			return 0, fmt.Errorf("%w: measuring %q: %v", ErrInvalidLayout, f.Font, err)
		}
		if width <= f.MaxWidth || size <= floor {
			return size, nil
		}
		size -= fitStep
		if size < floor {
			size = floor
		}
	}
}
