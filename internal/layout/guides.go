package layout

import "fmt"

// Guide is one colored rectangle in the template preview: panel outlines,
// text field boxes, and QR squares, each labeled with its panel and field.
type Guide struct {
	Label      string
	X, Y, W, H float64
	Color      RGB
}

// Guide palette. Panels are gray; each field kind keeps one color on both
// panels so the preview reads at a glance.
var (
	guidePanelColor = RGB{128, 128, 128}
	guideConfColor  = RGB{220, 50, 47}
	guideDateColor  = RGB{133, 153, 0}
	guideNightColor = RGB{38, 139, 210}
	guideQRColor    = RGB{108, 113, 196}
)

// guideTextWidth is the box width drawn for fields without auto-fit, which
// have no configured width of their own.
const guideTextWidth = 120.0

// Guides lays out the preview rectangles for both panels. No guest data is
// involved; this is a diagnostic rendering of the geometry only.
func (s Spec) Guides() []Guide {
	var guides []Guide
	for _, name := range []PanelName{PanelTop, PanelBottom} {
		p, err := s.Panel(name)
		if err != nil {
			continue
		}
		guides = append(guides, s.panelGuides(name, p)...)
	}
	return guides
}

func (s Spec) panelGuides(name PanelName, p Panel) []Guide {
	origin := p.Origin

	width := s.Page.Width - 2*origin.X()
	if width <= 0 {
		width = s.Page.Width
	}

	textBox := func(label string, f TextField, color RGB) Guide {
		w := f.MaxWidth
		if w <= 0 {
			w = guideTextWidth
		}
		// The box top sits one font size above the baseline.
		return Guide{
			Label: fmt.Sprintf("%s/%s", name, label),
			X:     origin.X() + f.Offset.X(),
			Y:     origin.Y() + f.Offset.Y() - f.FontSize,
			W:     w,
			H:     f.FontSize * 1.2,
			Color: color,
		}
	}

	return []Guide{
		{
			Label: string(name),
			X:     origin.X(),
			Y:     origin.Y(),
			W:     width,
			H:     p.Height,
			Color: guidePanelColor,
		},
		textBox("confirmation", s.Fields.Confirmation, guideConfColor),
		textBox("date", s.Fields.Date, guideDateColor),
		textBox("nights", s.Fields.Nights, guideNightColor),
		{
			Label: fmt.Sprintf("%s/qr", name),
			X:     origin.X() + s.QR.Offset.X(),
			Y:     origin.Y() + s.QR.Offset.Y(),
			W:     s.QRSizePt(),
			H:     s.QRSizePt(),
			Color: guideQRColor,
		},
	}
}
