package pdfcompose

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// FontMeasurer reports rendered text widths using the same font metrics the
// compositor draws with, so auto-fit decisions match the printed result.
// Not safe for concurrent use; create one per generation run.
type FontMeasurer struct {
	pdf *gofpdf.Fpdf
}

// NewFontMeasurer creates a measurer for the given page size in points.
func NewFontMeasurer(width, height float64) *FontMeasurer {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: width, Ht: height},
	})
	return &FontMeasurer{pdf: pdf}
}

// TextWidth returns the width of text in points at the given font and size.
// Only the built-in PDF fonts are supported.
func (m *FontMeasurer) TextWidth(text, font string, size float64) (float64, error) {
	if !coreFont(font) {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFont, font)
	}

	m.pdf.SetFont(font, "", size)
	return m.pdf.GetStringWidth(text), nil
}
