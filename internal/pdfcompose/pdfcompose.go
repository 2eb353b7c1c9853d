// Package pdfcompose draws resolved pass geometry onto the printed pass
// template. It is the only package that touches the PDF backend; everything
// upstream hands it plain coordinates, text, and PNG bytes.
package pdfcompose

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"

	"github.com/alnah/go-pms2pass/internal/fileutil"
	"github.com/alnah/go-pms2pass/internal/layout"
)

// Sentinel errors for composition.
var (
	// ErrComposition indicates a failed overlay merge. Fatal to the run; a
	// pass sheet with a missing layer must never ship.
	ErrComposition = errors.New("composition failed")

	// ErrUnsupportedFont indicates a font outside the built-in PDF set.
	ErrUnsupportedFont = errors.New("unsupported font")
)

// composeMu serializes template imports. The import helper keeps package
// level state, so concurrent runs must not interleave.
var composeMu sync.Mutex

// creationDate is stamped into every output so identical runs produce byte
// identical documents.
var creationDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// coreFonts are the built-in PDF fonts available without embedding.
var coreFonts = map[string]bool{
	"courier":      true,
	"helvetica":    true,
	"arial":        true,
	"times":        true,
	"symbol":       true,
	"zapfdingbats": true,
}

func coreFont(name string) bool {
	return coreFonts[strings.ToLower(name)]
}

// Rendered is one panel's worth of drawing work: resolved geometry plus the
// QR stamp as PNG bytes.
type Rendered struct {
	Pass layout.Pass
	QR   []byte
}

// Page holds up to two passes. A nil panel stays blank; a panel is either
// fully drawn or not at all.
type Page struct {
	Top    *Rendered
	Bottom *Rendered
}

// Compositor produces the final documents.
type Compositor interface {
	Compose(template []byte, pages []Page) ([]byte, error)
	ComposeOverlay(pages []Page) ([]byte, error)
	Preview(guides []layout.Guide) ([]byte, error)
}

// FpdfCompositor stacks overlays onto page one of the template. Safe for
// concurrent use; compose runs are serialized internally.
type FpdfCompositor struct {
	pageW, pageH float64
}

// NewFpdfCompositor creates a compositor for the given page size in points.
func NewFpdfCompositor(width, height float64) (*FpdfCompositor, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: page dimensions must be positive", ErrComposition)
	}
	return &FpdfCompositor{pageW: width, pageH: height}, nil
}

// Compose renders every page onto a fresh copy of the template's first page
// and returns the combined document. Any failure aborts the whole document;
// there is no partial output.
func (c *FpdfCompositor) Compose(template []byte, pages []Page) (out []byte, err error) {
	if len(template) == 0 {
		return nil, fmt.Errorf("%w: template is empty", ErrComposition)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: no pages to compose", ErrComposition)
	}

	composeMu.Lock()
	defer composeMu.Unlock()

	// The import helper panics on malformed templates.
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%w: %v", ErrComposition, r)
		}
	}()

	path, cleanup, err := fileutil.WriteTempFile(template, "pdf")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrComposition, err)
	}
	defer cleanup()

	pdf := c.newPDF()
	tpl := gofpdi.ImportPage(pdf, path, 1, "/MediaBox")

	for i, page := range pages {
		pdf.AddPage()
		gofpdi.UseImportedTemplate(pdf, tpl, 0, 0, c.pageW, c.pageH)
		c.drawPanel(pdf, page.Top, i)
		c.drawPanel(pdf, page.Bottom, i)
	}

	return output(pdf)
}

// ComposeOverlay renders the pages onto blank sheets instead of the
// template, for checking alignment against pre-printed pass stock. No
// template import happens, so runs need no serialization.
func (c *FpdfCompositor) ComposeOverlay(pages []Page) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: no pages to compose", ErrComposition)
	}

	pdf := c.newPDF()
	for i, page := range pages {
		pdf.AddPage()
		c.drawPanel(pdf, page.Top, i)
		c.drawPanel(pdf, page.Bottom, i)
	}

	return output(pdf)
}

// Preview draws the layout guides on a blank page: no template, no guest
// data, just labeled boxes where content would land.
func (c *FpdfCompositor) Preview(guides []layout.Guide) ([]byte, error) {
	if len(guides) == 0 {
		return nil, fmt.Errorf("%w: no guides to draw", ErrComposition)
	}

	pdf := c.newPDF()
	pdf.AddPage()
	pdf.SetLineWidth(0.75)
	pdf.SetFont("Helvetica", "", 8)

	for _, g := range guides {
		pdf.SetDrawColor(g.Color.R(), g.Color.G(), g.Color.B())
		pdf.SetTextColor(g.Color.R(), g.Color.G(), g.Color.B())
		pdf.Rect(g.X, g.Y, g.W, g.H, "D")

		labelY := g.Y - 3
		if labelY < 8 {
			labelY = g.Y + 9
		}
		pdf.Text(g.X+1, labelY, g.Label)
	}

	return output(pdf)
}

func (c *FpdfCompositor) newPDF() *gofpdf.Fpdf {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: c.pageW, Ht: c.pageH},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreationDate(creationDate)
	return pdf
}

func (c *FpdfCompositor) drawPanel(pdf *gofpdf.Fpdf, r *Rendered, pageIdx int) {
	if r == nil {
		return
	}

	for _, t := range r.Pass.Texts {
		pdf.SetFont(t.Font, "", t.Size)
		pdf.SetTextColor(t.Color.R(), t.Color.G(), t.Color.B())
		pdf.Text(t.X, t.Y, t.Text)
	}

	if len(r.QR) > 0 {
		name := fmt.Sprintf("qr-%d-%s", pageIdx, r.Pass.Panel)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(r.QR))
		pdf.ImageOptions(name, r.Pass.QR.X, r.Pass.QR.Y, r.Pass.QR.Size, r.Pass.QR.Size, false, opts, 0, "")
	}
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	if pdf.Err() {
		return nil, fmt.Errorf("%w: %v", ErrComposition, pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrComposition, err)
	}
	return buf.Bytes(), nil
}
