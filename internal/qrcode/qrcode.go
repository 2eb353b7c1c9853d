// Package qrcode renders guest pass payloads as QR images. Payload text is
// a simple placeholder substitution, so identical records always produce
// identical payloads, and the encoder is deterministic on top of that.
package qrcode

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strconv"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

// Sentinel errors for QR rendering.
var (
	// ErrInvalidQRConfig indicates a bad size, border, or correction level.
	ErrInvalidQRConfig = errors.New("invalid qr configuration")

	// ErrQREncode indicates a payload that could not be encoded at the
	// configured size.
	ErrQREncode = errors.New("cannot encode qr payload")
)

// Payload carries the per-guest values substituted into the content
// template. Arrival is already in the canonical output format.
type Payload struct {
	Confirmation string
	Arrival      string
	Nights       int
}

// BuildPayload substitutes {confirmation}, {arrival}, and {nights} in the
// template. Unknown placeholders pass through untouched.
func BuildPayload(template string, p Payload) string {
	return strings.NewReplacer(
		"{confirmation}", p.Confirmation,
		"{arrival}", p.Arrival,
		"{nights}", strconv.Itoa(p.Nights),
	).Replace(template)
}

// Renderer produces one PNG QR stamp per guest payload.
type Renderer interface {
	Render(p Payload) ([]byte, error)
}

// BarcodeRenderer encodes payloads with a quiet-zone border composited onto
// a fixed-size white canvas. Immutable after construction and safe for
// concurrent use.
type BarcodeRenderer struct {
	template string
	sizePx   int
	border   int
	level    qr.ErrorCorrectionLevel
}

// NewBarcodeRenderer creates a renderer. sizePx is the exact output square
// side, border the quiet zone in modules, level one of L, M, Q, H.
func NewBarcodeRenderer(template string, sizePx, border int, level string) (*BarcodeRenderer, error) {
	if template == "" {
		return nil, fmt.Errorf("%w: content template cannot be empty", ErrInvalidQRConfig)
	}
	if sizePx <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", ErrInvalidQRConfig, sizePx)
	}
	if border < 0 {
		return nil, fmt.Errorf("%w: border must not be negative, got %d", ErrInvalidQRConfig, border)
	}

	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	return &BarcodeRenderer{
		template: template,
		sizePx:   sizePx,
		border:   border,
		level:    lvl,
	}, nil
}

func parseLevel(level string) (qr.ErrorCorrectionLevel, error) {
	switch level {
	case "L":
		return qr.L, nil
	case "M":
		return qr.M, nil
	case "Q":
		return qr.Q, nil
	case "H":
		return qr.H, nil
	}
	return 0, fmt.Errorf("%w: error correction level must be L, M, Q, or H, got %q", ErrInvalidQRConfig, level)
}

// Payload returns the substituted payload text for p.
func (r *BarcodeRenderer) Payload(p Payload) string {
	return BuildPayload(r.template, p)
}

// Render encodes the payload and returns a PNG exactly sizePx wide and
// tall. The code is scaled to leave at least the configured border of white
// quiet zone on every side.
func (r *BarcodeRenderer) Render(p Payload) ([]byte, error) {
	payload := r.Payload(p)

	code, err := qr.Encode(payload, r.level, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQREncode, err)
	}

	modules := code.Bounds().Dx()

	// Whole pixels per module, counting the border on both sides.
	ppm := r.sizePx / (modules + 2*r.border)
	if ppm < 1 {
		ppm = 1
	}
	inner := r.sizePx - 2*r.border*ppm
	if inner < modules {
		return nil, fmt.Errorf("%w: %d modules plus border do not fit in %dpx", ErrQREncode, modules, r.sizePx)
	}

	scaled, err := barcode.Scale(code, inner, inner)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQREncode, err)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, r.sizePx, r.sizePx))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	offset := (r.sizePx - inner) / 2
	target := image.Rect(offset, offset, offset+inner, offset+inner)
	draw.Draw(canvas, target, scaled, scaled.Bounds().Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQREncode, err)
	}
	return buf.Bytes(), nil
}
