package pms2pass

import (
	"errors"

	"github.com/alnah/go-pms2pass/internal/dateparse"
	"github.com/alnah/go-pms2pass/internal/layout"
	"github.com/alnah/go-pms2pass/internal/pdfcompose"
	"github.com/alnah/go-pms2pass/internal/record"
	"github.com/alnah/go-pms2pass/internal/tabular"
)

// Sentinel errors for library operations. Errors born in internal packages
// are re-exported here, the way io/fs errors surface through os, so callers
// can match them with errors.Is without reaching into internal paths.
var (
	// Source reading errors.
	ErrEmptySource    = tabular.ErrEmptySource
	ErrInputFormat    = errors.New("unsupported or unreadable source")
	ErrSourceTooLarge = errors.New("source exceeds maximum size")

	// Mapping and selection errors.
	ErrMappingIncomplete = errors.New("column mapping incomplete")
	ErrNoRecords         = errors.New("no valid records to render")
	ErrRowSelection      = errors.New("row selection outside the valid rows")
	ErrInvalidSort       = errors.New("unknown sort mode")

	// Configuration errors, raised at construction time.
	ErrInvalidDateFormat = dateparse.ErrInvalidFormat
	ErrInvalidPattern    = record.ErrInvalidPattern

	// Layout validation errors. The category sentinels all match
	// ErrInvalidLayout with errors.Is.
	ErrInvalidLayout   = layout.ErrInvalidLayout
	ErrInvalidGeometry = layout.ErrInvalidGeometry
	ErrInvalidPanel    = layout.ErrInvalidPanel
	ErrInvalidField    = layout.ErrInvalidField
	ErrInvalidColor    = layout.ErrInvalidColor
	ErrInvalidQRBlock  = layout.ErrInvalidQRBlock

	// Rendering errors.
	ErrTemplateMissing = errors.New("pass template is missing")
	ErrUnsupportedFont = pdfcompose.ErrUnsupportedFont
	ErrComposition     = pdfcompose.ErrComposition
)
