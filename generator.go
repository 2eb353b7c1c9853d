package pms2pass

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/alnah/go-pms2pass/internal/dateparse"
	"github.com/alnah/go-pms2pass/internal/layout"
	"github.com/alnah/go-pms2pass/internal/pdfcompose"
	"github.com/alnah/go-pms2pass/internal/qrcode"
	"github.com/alnah/go-pms2pass/internal/record"
	"github.com/alnah/go-pms2pass/internal/schema"
	"github.com/alnah/go-pms2pass/internal/tabular"
)

// Compile-time interface implementation checks.
var (
	_ tabular.Reader        = (*tabular.FileReader)(nil)
	_ schema.Detector       = (*schema.KeywordDetector)(nil)
	_ record.Builder        = (*record.StayBuilder)(nil)
	_ qrcode.Renderer       = (*qrcode.BarcodeRenderer)(nil)
	_ pdfcompose.Compositor = (*pdfcompose.FpdfCompositor)(nil)
	_ layout.TextMeasurer   = (*pdfcompose.FontMeasurer)(nil)
)

// sampleCount is how many values Inspect reports per column.
const sampleCount = 3

// Generator orchestrates the export-to-passes pipeline: read the table,
// map columns, validate rows, and compose the document. Create with
// NewGenerator; a Generator is immutable afterwards and safe for
// concurrent use.
type Generator struct {
	layoutCfg Layout
	keywords  Keywords
	formats   DateFormats
	pattern   string
	maxSource int64
	logger    *slog.Logger

	spec       layout.Spec
	reader     tabular.Reader
	detector   schema.Detector
	builder    record.Builder
	qr         qrcode.Renderer
	compositor pdfcompose.Compositor
}

// NewGenerator creates a Generator. All configuration is validated here,
// so a constructed Generator cannot fail on configuration during a run.
func NewGenerator(opts ...Option) (*Generator, error) {
	g := &Generator{
		layoutCfg: DefaultLayout(),
		keywords:  DefaultKeywords(),
		formats:   DefaultDateFormats(),
		pattern:   DefaultConfirmationPattern,
		maxSource: DefaultMaxSourceSize,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(g)
	}

	g.spec = toLayoutSpec(g.layoutCfg)
	if err := g.spec.Validate(); err != nil {
		return nil, err
	}

	normalizer, err := dateparse.NewNormalizer(g.formats.Input, g.formats.Output)
	if err != nil {
		return nil, err
	}

	builder, err := record.NewStayBuilder(normalizer, g.pattern)
	if err != nil {
		return nil, err
	}
	g.builder = builder

	qr, err := qrcode.NewBarcodeRenderer(g.spec.QR.ContentTemplate, g.spec.QR.SizePx, g.spec.QR.Border, g.spec.QR.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQRBlock, err)
	}
	g.qr = qr

	compositor, err := pdfcompose.NewFpdfCompositor(g.spec.Page.Width, g.spec.Page.Height)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	g.compositor = compositor

	g.reader = tabular.NewFileReader()
	g.detector = schema.NewKeywordDetector(toSchemaKeywords(g.keywords))

	return g, nil
}

// Generate runs the full pipeline on one source file and returns the
// composed document with its per-row report. Invalid rows are recorded in
// the report and skipped, never drawn; the run fails only when no valid
// record is left to render.
// Recovers from internal panics to prevent crashes from propagating to
// callers.
func (g *Generator) Generate(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := g.validateInput(input); err != nil {
		return nil, err
	}
	sortOrder, err := toSortOrder(input.Sort)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := g.logger.With("run", runID)

	table, det, err := g.readSource(ctx, log, input)
	if err != nil {
		return nil, err
	}
	if len(det.Unmatched) > 0 {
		return nil, fmt.Errorf("%w: no column found for %s", ErrMappingIncomplete, joinRoles(det.Unmatched))
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	outcomes := g.builder.Build(table, det)
	report := buildReport(outcomes)
	report.RunID = runID
	log.DebugContext(ctx, "records built",
		"total", report.Total, "valid", report.Valid, "invalid", report.Invalid)

	records := validRecords(outcomes)
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRecords, summarizeFailures(outcomes))
	}

	records, err = selectRows(records, outcomes, input.Rows)
	if err != nil {
		return nil, err
	}
	report.Selected = len(records)

	record.Sort(records, sortOrder)

	pages, err := g.composePages(ctx, records)
	if err != nil {
		return nil, err
	}

	var pdf []byte
	if input.OverlayOnly {
		pdf, err = g.compositor.ComposeOverlay(pages)
	} else {
		pdf, err = g.compositor.Compose(input.Template, pages)
	}
	if err != nil {
		return nil, err
	}

	report.Pages = len(pages)
	log.InfoContext(ctx, "passes generated",
		"selected", report.Selected, "pages", report.Pages, "bytes", len(pdf))

	return &Result{PDF: pdf, Report: report}, nil
}

// Inspect reads the source table and reports its shape without building
// records: detected format, headers with value samples, and the role
// mapping with unmatched roles. Run it when detection misses a column and
// a manual override is needed.
func (g *Generator) Inspect(ctx context.Context, input Input) (insp *Inspection, err error) {
	defer func() {
		if r := recover(); r != nil {
			insp, err = nil, fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := g.validateSource(input); err != nil {
		return nil, err
	}

	table, det, err := g.readSource(ctx, g.logger, input)
	if err != nil {
		return nil, err
	}

	insp = &Inspection{
		Format:       string(table.Format),
		Sheet:        table.Sheet,
		Encoding:     table.Encoding,
		HeaderRow:    table.HeaderRow + 1,
		DataRows:     len(table.Rows),
		VisualMatrix: table.VisualMatrix,
		Columns:      columnSamples(table),
	}

	for _, role := range schema.AllRoles() {
		col, ok := det.Columns[role]
		if !ok {
			insp.Unmatched = append(insp.Unmatched, string(role))
			continue
		}
		insp.Mapped = append(insp.Mapped, RoleMapping{
			Role:    string(role),
			Column:  col,
			Keyword: det.Keyword[role],
		})
	}

	return insp, nil
}

// Preview renders the layout's panels, field boxes, and QR squares as
// colored guides on a blank page, with no guest data and no template. Use
// it to line the layout up against the printed pass stock.
func (g *Generator) Preview(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return g.compositor.Preview(g.spec.Guides())
}

// validateSource checks the raw source bytes against the size gate.
func (g *Generator) validateSource(input Input) error {
	if len(input.Source) == 0 {
		return fmt.Errorf("%w: no source content", ErrEmptySource)
	}
	if int64(len(input.Source)) > g.maxSource {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrSourceTooLarge, len(input.Source), g.maxSource)
	}
	return nil
}

// validateInput checks the request before any work happens.
//
// This is a TRUST BOUNDARY for direct library users who build Input by
// hand. The CLI validates paths and flags earlier; both paths converge
// here, so nothing downstream re-checks these conditions.
func (g *Generator) validateInput(input Input) error {
	if err := g.validateSource(input); err != nil {
		return err
	}
	if len(input.Template) == 0 && !input.OverlayOnly {
		return fmt.Errorf("%w: provide a template or set OverlayOnly", ErrTemplateMissing)
	}
	for _, n := range input.Rows {
		if n <= 0 {
			return fmt.Errorf("%w: row numbers are 1-based, got %d", ErrRowSelection, n)
		}
	}
	return nil
}

// readSource reads the table and resolves the role columns, applying
// manual overrides on top of detection. Mapping completeness is the
// caller's concern: Generate requires all roles, Inspect reports gaps.
func (g *Generator) readSource(ctx context.Context, log *slog.Logger, input Input) (*tabular.Table, schema.Detection, error) {
	table, err := g.reader.Read(input.SourceName, input.Source)
	if err != nil {
		return nil, schema.Detection{}, convertReadError(err)
	}
	log.DebugContext(ctx, "source read",
		"format", string(table.Format), "rows", len(table.Rows), "header_row", table.HeaderRow+1)

	det := g.detector.Detect(table.Header)
	if err := applyOverrides(&det, input.Mapping, len(table.Header)); err != nil {
		return nil, schema.Detection{}, err
	}
	return table, det, nil
}

// composePages resolves geometry and renders QR stamps for the records,
// two per page, the odd final record alone on the top panel.
func (g *Generator) composePages(ctx context.Context, records []record.Record) ([]pdfcompose.Page, error) {
	// The font measurer keeps mutable state, so every run builds its own
	// engine; the Generator itself stays safe to share.
	measurer := pdfcompose.NewFontMeasurer(g.spec.Page.Width, g.spec.Page.Height)
	engine, err := layout.NewEngine(g.spec, measurer)
	if err != nil {
		return nil, err
	}

	pages := make([]pdfcompose.Page, 0, (len(records)+1)/2)
	for i := 0; i < len(records); i += 2 {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		var page pdfcompose.Page
		top, err := g.renderPass(engine, records[i], layout.PanelTop)
		if err != nil {
			return nil, err
		}
		page.Top = top

		if i+1 < len(records) {
			bottom, err := g.renderPass(engine, records[i+1], layout.PanelBottom)
			if err != nil {
				return nil, err
			}
			page.Bottom = bottom
		}
		pages = append(pages, page)
	}
	return pages, nil
}

func (g *Generator) renderPass(engine *layout.Engine, rec record.Record, panel layout.PanelName) (*pdfcompose.Rendered, error) {
	pass, err := engine.ResolvePass(layout.PassText{
		Confirmation: rec.Confirmation,
		Arrival:      rec.ArrivalText,
		Nights:       rec.Nights,
	}, panel)
	if err != nil {
		return nil, err
	}

	qr, err := g.qr.Render(qrcode.Payload{
		Confirmation: rec.Confirmation,
		Arrival:      rec.ArrivalText,
		Nights:       rec.Nights,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrComposition, err)
	}

	return &pdfcompose.Rendered{Pass: pass, QR: qr}, nil
}

// convertReadError maps reader failures onto the public sentinels.
func convertReadError(err error) error {
	if errors.Is(err, tabular.ErrUnsupportedFormat) || errors.Is(err, tabular.ErrSourceDecode) {
		return fmt.Errorf("%w: %v", ErrInputFormat, err)
	}
	return err
}

// applyOverrides writes manual mappings into the detection, checking each
// index against the table width.
func applyOverrides(det *schema.Detection, overrides *ColumnOverrides, width int) error {
	if overrides == nil {
		return nil
	}
	for _, o := range []struct {
		role schema.Role
		col  *int
	}{
		{schema.RoleConfirmation, overrides.Confirmation},
		{schema.RoleArrival, overrides.Arrival},
		{schema.RoleDeparture, overrides.Departure},
	} {
		if o.col == nil {
			continue
		}
		if *o.col < 0 || *o.col >= width {
			return fmt.Errorf("%w: %s override column %d outside 0-%d", ErrMappingIncomplete, o.role, *o.col, width-1)
		}
		det.SetColumn(o.role, *o.col)
	}
	return nil
}

func buildReport(outcomes []record.Outcome) *Report {
	report := &Report{
		Total: len(outcomes),
		Rows:  make([]RowOutcome, 0, len(outcomes)),
	}
	for _, o := range outcomes {
		row := RowOutcome{Row: o.RowNum}
		if o.Valid() {
			report.Valid++
			row.Valid = true
			row.Confirmation = o.Record.Confirmation
			row.Arrival = o.Record.ArrivalText
			row.Departure = o.Record.DepartureText
			row.Nights = o.Record.Nights
		} else {
			report.Invalid++
			row.Field = string(o.Field)
			row.Reason = o.Reason
		}
		report.Rows = append(report.Rows, row)
	}
	return report
}

func validRecords(outcomes []record.Outcome) []record.Record {
	var records []record.Record
	for _, o := range outcomes {
		if o.Valid() {
			records = append(records, *o.Record)
		}
	}
	return records
}

// selectRows keeps the records whose source row numbers appear in rows,
// preserving source order. Every requested number must name a valid
// record; leftovers fail the run with a reason per row.
func selectRows(records []record.Record, outcomes []record.Outcome, rows []int) ([]record.Record, error) {
	if len(rows) == 0 {
		return records, nil
	}

	wanted := make(map[int]bool, len(rows))
	for _, n := range rows {
		wanted[n] = true
	}

	var selected []record.Record
	for _, r := range records {
		if wanted[r.RowNum] {
			selected = append(selected, r)
			delete(wanted, r.RowNum)
		}
	}

	if len(wanted) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrRowSelection, describeMissing(wanted, outcomes))
	}
	return selected, nil
}

func describeMissing(missing map[int]bool, outcomes []record.Outcome) string {
	reasons := make(map[int]string, len(outcomes))
	for _, o := range outcomes {
		if !o.Valid() {
			reasons[o.RowNum] = o.Reason
		}
	}

	nums := make([]int, 0, len(missing))
	for n := range missing {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	parts := make([]string, 0, len(nums))
	for _, n := range nums {
		if reason, ok := reasons[n]; ok {
			parts = append(parts, fmt.Sprintf("row %d is invalid (%s)", n, reason))
		} else {
			parts = append(parts, fmt.Sprintf("row %d not in the source", n))
		}
	}
	return strings.Join(parts, "; ")
}

// summarizeFailures renders the first few row failures for the no-records
// error message.
func summarizeFailures(outcomes []record.Outcome) string {
	const maxShown = 3

	var parts []string
	for _, o := range outcomes {
		if o.Valid() {
			continue
		}
		if len(parts) == maxShown {
			parts = append(parts, "...")
			break
		}
		parts = append(parts, fmt.Sprintf("row %d: %s", o.RowNum, o.Reason))
	}
	if len(parts) == 0 {
		return "source has no data rows"
	}
	return fmt.Sprintf("all %d rows invalid: %s", len(outcomes), strings.Join(parts, "; "))
}

func toSortOrder(mode SortMode) (record.SortOrder, error) {
	order := record.SortOrder(mode)
	if !record.KnownSortOrder(order) {
		return record.SortNone, fmt.Errorf("%w: %q", ErrInvalidSort, mode)
	}
	return order, nil
}

func joinRoles(roles []schema.Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}

func columnSamples(table *tabular.Table) []Column {
	cols := make([]Column, len(table.Header))
	for j, header := range table.Header {
		col := Column{Index: j, Header: header}
		for _, row := range table.Rows {
			if len(col.Samples) == sampleCount {
				break
			}
			if j < len(row) && row[j] != "" {
				col.Samples = append(col.Samples, row[j])
			}
		}
		cols[j] = col
	}
	return cols
}
