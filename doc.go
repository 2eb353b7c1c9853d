// Package pms2pass turns hotel reservation exports into printable parking
// pass sheets with QR codes.
//
// # Quick Start
//
// Create a generator and run it on an export with a pass template:
//
//	gen, err := pms2pass.NewGenerator()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	source, _ := os.ReadFile("arrivals.xlsx")
//	template, _ := os.ReadFile("pass_template.pdf")
//
//	result, err := gen.Generate(ctx, pms2pass.Input{
//	    SourceName: "arrivals.xlsx",
//	    Source:     source,
//	    Template:   template,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("passes.pdf", result.PDF, 0644)
//
// The result carries the PDF bytes (result.PDF) and a per-row report
// (result.Report) listing which reservations rendered and why the rest were
// skipped. Invalid rows never block a run; only a run with zero valid rows
// fails.
//
// # Pipeline
//
// A run goes through these stages:
//
//  1. Table reading (CSV, XLS, XLSX; encoding, header row, and Visual
//     Matrix layout detection)
//  2. Column mapping (header keyword detection, manual overrides)
//  3. Record building (date normalization, confirmation extraction, stay
//     validation)
//  4. Layout resolution (auto-fit text placement, QR geometry)
//  5. PDF composition over the pass template (gofpdf with gofpdi imports)
//
// # Configuration
//
// Use functional options to customize the generator:
//
//	layout := pms2pass.DefaultLayout()
//	layout.QR.SizePx = 120
//
//	gen, err := pms2pass.NewGenerator(
//	    pms2pass.WithLayout(layout),
//	    pms2pass.WithDateFormats(pms2pass.DateFormats{
//	        Input:  []string{"DD/MM/YYYY", "YYYY-MM-DD"},
//	        Output: "MM/DD/YYYY",
//	    }),
//	)
//
// Per-run options are passed via Input:
//
//	col := 4
//	result, err := gen.Generate(ctx, pms2pass.Input{
//	    SourceName: "arrivals.csv",
//	    Source:     source,
//	    Template:   template,
//	    Rows:       []int{2, 5, 7},
//	    Sort:       pms2pass.SortArrival,
//	    Mapping:    &pms2pass.ColumnOverrides{Arrival: &col},
//	})
//
// # Inspecting a Source
//
// When automatic detection misses a column, Inspect shows the table the way
// the reader sees it: per-column headers with value samples, the detected
// role mapping, and the roles left unmatched. Feed the right column
// indexes back through Input.Mapping.
//
//	insp, err := gen.Inspect(ctx, pms2pass.Input{
//	    SourceName: "arrivals.xls",
//	    Source:     source,
//	})
//
// # Checking Alignment
//
// Preview draws the layout's panels, text boxes, and QR squares as colored
// guides on a blank page, with no guest data and no template:
//
//	pdf, err := gen.Preview(ctx)
//
// Print it, hold it against the preprinted pass stock, and adjust the
// layout offsets until the guides sit over the blanks. Input.OverlayOnly
// does the same with real data, composing onto blank pages instead of the
// template.
//
// # Concurrency
//
// A Generator is immutable after NewGenerator and safe for concurrent use.
// Each run builds its own text measurer; template composition is
// serialized internally, so parallel runs are correct but queue briefly on
// the final stage.
package pms2pass
