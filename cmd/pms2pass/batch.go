package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	pms2pass "github.com/alnah/go-pms2pass"
	"github.com/alnah/go-pms2pass/internal/fileutil"
	"github.com/alnah/go-pms2pass/internal/hints"
	"github.com/alnah/go-pms2pass/internal/schema"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch generation.
var (
	ErrNoSource   = errors.New("no source specified")
	ErrReadSource = errors.New("failed to read source file")
	ErrWritePDF   = errors.New("failed to write PDF file")
)

// PassGenerator is the interface the commands need from the library.
type PassGenerator interface {
	Generate(ctx context.Context, input pms2pass.Input) (*pms2pass.Result, error)
	Inspect(ctx context.Context, input pms2pass.Input) (*pms2pass.Inspection, error)
	Preview(ctx context.Context) ([]byte, error)
}

// Compile-time interface implementation check.
var _ PassGenerator = (*pms2pass.Generator)(nil)

// GenerationResult holds the outcome of one source file.
type GenerationResult struct {
	SourcePath string
	OutputPath string
	Report     *pms2pass.Report
	Err        error
	Duration   time.Duration
}

// generateBatch processes source files concurrently. The generator is safe
// for concurrent use, so one instance serves all workers.
func generateBatch(ctx context.Context, gen PassGenerator, files []SourceFile, workers int, params *generateParams) []GenerationResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := workers
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]GenerationResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = GenerationResult{
						SourcePath: files[idx].SourcePath,
						Err:        ctx.Err(),
					}
					continue
				}
				results[idx] = generateFile(ctx, gen, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// generateFile processes a single source and returns the result.
func generateFile(ctx context.Context, gen PassGenerator, f SourceFile, params *generateParams) GenerationResult {
	start := time.Now()
	result := GenerationResult{
		SourcePath: f.SourcePath,
		OutputPath: f.OutputPath,
	}

	content, err := fileutil.ReadFileCapped(f.SourcePath, params.maxSource)
	if err != nil {
		if errors.Is(err, fileutil.ErrFileTooLarge) {
			result.Err = fmt.Errorf("%w%s", err, hints.ForOversizedSource(params.maxSource))
		} else {
			result.Err = fmt.Errorf("%w: %v", ErrReadSource, err)
		}
		result.Duration = time.Since(start)
		return result
	}

	generated, err := gen.Generate(ctx, pms2pass.Input{
		SourceName:  f.SourcePath,
		Source:      content,
		Template:    params.template,
		Mapping:     params.mapping,
		Rows:        params.rows,
		Sort:        params.sort,
		OverlayOnly: params.overlayOnly,
	})
	if err != nil {
		result.Err = decorateGenerateError(err, params)
		result.Duration = time.Since(start)
		return result
	}
	result.Report = generated.Report

	outDir := filepath.Dir(f.OutputPath)
	if err := os.MkdirAll(outDir, dirPermissions); err != nil {
		result.Err = fmt.Errorf("creating output directory: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	// Atomic publish: a crash mid-write never leaves a partial document.
	if err := fileutil.WriteFileAtomic(f.OutputPath, generated.PDF, filePermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWritePDF, err)
		result.Duration = time.Since(start)
		return result
	}

	result.Duration = time.Since(start)
	return result
}

// decorateGenerateError appends an actionable hint to errors a config or
// flag change can fix.
func decorateGenerateError(err error, params *generateParams) error {
	switch {
	case errors.Is(err, pms2pass.ErrMappingIncomplete):
		return fmt.Errorf("%w%s", err, hints.ForUnmappedRoles(schema.AllRoles()))
	case errors.Is(err, pms2pass.ErrEmptySource):
		return fmt.Errorf("%w%s", err, hints.ForEmptySource())
	case errors.Is(err, pms2pass.ErrSourceTooLarge):
		return fmt.Errorf("%w%s", err, hints.ForOversizedSource(params.maxSource))
	case errors.Is(err, pms2pass.ErrNoRecords) && strings.Contains(err.Error(), "unparsable date"):
		return fmt.Errorf("%w%s", err, hints.ForDateFormats(params.dateInputs))
	}
	return err
}

// ResultSummary holds the count of succeeded and failed generations.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed generations.
func countResults(results []GenerationResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs per-source outcomes using the environment writers.
// Skipped rows go to stderr so piped stdout stays clean.
func printResults(results []GenerationResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.SourcePath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		printSkippedRows(r, env)

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%s, %v)\n",
				r.SourcePath, r.OutputPath, describeReport(r.Report), r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s (%s)\n", r.OutputPath, describeReport(r.Report))
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}

// printSkippedRows reports invalid rows, which are recorded but never drawn.
func printSkippedRows(r GenerationResult, env *Environment) {
	if r.Report == nil {
		return
	}
	for _, row := range r.Report.Rows {
		if row.Valid {
			continue
		}
		fmt.Fprintf(env.Stderr, "SKIPPED %s row %d: %s (%s)\n",
			r.SourcePath, row.Row, row.Reason, row.Field)
	}
}

// describeReport summarizes one run for the result line.
func describeReport(report *pms2pass.Report) string {
	if report == nil {
		return "no report"
	}
	desc := fmt.Sprintf("%d pass(es), %d page(s)", report.Selected, report.Pages)
	if report.Invalid > 0 {
		desc += fmt.Sprintf(", %d row(s) skipped", report.Invalid)
	}
	return desc
}
