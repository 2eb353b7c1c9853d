package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	pms2pass "github.com/alnah/go-pms2pass"
	"github.com/alnah/go-pms2pass/internal/config"
	"github.com/alnah/go-pms2pass/internal/fileutil"
	"github.com/alnah/go-pms2pass/internal/hints"
	"github.com/alnah/go-pms2pass/internal/layout"
	"github.com/alnah/go-pms2pass/internal/schema"
)

// inspectReport is the JSON shape of an inspection.
type inspectReport struct {
	Source       string           `json:"source"`
	Format       string           `json:"format"`
	Sheet        string           `json:"sheet,omitempty"`
	Encoding     string           `json:"encoding,omitempty"`
	HeaderRow    int              `json:"header_row"`
	DataRows     int              `json:"data_rows"`
	VisualMatrix bool             `json:"visual_matrix"`
	Columns      []inspectColumn  `json:"columns"`
	Mapped       []inspectMapping `json:"mapped"`
	Unmatched    []string         `json:"unmatched,omitempty"`
}

// inspectColumn is one source column in JSON output.
type inspectColumn struct {
	Index   int      `json:"index"`
	Header  string   `json:"header"`
	Samples []string `json:"samples,omitempty"`
}

// inspectMapping is one resolved role in JSON output.
type inspectMapping struct {
	Role    string `json:"role"`
	Column  int    `json:"column"`
	Keyword string `json:"keyword,omitempty"`
}

// runInspect reads one export and reports its shape and role mapping
// without generating anything. It backs the manual mapping workflow: run
// it, read the column indexes, pass --map to generate.
func runInspect(ctx context.Context, positionalArgs []string, flags *inspectFlags, env *Environment) error {
	if len(positionalArgs) != 1 {
		return fmt.Errorf("%w: inspect takes exactly one export file", ErrNoSource)
	}
	sourcePath := positionalArgs[0]

	cfg, err := loadRunConfig(flags.common.config)
	if err != nil {
		return err
	}
	mapping, err := parseMappings(flags.mapping.columns)
	if err != nil {
		return err
	}

	// Inspection never draws, so the shipped layout is good enough.
	spec := layout.DefaultSpec()
	gen, err := pms2pass.NewGenerator(buildOptions(cfg, &spec, newRunLogger(env, flags.common))...)
	if err != nil {
		return err
	}

	maxSource := cfg.MaxSourceSize
	if maxSource <= 0 {
		maxSource = config.DefaultMaxSourceSize
	}
	content, err := fileutil.ReadFileCapped(sourcePath, maxSource)
	if err != nil {
		if errors.Is(err, fileutil.ErrFileTooLarge) {
			return fmt.Errorf("%w%s", err, hints.ForOversizedSource(maxSource))
		}
		return fmt.Errorf("%w: %v", ErrReadSource, err)
	}

	insp, err := gen.Inspect(ctx, pms2pass.Input{
		SourceName: sourcePath,
		Source:     content,
		Mapping:    mapping,
	})
	if err != nil {
		if errors.Is(err, pms2pass.ErrEmptySource) {
			return fmt.Errorf("%w%s", err, hints.ForEmptySource())
		}
		return err
	}

	if flags.json {
		return writeInspectJSON(env.Stdout, buildInspectReport(sourcePath, insp))
	}
	printInspection(env.Stdout, sourcePath, insp)
	return nil
}

// buildInspectReport converts an inspection to its JSON shape.
func buildInspectReport(source string, insp *pms2pass.Inspection) *inspectReport {
	report := &inspectReport{
		Source:       source,
		Format:       insp.Format,
		Sheet:        insp.Sheet,
		Encoding:     insp.Encoding,
		HeaderRow:    insp.HeaderRow,
		DataRows:     insp.DataRows,
		VisualMatrix: insp.VisualMatrix,
		Columns:      make([]inspectColumn, 0, len(insp.Columns)),
		Mapped:       make([]inspectMapping, 0, len(insp.Mapped)),
		Unmatched:    insp.Unmatched,
	}
	for _, col := range insp.Columns {
		report.Columns = append(report.Columns, inspectColumn(col))
	}
	for _, m := range insp.Mapped {
		report.Mapped = append(report.Mapped, inspectMapping(m))
	}
	return report
}

// writeInspectJSON encodes the report with stable indentation.
func writeInspectJSON(w io.Writer, report *inspectReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// printInspection outputs a human-readable inspection.
func printInspection(w io.Writer, source string, insp *pms2pass.Inspection) {
	fmt.Fprintf(w, "Source: %s\n", source)
	fmt.Fprintf(w, "Format: %s\n", describeFormat(insp))
	fmt.Fprintf(w, "Header: row %d\n", insp.HeaderRow)
	fmt.Fprintf(w, "Data rows: %d\n", insp.DataRows)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Columns:")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, col := range insp.Columns {
		fmt.Fprintf(tw, "  [%d]\t%s\t%s\n", col.Index, col.Header, strings.Join(col.Samples, ", "))
	}
	tw.Flush()

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Mapping:")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, m := range insp.Mapped {
		how := "manual override"
		if m.Keyword != "" {
			how = fmt.Sprintf("matched %q", m.Keyword)
		}
		fmt.Fprintf(tw, "  %s\tcolumn %d\t(%s)\n", m.Role, m.Column, how)
	}
	for _, role := range insp.Unmatched {
		fmt.Fprintf(tw, "  %s\tnot found\t\n", role)
	}
	tw.Flush()

	if len(insp.Unmatched) > 0 {
		roles := make([]schema.Role, 0, len(insp.Unmatched))
		for _, r := range insp.Unmatched {
			roles = append(roles, schema.Role(r))
		}
		fmt.Fprintln(w, hints.ForUnmappedRoles(roles))
	}
}

// describeFormat summarizes where the table came from.
func describeFormat(insp *pms2pass.Inspection) string {
	desc := insp.Format
	if insp.Sheet != "" {
		desc += ", sheet " + insp.Sheet
	}
	if insp.Encoding != "" {
		desc += ", " + insp.Encoding
	}
	if insp.VisualMatrix {
		desc += ", visual matrix collapsed"
	}
	return desc
}
