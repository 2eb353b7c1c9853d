package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// mappingFlags holds manual column mapping flags.
type mappingFlags struct {
	columns []string // role=INDEX pairs, repeatable
}

// selectionFlags holds row selection and ordering flags.
type selectionFlags struct {
	rows string // source row numbers like "2,5,7-10"
	sort string // "arrival" or "confirmation"
}

// dateFlags holds date pattern overrides in YYYY MM DD token syntax.
type dateFlags struct {
	input  []string
	output string
}

// generateFlags holds all flags for the generate command.
type generateFlags struct {
	common      commonFlags
	output      string
	template    string
	layout      string
	overlayOnly bool
	workers     int
	mapping     mappingFlags
	selection   selectionFlags
	dates       dateFlags
	confPattern string
}

// inspectFlags holds all flags for the inspect command.
type inspectFlags struct {
	common  commonFlags
	mapping mappingFlags
	json    bool
}

// previewFlags holds all flags for the preview command.
type previewFlags struct {
	output string
	layout string
}

// initFlags holds all flags for the init command.
type initFlags struct {
	dir   string
	user  bool
	force bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-stage details")
}

// addMappingFlags adds manual column mapping flags to a FlagSet.
func addMappingFlags(fs *flag.FlagSet, f *mappingFlags) {
	fs.StringArrayVar(&f.columns, "map", nil, "pin a role to a column: role=INDEX (repeatable)")
}

// addSelectionFlags adds row selection and ordering flags to a FlagSet.
func addSelectionFlags(fs *flag.FlagSet, f *selectionFlags) {
	fs.StringVar(&f.rows, "rows", "", "only these source rows, e.g. 2,5,7-10")
	fs.StringVar(&f.sort, "sort", "", "pass order: arrival, confirmation")
}

// addDateFlags adds date pattern override flags to a FlagSet.
func addDateFlags(fs *flag.FlagSet, f *dateFlags) {
	fs.StringSliceVar(&f.input, "date-in", nil, "candidate input date patterns (tokens: YYYY, MM, DD)")
	fs.StringVar(&f.output, "date-out", "", "output date pattern")
}

// parseGenerateFlags parses generate command flags and returns positional args.
func parseGenerateFlags(args []string) (*generateFlags, []string, error) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	f := &generateFlags{}

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.StringVarP(&f.template, "template", "t", "", "pass template PDF")
	fs.StringVarP(&f.layout, "layout", "l", "", "layout file name or path")
	fs.BoolVar(&f.overlayOnly, "overlay-only", false, "compose on blank pages instead of the template")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers for batch runs (0 = auto)")
	fs.StringVar(&f.confPattern, "conf-regex", "", "fallback regex for blank confirmation cells")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addMappingFlags(fs, &f.mapping)
	addSelectionFlags(fs, &f.selection)
	addDateFlags(fs, &f.dates)

	fs.Usage = func() { printGenerateUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// parseInspectFlags parses inspect command flags and returns positional args.
func parseInspectFlags(args []string) (*inspectFlags, []string, error) {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	f := &inspectFlags{}

	fs.BoolVar(&f.json, "json", false, "print the inspection as JSON")

	addCommonFlags(fs, &f.common)
	addMappingFlags(fs, &f.mapping)

	fs.Usage = func() { printInspectUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// parsePreviewFlags parses preview command flags.
func parsePreviewFlags(args []string) (*previewFlags, error) {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	f := &previewFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output PDF path")
	fs.StringVarP(&f.layout, "layout", "l", "", "layout file name or path")

	fs.Usage = func() { printPreviewUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return f, nil
}

// parseInitFlags parses init command flags.
func parseInitFlags(args []string) (*initFlags, error) {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	f := &initFlags{}

	fs.StringVar(&f.dir, "dir", "", "target directory (default: current directory)")
	fs.BoolVar(&f.user, "user", false, "write into the user config directory instead")
	fs.BoolVar(&f.force, "force", false, "overwrite existing files")

	fs.Usage = func() { printInitUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return f, nil
}
