package main

import (
	"context"
	"fmt"
	"strings"

	pms2pass "github.com/alnah/go-pms2pass"
	"github.com/alnah/go-pms2pass/internal/config"
	"github.com/alnah/go-pms2pass/internal/hints"
)

// runGenerate orchestrates the generation process: load and merge
// configuration, resolve the template and sources, run the batch, and
// report per-source results.
func runGenerate(ctx context.Context, positionalArgs []string, flags *generateFlags, env *Environment) error {
	// Validate flag shapes before touching any file.
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	sortMode, err := validateSortMode(flags.selection.sort)
	if err != nil {
		return err
	}
	mapping, err := parseMappings(flags.mapping.columns)
	if err != nil {
		return err
	}
	rows, err := parseRows(flags.selection.rows)
	if err != nil {
		return err
	}

	cfg, err := loadRunConfig(flags.common.config)
	if err != nil {
		return err
	}
	spec, err := loadRunLayout(flags.layout)
	if err != nil {
		return err
	}

	// Merge CLI flags into config (CLI wins), then re-validate so flag
	// values pass the same checks as file values.
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	template, err := loadTemplate(cfg.Template)
	if err != nil {
		return err
	}
	if len(template) == 0 && !flags.overlayOnly {
		return fmt.Errorf("%w%s", pms2pass.ErrTemplateMissing, hints.ForTemplateMissing())
	}

	inputs := positionalArgs
	if len(inputs) == 0 {
		if cfg.Input.DefaultDir == "" {
			return fmt.Errorf("%w: pass an export file or set input.default_dir in the config", ErrNoSource)
		}
		inputs = []string{cfg.Input.DefaultDir}
	}

	files, err := discoverSources(inputs)
	if err != nil {
		return fmt.Errorf("discovering sources: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no export files found in %s", strings.Join(inputs, ", "))
	}

	files, err = assignOutputs(files, resolveOutputDir(flags.output, cfg), env.Now)
	if err != nil {
		return err
	}

	gen, err := pms2pass.NewGenerator(buildOptions(cfg, spec, newRunLogger(env, flags.common))...)
	if err != nil {
		return err
	}

	maxSource := cfg.MaxSourceSize
	if maxSource <= 0 {
		maxSource = config.DefaultMaxSourceSize
	}
	params := &generateParams{
		template:    template,
		mapping:     mapping,
		rows:        rows,
		sort:        sortMode,
		overlayOnly: flags.overlayOnly,
		maxSource:   maxSource,
		dateInputs:  cfg.DateFormatsIn,
	}

	results := generateBatch(ctx, gen, files, resolveWorkers(flags.workers), params)

	failedCount := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if failedCount > 0 {
		return fmt.Errorf("%d generation(s) failed", failedCount)
	}
	return nil
}

// validateSortMode rejects unknown orderings before the batch starts, so a
// typo fails once instead of once per source.
func validateSortMode(sort string) (pms2pass.SortMode, error) {
	mode := pms2pass.SortMode(sort)
	switch mode {
	case pms2pass.SortNone, pms2pass.SortArrival, pms2pass.SortConfirmation:
		return mode, nil
	}
	return "", fmt.Errorf("%w: %q (use arrival or confirmation)", pms2pass.ErrInvalidSort, sort)
}
