package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	pms2pass "github.com/alnah/go-pms2pass"
	"github.com/alnah/go-pms2pass/internal/config"
	"github.com/alnah/go-pms2pass/internal/hints"
	"github.com/alnah/go-pms2pass/internal/layout"
	"github.com/alnah/go-pms2pass/internal/schema"
)

// Sentinel errors for CLI parameter building.
var (
	ErrInvalidMapping = errors.New("invalid column mapping")
	ErrInvalidRows    = errors.New("invalid row selection")
	ErrReadTemplate   = errors.New("failed to read template file")
)

// Document names searched in the working directory and the user config
// directory when no flag names one explicitly.
const (
	defaultConfigName = "config"
	defaultLayoutName = "layout"
)

// generateParams groups per-run parameters shared across the batch.
type generateParams struct {
	template    []byte
	mapping     *pms2pass.ColumnOverrides
	rows        []int
	sort        pms2pass.SortMode
	overlayOnly bool
	maxSource   int64
	dateInputs  []string
}

// loadRunConfig loads the pipeline config. An explicit name or path must
// exist; without one, the default name is searched and a miss silently
// falls back to the built-in defaults.
func loadRunConfig(nameOrPath string) (*config.Config, error) {
	if nameOrPath != "" {
		cfg, err := config.LoadConfig(nameOrPath)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(nil))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}

	path, err := config.ResolvePath(defaultConfigName)
	if errors.Is(err, config.ErrConfigNotFound) {
		cfg := config.DefaultConfig()
		return &cfg, nil
	}
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// loadRunLayout loads the pass layout with the same resolution rules as
// loadRunConfig.
func loadRunLayout(nameOrPath string) (*layout.Spec, error) {
	if nameOrPath != "" {
		spec, err := config.LoadLayout(nameOrPath)
		if err != nil {
			return nil, fmt.Errorf("loading layout: %w", err)
		}
		return spec, nil
	}

	path, err := config.ResolvePath(defaultLayoutName)
	if errors.Is(err, config.ErrConfigNotFound) {
		spec := layout.DefaultSpec()
		return &spec, nil
	}
	if err != nil {
		return nil, err
	}

	spec, err := config.LoadLayout(path)
	if err != nil {
		return nil, fmt.Errorf("loading layout: %w", err)
	}
	return spec, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *generateFlags, cfg *config.Config) {
	if flags.template != "" {
		cfg.Template = flags.template
	}
	if len(flags.dates.input) > 0 {
		cfg.DateFormatsIn = flags.dates.input
	}
	if flags.dates.output != "" {
		cfg.DateFormatOut = flags.dates.output
	}
	if flags.confPattern != "" {
		cfg.ConfirmationPattern = flags.confPattern
	}
}

// resolveOutputDir determines the output location from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// loadTemplate reads the pass template PDF. An empty path returns nil bytes
// for overlay-only runs.
func loadTemplate(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	content, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadTemplate, err)
	}
	return content, nil
}

// buildOptions turns the loaded config and layout into Generator options.
func buildOptions(cfg *config.Config, spec *layout.Spec, logger *slog.Logger) []pms2pass.Option {
	return []pms2pass.Option{
		pms2pass.WithKeywords(buildKeywords(cfg.Columns)),
		pms2pass.WithDateFormats(pms2pass.DateFormats{
			Input:  cfg.DateFormatsIn,
			Output: cfg.DateFormatOut,
		}),
		pms2pass.WithConfirmationPattern(cfg.ConfirmationPattern),
		pms2pass.WithMaxSourceSize(cfg.MaxSourceSize),
		pms2pass.WithLayout(buildLayout(spec)),
		pms2pass.WithLogger(logger),
	}
}

// buildKeywords converts config keyword lists to the library type.
func buildKeywords(k schema.Keywords) pms2pass.Keywords {
	return pms2pass.Keywords{
		Confirmation: k.Confirmation,
		Arrival:      k.Arrival,
		Departure:    k.Departure,
	}
}

// buildLayout converts a loaded layout spec to the library type.
func buildLayout(spec *layout.Spec) pms2pass.Layout {
	return pms2pass.Layout{
		Page: pms2pass.PageGeometry{
			DPI:    spec.Page.DPI,
			Width:  spec.Page.Width,
			Height: spec.Page.Height,
			Panels: pms2pass.PanelPair{
				Top:    buildPanel(spec.Page.Panels.Top),
				Bottom: buildPanel(spec.Page.Panels.Bottom),
			},
		},
		Fields: pms2pass.FieldSet{
			Confirmation: buildField(spec.Fields.Confirmation),
			Date:         buildField(spec.Fields.Date),
			Nights:       buildField(spec.Fields.Nights),
		},
		QR: pms2pass.QRBlock{
			ContentTemplate: spec.QR.ContentTemplate,
			SizePx:          spec.QR.SizePx,
			Offset:          [2]float64(spec.QR.Offset),
			Border:          spec.QR.Border,
			Level:           spec.QR.Level,
		},
	}
}

func buildPanel(p layout.Panel) pms2pass.Panel {
	return pms2pass.Panel{Origin: [2]float64(p.Origin), Height: p.Height}
}

func buildField(f layout.TextField) pms2pass.TextField {
	return pms2pass.TextField{
		Offset:   [2]float64(f.Offset),
		Font:     f.Font,
		FontSize: f.FontSize,
		Color:    [3]int(f.Color),
		MaxWidth: f.MaxWidth,
		MinSize:  f.MinSize,
	}
}

// parseMappings parses repeated role=INDEX flags into column overrides.
// Returns nil when no mapping was given.
func parseMappings(pairs []string) (*pms2pass.ColumnOverrides, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	overrides := &pms2pass.ColumnOverrides{}
	for _, pair := range pairs {
		roleText, indexText, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("%w: %q (expected role=INDEX)", ErrInvalidMapping, pair)
		}

		index, err := strconv.Atoi(strings.TrimSpace(indexText))
		if err != nil || index < 0 {
			return nil, fmt.Errorf("%w: %q (column index must be a number >= 0)", ErrInvalidMapping, pair)
		}

		var target **int
		switch schema.Role(strings.ToLower(strings.TrimSpace(roleText))) {
		case schema.RoleConfirmation:
			target = &overrides.Confirmation
		case schema.RoleArrival:
			target = &overrides.Arrival
		case schema.RoleDeparture:
			target = &overrides.Departure
		default:
			return nil, fmt.Errorf("%w: unknown role %q (use %s)", ErrInvalidMapping, roleText, joinRoleNames())
		}
		if *target != nil {
			return nil, fmt.Errorf("%w: role %q mapped twice", ErrInvalidMapping, roleText)
		}
		col := index
		*target = &col
	}
	return overrides, nil
}

// joinRoleNames lists the valid mapping roles for error messages.
func joinRoleNames() string {
	roles := schema.AllRoles()
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, string(role))
	}
	return strings.Join(names, ", ")
}

// parseRows parses a row selection like "2,5,7-10" into row numbers.
// Returns nil when the selection is empty.
func parseRows(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}

	var rows []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("%w: empty entry in %q", ErrInvalidRows, s)
		}

		loText, hiText, isRange := strings.Cut(part, "-")
		if !isRange {
			n, err := strconv.Atoi(loText)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("%w: %q (row numbers start at 1)", ErrInvalidRows, part)
			}
			rows = append(rows, n)
			continue
		}

		lo, loErr := strconv.Atoi(loText)
		hi, hiErr := strconv.Atoi(hiText)
		if loErr != nil || hiErr != nil || lo < 1 || hi < lo {
			return nil, fmt.Errorf("%w: range %q (expected LOW-HIGH with LOW >= 1)", ErrInvalidRows, part)
		}
		for n := lo; n <= hi; n++ {
			rows = append(rows, n)
		}
	}
	return rows, nil
}

// newRunLogger builds the stage logger the Generator reports through.
// Verbose lowers the level to debug, quiet raises it to error.
func newRunLogger(env *Environment, common commonFlags) *slog.Logger {
	level := slog.LevelWarn
	if common.verbose {
		level = slog.LevelDebug
	}
	if common.quiet {
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(env.Stderr, &slog.HandlerOptions{Level: level}))
}
