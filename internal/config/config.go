// Package config loads and validates the two run documents: the pipeline
// config (column keywords, date formats, confirmation fallback, source
// limits) and the pass layout. Both resolve by name or path, parse
// strictly, and validate before any row is processed.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alnah/go-pms2pass/internal/dateparse"
	"github.com/alnah/go-pms2pass/internal/fileutil"
	"github.com/alnah/go-pms2pass/internal/layout"
	"github.com/alnah/go-pms2pass/internal/schema"
	"github.com/alnah/go-pms2pass/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidConfig   = errors.New("invalid config")
)

// ConfigDirName is the subdirectory searched under the user config directory.
const ConfigDirName = "pms2pass"

// DefaultMaxSourceSize caps export files at 16 MiB.
const DefaultMaxSourceSize int64 = 16 << 20

// Config holds the pipeline configuration. Loaded once per run and
// read-only afterwards.
type Config struct {
	// Columns maps each record role to its header keywords, highest
	// priority first.
	Columns schema.Keywords `yaml:"columns"`

	// DateFormatsIn are the candidate input date patterns, tried in order.
	DateFormatsIn []string `yaml:"date_format_in"`

	// DateFormatOut is the canonical output date pattern.
	DateFormatOut string `yaml:"date_format_out"`

	// ConfirmationPattern recovers a confirmation number from the full row
	// text when the mapped cell is blank. Must contain one capture group;
	// empty disables the fallback.
	ConfirmationPattern string `yaml:"confirmation_regex"`

	// MaxSourceSize rejects source files larger than this many bytes.
	// Zero falls back to DefaultMaxSourceSize.
	MaxSourceSize int64 `yaml:"max_source_size"`

	// Template is the pass template PDF used when no template flag is
	// given. Empty means the template must come from the command line.
	Template string `yaml:"template"`

	// Input configures source discovery for the command line.
	Input InputConfig `yaml:"input"`

	// Output configures result placement for the command line.
	Output OutputConfig `yaml:"output"`
}

// InputConfig names where exports are found when no source argument is
// given.
type InputConfig struct {
	DefaultDir string `yaml:"default_dir"`
}

// OutputConfig names where generated documents land. Empty means the
// working directory.
type OutputConfig struct {
	DefaultDir string `yaml:"default_dir"`
}

// DefaultConfig returns the configuration used when no config file is given.
func DefaultConfig() Config {
	return Config{
		Columns:             schema.DefaultKeywords(),
		DateFormatsIn:       []string{"MM/DD/YY", "MM/DD/YYYY", "YYYY-MM-DD", "DD/MM/YYYY"},
		DateFormatOut:       "MM/DD/YYYY",
		ConfirmationPattern: `Conf[:#]?\s*(\d+)`,
		MaxSourceSize:       DefaultMaxSourceSize,
	}
}

// Validate checks the configuration before a run starts. Called
// automatically by LoadConfig, but available for consumers who construct
// Config manually.
func (c *Config) Validate() error {
	for _, role := range schema.AllRoles() {
		if len(c.Columns.ForRole(role)) == 0 {
			return fmt.Errorf("%w: columns.%s: at least one keyword required", ErrInvalidConfig, role)
		}
	}

	if len(c.DateFormatsIn) == 0 {
		return fmt.Errorf("%w: date_format_in: at least one pattern required", ErrInvalidConfig)
	}
	for _, format := range c.DateFormatsIn {
		if _, err := dateparse.CompileFormat(format); err != nil {
			return fmt.Errorf("%w: date_format_in: %v", ErrInvalidConfig, err)
		}
	}
	if _, err := dateparse.CompileFormat(c.DateFormatOut); err != nil {
		return fmt.Errorf("%w: date_format_out: %v", ErrInvalidConfig, err)
	}

	if c.ConfirmationPattern != "" {
		if _, err := regexp.Compile(c.ConfirmationPattern); err != nil {
			return fmt.Errorf("%w: confirmation_regex: %v", ErrInvalidConfig, err)
		}
	}

	if c.MaxSourceSize < 0 {
		return fmt.Errorf("%w: max_source_size: must not be negative, got %d", ErrInvalidConfig, c.MaxSourceSize)
	}
	return nil
}

// LoadConfig loads the pipeline configuration from a file path or config
// name. If nameOrPath contains a path separator, it's treated as a file
// path. Otherwise, it's treated as a config name and searched in standard
// locations. Returns error if the file is not found (no silent fallback).
//
// Keys omitted from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	cfg := DefaultConfig()
	if err := loadDocument(nameOrPath, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadLayout loads a pass layout from a file path or layout name, using the
// same resolution rules as LoadConfig. Keys omitted from the file keep
// their DefaultSpec values.
func LoadLayout(nameOrPath string) (*layout.Spec, error) {
	spec := layout.DefaultSpec()
	if err := loadDocument(nameOrPath, &spec); err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &spec, nil
}

// ResolvePath reports where a config name would load from without loading
// it, using the same search order as LoadConfig. Callers that treat a
// missing file as "use defaults" check for ErrConfigNotFound here first.
func ResolvePath(name string) (string, error) {
	if name == "" {
		return "", ErrEmptyConfigName
	}
	if fileutil.IsFilePath(name) {
		if !fileutil.FileExists(name) {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, name)
		}
		return name, nil
	}
	return resolveConfigPath(name)
}

// loadDocument resolves nameOrPath and parses the YAML file into v, which
// carries defaults for any omitted keys.
func loadDocument(nameOrPath string, v any) error {
	if nameOrPath == "" {
		return ErrEmptyConfigName
	}

	path := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		resolved, err := resolveConfigPath(nameOrPath)
		if err != nil {
			return err
		}
		path = resolved
	}

	if err := yamlutil.LoadStrict(path, v); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}
	return nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: none, .yaml, .yml
// Tries locations in order: current directory, ~/.config/pms2pass/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{"", ".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (all extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (all extensions)
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, ConfigDirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
