package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alnah/go-pms2pass/internal/schema"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	for _, role := range schema.AllRoles() {
		if len(cfg.Columns.ForRole(role)) == 0 {
			t.Errorf("Columns.ForRole(%q) is empty, want keywords", role)
		}
	}
	if len(cfg.DateFormatsIn) == 0 {
		t.Error("DateFormatsIn is empty, want candidate patterns")
	}
	if cfg.DateFormatOut != "MM/DD/YYYY" {
		t.Errorf("DateFormatOut = %q, want %q", cfg.DateFormatOut, "MM/DD/YYYY")
	}
	if cfg.ConfirmationPattern == "" {
		t.Error("ConfirmationPattern is empty, want a fallback pattern")
	}
	if cfg.MaxSourceSize != DefaultMaxSourceSize {
		t.Errorf("MaxSourceSize = %d, want %d", cfg.MaxSourceSize, DefaultMaxSourceSize)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "default config passes",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty confirmation keywords returns error",
			mutate:  func(c *Config) { c.Columns.Confirmation = nil },
			wantErr: true,
		},
		{
			name:    "empty arrival keywords returns error",
			mutate:  func(c *Config) { c.Columns.Arrival = nil },
			wantErr: true,
		},
		{
			name:    "empty departure keywords returns error",
			mutate:  func(c *Config) { c.Columns.Departure = nil },
			wantErr: true,
		},
		{
			name:    "no input date formats returns error",
			mutate:  func(c *Config) { c.DateFormatsIn = nil },
			wantErr: true,
		},
		{
			name:    "input format missing a component returns error",
			mutate:  func(c *Config) { c.DateFormatsIn = []string{"MM/DD"} },
			wantErr: true,
		},
		{
			name:    "output format missing a component returns error",
			mutate:  func(c *Config) { c.DateFormatOut = "MM/YYYY" },
			wantErr: true,
		},
		{
			name:    "invalid confirmation regex returns error",
			mutate:  func(c *Config) { c.ConfirmationPattern = "[unclosed" },
			wantErr: true,
		},
		{
			name:   "empty confirmation regex disables fallback and passes",
			mutate: func(c *Config) { c.ConfirmationPattern = "" },
		},
		{
			name:    "negative max source size returns error",
			mutate:  func(c *Config) { c.MaxSourceSize = -1 },
			wantErr: true,
		},
		{
			name:   "zero max source size passes (falls back to default)",
			mutate: func(c *Config) { c.MaxSourceSize = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("error = %v, want ErrInvalidConfig", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("valid file path loads config", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "test.yaml")
		content := `date_format_out: "DD/MM/YYYY"
confirmation_regex: 'Res#\s*(\d+)'
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		cfg, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.DateFormatOut != "DD/MM/YYYY" {
			t.Errorf("DateFormatOut = %q, want %q", cfg.DateFormatOut, "DD/MM/YYYY")
		}
		if cfg.ConfirmationPattern != `Res#\s*(\d+)` {
			t.Errorf("ConfirmationPattern = %q, want %q", cfg.ConfirmationPattern, `Res#\s*(\d+)`)
		}
	})

	t.Run("omitted keys keep defaults", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "partial.yaml")
		content := `columns:
  confirmation: ["Booking Ref"]
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		cfg, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if len(cfg.Columns.Confirmation) != 1 || cfg.Columns.Confirmation[0] != "Booking Ref" {
			t.Errorf("Columns.Confirmation = %v, want [Booking Ref]", cfg.Columns.Confirmation)
		}
		if len(cfg.Columns.Arrival) == 0 {
			t.Error("Columns.Arrival should keep default keywords")
		}
		if cfg.MaxSourceSize != DefaultMaxSourceSize {
			t.Errorf("MaxSourceSize = %d, want default %d", cfg.MaxSourceSize, DefaultMaxSourceSize)
		}
	})

	t.Run("workflow keys load", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "workflow.yaml")
		content := `template: "stock/pass_template.pdf"
input:
  default_dir: "exports"
output:
  default_dir: "passes"
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		cfg, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Template != "stock/pass_template.pdf" {
			t.Errorf("Template = %q, want %q", cfg.Template, "stock/pass_template.pdf")
		}
		if cfg.Input.DefaultDir != "exports" {
			t.Errorf("Input.DefaultDir = %q, want %q", cfg.Input.DefaultDir, "exports")
		}
		if cfg.Output.DefaultDir != "passes" {
			t.Errorf("Output.DefaultDir = %q, want %q", cfg.Output.DefaultDir, "passes")
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/path/config.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "invalid.yaml")
		if err := os.WriteFile(configPath, []byte("date_format_out: [unclosed"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "unknown.yaml")
		content := `date_format_out: "MM/DD/YYYY"
unknownField: "should fail"
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid values return ErrInvalidConfig", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "badformat.yaml")
		content := `date_format_out: "MM only"
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("error = %v, want ErrInvalidConfig", err)
		}
	})

	t.Run("config name resolves yaml in current directory", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "myconfig.yaml")
		if err := os.WriteFile(configPath, []byte("date_format_out: \"YYYY-MM-DD\"\n"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		originalWd, err := os.Getwd()
		if err != nil {
			t.Fatalf("failed to get working directory: %v", err)
		}
		defer os.Chdir(originalWd)
		if err := os.Chdir(dir); err != nil {
			t.Fatalf("chdir: %v", err)
		}

		cfg, err := LoadConfig("myconfig")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.DateFormatOut != "YYYY-MM-DD" {
			t.Errorf("DateFormatOut = %q, want %q", cfg.DateFormatOut, "YYYY-MM-DD")
		}
	})

	t.Run("config name with extension resolves directly", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "exact.yml")
		if err := os.WriteFile(configPath, []byte("date_format_out: \"YYYY-MM-DD\"\n"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		originalWd, err := os.Getwd()
		if err != nil {
			t.Fatalf("failed to get working directory: %v", err)
		}
		defer os.Chdir(originalWd)
		if err := os.Chdir(dir); err != nil {
			t.Fatalf("chdir: %v", err)
		}

		cfg, err := LoadConfig("exact.yml")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.DateFormatOut != "YYYY-MM-DD" {
			t.Errorf("DateFormatOut = %q, want %q", cfg.DateFormatOut, "YYYY-MM-DD")
		}
	})

	t.Run("config name prefers yaml over yml", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "myconfig.yaml"), []byte("date_format_out: \"MM/DD/YYYY\"\n"), 0600); err != nil {
			t.Fatalf("setup yaml: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "myconfig.yml"), []byte("date_format_out: \"DD/MM/YYYY\"\n"), 0600); err != nil {
			t.Fatalf("setup yml: %v", err)
		}

		originalWd, err := os.Getwd()
		if err != nil {
			t.Fatalf("failed to get working directory: %v", err)
		}
		defer os.Chdir(originalWd)
		if err := os.Chdir(dir); err != nil {
			t.Fatalf("chdir: %v", err)
		}

		cfg, err := LoadConfig("myconfig")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.DateFormatOut != "MM/DD/YYYY" {
			t.Errorf("DateFormatOut = %q, want %q (should prefer .yaml)", cfg.DateFormatOut, "MM/DD/YYYY")
		}
	})

	t.Run("config name not found returns ErrConfigNotFound", func(t *testing.T) {
		dir := t.TempDir()
		originalWd, err := os.Getwd()
		if err != nil {
			t.Fatalf("failed to get working directory: %v", err)
		}
		defer os.Chdir(originalWd)
		if err := os.Chdir(dir); err != nil {
			t.Fatalf("chdir: %v", err)
		}

		_, err = LoadConfig("nonexistent")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})
}

func TestLoadLayout(t *testing.T) {
	t.Run("valid file path loads layout", func(t *testing.T) {
		dir := t.TempDir()
		layoutPath := filepath.Join(dir, "layout.yaml")
		content := `qr:
  size_px: 80
fields:
  confirmation:
    offset: [120, 60]
    font: "Helvetica"
    font_size: 12
    max_width: 150
    min_size: 8
`
		if err := os.WriteFile(layoutPath, []byte(content), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		spec, err := LoadLayout(layoutPath)
		if err != nil {
			t.Fatalf("LoadLayout() error = %v", err)
		}
		if spec.QR.SizePx != 80 {
			t.Errorf("QR.SizePx = %d, want 80", spec.QR.SizePx)
		}
		if spec.Fields.Confirmation.FontSize != 12 {
			t.Errorf("Fields.Confirmation.FontSize = %v, want 12", spec.Fields.Confirmation.FontSize)
		}
		// Omitted keys keep the shipped defaults.
		if spec.Page.Width != 612 {
			t.Errorf("Page.Width = %v, want default 612", spec.Page.Width)
		}
		if spec.QR.ContentTemplate == "" {
			t.Error("QR.ContentTemplate should keep the default template")
		}
	})

	t.Run("invalid layout values return ErrInvalidConfig", func(t *testing.T) {
		dir := t.TempDir()
		layoutPath := filepath.Join(dir, "layout.yaml")
		content := `qr:
  error_correction: "X"
`
		if err := os.WriteFile(layoutPath, []byte(content), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := LoadLayout(layoutPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("error = %v, want ErrInvalidConfig", err)
		}
	})

	t.Run("layout name not found returns ErrConfigNotFound", func(t *testing.T) {
		dir := t.TempDir()
		originalWd, err := os.Getwd()
		if err != nil {
			t.Fatalf("failed to get working directory: %v", err)
		}
		defer os.Chdir(originalWd)
		if err := os.Chdir(dir); err != nil {
			t.Fatalf("chdir: %v", err)
		}

		_, err = LoadLayout("nolayout")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})
}

func TestResolvePath(t *testing.T) {
	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		_, err := ResolvePath("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("existing file path resolves to itself", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yml")
		if err := os.WriteFile(path, []byte("template: t.pdf\n"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		got, err := ResolvePath(path)
		if err != nil {
			t.Fatalf("ResolvePath() error = %v", err)
		}
		if got != path {
			t.Errorf("ResolvePath() = %q, want %q", got, path)
		}
	})

	t.Run("missing file path returns ErrConfigNotFound", func(t *testing.T) {
		_, err := ResolvePath("/nonexistent/config.yml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("name resolves in current directory", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte("template: t.pdf\n"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		originalWd, err := os.Getwd()
		if err != nil {
			t.Fatalf("failed to get working directory: %v", err)
		}
		defer os.Chdir(originalWd)
		if err := os.Chdir(dir); err != nil {
			t.Fatalf("chdir: %v", err)
		}

		got, err := ResolvePath("config")
		if err != nil {
			t.Fatalf("ResolvePath() error = %v", err)
		}
		if got != "config.yml" {
			t.Errorf("ResolvePath() = %q, want %q", got, "config.yml")
		}
	})
}
