package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alnah/go-pms2pass/internal/config"
)

// ErrNotReady indicates doctor found problems that block generation.
var ErrNotReady = errors.New("not ready")

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string       `json:"status"` // "ready", "warnings", "errors"
	Config   documentInfo `json:"config"`
	Layout   documentInfo `json:"layout"`
	Template templateInfo `json:"template"`
	System   systemInfo   `json:"system"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

// documentInfo holds detection results for one discoverable document.
type documentInfo struct {
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
	Valid bool   `json:"valid"`
}

// templateInfo holds template detection results.
type templateInfo struct {
	Configured bool   `json:"configured"`
	Path       string `json:"path,omitempty"`
	Found      bool   `json:"found"`
}

// systemInfo holds system check results.
type systemInfo struct {
	UserConfigDir string `json:"user_config_dir,omitempty"`
	OutputDir     string `json:"output_dir,omitempty"`
	TempWritable  bool   `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command. It returns ErrNotReady when a
// check fails hard; warnings alone still count as ready.
func runDoctorCmd(args []string, env *Environment) error {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	result := runDoctor()

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ErrNotReady
	}
	return nil
}

// runDoctor performs all diagnostic checks.
func runDoctor() *doctorResult {
	result := &doctorResult{Status: "ready"}

	cfg := checkConfigDocument(result)
	checkLayoutDocument(result)
	checkTemplate(result, cfg)
	checkSystem(result, cfg)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkConfigDocument locates and validates the discoverable config. A
// missing config is not a problem: built-in defaults apply, exactly as
// they would during a run.
func checkConfigDocument(result *doctorResult) config.Config {
	path, err := config.ResolvePath(defaultConfigName)
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Config resolution failed: %v", err))
		}
		return config.DefaultConfig()
	}

	result.Config.Found = true
	result.Config.Path = path

	cfg, err := config.LoadConfig(path)
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Config %s is invalid: %v", path, err))
		return config.DefaultConfig()
	}

	result.Config.Valid = true
	return *cfg
}

// checkLayoutDocument locates and validates the discoverable layout.
func checkLayoutDocument(result *doctorResult) {
	path, err := config.ResolvePath(defaultLayoutName)
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Layout resolution failed: %v", err))
		}
		return
	}

	result.Layout.Found = true
	result.Layout.Path = path

	if _, err := config.LoadLayout(path); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Layout %s is invalid: %v", path, err))
		return
	}

	result.Layout.Valid = true
}

// checkTemplate verifies the configured pass blank exists. An unset
// template only blocks non-overlay runs, so it warns instead of erroring.
func checkTemplate(result *doctorResult, cfg config.Config) {
	if cfg.Template == "" {
		result.Warnings = append(result.Warnings,
			"No template configured. generate needs -t/--template or a config template unless --overlay-only is set")
		return
	}

	result.Template.Configured = true
	result.Template.Path = cfg.Template

	if _, err := os.Stat(cfg.Template); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Template not found at %s", cfg.Template))
		return
	}
	result.Template.Found = true
}

// checkSystem verifies system requirements.
func checkSystem(result *doctorResult, cfg config.Config) {
	if base, err := os.UserConfigDir(); err == nil {
		result.System.UserConfigDir = filepath.Join(base, "pms2pass")
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not locate user config dir: %v", err))
	}

	if cfg.Output.DefaultDir != "" {
		result.System.OutputDir = cfg.Output.DefaultDir
		if _, err := os.Stat(cfg.Output.DefaultDir); err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Output directory %s does not exist yet (created on first run)", cfg.Output.DefaultDir))
		}
	}

	// Check temp directory is writable; atomic writes stage files there.
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "pms2pass-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "pms2pass doctor")
	fmt.Fprintln(w)

	// Config section
	fmt.Fprintln(w, "Config")
	printDocumentInfo(w, r.Config, "built-in defaults apply")
	fmt.Fprintln(w)

	// Layout section
	fmt.Fprintln(w, "Layout")
	printDocumentInfo(w, r.Layout, "shipped layout applies")
	fmt.Fprintln(w)

	// Template section
	fmt.Fprintln(w, "Template")
	switch {
	case !r.Template.Configured:
		fmt.Fprintln(w, "  [WARN] Not configured")
	case r.Template.Found:
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Template.Path)
	default:
		fmt.Fprintf(w, "  [ERROR] Missing at %s\n", r.Template.Path)
	}
	fmt.Fprintln(w)

	// System section
	fmt.Fprintln(w, "System")
	if r.System.UserConfigDir != "" {
		fmt.Fprintf(w, "  [OK] User config dir: %s\n", r.System.UserConfigDir)
	}
	if r.System.OutputDir != "" {
		fmt.Fprintf(w, "  [OK] Output dir: %s\n", r.System.OutputDir)
	}
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	// Warnings
	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	// Errors
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	// Final status
	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to generate")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

// printDocumentInfo renders one discoverable document's state.
func printDocumentInfo(w io.Writer, info documentInfo, fallback string) {
	switch {
	case !info.Found:
		fmt.Fprintf(w, "  [OK] Not found, %s\n", fallback)
	case info.Valid:
		fmt.Fprintf(w, "  [OK] Found at %s\n", info.Path)
	default:
		fmt.Fprintf(w, "  [ERROR] Invalid at %s\n", info.Path)
	}
}
