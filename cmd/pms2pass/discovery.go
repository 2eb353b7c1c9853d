package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Sentinel errors for source discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .csv, .xls, or .xlsx extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// maxWorkers caps the batch worker pool. Generation is CPU-bound, so more
// workers than cores only adds scheduling overhead.
const maxWorkers = 32

// SourceFile is a single export file to process. RelDir preserves the
// directory structure of walked inputs so batch outputs mirror the source
// tree.
type SourceFile struct {
	SourcePath string
	OutputPath string
	RelDir     string
}

// discoverSources expands the input arguments into export files. A file
// argument must carry a supported extension; a directory argument is walked
// recursively. Output paths are not assigned here, see assignOutputs.
func discoverSources(inputs []string) ([]SourceFile, error) {
	var files []SourceFile

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if err := validateExportExtension(input); err != nil {
				return nil, err
			}
			files = append(files, SourceFile{SourcePath: input})
			continue
		}

		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			if d.IsDir() || !isExportFile(path) {
				return nil
			}
			relDir := ""
			if rel, relErr := filepath.Rel(input, path); relErr == nil {
				relDir = filepath.Dir(rel)
				if relDir == "." {
					relDir = ""
				}
			}
			files = append(files, SourceFile{SourcePath: path, RelDir: relDir})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// assignOutputs fills in the output path for every discovered source.
//
// A single source gets the date-stamped default name unless output names a
// .pdf file directly. Several sources each get "<base>_passes.pdf",
// mirroring the source tree under the output directory; a .pdf output is
// rejected because the files would overwrite each other.
func assignOutputs(files []SourceFile, output string, now func() time.Time) ([]SourceFile, error) {
	if len(files) == 1 {
		f := files[0]
		switch {
		case strings.HasSuffix(output, ".pdf"):
			f.OutputPath = output
		case output != "":
			f.OutputPath = filepath.Join(output, defaultOutputName(now))
		default:
			f.OutputPath = defaultOutputName(now)
		}
		return []SourceFile{f}, nil
	}

	if strings.HasSuffix(output, ".pdf") {
		return nil, fmt.Errorf("output %s is a single file but %d sources were found", output, len(files))
	}

	assigned := make([]SourceFile, 0, len(files))
	for _, f := range files {
		name := batchOutputName(f.SourcePath)
		switch {
		case output != "":
			f.OutputPath = filepath.Join(output, f.RelDir, name)
		default:
			f.OutputPath = filepath.Join(filepath.Dir(f.SourcePath), name)
		}
		assigned = append(assigned, f)
	}
	return assigned, nil
}

// defaultOutputName returns the date-stamped document name for single runs.
func defaultOutputName(now func() time.Time) string {
	return "Parking_Passes_" + now().Format("2006-01-02") + ".pdf"
}

// batchOutputName derives the per-source document name for batch runs.
func batchOutputName(sourcePath string) string {
	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	return base + "_passes.pdf"
}

// isExportFile reports whether the path carries a supported export extension.
func isExportFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xls", ".xlsx":
		return true
	}
	return false
}

// validateExportExtension checks that the file has a supported extension.
func validateExportExtension(path string) error {
	if !isExportFile(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > maxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, maxWorkers)
	}
	return nil
}

// resolveWorkers determines the batch concurrency.
// Priority: explicit flag > GOMAXPROCS-based calculation.
func resolveWorkers(flagWorkers int) int {
	if flagWorkers > 0 {
		return flagWorkers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs in containers)
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		return 1
	}
	if n > 8 {
		return 8
	}
	return n
}
