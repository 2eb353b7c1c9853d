package main

import (
	"errors"
	"os"

	pms2pass "github.com/alnah/go-pms2pass"
	"github.com/alnah/go-pms2pass/internal/config"
	"github.com/alnah/go-pms2pass/internal/fileutil"
)

// Exit codes for the pms2pass CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitRender  = 4 // QR or PDF composition errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Rendering errors (exit 4)
	if errors.Is(err, pms2pass.ErrComposition) ||
		errors.Is(err, pms2pass.ErrUnsupportedFont) {
		return ExitRender
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoSource) ||
		errors.Is(err, ErrReadSource) ||
		errors.Is(err, ErrReadTemplate) ||
		errors.Is(err, ErrWritePDF) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, fileutil.ErrFileTooLarge) ||
		errors.Is(err, pms2pass.ErrEmptySource) ||
		errors.Is(err, pms2pass.ErrInputFormat) ||
		errors.Is(err, pms2pass.ErrSourceTooLarge) ||
		errors.Is(err, pms2pass.ErrMappingIncomplete) ||
		errors.Is(err, pms2pass.ErrNoRecords) ||
		errors.Is(err, pms2pass.ErrRowSelection) ||
		errors.Is(err, pms2pass.ErrInvalidSort) ||
		errors.Is(err, pms2pass.ErrInvalidDateFormat) ||
		errors.Is(err, pms2pass.ErrInvalidPattern) ||
		errors.Is(err, pms2pass.ErrInvalidLayout) ||
		errors.Is(err, pms2pass.ErrTemplateMissing) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidMapping) ||
		errors.Is(err, ErrInvalidRows) ||
		errors.Is(err, ErrNoCommand) ||
		errors.Is(err, ErrUnknownCommand) {
		return ExitUsage
	}

	return ExitGeneral
}
