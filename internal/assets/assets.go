// Package assets ships the default configuration documents embedded in the
// binary. The init command scaffolds them into the working directory so
// users start from a complete, commented document instead of writing YAML
// from scratch.
package assets

import (
	"embed"
	"errors"
	"fmt"
	"strings"
)

//go:embed defaults/*.yml
var defaults embed.FS

// Sentinel errors for asset operations.
var (
	// ErrAssetNotFound indicates the requested document does not exist.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrInvalidAssetName indicates the asset name contains invalid
	// characters such as path separators or traversal sequences.
	ErrInvalidAssetName = errors.New("invalid asset name")
)

// Document returns an embedded default document by name, without extension.
// The shipped documents are "config" and "layout".
func Document(name string) ([]byte, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	content, err := defaults.ReadFile("defaults/" + name + ".yml")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrAssetNotFound, name)
	}
	return content, nil
}

// Names lists the embedded default documents in lexical order.
func Names() []string {
	entries, err := defaults.ReadDir("defaults")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".yml"))
	}
	return names
}

// ValidateAssetName checks that an asset name is safe for use as a filename.
// Returns ErrInvalidAssetName if the name is empty or contains path
// separators, dots, or traversal characters.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
