// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"fmt"
	"strings"

	"github.com/alnah/go-pms2pass/internal/schema"
)

// ForUnmappedRoles returns hints for columns that detection could not find.
// Suggests manual mapping and the inspect command for discovering indexes.
func ForUnmappedRoles(unmatched []schema.Role) string {
	if len(unmatched) == 0 {
		return ""
	}

	names := make([]string, 0, len(unmatched))
	for _, role := range unmatched {
		names = append(names, string(role))
	}

	return formatHints([]string{
		"map columns manually with --map " + names[0] + "=INDEX",
		"run pms2pass inspect to list headers with their indexes",
	})
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/pms2pass/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/pms2pass) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/pms2pass") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForTemplateMissing returns hints for a missing pass template.
func ForTemplateMissing() string {
	return format("pass the blank pass sheet with --template /path/to/template.pdf")
}

// ForOversizedSource returns a hint about the configured source size cap.
func ForOversizedSource(maxBytes int64) string {
	return format(fmt.Sprintf("raise max_source_size in the config (currently %d bytes)", maxBytes))
}

// ForDateFormats returns hints for rows whose dates never parse.
// Lists the configured patterns so the missing one is easy to spot.
func ForDateFormats(formats []string) string {
	if len(formats) == 0 {
		return ""
	}
	return format("add the export's date pattern to date_format_in (currently " +
		strings.Join(formats, ", ") + ")")
}

// ForEmptySource returns hints for a source with no usable rows.
func ForEmptySource() string {
	return format("check the export contains data rows below the header")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
