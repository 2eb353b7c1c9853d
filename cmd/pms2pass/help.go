package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pms2pass <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  generate   Generate parking pass PDFs from PMS exports")
	fmt.Fprintln(w, "  inspect    Show an export's columns and role mapping")
	fmt.Fprintln(w, "  preview    Render a layout calibration sheet")
	fmt.Fprintln(w, "  init       Write editable config and layout files")
	fmt.Fprintln(w, "  doctor     Check the local setup")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'pms2pass help <command>' for details on a specific command.")
}

// printGenerateUsage prints usage for the generate command.
func printGenerateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pms2pass generate <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate parking pass PDFs from PMS exports.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Export files (.csv, .xls, .xlsx) or directories to scan")
	fmt.Fprintln(w, "           (optional if config has input.default_dir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -t, --template <path>     Pass template PDF")
	fmt.Fprintln(w, "  -l, --layout <name>       Layout file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers for batch runs (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Mapping:")
	fmt.Fprintln(w, "      --map <role=INDEX>    Pin a role to a column (repeatable)")
	fmt.Fprintln(w, "                            Roles: confirmation, arrival, departure")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Selection:")
	fmt.Fprintln(w, "      --rows <list>         Only these source rows, e.g. 2,5,7-10")
	fmt.Fprintln(w, "      --sort <s>            Pass order: arrival, confirmation")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Dates:")
	fmt.Fprintln(w, "      --date-in <pattern>   Candidate input date pattern (repeatable)")
	fmt.Fprintln(w, "      --date-out <pattern>  Output date pattern")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MM, M, DD, D")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --overlay-only        Compose on blank pages instead of the template")
	fmt.Fprintln(w, "      --conf-regex <re>     Fallback regex for blank confirmation cells")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show per-stage details")
}

// printInspectUsage prints usage for the inspect command.
func printInspectUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pms2pass inspect <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Show an export's columns, samples, and role mapping without generating.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    One export file (.csv, .xls, .xlsx)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --map <role=INDEX>    Pin a role to a column (repeatable)")
	fmt.Fprintln(w, "      --json                Print the inspection as JSON")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show per-stage details")
}

// printPreviewUsage prints usage for the preview command.
func printPreviewUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pms2pass preview [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a calibration sheet showing panel frames, field anchors, and a")
	fmt.Fprintln(w, "placeholder QR for the active layout. Print it over a real pass blank")
	fmt.Fprintln(w, "to check alignment.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Output PDF path (default: layout_preview.pdf)")
	fmt.Fprintln(w, "  -l, --layout <name>       Layout file name or path")
}

// printInitUsage prints usage for the init command.
func printInitUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pms2pass init [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write editable config.yml and layout.yml starter files.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --dir <path>          Target directory (default: current directory)")
	fmt.Fprintln(w, "      --user                Write into the user config directory instead")
	fmt.Fprintln(w, "      --force               Overwrite existing files")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "generate":
		printGenerateUsage(env.Stdout)
	case "inspect":
		printInspectUsage(env.Stdout)
	case "preview":
		printPreviewUsage(env.Stdout)
	case "init":
		printInitUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: pms2pass doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check config, layout, template, and system readiness.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: pms2pass version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: pms2pass help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
