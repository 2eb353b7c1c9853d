package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Sentinel errors for command dispatch.
var (
	ErrNoCommand      = errors.New("no command specified")
	ErrUnknownCommand = errors.New("unknown command")
)

func main() {
	// Configure GOMAXPROCS before any work starts.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasVerboseFlag(os.Args[1:]) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := run(ctx, os.Args[1:], DefaultEnv()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// run dispatches to the requested command. Errors bubble up to main, which
// prints them and maps them to an exit code.
func run(ctx context.Context, args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ErrNoCommand
	}

	switch args[0] {
	case "generate":
		flags, positional, err := parseGenerateFlags(args[1:])
		if err != nil {
			return err
		}
		return runGenerate(ctx, positional, flags, env)
	case "inspect":
		flags, positional, err := parseInspectFlags(args[1:])
		if err != nil {
			return err
		}
		return runInspect(ctx, positional, flags, env)
	case "preview":
		flags, err := parsePreviewFlags(args[1:])
		if err != nil {
			return err
		}
		return runPreview(ctx, flags, env)
	case "init":
		flags, err := parseInitFlags(args[1:])
		if err != nil {
			return err
		}
		return runInit(flags, env)
	case "doctor":
		return runDoctorCmd(args[1:], env)
	case "version", "--version":
		runVersion(env)
		return nil
	case "help", "-h", "--help":
		runHelp(args[1:], env)
		return nil
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n\n", args[0])
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %q", ErrUnknownCommand, args[0])
	}
}

// runVersion prints version and platform information.
func runVersion(env *Environment) {
	fmt.Fprintf(env.Stdout, "pms2pass %s (%s, %s/%s)\n",
		Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// hasVerboseFlag scans raw arguments for the verbose flag before full flag
// parsing, so startup diagnostics respect it.
func hasVerboseFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-v" || arg == "--verbose" {
			return true
		}
	}
	return false
}
