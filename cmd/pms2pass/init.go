package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-pms2pass/internal/assets"
	"github.com/alnah/go-pms2pass/internal/fileutil"
)

// runInit writes the bundled config and layout documents so users can edit
// them instead of starting from a blank file. Existing files are left alone
// unless --force is set.
func runInit(flags *initFlags, env *Environment) error {
	targetDir, err := resolveInitDir(flags)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(targetDir, dirPermissions); err != nil {
		return fmt.Errorf("creating %s: %w", targetDir, err)
	}

	for _, name := range assets.Names() {
		content, err := assets.Document(name)
		if err != nil {
			return fmt.Errorf("loading bundled %s: %w", name, err)
		}

		destPath := filepath.Join(targetDir, name+".yml")
		if fileutil.FileExists(destPath) && !flags.force {
			fmt.Fprintf(env.Stderr, "Skipped %s: already exists (use --force to overwrite)\n", destPath)
			continue
		}
		if err := fileutil.WriteFileAtomic(destPath, content, filePermissions); err != nil {
			return fmt.Errorf("writing %s: %w", destPath, err)
		}
		fmt.Fprintf(env.Stdout, "Wrote %s\n", destPath)
	}
	return nil
}

// resolveInitDir picks the destination: --dir wins, --user targets the
// per-user config directory searched by every command, default is the
// working directory.
func resolveInitDir(flags *initFlags) (string, error) {
	if flags.dir != "" {
		return flags.dir, nil
	}
	if flags.user {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("locating user config dir: %w", err)
		}
		return filepath.Join(base, "pms2pass"), nil
	}
	return ".", nil
}
