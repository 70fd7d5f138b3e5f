// Package config holds the settings of a single sort run.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	// ErrUsage reports a wrong number of positional arguments.
	ErrUsage = errors.New("usage")
	// ErrInputNotFound reports a missing input directory.
	ErrInputNotFound = errors.New("input directory not found")
	// ErrNotDirectory reports an input or output path that is not a directory.
	ErrNotDirectory = errors.New("not a directory")
)

// Config is built once at startup and passed to every component.
type Config struct {
	InputDir  string // Tree to scan
	OutputDir string // Root of the YYYY/MM hierarchy
	DryRun    bool   // Log planned moves without touching the filesystem
	Verbosity int    // -v count
}

// FromArgs builds a Config from the two positional arguments
// <input-dir> <output-dir>. Paths are made absolute but not checked;
// call Validate for that.
func FromArgs(args []string) (Config, error) {
	if len(args) != 2 {
		return Config{}, fmt.Errorf("%w: expected 2 arguments (input directory, output directory), got %d", ErrUsage, len(args))
	}

	in, err := filepath.Abs(args[0])
	if err != nil {
		return Config{}, fmt.Errorf("resolve input path %q: %w", args[0], err)
	}
	out, err := filepath.Abs(args[1])
	if err != nil {
		return Config{}, fmt.Errorf("resolve output path %q: %w", args[1], err)
	}

	return Config{InputDir: in, OutputDir: out}, nil
}

// Validate checks that the input directory exists and that the output
// path, if present, is a directory. It never creates anything.
func (c Config) Validate() error {
	info, err := os.Stat(c.InputDir)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrInputNotFound, c.InputDir)
	}
	if err != nil {
		return fmt.Errorf("stat input directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input %s: %w", c.InputDir, ErrNotDirectory)
	}

	info, err = os.Stat(c.OutputDir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case err != nil:
		return fmt.Errorf("stat output directory: %w", err)
	case !info.IsDir():
		return fmt.Errorf("output %s: %w", c.OutputDir, ErrNotDirectory)
	}
	return nil
}
