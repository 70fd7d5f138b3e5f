// Package walker drives a sort run: it visits every file below a source
// directory, depth first, and hands each one to the date resolver and the
// relocator in turn.
//
// Processing is strictly sequential. The first error stops the walk; files
// filed before it stay where they were moved.
package walker

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"photo-sorter/internal/dating"
	"photo-sorter/internal/relocate"
)

// DateResolver picks the date a file is filed under.
type DateResolver interface {
	Resolve(path string) (dating.Resolved, error)
}

// Relocator files one file under a date.
type Relocator interface {
	Relocate(src string, date time.Time) (relocate.Result, error)
}

// Stats summarizes a walk.
type Stats struct {
	Files       int   // Files handed to the relocator
	Dirs        int   // Directories listed, including the root
	Bytes       int64 // Total size of those files
	InPlace     int   // Files already at their destination
	Replaced    int   // Files that overwrote an earlier occupant
	SkippedDirs int   // Directory cycles and the output root
	Special     int   // FIFOs, sockets and device nodes left untouched
}

// Walker walks one source tree into one output root.
type Walker struct {
	resolver  DateResolver
	relocator Relocator
	outputDir string
	log       zerolog.Logger
}

// New returns a Walker. outputDir is never descended into when it appears
// inside the source tree.
func New(resolver DateResolver, relocator Relocator, outputDir string, log zerolog.Logger) *Walker {
	return &Walker{
		resolver:  resolver,
		relocator: relocator,
		outputDir: filepath.Clean(outputDir),
		log:       log,
	}
}

// Walk processes every file under dir.
func (w *Walker) Walk(dir string) (Stats, error) {
	var stats Stats

	info, err := os.Stat(dir)
	if err != nil {
		return stats, err
	}
	if !info.IsDir() {
		return stats, fmt.Errorf("%s is not a directory", dir)
	}

	// Only meaningful when the output root already exists.
	outInfo, _ := os.Stat(w.outputDir)

	err = w.walkDir(dir, []os.FileInfo{info}, outInfo, &stats)
	return stats, err
}

// walkDir lists dir and handles each child. ancestors holds dir and every
// directory above it, for cycle detection through symlinks.
func (w *Walker) walkDir(dir string, ancestors []os.FileInfo, outInfo os.FileInfo, stats *Stats) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("list %s: %w", dir, err)
	}
	stats.Dirs++
	w.log.Trace().Str("dir", dir).Int("entries", len(entries)).Msg("listing")

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}

		if info.Mode().IsRegular() {
			if err := w.processFile(path, stats); err != nil {
				return err
			}
			continue
		}
		if !info.IsDir() {
			// Opening a FIFO blocks and device nodes never reach EOF.
			w.log.Warn().Str("path", path).Str("mode", info.Mode().Type().String()).Msg("skipping special file")
			stats.Special++
			continue
		}

		if path == w.outputDir || (outInfo != nil && os.SameFile(info, outInfo)) {
			w.log.Debug().Str("dir", path).Msg("skipping output directory")
			stats.SkippedDirs++
			continue
		}
		if isAncestor(info, ancestors) {
			w.log.Warn().Str("dir", path).Msg("skipping directory cycle")
			stats.SkippedDirs++
			continue
		}

		if err := w.walkDir(path, append(ancestors, info), outInfo, stats); err != nil {
			return err
		}
	}
	return nil
}

func (w *Walker) processFile(path string, stats *Stats) error {
	resolved, err := w.resolver.Resolve(path)
	if err != nil {
		return fmt.Errorf("resolve date of %s: %w", path, err)
	}
	w.log.Debug().
		Str("file", path).
		Time("date", resolved.Time).
		Str("source", string(resolved.Source)).
		Msg("resolved date")

	res, err := w.relocator.Relocate(path, resolved.Time)
	if err != nil {
		return err
	}

	stats.Files++
	stats.Bytes += res.Size
	if res.InPlace {
		stats.InPlace++
	}
	if res.Replaced {
		stats.Replaced++
	}
	return nil
}

func isAncestor(info os.FileInfo, ancestors []os.FileInfo) bool {
	for _, a := range ancestors {
		if os.SameFile(info, a) {
			return true
		}
	}
	return false
}
