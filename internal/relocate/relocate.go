// Package relocate files a single file under <root>/<YYYY>/<MM>/.
//
// The original file name is kept verbatim. When a file with the same name is
// already filed for that month it is replaced: last write wins.
package relocate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"photo-sorter/internal/fileutil"
)

// Result describes what happened to one file.
type Result struct {
	Source      string
	Destination string
	Size        int64
	Moved       bool // File was renamed or copied to Destination
	Replaced    bool // A previous occupant of Destination was overwritten
	InPlace     bool // Source already is Destination
}

// Relocator moves files into the month folders of one output root.
type Relocator struct {
	root   string
	dryRun bool
	log    zerolog.Logger
}

// New returns a Relocator filing under root. With dryRun set it only logs
// the moves it would make.
func New(root string, dryRun bool, log zerolog.Logger) *Relocator {
	return &Relocator{root: root, dryRun: dryRun, log: log}
}

// Destination returns root/YYYY/MM/name for the given date.
func Destination(root string, date time.Time, name string) string {
	return filepath.Join(root, fmt.Sprintf("%04d", date.Year()), fmt.Sprintf("%02d", int(date.Month())), name)
}

// Relocate moves src into the folder for date, creating missing folders.
func (r *Relocator) Relocate(src string, date time.Time) (Result, error) {
	dst := Destination(r.root, date, filepath.Base(src))
	res := Result{Source: src, Destination: dst}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return res, fmt.Errorf("stat source: %w", err)
	}
	res.Size = srcInfo.Size()

	var hardLinked bool
	dstInfo, err := os.Stat(dst)
	switch {
	case err == nil && samePath(src, dst):
		res.InPlace = true
		r.log.Info().Str("path", src).Msg("already in place")
		return res, nil
	case err == nil && os.SameFile(srcInfo, dstInfo):
		// rename(2) between two links to one inode is a no-op.
		hardLinked = true
	case err == nil:
		res.Replaced = true
	case !errors.Is(err, os.ErrNotExist):
		return res, fmt.Errorf("stat destination: %w", err)
	}

	if r.dryRun {
		r.log.Info().Str("src", src).Str("dst", dst).Bool("replace", res.Replaced).Msg("would move")
		return res, nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return res, fmt.Errorf("create destination directory: %w", err)
	}
	if res.Replaced {
		r.log.Debug().Str("dst", dst).Msg("replacing existing file")
	}
	if hardLinked {
		if err := os.Remove(src); err != nil {
			return res, fmt.Errorf("remove hard link %s: %w", src, err)
		}
	} else if err := fileutil.Move(src, dst); err != nil {
		return res, fmt.Errorf("move %s: %w", src, err)
	}

	res.Moved = true
	r.log.Info().Str("src", src).Str("dst", dst).Msg("moved")
	return res, nil
}

// samePath reports whether a and b name the same directory entry once
// symlinks are resolved. Hard links under other names do not count.
func samePath(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	ra, err := filepath.EvalSymlinks(a)
	if err != nil {
		return false
	}
	rb, err := filepath.EvalSymlinks(b)
	if err != nil {
		return false
	}
	return ra == rb
}
