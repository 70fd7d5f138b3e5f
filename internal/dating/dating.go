// Package dating picks the single date a file is filed under.
//
// The capture date embedded in image metadata (EXIF DateTimeOriginal) wins
// when the file carries one. Anything else, including unreadable or corrupt
// metadata, falls back to filesystem timestamps: birth time where the
// platform records it, otherwise the status-change time, otherwise the
// modification time. Metadata problems are never reported; filesystem
// problems are.
package dating

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/djherbis/times"
	"github.com/rwcarlsen/goexif/exif"
)

// exifLayout is the EXIF 2.x date-time format.
const exifLayout = "2006:01:02 15:04:05"

// Source names where a resolved date came from.
type Source string

const (
	SourceExif     Source = "exif"
	SourceBirth    Source = "birth"
	SourceChange   Source = "change"
	SourceModified Source = "modified"
)

// Resolved is the date chosen for one file.
type Resolved struct {
	Time   time.Time
	Source Source
}

// Resolver resolves file dates. The zero value is not usable; call
// NewResolver.
type Resolver struct {
	statTimes func(path string) (times.Timespec, error)
}

// NewResolver returns a Resolver reading timestamps from the OS.
func NewResolver() *Resolver {
	return NewResolverWithStat(times.Stat)
}

// NewResolverWithStat returns a Resolver that takes filesystem timestamps
// from stat instead of the OS.
func NewResolverWithStat(stat func(path string) (times.Timespec, error)) *Resolver {
	return &Resolver{statTimes: stat}
}

// Resolve returns the capture date of the file at path, or its filesystem
// date when no usable capture date is embedded. An error means the file
// itself could not be opened or stat'ed.
func (r *Resolver) Resolve(path string) (Resolved, error) {
	f, err := os.Open(path)
	if err != nil {
		return Resolved{}, err
	}
	taken, ok := FromExif(f)
	f.Close()

	if ok {
		return Resolved{Time: taken, Source: SourceExif}, nil
	}
	return r.FromFileTimes(path)
}

// FromExif reads DateTimeOriginal from an image stream. The value is taken
// as local time on the running host. ok is false whenever the stream is not
// an image, the metadata is corrupt, or the field is absent or malformed.
func FromExif(rd io.Reader) (taken time.Time, ok bool) {
	// goexif can panic on some truncated IFDs; that is just missing metadata.
	defer func() {
		if recover() != nil {
			taken, ok = time.Time{}, false
		}
	}()

	// Decode may return partially parsed metadata alongside an error, in
	// which case DateTimeOriginal might still be intact.
	x, _ := exif.Decode(rd)
	if x == nil {
		return time.Time{}, false
	}

	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		return time.Time{}, false
	}
	raw, err := tag.StringVal()
	if err != nil {
		return time.Time{}, false
	}

	// Wall-clock local time, not a UTC epoch: the folder always matches the
	// date on the camera's clock, whatever zone the host runs in.
	t, err := time.ParseInLocation(exifLayout, strings.Trim(raw, " \x00"), time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FromFileTimes returns the best filesystem timestamp for path.
func (r *Resolver) FromFileTimes(path string) (Resolved, error) {
	ts, err := r.statTimes(path)
	if err != nil {
		return Resolved{}, fmt.Errorf("stat times: %w", err)
	}

	switch {
	case ts.HasBirthTime():
		return Resolved{Time: ts.BirthTime(), Source: SourceBirth}, nil
	case ts.HasChangeTime():
		return Resolved{Time: ts.ChangeTime(), Source: SourceChange}, nil
	default:
		return Resolved{Time: ts.ModTime(), Source: SourceModified}, nil
	}
}
