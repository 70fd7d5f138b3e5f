package testsupport

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// WriteFile creates path (and its parents) with the given contents.
func WriteFile(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WritePhoto writes a JPEG whose DateTimeOriginal is taken in the host's
// local zone, matching how capture dates are read back.
func WritePhoto(t testing.TB, path string, taken time.Time) {
	t.Helper()
	WriteFile(t, path, JPEGWithExif(ExifFields{
		DateTimeOriginal: taken.In(time.Local).Format("2006:01:02 15:04:05"),
	}))
}
