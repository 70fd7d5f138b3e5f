package relocate

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-sorter/internal/testsupport"
)

func newTestRelocator(root string, dryRun bool) (*Relocator, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(root, dryRun, zerolog.New(&buf)), &buf
}

func TestDestination(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		file string
		want string
	}{
		{"single digit month is padded", time.Date(2021, time.March, 9, 0, 0, 0, 0, time.UTC), "a.jpg", "/out/2021/03/a.jpg"},
		{"december", time.Date(1999, time.December, 31, 23, 59, 0, 0, time.UTC), "b.CR2", "/out/1999/12/b.CR2"},
		{"early year is four digits", time.Date(987, time.July, 1, 0, 0, 0, 0, time.UTC), "c.png", "/out/0987/07/c.png"},
		{"name kept verbatim", time.Date(2020, time.June, 15, 0, 0, 0, 0, time.UTC), "IMG 0001 (copy).HEIC", "/out/2020/06/IMG 0001 (copy).HEIC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, filepath.FromSlash(tt.want), Destination(filepath.FromSlash("/out"), tt.date, tt.file))
		})
	}
}

func TestRelocate(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	src := filepath.Join(dir, "in", "photo.jpg")
	testsupport.WriteFile(t, src, []byte("jpeg bytes"))
	r, logs := newTestRelocator(out, false)

	res, err := r.Relocate(src, time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	want := filepath.Join(out, "2021", "01", "photo.jpg")
	assert.Equal(t, want, res.Destination)
	assert.True(t, res.Moved)
	assert.False(t, res.Replaced)
	assert.Equal(t, int64(len("jpeg bytes")), res.Size)
	assert.NoFileExists(t, src)
	assert.FileExists(t, want)

	line := logs.String()
	assert.Contains(t, line, `"message":"moved"`)
	assert.Contains(t, line, src)
	assert.Contains(t, line, want)
}

func TestRelocateSameMonthTwice(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	date := time.Date(2020, time.June, 15, 0, 0, 0, 0, time.UTC)
	r, _ := newTestRelocator(out, false)

	for _, name := range []string{"a.txt", "b.txt"} {
		src := filepath.Join(dir, "in", name)
		testsupport.WriteFile(t, src, []byte(name))

		_, err := r.Relocate(src, date)
		require.NoError(t, err)
	}

	assert.FileExists(t, filepath.Join(out, "2020", "06", "a.txt"))
	assert.FileExists(t, filepath.Join(out, "2020", "06", "b.txt"))
}

func TestRelocateReplacesCollision(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	date := time.Date(2020, time.June, 15, 0, 0, 0, 0, time.UTC)
	existing := filepath.Join(out, "2020", "06", "photo.jpg")
	testsupport.WriteFile(t, existing, []byte("first"))
	src := filepath.Join(dir, "in", "photo.jpg")
	testsupport.WriteFile(t, src, []byte("second"))
	r, _ := newTestRelocator(out, false)

	res, err := r.Relocate(src, date)

	require.NoError(t, err)
	assert.True(t, res.Replaced)
	got, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
}

func TestRelocateInPlace(t *testing.T) {
	out := t.TempDir()
	date := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)
	path := filepath.Join(out, "2021", "01", "photo.jpg")
	testsupport.WriteFile(t, path, []byte("already sorted"))
	r, logs := newTestRelocator(out, false)

	res, err := r.Relocate(path, date)

	require.NoError(t, err)
	assert.True(t, res.InPlace)
	assert.False(t, res.Moved)
	assert.FileExists(t, path)
	assert.Contains(t, logs.String(), "already in place")
}

func TestRelocateDryRun(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	src := filepath.Join(dir, "in", "photo.jpg")
	testsupport.WriteFile(t, src, []byte("jpeg"))
	r, logs := newTestRelocator(out, true)

	res, err := r.Relocate(src, time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.False(t, res.Moved)
	assert.FileExists(t, src)
	assert.NoDirExists(t, out)
	assert.True(t, strings.Contains(logs.String(), "would move"))
}

func TestRelocateMissingSource(t *testing.T) {
	dir := t.TempDir()
	r, _ := newTestRelocator(filepath.Join(dir, "out"), false)

	_, err := r.Relocate(filepath.Join(dir, "missing.jpg"), time.Now())

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRelocateDestinationBlocked(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	// A file where the year folder should be makes MkdirAll fail.
	testsupport.WriteFile(t, filepath.Join(out, "2021"), []byte("in the way"))
	src := filepath.Join(dir, "in", "photo.jpg")
	testsupport.WriteFile(t, src, []byte("jpeg"))
	r, _ := newTestRelocator(out, false)

	_, err := r.Relocate(src, time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC))

	require.Error(t, err)
	assert.FileExists(t, src)
}

func TestRelocateHardLinkedDestination(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	src := filepath.Join(dir, "in", "photo.jpg")
	testsupport.WriteFile(t, src, []byte("one inode"))
	dst := filepath.Join(out, "2021", "01", "photo.jpg")
	require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o755))
	if err := os.Link(src, dst); err != nil {
		t.Skipf("hard links unavailable: %v", err)
	}
	r, logs := newTestRelocator(out, false)

	res, err := r.Relocate(src, time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.False(t, res.InPlace)
	assert.True(t, res.Moved)
	assert.NoFileExists(t, src, "source link must leave the input tree")
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "one inode", string(got))
	assert.NotContains(t, logs.String(), "already in place")
}

func TestRelocateInPlaceThroughSymlinkedDir(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	dst := filepath.Join(out, "2021", "01", "photo.jpg")
	testsupport.WriteFile(t, dst, []byte("sorted"))
	alias := filepath.Join(dir, "alias")
	if err := os.Symlink(filepath.Dir(dst), alias); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	r, _ := newTestRelocator(out, false)

	res, err := r.Relocate(filepath.Join(alias, "photo.jpg"), time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.True(t, res.InPlace)
	assert.FileExists(t, dst)
}
