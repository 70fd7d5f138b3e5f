// Package fileutil moves files between directories, falling back to a
// verified copy when the source and destination live on different devices.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
)

// Move renames src to dst, replacing dst if it exists.
// If the rename fails because src and dst are on different filesystems,
// the file is copied (content, mode and timestamps) and src is removed.
func Move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return err
	}

	if err := copyFileVerified(src, dst); err != nil {
		return fmt.Errorf("cross-device copy: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

// copyFileVerified streams src to dst, then re-reads dst from disk and
// compares its size and SHA-256 with what was read from src. dst is removed
// on any mismatch. The source mode and modification time are carried over.
func copyFileVerified(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHash := sha256.New()
	written, err := io.Copy(out, io.TeeReader(in, srcHash))
	if err != nil {
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}
	if written != info.Size() {
		_ = os.Remove(dst)
		return fmt.Errorf("size mismatch: source %d bytes, copied %d bytes", info.Size(), written)
	}
	if err := verifyOnDisk(dst, written, srcHash.Sum(nil)); err != nil {
		_ = os.Remove(dst)
		return err
	}

	// O_CREATE only applies perm to new files.
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// verifyOnDisk reads path back and checks it holds size bytes hashing to sum.
func verifyOnDisk(path string, size int64, sum []byte) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reopen copy: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return fmt.Errorf("read back copy: %w", err)
	}
	if n != size {
		return fmt.Errorf("size mismatch: expected %d bytes on disk, found %d", size, n)
	}
	if !bytes.Equal(h.Sum(nil), sum) {
		return errors.New("hash mismatch: copy on disk differs from source")
	}
	return nil
}
