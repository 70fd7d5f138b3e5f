//go:build !unix

package fileutil

// Non-unix platforms report cross-volume renames with their own error codes;
// those surface to the caller unchanged.
func isCrossDevice(err error) bool {
	return false
}
