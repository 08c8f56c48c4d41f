// Package fs reports free disk space for download destinations
package fs

import (
	"fmt"
	"os"
	"path/filepath"
)

// DiskUsage represents disk usage statistics
type DiskUsage struct {
	Total   uint64  // Total disk space in bytes
	Used    uint64  // Used disk space in bytes
	Free    uint64  // Free disk space in bytes
	UsedPct float64 // Used percentage (0-100)
}

// GetDiskUsage returns disk usage of the filesystem holding dir.
// Platform-specific implementation in fs_unix.go and fs_windows.go

// HasSpace reports whether the filesystem that will hold path has at least
// need free bytes. path may not exist yet; its nearest existing parent is used.
func HasSpace(path string, need int64) (bool, *DiskUsage, error) {
	dir, err := existingDir(path)
	if err != nil {
		return false, nil, err
	}
	usage, err := GetDiskUsage(dir)
	if err != nil {
		return false, nil, err
	}
	if need <= 0 {
		return true, usage, nil
	}
	return usage.Free >= uint64(need), usage, nil
}

// existingDir walks up from the parent of path to the first directory
// that exists
func existingDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	dir := filepath.Dir(abs)
	for {
		info, err := os.Stat(dir)
		if err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no existing parent directory for %s", path)
		}
		dir = parent
	}
}

func usedPct(used, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(used) / float64(total) * 100
}
