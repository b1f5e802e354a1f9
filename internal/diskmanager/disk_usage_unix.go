//go:build linux || darwin

// Package diskmanager reports available disk space for backup targets.
package diskmanager

import (
	"fmt"
	"syscall"
)

// GetAvailableSpace returns the available disk space in bytes at baseDir.
func GetAvailableSpace(baseDir string) (uint64, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(baseDir, &stat); err != nil {
		return 0, fmt.Errorf("diskmanager: failed to get disk usage statistics: %w", err)
	}

	if stat.Bsize <= 0 {
		return 0, fmt.Errorf("diskmanager: invalid block size %d from filesystem", stat.Bsize)
	}
	bsize := uint64(stat.Bsize)
	return stat.Bavail * bsize, nil
}
