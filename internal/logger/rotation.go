package logger

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// rotationTimestampLayout produces names like application-2025-01-15T14-30-05Z.log.
// Colons are replaced with dashes so the filename stays valid on every OS.
const rotationTimestampLayout = "2006-01-02T15-04-05Z"

// RotationManager enforces a size-triggered rotation policy on a single
// BufferedFileWriter: when the active file crosses MaxSize it is renamed
// aside (optionally gzip-compressed) and the writer is swapped onto a fresh
// file at the original path. Cleanup then trims old rotated files by count
// and age.
type RotationManager struct {
	mu       sync.Mutex
	writer   *BufferedFileWriter
	filePath string
	config   RotationConfig
	closed   bool
}

// newRotationManager wires a RotationManager to an already-open writer.
func newRotationManager(writer *BufferedFileWriter, filePath string, cfg RotationConfig) *RotationManager {
	return &RotationManager{
		writer:   writer,
		filePath: filePath,
		config:   cfg,
	}
}

// rotatedFilePath returns the archived path for a rotation at the given
// timestamp, e.g. "/logs/application.log" -> "/logs/application-<ts>.log".
func (r *RotationManager) rotatedFilePath(timestamp string) string {
	dir := filepath.Dir(r.filePath)
	ext := filepath.Ext(r.filePath)
	base := strings.TrimSuffix(filepath.Base(r.filePath), ext)
	return filepath.Join(dir, base+"-"+timestamp+ext)
}

// rotatedFilePattern returns a glob pattern matching every rotated file for
// this log, uncompressed or not.
func (r *RotationManager) rotatedFilePattern() string {
	dir := filepath.Dir(r.filePath)
	ext := filepath.Ext(r.filePath)
	base := strings.TrimSuffix(filepath.Base(r.filePath), ext)
	return filepath.Join(dir, base+"-*Z"+ext)
}

// CheckAndRotate rotates the active file if it has grown past MaxSize. It is
// safe to call from multiple goroutines and is a cheap no-op once the
// manager is closed or rotation is disabled.
func (r *RotationManager) CheckAndRotate() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || !r.config.IsEnabled() {
		return
	}

	info, err := os.Stat(r.filePath)
	if err != nil || info.Size() < r.config.MaxSize {
		return
	}

	if err := r.rotateLocked(); err != nil {
		return
	}

	r.cleanupLocked()
}

// rotateLocked renames the active file aside and swaps the writer onto a new
// file at the original path. Caller must hold r.mu.
func (r *RotationManager) rotateLocked() error {
	rotatedPath := r.rotatedFilePath(time.Now().UTC().Format(rotationTimestampLayout))

	if err := os.Rename(r.filePath, rotatedPath); err != nil {
		return err
	}

	newFile, err := os.OpenFile(r.filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, LogFilePermissions) //nolint:gosec // log path from config
	if err != nil {
		return err
	}

	oldFile, err := r.writer.SwapFile(newFile)
	if err != nil {
		_ = newFile.Close()
		return err
	}
	if oldFile != nil {
		_ = oldFile.Close()
	}

	if r.config.Compress {
		go compressRotatedFile(rotatedPath)
	}

	return nil
}

// compressRotatedFile gzips a rotated log file in place and removes the
// uncompressed original. Runs off the hot path; errors are not actionable.
func compressRotatedFile(path string) {
	src, err := os.Open(path) //nolint:gosec // path built from our own rotation naming
	if err != nil {
		return
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(path+".gz", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, LogFilePermissions) //nolint:gosec // path built from our own rotation naming
	if err != nil {
		return
	}

	gz := gzip.NewWriter(dst)
	_, copyErr := io.Copy(gz, src)
	closeErr := gz.Close()
	_ = dst.Close()

	if copyErr != nil || closeErr != nil {
		_ = os.Remove(path + ".gz")
		return
	}

	_ = os.Remove(path)
}

// rotatedFileInfo pairs a matched rotated file's path with its mtime for
// age/count based cleanup.
type rotatedFileInfo struct {
	path    string
	modTime time.Time
}

// cleanupLocked removes rotated files that exceed MaxAge or push the count
// past MaxRotatedFiles. Caller must hold r.mu.
func (r *RotationManager) cleanupLocked() {
	var files []rotatedFileInfo

	patterns := []string{r.rotatedFilePattern(), r.rotatedFilePattern() + ".gz"}
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil {
				continue
			}
			files = append(files, rotatedFileInfo{path: m, modTime: info.ModTime()})
		}
	}

	if r.config.MaxAge > 0 {
		cutoff := time.Now().Add(-time.Duration(r.config.MaxAge) * 24 * time.Hour)
		kept := files[:0]
		for _, f := range files {
			if f.modTime.Before(cutoff) {
				_ = os.Remove(f.path)
				continue
			}
			kept = append(kept, f)
		}
		files = kept
	}

	if r.config.MaxRotatedFiles > 0 && len(files) > r.config.MaxRotatedFiles {
		sort.Slice(files, func(i, j int) bool { return files[i].modTime.Before(files[j].modTime) })
		excess := len(files) - r.config.MaxRotatedFiles
		for _, f := range files[:excess] {
			_ = os.Remove(f.path)
		}
	}
}

// Close marks the manager closed; subsequent CheckAndRotate calls are no-ops.
// Idempotent.
func (r *RotationManager) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}
