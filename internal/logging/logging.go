// Package logging provides lightweight slog bootstrap helpers for
// components that want a plain *slog.Logger rather than the Module-scoped
// internal/logger.Logger interface (used by the weathercore/conf/api stack).
// It exists because the event bus and a handful of generic infrastructure
// packages are shared across both logging conventions.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	initOnce   sync.Once
	baseLevel  = new(slog.LevelVar)
	baseWriter io.Writer = os.Stdout
)

// Init configures the package-level defaults. Safe to call multiple times;
// only the first call takes effect.
func Init() {
	initOnce.Do(func() {
		baseLevel.Set(slog.LevelInfo)
	})
}

// ForService returns a *slog.Logger scoped to the given service/component
// name, writing JSON records to the configured base writer (stdout by
// default).
func ForService(name string) *slog.Logger {
	Init()
	handler := slog.NewJSONHandler(baseWriter, &slog.HandlerOptions{Level: baseLevel})
	return slog.New(handler).With("service", name)
}

// NewFileLogger creates a *slog.Logger that writes JSON records to the file
// at path, scoped to name and leveled by levelVar. It returns a closer that
// flushes and releases the underlying file handle.
func NewFileLogger(path, name string, levelVar *slog.LevelVar) (*slog.Logger, func() error, error) {
	if levelVar == nil {
		levelVar = new(slog.LevelVar)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("logging: create log directory %s: %w", dir, err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: open log file %s: %w", path, err)
	}

	handler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: levelVar})
	logger := slog.New(handler).With("service", name)

	closer := func() error {
		return f.Close()
	}

	return logger, closer, nil
}
