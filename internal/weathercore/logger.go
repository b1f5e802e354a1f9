package weathercore

import "github.com/clearsky/wxcore/internal/logger"

// GetLogger returns the weathercore package logger. Note that the pure
// pipeline functions (Observe, Forecast) never call this themselves — the
// core performs no logging per spec §7. It exists for callers (cmd/, api/)
// that want to log warnings the pipeline attaches to an Inference.
func GetLogger() logger.Logger {
	return logger.Global().Module("weathercore")
}
