// Package weathercore implements the station's deterministic weather
// inference pipeline: a pure function from a raw sensor snapshot and the
// previous pipeline state to a classified condition, derived atmospheric
// quantities, and a 5-day/24-hour forecast.
//
// The package performs no I/O and never reads a wall clock; every time-aware
// computation is driven by the timestamp carried on the snapshot passed to
// Observe. Callers own State between calls and must serialize observations
// per station instance.
package weathercore
