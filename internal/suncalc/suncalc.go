// Package suncalc computes sunrise, sunset and twilight times for a fixed
// observer location, caching results per calendar day so callers such as
// internal/api can look up the day's sun window on every observation without
// recomputing an ephemeris each time. The weather core does not import it.
package suncalc

import (
	"fmt"
	"sync"
	"time"

	"github.com/sj14/astral"
)

// SunEventTimes bundles the sun events the weather core cares about for a
// single calendar day at the configured observer location.
type SunEventTimes struct {
	Sunrise   time.Time
	Sunset    time.Time
	CivilDawn time.Time
	CivilDusk time.Time
}

type cacheEntry struct {
	date  time.Time
	times SunEventTimes
}

// SunCalc computes and caches sun event times for one fixed location.
type SunCalc struct {
	observer astral.Observer
	cache    map[string]cacheEntry
	lock     sync.RWMutex
}

// NewSunCalc creates a SunCalc for the given coordinates. Latitude and
// longitude are not validated here; callers passing out-of-range values will
// see it surface as an error (or a degenerate polar result) from
// GetSunEventTimes rather than from construction.
func NewSunCalc(lat, lon float64) *SunCalc {
	return &SunCalc{
		observer: astral.Observer{Latitude: lat, Longitude: lon},
		cache:    make(map[string]cacheEntry),
	}
}

// GetSunEventTimes returns sunrise/sunset/civil dawn/civil dusk for the
// calendar day of date, computing and caching the result on first request.
func (sc *SunCalc) GetSunEventTimes(date time.Time) (SunEventTimes, error) {
	key := date.Format(time.DateOnly)

	sc.lock.RLock()
	if entry, ok := sc.cache[key]; ok {
		sc.lock.RUnlock()
		return entry.times, nil
	}
	sc.lock.RUnlock()

	sunrise, err := astral.Sunrise(sc.observer, date)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("suncalc: sunrise: %w", err)
	}
	sunset, err := astral.Sunset(sc.observer, date)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("suncalc: sunset: %w", err)
	}
	dawn, err := astral.Dawn(sc.observer, date, astral.CivilDepression)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("suncalc: civil dawn: %w", err)
	}
	dusk, err := astral.Dusk(sc.observer, date, astral.CivilDepression)
	if err != nil {
		return SunEventTimes{}, fmt.Errorf("suncalc: civil dusk: %w", err)
	}

	times := SunEventTimes{
		Sunrise:   sunrise,
		Sunset:    sunset,
		CivilDawn: dawn,
		CivilDusk: dusk,
	}

	sc.lock.Lock()
	sc.cache[key] = cacheEntry{date: date, times: times}
	sc.lock.Unlock()

	return times, nil
}

// GetSunriseTime returns the sunrise time for the calendar day of date.
func (sc *SunCalc) GetSunriseTime(date time.Time) (time.Time, error) {
	times, err := sc.GetSunEventTimes(date)
	if err != nil {
		return time.Time{}, err
	}
	return times.Sunrise, nil
}

// GetSunsetTime returns the sunset time for the calendar day of date.
func (sc *SunCalc) GetSunsetTime(date time.Time) (time.Time, error) {
	times, err := sc.GetSunEventTimes(date)
	if err != nil {
		return time.Time{}, err
	}
	return times.Sunset, nil
}

// Elevation returns the sun's elevation angle in degrees above the horizon
// at the given instant, used as a fallback when a snapshot carries no
// sensor-measured solar elevation.
func (sc *SunCalc) Elevation(at time.Time) float64 {
	return astral.SolarElevation(sc.observer, at)
}
