package weathercore

import "time"

// pipeline.go is the Pipeline Orchestrator (spec §4.11/§6.1): wires every
// other file in this package into the pure `Observe`/`Forecast` entry
// points. State is exclusively owned by the caller between calls; each
// Observe returns a fresh State rather than mutating its input (spec §5).

// radiationSample is one raw solar-radiation reading kept only long enough
// to feed the radiation moving average over Config.SolarAvgWindowMinutes
// (default 15; spec §4.11 step 5).
type radiationSample struct {
	Timestamp time.Time
	ValueWm2  float64
}

// State is the opaque bundle threaded between Observe calls and consumed by
// Forecast. The zero value is not valid; use NewState.
type State struct {
	Config  Config
	Trends  TrendsStore
	Derived DerivedState

	hasLast                bool
	lastTimestamp          time.Time
	lastCanonical          canonicalSnapshot
	lastDirectionStability float64

	radiationHistory []radiationSample
}

// NewState returns a fresh State for a station, with cfg's zero fields
// filled in per spec defaults.
func NewState(cfg Config) State {
	return State{Config: cfg.WithDefaults(), Trends: NewTrendsStore()}
}

// Observe is the pure pipeline entry point (spec §4.11): canonicalize,
// altitude-correct, derive dewpoint and astronomical context, analyze cloud
// cover, fog, pressure and wind, classify, hysteresis-filter, then append to
// history and emit an Inference alongside the next State.
func Observe(snapshot Snapshot, state State) (Inference, State, error) {
	next := state

	if !snapshot.OutdoorTemp.Valid {
		return Inference{}, state, newCoreError(ErrInsufficientInput, "outdoor_temp is required", nil)
	}
	if !snapshot.HumidityValid && !snapshot.Dewpoint.Valid {
		return Inference{}, state, newCoreError(ErrInsufficientInput, "humidity is required when no external dewpoint is supplied", nil)
	}
	if state.hasLast && snapshot.Timestamp.Before(state.lastTimestamp) {
		return Inference{}, state, newCoreError(ErrOutOfOrderObservation, "snapshot timestamp precedes the last observation", map[string]any{
			"last":    state.lastTimestamp,
			"current": snapshot.Timestamp,
		})
	}
	if snapshot.RainState != "" && snapshot.RainState != RainStateWet && snapshot.RainState != RainStateDry {
		return Inference{}, state, newCoreError(ErrInvalidRange, "rain_state must be \"wet\" or \"dry\"", map[string]any{
			"rain_state": snapshot.RainState,
		})
	}

	cs := canonicalize(snapshot)
	now := cs.timestamp

	var warnings []Warning

	if !cs.pressureValid {
		warnings = append(warnings, Warning{Code: WarningDegradedSensor, Message: "pressure not supplied; pressure-dependent analysis degraded"})
	}
	seaLevelInHg := stationToSeaLevel(cs.pressureInHg, cs.altitudeM, cs.pressureIsSeaLevel)

	dewpointF, degraded, err := resolveDewpoint(cs)
	if err != nil {
		return Inference{}, state, err
	}
	if degraded {
		warnings = append(warnings, Warning{Code: WarningDegradedSensor, Message: "external dewpoint exceeded outdoor temperature; clamped"})
	}
	dewpointSpreadF := cs.outdoorTempF - dewpointF

	solar := computeSolarContext(now, cs)

	radiationWindow := time.Duration(state.Config.SolarAvgWindowMinutes) * time.Minute
	next.radiationHistory = pruneRadiation(append(state.radiationHistory, radiationSample{Timestamp: now, ValueWm2: cs.solarRadiationWm2}), now, radiationWindow)
	smoothedRadiation := cs.solarRadiationWm2
	if cs.solarRadiationValid && len(next.radiationHistory) >= 3 {
		smoothedRadiation = averageRadiation(next.radiationHistory)
	}
	cs.solarRadiationWm2 = smoothedRadiation

	pressureTrend3hForClouds := state.Trends.PressureTrend(now, 3*time.Hour)
	clearFraction6h := state.Trends.clearFraction(now, 6*time.Hour)

	cloudIn := cloudCoverInputs{
		cfg:              state.Config,
		solar:            solar,
		pressureTrend3h:  pressureTrend3hForClouds,
		clearFraction6h:  clearFraction6h,
		isMorning:        isMorningHour(now),
		previousCoverPct: state.Derived.CloudCoverPct,
		hasPrevious:      state.hasLast,
	}
	cloudCoverPct, _ := computeCloudCover(cs, cloudIn)

	fogScore := computeFogScore(cs, dewpointSpreadF, solar.daytime, solar.expectedClearSkyWm2)
	fogClass := classifyFog(fogScore, cs.humidityPct)

	pw := analyzePressureWind(seaLevelInHg, cs, state.Trends, now)
	if pw.Trend3h.Insufficient || pw.Trend24h.Insufficient {
		warnings = append(warnings, Warning{Code: WarningInsufficientHistory, Message: "fewer than 3 samples in the pressure-trend horizon"})
	}

	candidate := classifyCondition(classifierInputs{
		cs:            cs,
		fogScore:      fogScore,
		fogClass:      fogClass,
		cloudCoverPct: cloudCoverPct,
		daytime:       solar.daytime,
		pw:            pw,
	})

	coverDelta := cloudCoverPct - state.Derived.CloudCoverPct
	if coverDelta < 0 {
		coverDelta = -coverDelta
	}
	if !state.hasLast {
		coverDelta = 0
	}
	finalCondition := applyHysteresis(candidate, coverDelta, state.Trends, now)

	// Copy the history so Insert/RecordCondition never write into the
	// caller's slices.
	next.Trends = TrendsStore{
		Samples:    append([]TrendSample(nil), state.Trends.Samples...),
		Conditions: append([]conditionRecord(nil), state.Trends.Conditions...),
	}
	next.Trends.Insert(TrendSample{
		Timestamp:         now,
		TemperatureF:      cs.outdoorTempF,
		HumidityPct:       cs.humidityPct,
		PressureInHg:      seaLevelInHg,
		WindSpeedMph:      cs.windSpeedMph,
		WindDirectionDeg:  cs.windDirectionDeg,
		SolarRadiationWm2: cs.solarRadiationWm2,
		Condition:         finalCondition,
	})
	next.Trends.RecordCondition(now, finalCondition)
	next.Trends.Evict(now)

	derived := DerivedState{
		DewpointF:            dewpointF,
		DewpointSpreadF:      dewpointSpreadF,
		Degraded:             degraded,
		SeaLevelPressureInHg: seaLevelInHg,
		CloudCoverPct:        cloudCoverPct,
		ExpectedClearSkyWm2:  solar.expectedClearSkyWm2,
		FogScore:             fogScore,
		FogClass:             fogClass,
		PressureSystem:       pw.System,
		PressureTrend3h:      pw.Trend3h.Slope,
		PressureTrend24h:     pw.Trend24h.Slope,
		StormProbability:     pw.StormProbability,
		WindClass:            pw.WindClass,
		GustFactor:           pw.GustFactor,
		GustClass:            pw.GustClass,
		IsDaytime:            solar.daytime,
		SolarElevationDeg:    solar.elevationDeg,
		ConditionRaw:         candidate,
		Condition:            finalCondition,
	}
	next.Derived = derived
	next.hasLast = true
	next.lastTimestamp = now
	next.lastCanonical = cs
	next.lastDirectionStability = pw.DirectionStability

	inference := Inference{
		Condition:         finalCondition,
		DewpointF:         dewpointF,
		CloudCoverPct:     cloudCoverPct,
		FogScore:          fogScore,
		Visibility:        classifyVisibility(fogClass, cs),
		PressureSeaLevel:  seaLevelInHg,
		PressureSystem:    pw.System,
		StormProbability:  pw.StormProbability,
		WindClass:         pw.WindClass,
		GustClass:         pw.GustClass,
		IsDaytime:         solar.daytime,
		SolarElevationDeg: solar.elevationDeg,
		Warnings:          warnings,
	}

	return inference, next, nil
}

// classifyVisibility derives the scenario-table visibility class (spec
// §8.3) from fog class and active precipitation.
func classifyVisibility(fog FogClass, cs canonicalSnapshot) VisibilityClass {
	switch fog {
	case FogDense:
		return VisibilityVeryLow
	case FogModerate:
		return VisibilityLow
	case FogLight:
		return VisibilityReduced
	}
	if cs.rainRateValid && cs.rainRateInPerHour >= 0.25 {
		return VisibilityLow
	}
	if cs.rainRateValid && cs.rainRateInPerHour > RainActiveThresholdInPerHour {
		return VisibilityReduced
	}
	return VisibilityClear
}

func pruneRadiation(samples []radiationSample, now time.Time, window time.Duration) []radiationSample {
	cutoff := now.Add(-window)
	kept := samples[:0:0]
	for _, s := range samples {
		if !s.Timestamp.Before(cutoff) {
			kept = append(kept, s)
		}
	}
	return kept
}

func averageRadiation(samples []radiationSample) float64 {
	var sum float64
	for _, s := range samples {
		sum += s.ValueWm2
	}
	return sum / float64(len(samples))
}

// sunWindowFor resolves the sunrise/sunset bounds used by the hourly
// forecast, falling back to the configured defaults when no astronomical
// lookup is wired in (spec §4.10.4).
func sunWindowFor(cfg Config, day time.Time) sunWindow {
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return sunWindow{
		Sunrise: midnight.Add(cfg.SunriseDefault),
		Sunset:  midnight.Add(cfg.SunsetDefault),
	}
}

// Forecast is the pure forecast entry point (spec §4.10/§6.1): consumes
// only the receiver's previous_state and is fully deterministic. It is a
// method (not a package function) to avoid colliding with the Forecast
// result type.
func (state State) Forecast() Forecast {
	base := buildForecastStateSnapshot(state.Derived, state.lastCanonical, pressureWindResultFromState(state))
	evo := computeEvolutionTrajectory(base)

	now := state.lastTimestamp

	var result Forecast
	for d := 0; d < 5; d++ {
		result.Daily[d] = computeDailyForecast(d, base, evo, state.Trends, now)
	}
	sun := sunWindowFor(state.Config, now)
	for h := 0; h < 24; h++ {
		result.Hourly[h] = computeHourlyForecast(h, base, evo, sun, now)
	}
	return result
}

func pressureWindResultFromState(state State) pressureWindResult {
	return pressureWindResult{
		System:             state.Derived.PressureSystem,
		Trend3h:            trendResult{Slope: state.Derived.PressureTrend3h},
		Trend24h:           trendResult{Slope: state.Derived.PressureTrend24h},
		StormProbability:   state.Derived.StormProbability,
		StormBand:          classifyStormBand(state.Derived.StormProbability),
		WindClass:          state.Derived.WindClass,
		GustFactor:         state.Derived.GustFactor,
		GustClass:          state.Derived.GustClass,
		DirectionStability: state.lastDirectionStability,
	}
}
