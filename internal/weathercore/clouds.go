package weathercore

import "time"

// clouds.go implements the Cloud-Cover Analyzer (spec §4.4): solar radiation
// (primary), lux (secondary), and UV index (tertiary) combine into a
// cloud-cover percentage via astronomically-normalized relative thresholds
// above 15 degrees elevation, and graded absolute fallbacks below. Four
// ordered adjustments are then applied: luminance multiplier, pressure-trend
// nudge, historical clear bias, and a hysteresis cap on delta per update.

const cloudElevationRelativeThresholdDeg = 15.0

// cloudCoverInputs bundles everything computeCloudCover needs besides the
// canonical snapshot itself.
type cloudCoverInputs struct {
	cfg            Config
	solar          solarContext
	pressureTrend3h trendResult
	clearFraction6h float64
	isMorning       bool
	previousCoverPct float64
	hasPrevious      bool
}

// computeCloudCover is pipeline step 6 (spec §4.11).
func computeCloudCover(cs canonicalSnapshot, in cloudCoverInputs) (coverPct float64, usedAbsoluteFallback bool) {
	elevationFactor := clamp(1-in.solar.elevationDeg/90, 0, 1)
	m := clamp(in.cfg.LuminanceMultiplier, 0.1, 5.0)
	effective := 1 + (m-1)*elevationFactor

	radiation := cs.solarRadiationWm2 * effective
	lux := cs.solarLux * effective

	var raw float64
	if in.solar.elevationDeg >= cloudElevationRelativeThresholdDeg {
		raw = relativeCloudCover(cs, radiation, lux, in)
	} else {
		raw, usedAbsoluteFallback = absoluteCloudCoverFallback(cs, radiation, lux)
		if raw < 0 {
			raw = relativeCloudCover(cs, radiation, lux, in)
		}
	}

	raw = applyPressureTrendNudge(raw, in.pressureTrend3h)
	raw = applyHistoricalClearBias(raw, in, usedAbsoluteFallback || isSolarDegraded(cs))
	raw = applyCloudCoverHysteresis(raw, in.previousCoverPct, in.hasPrevious)

	return clamp(raw, 0, 100), usedAbsoluteFallback
}

// relativeCloudCover implements the >=15 degree elevation regime.
func relativeCloudCover(cs canonicalSnapshot, radiation, lux float64, in cloudCoverInputs) float64 {
	// expected = zenith_max * variation * transmission * sin(elevation), per
	// spec §4.4 — distinct from the solar-constant-scaled clear-sky figure.
	expected := in.cfg.ZenithMaxRadiationWm2 * in.solar.variation * in.solar.transmission * sinDeg(in.solar.elevationDeg)

	cloudSolar := clamp(100-100*radiation/maxFloat(expected, epsilon), 0, 100)
	cloudLux := clamp(100-100*lux/100000, 0, 100)
	cloudUV := clamp(100-100*cs.uvIndex/11, 0, 100)

	haveLux := cs.solarLuxValid
	haveUV := cs.uvIndexValid

	if radiation < 10 {
		if haveUV && lux < 1000 {
			return cloudUV
		}
		if haveLux && haveUV {
			return 0.9*cloudLux + 0.1*cloudUV
		}
		if haveLux {
			return cloudLux
		}
	}

	switch {
	case haveLux && haveUV:
		return 0.80*cloudSolar + 0.15*cloudLux + 0.05*cloudUV
	case haveLux:
		return 0.85*cloudSolar + 0.15*cloudLux
	default:
		return cloudSolar
	}
}

// absoluteCloudCoverFallback implements the graded table used below 15
// degree elevation or for an otherwise degraded relative calculation.
// Returns (-1, false) when none of the graded bands match, signalling the
// caller to fall back further to the relative formula.
func absoluteCloudCoverFallback(cs canonicalSnapshot, radiation, lux float64) (float64, bool) {
	uv := cs.uvIndex
	switch {
	case radiation < 50 && lux < 5000 && uv == 0:
		return 85, true
	case radiation < 100 && lux < 10000:
		return 70, true
	case radiation < 200 && lux < 20000 && uv < 1:
		return 40, true
	}
	return -1, false
}

// isSolarDegraded reports whether no solar reading (radiation, lux or UV)
// was supplied, qualifying the historical clear bias even in the relative
// regime.
func isSolarDegraded(cs canonicalSnapshot) bool {
	return !cs.solarRadiationValid && !cs.solarLuxValid && !cs.uvIndexValid
}

// applyPressureTrendNudge is adjustment 2: up to +10 on falling 3h
// pressure, up to -10 on rising.
func applyPressureTrendNudge(cover float64, trend trendResult) float64 {
	if trend.Insufficient {
		return cover
	}
	// Scale so a brisk 0.03 inHg/h trend reaches the full +/-10 point nudge.
	const scalePerInHgPerHour = 10.0 / 0.03
	nudge := clamp(-trend.Slope*scalePerInHgPerHour, -10, 10)
	return cover + nudge
}

// applyHistoricalClearBias is adjustment 3: subtract cloud points when
// recent history has trended clear, scaled by confidence and halved (floor
// 0.5) during morning hours. Applied only when the absolute fallback regime
// was used or solar data are degraded.
func applyHistoricalClearBias(cover float64, in cloudCoverInputs, eligible bool) float64 {
	if !eligible {
		return cover
	}
	highPressureBoost := 0.0
	if !in.pressureTrend3h.Insufficient && in.pressureTrend3h.Slope > 0 {
		highPressureBoost = 0.1
	}
	risingTrendBoost := 0.0
	if !in.pressureTrend3h.Insufficient && in.pressureTrend3h.Slope > 0.01 {
		risingTrendBoost = 0.1
	}

	strength := clamp(in.clearFraction6h+highPressureBoost+risingTrendBoost, 0, 1)
	if in.isMorning {
		// Resolves an ambiguous "halve, floor 0.5" reading as: the halving
		// factor is fixed at 0.5, not itself a variable with a floor.
		strength *= 0.5
	}

	switch {
	case strength > 0.7:
		return cover - clamp(strength*50, 0, 50)
	case strength > 0.5:
		return cover - clamp(strength*30, 0, 30)
	default:
		return cover
	}
}

// applyCloudCoverHysteresis is adjustment 4: cap the per-update delta at
// cloudCoverMaxDeltaPerUpdate, truncating excess toward the previous value.
func applyCloudCoverHysteresis(cover, previous float64, hasPrevious bool) float64 {
	if !hasPrevious {
		return cover
	}
	delta := cover - previous
	if delta > cloudCoverMaxDeltaPerUpdate {
		return previous + cloudCoverMaxDeltaPerUpdate
	}
	if delta < -cloudCoverMaxDeltaPerUpdate {
		return previous - cloudCoverMaxDeltaPerUpdate
	}
	return cover
}

// isMorningHour reports whether t's local hour falls in the morning band
// used to soften the historical clear bias.
func isMorningHour(t time.Time) bool {
	h := t.Hour()
	return h >= 5 && h < 10
}
