package weathercore

import "time"

// pressurewind.go implements the Pressure/Wind Analyzer (spec §4.7):
// pressure system banding, storm probability, gust factor/class, and wind
// class, all derived from the altitude-corrected sea-level pressure and the
// trends store's short/long pressure slopes.

// classifyPressureSystem bands sea-level pressure (inHg) per spec §4.7.
func classifyPressureSystem(seaLevelInHg float64) PressureSystem {
	switch {
	case seaLevelInHg > pressureBandVeryHigh:
		return PressureVeryHigh
	case seaLevelInHg > pressureBandHigh:
		return PressureHigh
	case seaLevelInHg < pressureBandExtreme:
		return PressureExtremelyLow
	case seaLevelInHg < pressureBandVeryLow:
		return PressureVeryLow
	case seaLevelInHg < pressureBandLow:
		return PressureLow
	default:
		return PressureNormal
	}
}

// classifyWindClass bands sustained wind speed (mph) per spec §4.7.
func classifyWindClass(windSpeedMph float64) WindClass {
	switch {
	case windSpeedMph < windBandCalmMax:
		return WindCalm
	case windSpeedMph <= windBandLightMax:
		return WindLight
	case windSpeedMph >= windBandGaleMin:
		return WindGale
	case windSpeedMph >= windBandStrongLo:
		return WindStrong
	default:
		return WindLight
	}
}

// gustFactor is wind_gust/max(wind_speed, epsilon).
func gustFactor(windSpeedMph, windGustMph float64) float64 {
	return windGustMph / maxFloat(windSpeedMph, epsilon)
}

// classifyGust bands the gust factor and absolute gust speed per §4.7.
func classifyGust(factor, gustMph float64) GustClass {
	switch {
	case (factor > 3.0 && gustMph > 20) || gustMph > 40:
		return GustSevereTurbulence
	case factor > 2.0 && gustMph > 15:
		return GustVeryGusty
	case factor > 1.5 && gustMph > 10:
		return GustGusty
	default:
		return GustNone
	}
}

// stormProbability combines the 3h/24h pressure trends, pressure system
// band, and gust factor into a [0,100] storm likelihood (spec §4.7).
func stormProbability(trend3h, trend24h trendResult, system PressureSystem, gf float64) float64 {
	score := 0.0

	if !trend3h.Insufficient && trend3h.Slope < 0 {
		// Each 0.01 inHg/h of negative 3h trend adds points.
		score += (-trend3h.Slope / 0.01) * 8
	}
	if !trend24h.Insufficient && trend24h.Slope < 0 {
		score += (-trend24h.Slope / 0.01) * 3
	}

	switch system {
	case PressureVeryLow:
		score += 20
	case PressureExtremelyLow:
		score += 35
	}

	if gf > 2 {
		score += 15
	}

	return clamp(score, 0, 100)
}

// stormClassBand is the thresholded classification spec §4.7 names for
// storm_probability: severe >=70, elevated >=40.
type stormClassBand string

const (
	stormBandNone     stormClassBand = "none"
	stormBandElevated stormClassBand = "elevated"
	stormBandSevere   stormClassBand = "severe"
)

func classifyStormBand(prob float64) stormClassBand {
	switch {
	case prob >= 70:
		return stormBandSevere
	case prob >= 40:
		return stormBandElevated
	default:
		return stormBandNone
	}
}

// pressureWindResult bundles everything the classifier and forecast engine
// need from this stage.
type pressureWindResult struct {
	System          PressureSystem
	Trend3h         trendResult
	Trend24h        trendResult
	StormProbability float64
	StormBand        stormClassBand
	WindClass        WindClass
	GustFactor       float64
	GustClass        GustClass
	DirectionStability float64
}

// analyzePressureWind is pipeline step 8 (spec §4.11).
func analyzePressureWind(seaLevelInHg float64, cs canonicalSnapshot, store TrendsStore, now time.Time) pressureWindResult {
	trend3h := store.PressureTrend(now, 3*time.Hour)
	trend24h := store.PressureTrend(now, 24*time.Hour)
	system := classifyPressureSystem(seaLevelInHg)

	gf := 0.0
	if cs.windSpeedValid && cs.windGustValid {
		gf = gustFactor(cs.windSpeedMph, cs.windGustMph)
	}

	prob := stormProbability(trend3h, trend24h, system, gf)

	windClass := WindCalm
	if cs.windSpeedValid {
		windClass = classifyWindClass(cs.windSpeedMph)
	}

	gustClass := GustNone
	if cs.windSpeedValid && cs.windGustValid {
		gustClass = classifyGust(gf, cs.windGustMph)
	}

	dirSamples := store.window(now, 3*time.Hour)
	stability := circularWindStats(dirSamples).Stability

	return pressureWindResult{
		System:             system,
		Trend3h:            trend3h,
		Trend24h:           trend24h,
		StormProbability:   prob,
		StormBand:          classifyStormBand(prob),
		WindClass:          windClass,
		GustFactor:         gf,
		GustClass:          gustClass,
		DirectionStability: stability,
	}
}
