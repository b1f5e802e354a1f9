package weathercore

// classifier.go implements the Condition Classifier priority ladder (spec
// §4.8): evaluated top to bottom, first match wins.

// classifierInputs bundles every derived quantity the ladder branches on.
type classifierInputs struct {
	cs            canonicalSnapshot
	fogScore      int
	fogClass      FogClass
	cloudCoverPct float64
	daytime       bool
	pw            pressureWindResult
}

// classifyCondition runs the seven-priority ladder (spec §4.8) and returns
// the pre-hysteresis candidate condition.
func classifyCondition(in classifierInputs) Condition {
	if c, ok := classifyActivePrecipitation(in); ok {
		return c
	}
	if in.fogClass != FogNone {
		return ConditionFog
	}
	if c, ok := classifySevereWeather(in); ok {
		return c
	}
	if in.daytime {
		c := classifyDaytimeCloudCover(in.cloudCoverPct)
		if c == ConditionSunny && wantsClearSkyWindyOverride(in) {
			return ConditionWindy
		}
		return c
	}
	if c, ok := classifyTwilight(in); ok {
		return c
	}
	return classifyNighttime(in)
}

func isVeryGusty(pw pressureWindResult) bool {
	return pw.GustClass == GustVeryGusty || pw.GustClass == GustSevereTurbulence
}

// pressureAtOrBelow reports whether the banded pressure system is at or
// below the named band, matching spec §4.8's raw numeric thresholds
// (pressure < 29.50 means "very_low or extremely_low").
func pressureAtOrBelow(system PressureSystem, band PressureSystem) bool {
	order := map[PressureSystem]int{
		PressureVeryHigh: 5, PressureHigh: 4, PressureNormal: 3,
		PressureLow: 2, PressureVeryLow: 1, PressureExtremelyLow: 0,
	}
	return order[system] <= order[band]
}

// classifyActivePrecipitation is priority 1.
func classifyActivePrecipitation(in classifierInputs) (Condition, bool) {
	cs := in.cs
	rainRateActive := cs.rainRateValid && cs.rainRateInPerHour > RainActiveThresholdInPerHour
	wetNoFog := cs.rainState == RainStateWet && in.fogClass == FogNone

	if !rainRateActive && !wetNoFog {
		return "", false
	}

	switch {
	case cs.outdoorTempF <= 32:
		return ConditionSnowy, true
	case cs.pressureValid && (in.pw.System == PressureExtremelyLow ||
		(pressureAtOrBelow(in.pw.System, PressureVeryLow) && cs.windSpeedValid && cs.windSpeedMph >= 19 && cs.rainRateValid && cs.rainRateInPerHour > 0.1) ||
		(pressureAtOrBelow(in.pw.System, PressureVeryLow) && isVeryGusty(in.pw) && cs.rainRateValid && cs.rainRateInPerHour > 0.25)):
		return ConditionLightningRainy, true
	case cs.rainRateValid && cs.rainRateInPerHour >= 0.25:
		return ConditionPouring, true
	default:
		return ConditionRainy, true
	}
}

// classifySevereWeather is priority 3 (dry severe weather).
func classifySevereWeather(in classifierInputs) (Condition, bool) {
	cs := in.cs
	pw := in.pw

	if pressureAtOrBelow(in.pw.System, PressureVeryLow) && cs.windSpeedValid && cs.windSpeedMph >= 19 &&
		pw.GustFactor > 2 && cs.windGustValid && cs.windGustMph > 15 {
		return ConditionLightning, true
	}
	if (pw.GustFactor > 3 && cs.windGustValid && cs.windGustMph > 20) ||
		(cs.windGustValid && cs.windGustMph > 40) {
		return ConditionLightning, true
	}
	if cs.windSpeedValid && cs.windSpeedMph >= 32 {
		return ConditionWindy, true
	}
	return "", false
}

// classifyDaytimeCloudCover is priority 4.
func classifyDaytimeCloudCover(coverPct float64) Condition {
	switch {
	case coverPct <= 30:
		return ConditionSunny
	case coverPct <= 60:
		return ConditionPartlyCloudy
	default:
		return ConditionCloudy
	}
}

// wantsClearSkyWindyOverride is priority 5: replaces a sunny daytime
// classification with windy when winds are strong enough.
func wantsClearSkyWindyOverride(in classifierInputs) bool {
	cs := in.cs
	if !cs.windSpeedValid {
		return false
	}
	if cs.windSpeedMph >= 19 {
		return true
	}
	return isVeryGusty(in.pw) && cs.windSpeedMph >= 8
}

// classifyTwilight is priority 6.
func classifyTwilight(in classifierInputs) (Condition, bool) {
	cs := in.cs
	luxTwilight := cs.solarLuxValid && cs.solarLux > 10 && cs.solarLux < 100
	radiationTwilight := cs.solarRadiationValid && cs.solarRadiationWm2 > 1 && cs.solarRadiationWm2 < 50

	if !luxTwilight && !radiationTwilight {
		return "", false
	}

	if cs.solarLuxValid && cs.solarLux > 50 && in.pw.System == PressureNormal {
		return ConditionPartlyCloudy, true
	}
	return ConditionCloudy, true
}

// classifyNighttime is priority 7: first-match cascade.
func classifyNighttime(in classifierInputs) Condition {
	cs := in.cs
	pw := in.pw
	humidity := cs.humidityPct
	wind := cs.windSpeedMph
	haveWind := cs.windSpeedValid
	haveHumidity := cs.humidityValid

	switch {
	case pw.System == PressureLow && haveHumidity && humidity > 90 && haveWind && wind < 3:
		return ConditionCloudy
	case pw.System == PressureVeryHigh && haveWind && wind < 1 && haveHumidity && humidity < 70:
		return ConditionClearNight
	case pw.System == PressureHigh && !isVeryGusty(pw) && pw.GustClass != GustGusty && haveHumidity && humidity < 80:
		return ConditionClearNight
	case pw.System == PressureLow && haveHumidity && humidity < 65:
		return ConditionClearNight
	case pw.System == PressureNormal && haveWind && wind >= 1 && wind < 8 && haveHumidity && humidity < 85:
		return ConditionPartlyCloudyNight
	case pw.System == PressureLow && haveHumidity && humidity < 90:
		return ConditionPartlyCloudyNight
	case haveHumidity && humidity > 90:
		return ConditionCloudy
	default:
		return ConditionPartlyCloudyNight
	}
}
