package weathercore

// fog.go implements the Fog Scorer (spec §4.5): five additive weighted
// factors producing an integer score in [0,100] and a FogClass.

// computeFogScore is pipeline step 7 (spec §4.11). dewpointSpreadF is
// outdoor_temp_f - dewpoint_f; expectedClearSkyWm2 comes from the solar
// context computed in step 4.
func computeFogScore(cs canonicalSnapshot, dewpointSpreadF float64, daytime bool, expectedClearSkyWm2 float64) int {
	if !cs.humidityValid || cs.humidityPct < fogScoringHumidityMin {
		return 0
	}

	score := humidityFogFactor(cs.humidityPct) +
		spreadFogFactor(dewpointSpreadF) +
		windFogFactor(cs)

	if daytime {
		score += solarFogFactorDay(cs)
	} else {
		score += solarFogFactorNight(cs)
	}

	score += evapBonusFactor(cs.outdoorTempF, cs.humidityPct, dewpointSpreadF)

	if daytime && cs.solarRadiationValid && expectedClearSkyWm2 > 0 {
		if cs.solarRadiationWm2 > 0.5*expectedClearSkyWm2 {
			return 0
		}
	}

	return int(clamp(score, 0, 100))
}

func humidityFogFactor(humidityPct float64) float64 {
	switch {
	case humidityPct >= 98:
		return 40
	case humidityPct >= 95:
		return 30
	case humidityPct >= 92:
		return 20
	case humidityPct >= 88:
		return 10
	default:
		return 0
	}
}

func spreadFogFactor(spreadF float64) float64 {
	switch {
	case spreadF <= 0.5:
		return 30
	case spreadF <= 1.0:
		return 25
	case spreadF <= 2.0:
		return 15
	case spreadF <= 3.0:
		return 5
	default:
		return 0
	}
}

func windFogFactor(cs canonicalSnapshot) float64 {
	if !cs.windSpeedValid {
		return 0
	}
	switch {
	case cs.windSpeedMph <= 2:
		return 15
	case cs.windSpeedMph <= 5:
		return 10
	case cs.windSpeedMph <= 8:
		return 5
	default:
		return -10
	}
}

func solarFogFactorDay(cs canonicalSnapshot) float64 {
	if !cs.solarRadiationValid {
		return 0
	}
	switch {
	case cs.solarRadiationWm2 < 50:
		return 15
	case cs.solarRadiationWm2 < 150:
		return 10
	case cs.solarRadiationWm2 < 300:
		return 5
	default:
		return 0
	}
}

func solarFogFactorNight(cs canonicalSnapshot) float64 {
	if !cs.solarRadiationValid {
		return 0
	}
	switch {
	case cs.solarRadiationWm2 <= 2:
		return 10
	case cs.solarRadiationWm2 <= 10:
		return 5
	default:
		return -5
	}
}

func evapBonusFactor(tempF, humidityPct, spreadF float64) float64 {
	if tempF > 40 && humidityPct >= 95 && spreadF <= 2 {
		return fogEvapBonus
	}
	return 0
}

// classifyFog maps a fog score (and current humidity) to a FogClass per
// spec §4.5's classification table.
func classifyFog(score int, humidityPct float64) FogClass {
	switch {
	case score >= fogDenseThreshold:
		return FogDense
	case score >= fogModerateThreshold:
		return FogModerate
	case score >= fogLightThreshold && humidityPct >= fogLightHumidityMin:
		return FogLight
	default:
		return FogNone
	}
}
