package weathercore

import "math"

// computeDewpointF implements Magnus-Tetens (spec §4.2) on Celsius inputs
// and returns Fahrenheit. Callers must have already validated humidity is
// in (0, 100]; this function does not re-validate.
func computeDewpointF(tempF, humidityPct float64) float64 {
	tempC := FahrenheitToCelsius(tempF)
	gamma := math.Log(humidityPct/100) + (magnusA*tempC)/(magnusB+tempC)
	dewpointC := (magnusB * gamma) / (magnusA - gamma)
	return CelsiusToFahrenheit(dewpointC)
}

// resolveDewpoint picks between an externally measured dewpoint and a
// Magnus-Tetens computation, then clamps to satisfy the invariant
// dewpoint_f <= outdoor_temp_f (spec §3.6), flagging degraded snapshots.
//
// Returns (dewpointF, degraded, err). err is non-nil for ErrInsufficientInput
// (no external dewpoint and no humidity) and for ErrInvalidHumidity, both
// fatal per spec §7.
func resolveDewpoint(cs canonicalSnapshot) (float64, bool, error) {
	if cs.dewpointValid {
		dp := cs.dewpointF
		if dp > cs.outdoorTempF {
			return cs.outdoorTempF, true, nil
		}
		return dp, false, nil
	}

	if !cs.humidityValid {
		return 0, false, newCoreError(ErrInsufficientInput, "humidity required to compute dewpoint", nil)
	}
	if cs.humidityPct <= 0 || cs.humidityPct > 100 {
		return 0, false, newCoreError(ErrInvalidHumidity, "humidity must be in (0, 100]", map[string]any{"humidity": cs.humidityPct})
	}

	dp := computeDewpointF(cs.outdoorTempF, cs.humidityPct)
	if dp > cs.outdoorTempF {
		return cs.outdoorTempF, true, nil
	}
	return dp, false, nil
}
