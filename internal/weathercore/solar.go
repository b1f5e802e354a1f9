package weathercore

import (
	"math"
	"time"
)

// solar.go implements the astronomical clear-sky radiation model (spec
// §4.3): Earth-Sun distance variation, Gueymard-2003 air mass, multiplicative
// atmospheric extinction, and a solar-elevation estimator for stations with
// no elevation sensor.

// solarConstantVariation returns the Earth-Sun distance correction factor
// for the given day of year: 1 + 0.033*cos(2π(doy-4)/365.25).
func solarConstantVariation(dayOfYear int) float64 {
	return 1 + 0.033*math.Cos(2*math.Pi*(float64(dayOfYear)-4)/365.25)
}

// airMass implements the Gueymard-2003 relative optical air mass from the
// solar zenith angle Z = 90 - elevation (degrees). Returns +Inf for
// elevation <= 0, since the sun is below the horizon.
func airMass(elevationDeg float64) float64 {
	if elevationDeg <= 0 {
		return math.Inf(1)
	}
	zenithDeg := 90 - elevationDeg
	zenithRad := zenithDeg * math.Pi / 180
	denom := math.Cos(zenithRad) + 0.50572*math.Pow(96.07995-zenithDeg, -1.6364)
	if denom <= 0 {
		return math.Inf(1)
	}
	return 1 / denom
}

// atmosphericTransmission is the product of exp(-k_i*AM) over the
// Rayleigh/ozone/water-vapor/aerosol extinction coefficients.
func atmosphericTransmission(am float64) float64 {
	if math.IsInf(am, 1) {
		return 0
	}
	k := extinctionRayleigh + extinctionOzone + extinctionWaterVapor + extinctionAerosol
	return math.Exp(-k * am)
}

// clearSkyIrradianceWm2 computes the theoretical clear-sky irradiance at
// the given day-of-year and solar elevation: base*variation*transmission*
// sin(elevation).
func clearSkyIrradianceWm2(dayOfYear int, elevationDeg float64) float64 {
	if elevationDeg <= 0 {
		return 0
	}
	variation := solarConstantVariation(dayOfYear)
	am := airMass(elevationDeg)
	transmission := atmosphericTransmission(am)
	elevationRad := elevationDeg * math.Pi / 180
	return solarConstantWm2 * variation * transmission * math.Sin(elevationRad)
}

// estimateSolarElevationDeg infers an elevation when no sensor supplies one,
// bucketing by measured radiation magnitude per spec §4.3.
func estimateSolarElevationDeg(radiationWm2 float64) float64 {
	switch {
	case radiationWm2 >= 800:
		return 60
	case radiationWm2 >= 500:
		return 45
	case radiationWm2 >= 200:
		return 25
	default:
		return 15
	}
}

// resolveSolarElevationDeg returns the elevation to use for this update:
// the measured value if valid, otherwise an estimate from radiation.
func resolveSolarElevationDeg(cs canonicalSnapshot) float64 {
	if cs.solarElevationValid {
		return cs.solarElevationDeg
	}
	return estimateSolarElevationDeg(cs.solarRadiationWm2)
}

// isDaytime implements spec §4.3's daytime predicate: solar_radiation > 5
// W/m^2, OR solar_lux > 50 lx, OR uv_index > 0.1.
func isDaytime(cs canonicalSnapshot) bool {
	if cs.solarRadiationValid && cs.solarRadiationWm2 > 5 {
		return true
	}
	if cs.solarLuxValid && cs.solarLux > 50 {
		return true
	}
	if cs.uvIndexValid && cs.uvIndex > 0.1 {
		return true
	}
	return false
}

// solarContext bundles the per-update astronomical quantities every
// downstream analyzer (cloud cover, fog, classifier) consumes.
type solarContext struct {
	dayOfYear           int
	elevationDeg        float64
	variation           float64
	airMass             float64
	transmission        float64
	expectedClearSkyWm2 float64
	daytime             bool
}

// computeSolarContext is the step-4 stage of the pipeline (spec §2's data
// flow): resolves elevation, then derives every astronomical quantity used
// downstream.
func computeSolarContext(ts time.Time, cs canonicalSnapshot) solarContext {
	doy := ts.YearDay()
	elevation := resolveSolarElevationDeg(cs)
	variation := solarConstantVariation(doy)
	am := airMass(elevation)
	transmission := atmosphericTransmission(am)

	return solarContext{
		dayOfYear:           doy,
		elevationDeg:        elevation,
		variation:           variation,
		airMass:             am,
		transmission:        transmission,
		expectedClearSkyWm2: clearSkyIrradianceWm2(doy, elevation),
		daytime:             isDaytime(cs),
	}
}
