package weathercore

import (
	"math"
	"testing"
	"time"
)

func TestSolarConstantVariationBounds(t *testing.T) {
	for doy := 1; doy <= 365; doy++ {
		v := solarConstantVariation(doy)
		if v < 0.96 || v > 1.04 {
			t.Errorf("day %d: variation %v out of expected band", doy, v)
		}
	}
}

func TestAirMassInfiniteBelowHorizon(t *testing.T) {
	if !math.IsInf(airMass(0), 1) {
		t.Errorf("expected +Inf at elevation 0")
	}
	if !math.IsInf(airMass(-10), 1) {
		t.Errorf("expected +Inf at negative elevation")
	}
}

func TestAirMassDecreasesWithElevation(t *testing.T) {
	low := airMass(10)
	high := airMass(80)
	if !(low > high) {
		t.Errorf("expected air mass to decrease as elevation increases: low=%v high=%v", low, high)
	}
}

func TestAtmosphericTransmissionZeroWhenInfinite(t *testing.T) {
	if atmosphericTransmission(math.Inf(1)) != 0 {
		t.Errorf("expected zero transmission for infinite air mass")
	}
}

func TestClearSkyIrradianceZeroBelowHorizon(t *testing.T) {
	if clearSkyIrradianceWm2(172, 0) != 0 {
		t.Errorf("expected zero irradiance at elevation 0")
	}
	if clearSkyIrradianceWm2(172, -5) != 0 {
		t.Errorf("expected zero irradiance below horizon")
	}
}

func TestClearSkyIrradiancePositiveAboveHorizon(t *testing.T) {
	v := clearSkyIrradianceWm2(172, 60)
	if v <= 0 || v > solarConstantWm2 {
		t.Errorf("expected plausible irradiance, got %v", v)
	}
}

func TestEstimateSolarElevationBuckets(t *testing.T) {
	cases := []struct {
		radiation float64
		want      float64
	}{
		{900, 60}, {800, 60}, {600, 45}, {500, 45}, {300, 25}, {200, 25}, {50, 15}, {0, 15},
	}
	for _, c := range cases {
		if got := estimateSolarElevationDeg(c.radiation); got != c.want {
			t.Errorf("radiation %v: got elevation %v, want %v", c.radiation, got, c.want)
		}
	}
}

func TestIsDaytimePredicate(t *testing.T) {
	if isDaytime(canonicalSnapshot{}) {
		t.Errorf("expected nighttime with no valid solar fields")
	}
	if !isDaytime(canonicalSnapshot{solarRadiationValid: true, solarRadiationWm2: 6}) {
		t.Errorf("expected daytime from radiation > 5")
	}
	if !isDaytime(canonicalSnapshot{solarLuxValid: true, solarLux: 51}) {
		t.Errorf("expected daytime from lux > 50")
	}
	if !isDaytime(canonicalSnapshot{uvIndexValid: true, uvIndex: 0.2}) {
		t.Errorf("expected daytime from uv > 0.1")
	}
}

func TestComputeSolarContextUsesMeasuredElevation(t *testing.T) {
	cs := canonicalSnapshot{solarElevationValid: true, solarElevationDeg: 30}
	sc := computeSolarContext(time.Date(2026, 6, 21, 12, 0, 0, 0, time.UTC), cs)
	almostEqual(t, sc.elevationDeg, 30, 1e-9)
	if sc.expectedClearSkyWm2 <= 0 {
		t.Errorf("expected positive clear-sky irradiance at noon, got %v", sc.expectedClearSkyWm2)
	}
}
