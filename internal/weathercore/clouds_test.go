package weathercore

import "testing"

func baseCloudInputs() cloudCoverInputs {
	return cloudCoverInputs{
		cfg: Config{}.WithDefaults(),
		solar: solarContext{
			elevationDeg:        45,
			variation:           1.0,
			transmission:        0.8,
			expectedClearSkyWm2: 700,
		},
		pressureTrend3h: trendResult{Insufficient: true},
	}
}

func TestRelativeCloudCoverClearSky(t *testing.T) {
	cs := canonicalSnapshot{
		solarRadiationValid: true, solarRadiationWm2: 700,
		solarLuxValid: true, solarLux: 100000,
		uvIndexValid: true, uvIndex: 11,
	}
	cover, fallback := computeCloudCover(cs, baseCloudInputs())
	if fallback {
		t.Errorf("expected relative regime at 45 degree elevation")
	}
	if cover > 20 {
		t.Errorf("expected low cloud cover under full clear-sky radiation, got %v", cover)
	}
}

func TestRelativeCloudCoverOvercast(t *testing.T) {
	cs := canonicalSnapshot{
		solarRadiationValid: true, solarRadiationWm2: 20,
		solarLuxValid: true, solarLux: 2000,
	}
	cover, _ := computeCloudCover(cs, baseCloudInputs())
	if cover < 70 {
		t.Errorf("expected high cloud cover under low radiation, got %v", cover)
	}
}

func TestAbsoluteFallbackBelowElevationThreshold(t *testing.T) {
	in := baseCloudInputs()
	in.solar.elevationDeg = 10
	cs := canonicalSnapshot{solarRadiationValid: true, solarRadiationWm2: 30, solarLuxValid: true, solarLux: 1000}
	cover, fallback := computeCloudCover(cs, in)
	if !fallback {
		t.Errorf("expected absolute fallback regime below 15 degree elevation")
	}
	almostEqual(t, cover, 85, 1e-9)
}

func TestCloudCoverHysteresisCapsDelta(t *testing.T) {
	in := baseCloudInputs()
	in.hasPrevious = true
	in.previousCoverPct = 10
	in.solar.elevationDeg = 10
	cs := canonicalSnapshot{solarRadiationValid: true, solarRadiationWm2: 30, solarLuxValid: true, solarLux: 1000}
	cover, _ := computeCloudCover(cs, in)
	if cover > 10+cloudCoverMaxDeltaPerUpdate+1e-9 {
		t.Errorf("expected delta capped at %v, got jump to %v from 10", cloudCoverMaxDeltaPerUpdate, cover)
	}
}

func TestHistoricalClearBiasReducesFallbackCover(t *testing.T) {
	in := baseCloudInputs()
	in.solar.elevationDeg = 10
	in.clearFraction6h = 1.0
	cs := canonicalSnapshot{solarRadiationValid: true, solarRadiationWm2: 30, solarLuxValid: true, solarLux: 1000}
	cover, _ := computeCloudCover(cs, in)
	if cover >= 85 {
		t.Errorf("expected historical clear bias to reduce cover below the raw 85 fallback, got %v", cover)
	}
}

func TestPressureTrendNudgeShiftsCover(t *testing.T) {
	fallingIn := baseCloudInputs()
	fallingIn.pressureTrend3h = trendResult{Slope: -0.03}
	risingIn := baseCloudInputs()
	risingIn.pressureTrend3h = trendResult{Slope: 0.03}

	cs := canonicalSnapshot{solarRadiationValid: true, solarRadiationWm2: 350, solarLuxValid: true, solarLux: 50000}
	fallingCover, _ := computeCloudCover(cs, fallingIn)
	risingCover, _ := computeCloudCover(cs, risingIn)
	if !(fallingCover > risingCover) {
		t.Errorf("expected falling pressure to raise cloud cover relative to rising pressure: falling=%v rising=%v", fallingCover, risingCover)
	}
}
