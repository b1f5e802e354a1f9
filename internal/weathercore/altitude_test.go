package weathercore

import "testing"

func TestStationToSeaLevelNoCorrection(t *testing.T) {
	almostEqual(t, stationToSeaLevel(29.92, 0, false), 29.92, 1e-9)
	almostEqual(t, stationToSeaLevel(29.92, 500, true), 29.92, 1e-9)
	almostEqual(t, stationToSeaLevel(29.92, -10, false), 29.92, 1e-9)
}

func TestStationToSeaLevelRaisesPressure(t *testing.T) {
	corrected := stationToSeaLevel(28.0, 1000, false)
	if corrected <= 28.0 {
		t.Errorf("expected sea-level pressure to exceed station pressure at altitude, got %v", corrected)
	}
}

func TestBarometricRoundTrip(t *testing.T) {
	station := 28.5
	altitude := 1200.0
	seaLevel := stationToSeaLevel(station, altitude, false)
	back := seaLevelToStation(seaLevel, altitude)
	almostEqual(t, back, station, 0.01)
}
