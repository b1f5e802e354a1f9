package weathercore

import "testing"

func almostEqual(t *testing.T, got, want, tol float64) {
	t.Helper()
	if got < want-tol || got > want+tol {
		t.Errorf("got %v, want %v (tol %v)", got, want, tol)
	}
}

func TestTemperatureRoundTrip(t *testing.T) {
	for _, f := range []float64{-40, 0, 32, 98.6, 212} {
		c := FahrenheitToCelsius(f)
		back := CelsiusToFahrenheit(c)
		almostEqual(t, back, f, 1e-9)
	}
}

func TestPressureRoundTrip(t *testing.T) {
	for _, inHg := range []float64{28.0, 29.92, 30.5} {
		hpa := InHgToHPa(inHg)
		back := HPaToInHg(hpa)
		almostEqual(t, back, inHg, 1e-6)
	}
}

func TestSpeedRoundTrip(t *testing.T) {
	for _, mph := range []float64{0, 10, 60} {
		almostEqual(t, KmhToMph(MphToKmh(mph)), mph, 1e-9)
		almostEqual(t, MsToMph(MphToMs(mph)), mph, 1e-9)
	}
}

func TestRateRoundTrip(t *testing.T) {
	for _, inH := range []float64{0, 0.05, 0.25, 2.0} {
		almostEqual(t, MmPerHourToInPerHour(InPerHourToMmPerHour(inH)), inH, 1e-9)
	}
}

func TestKnownConversions(t *testing.T) {
	almostEqual(t, InHgToHPa(1), 33.8639, 1e-4)
	almostEqual(t, MphToKmh(1), 1.60934, 1e-5)
}

func TestCanonicalizeDefaultsToImperial(t *testing.T) {
	s := Snapshot{
		OutdoorTemp: M(20.0, TemperatureCelsius),
		Pressure:    M(1013.25, PressureHPa),
		WindSpeed:   M(10.0, SpeedKmh),
	}
	cs := canonicalize(s)
	almostEqual(t, cs.outdoorTempF, 68.0, 0.01)
	almostEqual(t, cs.pressureInHg, 29.92, 0.01)
	almostEqual(t, cs.windSpeedMph, 6.2137, 0.01)
}
