package weathercore

import "testing"

func TestComputeDewpointFKnownValue(t *testing.T) {
	// 68F/20C at 50% RH has a dewpoint near 48.7F/9.3C.
	dp := computeDewpointF(68.0, 50.0)
	almostEqual(t, dp, 48.6, 1.0)
}

func TestComputeDewpointFSaturation(t *testing.T) {
	dp := computeDewpointF(68.0, 100.0)
	almostEqual(t, dp, 68.0, 0.01)
}

func TestResolveDewpointPrefersExternal(t *testing.T) {
	cs := canonicalSnapshot{outdoorTempF: 70, dewpointF: 55, dewpointValid: true}
	dp, degraded, err := resolveDewpoint(cs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if degraded {
		t.Errorf("expected not degraded")
	}
	almostEqual(t, dp, 55, 1e-9)
}

func TestResolveDewpointClampsImplausibleExternal(t *testing.T) {
	cs := canonicalSnapshot{outdoorTempF: 70, dewpointF: 80, dewpointValid: true}
	dp, degraded, err := resolveDewpoint(cs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !degraded {
		t.Errorf("expected degraded flag when dewpoint exceeds temperature")
	}
	almostEqual(t, dp, 70, 1e-9)
}

func TestResolveDewpointComputesFromHumidity(t *testing.T) {
	cs := canonicalSnapshot{outdoorTempF: 68, humidityPct: 50, humidityValid: true}
	dp, degraded, err := resolveDewpoint(cs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if degraded {
		t.Errorf("expected not degraded")
	}
	if dp >= cs.outdoorTempF {
		t.Errorf("dewpoint %v should be below temperature %v", dp, cs.outdoorTempF)
	}
}

func TestResolveDewpointRejectsInvalidHumidity(t *testing.T) {
	for _, h := range []float64{0, -5, 100.1, 150} {
		cs := canonicalSnapshot{outdoorTempF: 68, humidityPct: h, humidityValid: true}
		_, _, err := resolveDewpoint(cs)
		if err == nil {
			t.Fatalf("expected error for humidity %v", h)
		}
		ce, ok := err.(*CoreError)
		if !ok {
			t.Fatalf("expected *CoreError, got %T", err)
		}
		if ce.Code != ErrInvalidHumidity {
			t.Errorf("expected ErrInvalidHumidity, got %v", ce.Code)
		}
	}
}

func TestResolveDewpointRequiresHumidityWhenNoExternal(t *testing.T) {
	cs := canonicalSnapshot{outdoorTempF: 68}
	_, _, err := resolveDewpoint(cs)
	if err == nil {
		t.Fatalf("expected error when neither dewpoint nor humidity provided")
	}
}
