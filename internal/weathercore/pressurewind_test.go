package weathercore

import (
	"testing"
	"time"
)

func TestClassifyPressureSystemBands(t *testing.T) {
	cases := []struct {
		p    float64
		want PressureSystem
	}{
		{30.25, PressureVeryHigh},
		{30.05, PressureHigh},
		{30.00, PressureNormal},
		{29.85, PressureNormal},
		{29.75, PressureLow},
		{29.40, PressureVeryLow},
		{29.00, PressureExtremelyLow},
	}
	for _, c := range cases {
		if got := classifyPressureSystem(c.p); got != c.want {
			t.Errorf("pressure %v: got %v, want %v", c.p, got, c.want)
		}
	}
}

func TestClassifyWindClassBands(t *testing.T) {
	cases := []struct {
		mph  float64
		want WindClass
	}{
		{0.5, WindCalm}, {4, WindLight}, {7, WindLight}, {25, WindStrong}, {32, WindGale}, {40, WindGale},
	}
	for _, c := range cases {
		if got := classifyWindClass(c.mph); got != c.want {
			t.Errorf("wind %v: got %v, want %v", c.mph, got, c.want)
		}
	}
}

func TestGustFactorAvoidsDivByZero(t *testing.T) {
	gf := gustFactor(0, 20)
	if gf <= 0 {
		t.Errorf("expected positive gust factor even with zero sustained wind")
	}
}

func TestClassifyGustBands(t *testing.T) {
	if classifyGust(1.0, 5) != GustNone {
		t.Errorf("expected GustNone for mild conditions")
	}
	if classifyGust(1.6, 12) != GustGusty {
		t.Errorf("expected GustGusty")
	}
	if classifyGust(2.5, 18) != GustVeryGusty {
		t.Errorf("expected GustVeryGusty")
	}
	if classifyGust(3.5, 25) != GustSevereTurbulence {
		t.Errorf("expected GustSevereTurbulence from factor+speed")
	}
	if classifyGust(1.0, 45) != GustSevereTurbulence {
		t.Errorf("expected GustSevereTurbulence from absolute gust speed alone")
	}
}

func TestStormProbabilityRisesWithFallingPressureAndLowBand(t *testing.T) {
	prob := stormProbability(trendResult{Slope: -0.05}, trendResult{Slope: -0.02}, PressureExtremelyLow, 2.5)
	if prob < 40 {
		t.Errorf("expected elevated-or-severe storm probability, got %v", prob)
	}
}

func TestStormProbabilityZeroForCalmStableConditions(t *testing.T) {
	prob := stormProbability(trendResult{Insufficient: true}, trendResult{Insufficient: true}, PressureNormal, 1.0)
	if prob != 0 {
		t.Errorf("expected zero storm probability for calm conditions, got %v", prob)
	}
}

func TestAnalyzePressureWindProducesBands(t *testing.T) {
	var store TrendsStore
	now := time.Now()
	store.Insert(TrendSample{Timestamp: now.Add(-3 * time.Hour), PressureInHg: 30.10})
	store.Insert(TrendSample{Timestamp: now.Add(-2 * time.Hour), PressureInHg: 29.95})
	store.Insert(TrendSample{Timestamp: now.Add(-1 * time.Hour), PressureInHg: 29.80})
	store.Insert(TrendSample{Timestamp: now, PressureInHg: 29.60})

	cs := canonicalSnapshot{windSpeedValid: true, windSpeedMph: 10, windGustValid: true, windGustMph: 18}
	res := analyzePressureWind(29.60, cs, store, now)
	if res.Trend3h.Insufficient {
		t.Errorf("expected sufficient 3h trend with 4 samples")
	}
	if res.System != PressureLow {
		t.Errorf("expected PressureLow at 29.60, got %v", res.System)
	}
}
