package weathercore

import "testing"

func TestComputeFogScoreZeroBelowHumidityPrecondition(t *testing.T) {
	cs := canonicalSnapshot{humidityValid: true, humidityPct: 80}
	if score := computeFogScore(cs, 0.5, false, 0); score != 0 {
		t.Errorf("expected 0 below humidity precondition, got %v", score)
	}
}

func TestComputeFogScoreDenseConditions(t *testing.T) {
	cs := canonicalSnapshot{
		humidityValid: true, humidityPct: 99,
		windSpeedValid: true, windSpeedMph: 1,
		solarRadiationValid: true, solarRadiationWm2: 5,
	}
	score := computeFogScore(cs, 0.3, false, 0)
	if classifyFog(score, cs.humidityPct) != FogDense {
		t.Errorf("expected dense fog classification, got score %v -> %v", score, classifyFog(score, cs.humidityPct))
	}
}

func TestComputeFogScoreDaytimeSanityClamp(t *testing.T) {
	cs := canonicalSnapshot{
		humidityValid: true, humidityPct: 99,
		windSpeedValid: true, windSpeedMph: 1,
		solarRadiationValid: true, solarRadiationWm2: 600,
	}
	score := computeFogScore(cs, 0.3, true, 500)
	if score != 0 {
		t.Errorf("expected daytime sanity clamp to zero out the score, got %v", score)
	}
}

func TestEvapBonusAppliesOnlyWhenWarmAndHumid(t *testing.T) {
	if evapBonusFactor(45, 96, 1.5) != fogEvapBonus {
		t.Errorf("expected evap bonus to apply")
	}
	if evapBonusFactor(35, 96, 1.5) != 0 {
		t.Errorf("expected no evap bonus below temp threshold")
	}
}

func TestClassifyFogBands(t *testing.T) {
	cases := []struct {
		score    int
		humidity float64
		want     FogClass
	}{
		{80, 99, FogDense},
		{60, 99, FogModerate},
		{45, 96, FogLight},
		{45, 90, FogNone},
		{10, 99, FogNone},
	}
	for _, c := range cases {
		if got := classifyFog(c.score, c.humidity); got != c.want {
			t.Errorf("score=%d humidity=%v: got %v, want %v", c.score, c.humidity, got, c.want)
		}
	}
}
