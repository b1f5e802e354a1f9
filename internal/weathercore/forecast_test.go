package weathercore

import (
	"testing"
	"time"
)

func TestLadderIndexAndAtRoundTrip(t *testing.T) {
	for _, c := range conditionLadder {
		if ladderAt(ladderIndex(c)) != c {
			t.Errorf("ladder round-trip failed for %v", c)
		}
	}
}

func TestLadderAtClampsOutOfRange(t *testing.T) {
	if ladderAt(-5) != ConditionSunny {
		t.Errorf("expected clamp to lowest tier")
	}
	if ladderAt(100) != ConditionPouring {
		t.Errorf("expected clamp to highest tier")
	}
}

func TestAtmosphericStabilityBaseline(t *testing.T) {
	s := atmosphericStability(0, false, 0, false, 0, false)
	almostEqual(t, s, 0.5, 1e-9)
}

func TestAtmosphericStabilityAllBoostsStack(t *testing.T) {
	s := atmosphericStability(1, true, 3, true, 80, true)
	almostEqual(t, s, 0.95, 1e-9)
}

func TestAtmosphericStabilityWindyReducesScore(t *testing.T) {
	s := atmosphericStability(0, true, 20, true, 0, false)
	if s >= 0.7 {
		t.Errorf("expected strong wind to reduce stability, got %v", s)
	}
}

func TestComputeEvolutionTrajectoryRisingPressureIsPositive(t *testing.T) {
	s := forecastStateSnapshot{pressureTrend24h: 0.02, atmosphericStability: 0.8}
	evo := computeEvolutionTrajectory(s)
	if evo.TrajectoryScore <= 0 {
		t.Errorf("expected positive trajectory for rising pressure and high stability, got %v", evo.TrajectoryScore)
	}
}

func TestComputeEvolutionTrajectoryFallingPressureIsNegative(t *testing.T) {
	s := forecastStateSnapshot{pressureTrend24h: -0.05, atmosphericStability: 0.3}
	evo := computeEvolutionTrajectory(s)
	if evo.TrajectoryScore >= 0 {
		t.Errorf("expected negative trajectory for falling pressure and low stability, got %v", evo.TrajectoryScore)
	}
}

func TestComputeDailyForecastDay0StormOverride(t *testing.T) {
	base := forecastStateSnapshot{stormProbability: 80, currentTempF: 60, atmosphericStability: 0.5}
	evo := evolutionResult{StepPerHour: 0.02}
	var history TrendsStore
	df := computeDailyForecast(0, base, evo, history, time.Now())
	if df.Condition != ConditionLightningRainy {
		t.Errorf("expected forced lightning_rainy at day 0 with storm_probability>=70, got %v", df.Condition)
	}
}

func TestComputeDailyForecastHighExceedsLow(t *testing.T) {
	base := forecastStateSnapshot{currentTempF: 60, atmosphericStability: 0.6, windDirectionStability: 0.5}
	evo := evolutionResult{StepPerHour: 0.02}
	var history TrendsStore
	df := computeDailyForecast(2, base, evo, history, time.Now())
	if df.TempHigh < df.TempLow {
		t.Errorf("expected high >= low, got high=%v low=%v", df.TempHigh, df.TempLow)
	}
}

func TestComputeHourlyForecastNightRewritesSunny(t *testing.T) {
	now := time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC)
	sun := sunWindow{Sunrise: now.Add(6 * time.Hour), Sunset: now.Add(18 * time.Hour)}
	base := forecastStateSnapshot{currentTempF: 60, atmosphericStability: 0.5, ladderPosition: 0}
	evo := evolutionResult{StepPerHour: 0}
	hf := computeHourlyForecast(1, base, evo, sun, now)
	if hf.Condition != ConditionClearNight {
		t.Errorf("expected sunny rewritten to clear_night at night, got %v", hf.Condition)
	}
}

func TestComputeHourlyForecastDaytimeKeepsSunny(t *testing.T) {
	now := time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC)
	sun := sunWindow{Sunrise: now.Add(6 * time.Hour), Sunset: now.Add(18 * time.Hour)}
	base := forecastStateSnapshot{currentTempF: 60, atmosphericStability: 0.5, ladderPosition: 0}
	evo := evolutionResult{StepPerHour: 0}
	hf := computeHourlyForecast(12, base, evo, sun, now)
	if hf.Condition != ConditionSunny {
		t.Errorf("expected sunny retained at midday, got %v", hf.Condition)
	}
}

func TestIsDaytimeAtBounds(t *testing.T) {
	sun := sunWindow{Sunrise: time.Date(2026, 1, 1, 6, 0, 0, 0, time.UTC), Sunset: time.Date(2026, 1, 1, 18, 0, 0, 0, time.UTC)}
	if isDaytimeAt(time.Date(2026, 1, 1, 5, 0, 0, 0, time.UTC), sun) {
		t.Errorf("expected nighttime before sunrise")
	}
	if !isDaytimeAt(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), sun) {
		t.Errorf("expected daytime at noon")
	}
}

func TestInterpolatedElevationPeaksAtSolarNoonAndZeroAtNight(t *testing.T) {
	sun := sunWindow{Sunrise: time.Date(2026, 6, 21, 6, 0, 0, 0, time.UTC), Sunset: time.Date(2026, 6, 21, 18, 0, 0, 0, time.UTC)}
	noon := interpolatedElevation(time.Date(2026, 6, 21, 12, 0, 0, 0, time.UTC), sun)
	almostEqual(t, noon, 90, 1e-9)
	if e := interpolatedElevation(time.Date(2026, 6, 21, 2, 0, 0, 0, time.UTC), sun); e != 0 {
		t.Errorf("expected zero elevation at night, got %v", e)
	}
}

func TestComputeHourlyForecastUsesSolarElevationToScaleDiurnalSwing(t *testing.T) {
	now := time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC)
	sun := sunWindow{Sunrise: now.Add(6 * time.Hour), Sunset: now.Add(18 * time.Hour)}
	base := forecastStateSnapshot{currentTempF: 60, atmosphericStability: 1}
	evo := evolutionResult{StepPerHour: 0}

	atNoon := computeHourlyForecast(12, base, evo, sun, now)
	atSunrise := computeHourlyForecast(6, base, evo, sun, now)

	noonSwing := atNoon.Temperature - base.currentTempF
	sunriseSwing := atSunrise.Temperature - base.currentTempF
	if noonSwing <= sunriseSwing {
		t.Errorf("expected solar-noon diurnal swing (%v) to exceed sunrise swing (%v)", noonSwing, sunriseSwing)
	}
}

func TestConvergeToClampsAndMoves(t *testing.T) {
	got := convergeTo(50, 90, 0.5)
	almostEqual(t, got, 70, 1e-9)
	if v := convergeTo(50, 200, 2); v != 100 {
		t.Errorf("expected clamp to 100, got %v", v)
	}
}
