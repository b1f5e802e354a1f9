package weathercore

import (
	"testing"
	"time"
)

func sampleAt(base time.Time, minsAgo int, pressure float64) TrendSample {
	return TrendSample{Timestamp: base.Add(-time.Duration(minsAgo) * time.Minute), PressureInHg: pressure}
}

func TestInsertReplacesEqualTimestamp(t *testing.T) {
	var ts TrendsStore
	now := time.Now()
	ts.Insert(TrendSample{Timestamp: now, PressureInHg: 29.0})
	ts.Insert(TrendSample{Timestamp: now, PressureInHg: 30.0})
	if len(ts.Samples) != 1 {
		t.Fatalf("expected 1 sample after replacement, got %d", len(ts.Samples))
	}
	if ts.Samples[0].PressureInHg != 30.0 {
		t.Errorf("expected replaced value 30.0, got %v", ts.Samples[0].PressureInHg)
	}
}

func TestEvictDropsOldEntries(t *testing.T) {
	var ts TrendsStore
	now := time.Now()
	ts.Insert(TrendSample{Timestamp: now.Add(-200 * time.Hour), PressureInHg: 29.0})
	ts.Insert(TrendSample{Timestamp: now.Add(-1 * time.Hour), PressureInHg: 29.5})
	ts.Evict(now)
	if len(ts.Samples) != 1 {
		t.Fatalf("expected 1 sample after eviction, got %d", len(ts.Samples))
	}
}

func TestLinearTrendInsufficientBelowThreeSamples(t *testing.T) {
	now := time.Now()
	samples := []TrendSample{sampleAt(now, 60, 29.9), sampleAt(now, 30, 29.95)}
	res := linearTrend(samples, now, 3*time.Hour, func(s TrendSample) float64 { return s.PressureInHg })
	if !res.Insufficient {
		t.Errorf("expected insufficient with only 2 samples")
	}
}

func TestLinearTrendRisingPressure(t *testing.T) {
	now := time.Now()
	samples := []TrendSample{
		sampleAt(now, 180, 29.50),
		sampleAt(now, 120, 29.70),
		sampleAt(now, 60, 29.90),
		sampleAt(now, 0, 30.10),
	}
	res := linearTrend(samples, now, 3*time.Hour, func(s TrendSample) float64 { return s.PressureInHg })
	if res.Insufficient {
		t.Fatalf("expected sufficient samples")
	}
	if res.Slope <= 0 {
		t.Errorf("expected positive (rising) slope, got %v", res.Slope)
	}
}

func TestCircularWindStatsSteadyDirection(t *testing.T) {
	samples := []TrendSample{
		{WindDirectionDeg: 90}, {WindDirectionDeg: 91}, {WindDirectionDeg: 89},
	}
	stats := circularWindStats(samples)
	if stats.Stability < 0.99 {
		t.Errorf("expected high stability for near-constant direction, got %v", stats.Stability)
	}
}

func TestCircularWindStatsOpposingDirections(t *testing.T) {
	samples := []TrendSample{
		{WindDirectionDeg: 0}, {WindDirectionDeg: 180},
	}
	stats := circularWindStats(samples)
	if stats.Stability > 0.1 {
		t.Errorf("expected near-zero stability for opposing directions, got %v", stats.Stability)
	}
}

func TestVolatilityZeroForConstant(t *testing.T) {
	samples := []TrendSample{{PressureInHg: 29.9}, {PressureInHg: 29.9}, {PressureInHg: 29.9}}
	if v := volatility(samples, func(s TrendSample) float64 { return s.PressureInHg }); v != 0 {
		t.Errorf("expected zero volatility for constant series, got %v", v)
	}
}

func TestClearFractionComputesRatio(t *testing.T) {
	var ts TrendsStore
	now := time.Now()
	ts.RecordCondition(now.Add(-5*time.Hour), ConditionSunny)
	ts.RecordCondition(now.Add(-4*time.Hour), ConditionCloudy)
	ts.RecordCondition(now.Add(-3*time.Hour), ConditionClearNight)
	ts.RecordCondition(now.Add(-2*time.Hour), ConditionCloudy)
	frac := ts.clearFraction(now, 6*time.Hour)
	almostEqual(t, frac, 0.5, 1e-9)
}
