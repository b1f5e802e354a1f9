package weathercore

import (
	"testing"
	"time"
)

func baseSnapshot(at time.Time) Snapshot {
	return Snapshot{
		OutdoorTemp:   M(68.0, TemperatureFahrenheit),
		Humidity:      55,
		HumidityValid: true,
		Pressure:      M(29.92, PressureInHg),
		WindSpeed:     M(5, SpeedMph),
		Timestamp:     at,
	}
}

func TestObserveRejectsMissingOutdoorTemp(t *testing.T) {
	state := NewState(Config{})
	snap := Snapshot{HumidityValid: true, Humidity: 50, Timestamp: time.Now()}
	_, _, err := Observe(snap, state)
	if err == nil {
		t.Fatalf("expected error for missing outdoor_temp")
	}
	ce := err.(*CoreError)
	if ce.Code != ErrInsufficientInput {
		t.Errorf("expected ErrInsufficientInput, got %v", ce.Code)
	}
}

func TestObserveRejectsMissingHumidityAndDewpoint(t *testing.T) {
	state := NewState(Config{})
	snap := Snapshot{OutdoorTemp: M(60, TemperatureFahrenheit), Timestamp: time.Now()}
	_, _, err := Observe(snap, state)
	if err == nil {
		t.Fatalf("expected error for missing humidity and dewpoint")
	}
}

func TestObserveRejectsOutOfOrderTimestamp(t *testing.T) {
	state := NewState(Config{})
	now := time.Now()
	_, state, err := Observe(baseSnapshot(now), state)
	if err != nil {
		t.Fatalf("unexpected error on first observation: %v", err)
	}
	_, _, err = Observe(baseSnapshot(now.Add(-time.Minute)), state)
	if err == nil {
		t.Fatalf("expected OutOfOrderObservation error")
	}
	ce := err.(*CoreError)
	if ce.Code != ErrOutOfOrderObservation {
		t.Errorf("expected ErrOutOfOrderObservation, got %v", ce.Code)
	}
}

func TestObserveEmitsValidConditionAndUpdatesState(t *testing.T) {
	state := NewState(Config{})
	now := time.Now()
	inf, next, err := Observe(baseSnapshot(now), state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inf.Condition.Valid() {
		t.Errorf("expected a valid condition, got %q", inf.Condition)
	}
	if len(next.Trends.Samples) != 1 {
		t.Errorf("expected one trend sample recorded, got %d", len(next.Trends.Samples))
	}
	if inf.CloudCoverPct < 0 || inf.CloudCoverPct > 100 {
		t.Errorf("cloud cover out of range: %v", inf.CloudCoverPct)
	}
	if inf.FogScore < 0 || inf.FogScore > 100 {
		t.Errorf("fog score out of range: %v", inf.FogScore)
	}
}

func TestObserveSequenceAdvancesTimeMonotonically(t *testing.T) {
	state := NewState(Config{})
	now := time.Now()
	var err error
	for i := 0; i < 5; i++ {
		_, state, err = Observe(baseSnapshot(now.Add(time.Duration(i)*time.Hour)), state)
		if err != nil {
			t.Fatalf("unexpected error at step %d: %v", i, err)
		}
	}
	if len(state.Trends.Samples) != 5 {
		t.Errorf("expected 5 retained samples, got %d", len(state.Trends.Samples))
	}
}

func TestForecastProducesFullHorizons(t *testing.T) {
	state := NewState(Config{})
	now := time.Now()
	_, state, err := Observe(baseSnapshot(now), state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fc := state.Forecast()
	for i, d := range fc.Daily {
		if !d.Condition.Valid() {
			t.Errorf("daily[%d] condition invalid: %q", i, d.Condition)
		}
	}
	for i, h := range fc.Hourly {
		if !h.Condition.Valid() {
			t.Errorf("hourly[%d] condition invalid: %q", i, h.Condition)
		}
	}
}

func TestObserveRejectsInvalidRainState(t *testing.T) {
	state := NewState(Config{})
	snap := baseSnapshot(time.Now())
	snap.RainState = RainState("raining")
	_, _, err := Observe(snap, state)
	if err == nil {
		t.Fatalf("expected error for invalid rain_state")
	}
	ce := err.(*CoreError)
	if ce.Code != ErrInvalidRange {
		t.Errorf("expected ErrInvalidRange, got %v", ce.Code)
	}
}

func TestObserveAcceptsValidRainStates(t *testing.T) {
	for _, rs := range []RainState{"", RainStateWet, RainStateDry} {
		state := NewState(Config{})
		snap := baseSnapshot(time.Now())
		snap.RainState = rs
		if _, _, err := Observe(snap, state); err != nil {
			t.Errorf("rain_state %q: unexpected error: %v", rs, err)
		}
	}
}

func TestObserveInvalidHumidityFailsFatally(t *testing.T) {
	state := NewState(Config{})
	snap := Snapshot{OutdoorTemp: M(60, TemperatureFahrenheit), HumidityValid: true, Humidity: 150, Timestamp: time.Now()}
	_, _, err := Observe(snap, state)
	if err == nil {
		t.Fatalf("expected error for invalid humidity")
	}
	ce := err.(*CoreError)
	if ce.Code != ErrInvalidHumidity {
		t.Errorf("expected ErrInvalidHumidity, got %v", ce.Code)
	}
}
