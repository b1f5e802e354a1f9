package weathercore

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Collector) float64 {
	t.Helper()
	ch := make(chan prometheus.Metric, 16)
	c.Collect(ch)
	close(ch)
	var total float64
	for m := range ch {
		var d dto.Metric
		if err := m.Write(&d); err != nil {
			t.Fatalf("write metric: %v", err)
		}
		if d.Counter != nil {
			total += d.Counter.GetValue()
		}
	}
	return total
}

func TestRecordObservationIncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.RecordObservation("ok", 5*time.Millisecond)
	m.RecordObservation("ok", 7*time.Millisecond)
	m.RecordObservation("error", time.Millisecond)

	if got := counterValue(t, m.observations); got != 3 {
		t.Errorf("expected 3 total observations, got %v", got)
	}
}

func TestRecordInferenceCountsConditionAndTransition(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	inf := Inference{Condition: ConditionCloudy, FogScore: 10, CloudCoverPct: 80, StormProbability: 5}
	m.RecordInference(inf, ConditionSunny, true)

	if got := counterValue(t, m.conditionTotal); got != 1 {
		t.Errorf("expected 1 condition recorded, got %v", got)
	}
	if got := counterValue(t, m.transitions); got != 1 {
		t.Errorf("expected 1 transition recorded, got %v", got)
	}
}

func TestRecordInferenceSkipsTransitionWhenUnchanged(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	inf := Inference{Condition: ConditionSunny}
	m.RecordInference(inf, ConditionSunny, false)

	if got := counterValue(t, m.transitions); got != 0 {
		t.Errorf("expected no transition recorded, got %v", got)
	}
}

func TestRecordInferenceCountsWarnings(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	inf := Inference{Condition: ConditionFog, Warnings: []Warning{
		{Code: WarningDegradedSensor, Message: "x"},
		{Code: WarningInsufficientHistory, Message: "y"},
	}}
	m.RecordInference(inf, ConditionFog, false)

	if got := counterValue(t, m.warningsTotal); got != 2 {
		t.Errorf("expected 2 warnings recorded, got %v", got)
	}
}

func TestNilMetricsIsNoOp(t *testing.T) {
	var m *Metrics
	m.RecordObservation("ok", time.Millisecond)
	m.RecordInference(Inference{Condition: ConditionSunny}, ConditionSunny, false)
}
