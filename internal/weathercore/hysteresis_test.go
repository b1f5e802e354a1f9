package weathercore

import (
	"testing"
	"time"
)

func TestApplyHysteresisNoHistoryAcceptsCandidate(t *testing.T) {
	var store TrendsStore
	got := applyHysteresis(ConditionSunny, 0, store, time.Now())
	if got != ConditionSunny {
		t.Errorf("got %v, want sunny with no history", got)
	}
}

func TestApplyHysteresisSameConditionPassesThrough(t *testing.T) {
	var store TrendsStore
	now := time.Now()
	store.RecordCondition(now.Add(-time.Hour), ConditionSunny)
	got := applyHysteresis(ConditionSunny, 0, store, now)
	if got != ConditionSunny {
		t.Errorf("got %v, want sunny", got)
	}
}

func TestApplyHysteresisMajorChangeBypasses(t *testing.T) {
	var store TrendsStore
	now := time.Now()
	store.RecordCondition(now.Add(-time.Hour), ConditionSunny)
	got := applyHysteresis(ConditionPouring, 5, store, now)
	if got != ConditionPouring {
		t.Errorf("got %v, want pouring (major change bypass)", got)
	}
}

func TestApplyHysteresisAdjacentBelowThresholdKeepsPrev(t *testing.T) {
	var store TrendsStore
	now := time.Now()
	store.RecordCondition(now.Add(-time.Hour), ConditionSunny)
	got := applyHysteresis(ConditionPartlyCloudy, 5, store, now)
	if got != ConditionSunny {
		t.Errorf("got %v, want sunny retained (delta below adjacent threshold)", got)
	}
}

func TestApplyHysteresisAdjacentAboveThresholdAccepts(t *testing.T) {
	var store TrendsStore
	now := time.Now()
	store.RecordCondition(now.Add(-time.Hour), ConditionSunny)
	got := applyHysteresis(ConditionPartlyCloudy, 20, store, now)
	if got != ConditionPartlyCloudy {
		t.Errorf("got %v, want partly_cloudy accepted", got)
	}
}

func TestApplyHysteresisNonAdjacentRequiresLargerDelta(t *testing.T) {
	var store TrendsStore
	now := time.Now()
	store.RecordCondition(now.Add(-time.Hour), ConditionSunny)
	got := applyHysteresis(ConditionCloudy, 20, store, now)
	if got != ConditionSunny {
		t.Errorf("got %v, want sunny retained (delta below non-adjacent threshold)", got)
	}
	got2 := applyHysteresis(ConditionCloudy, 30, store, now)
	if got2 != ConditionCloudy {
		t.Errorf("got %v, want cloudy accepted at larger delta", got2)
	}
}

func TestApplyHysteresisNonCloudTierPairRequiresNonAdjacentDelta(t *testing.T) {
	var store TrendsStore
	now := time.Now()
	store.RecordCondition(now.Add(-time.Hour), ConditionPartlyCloudy)
	got := applyHysteresis(ConditionRainy, 2, store, now)
	if got != ConditionPartlyCloudy {
		t.Errorf("got %v, want partly_cloudy retained (rainy is not a major change and cloud_cover delta is below the non-adjacent threshold)", got)
	}
	got2 := applyHysteresis(ConditionRainy, 30, store, now)
	if got2 != ConditionRainy {
		t.Errorf("got %v, want rainy accepted once cloud_cover delta clears the non-adjacent threshold", got2)
	}
}

func TestApplyHysteresisRecentOccurrenceAcceptsImmediately(t *testing.T) {
	var store TrendsStore
	now := time.Now()
	store.RecordCondition(now.Add(-55*time.Minute), ConditionPartlyCloudy)
	store.RecordCondition(now.Add(-10*time.Minute), ConditionSunny)
	got := applyHysteresis(ConditionPartlyCloudy, 2, store, now)
	if got != ConditionPartlyCloudy {
		t.Errorf("got %v, want partly_cloudy accepted via recent-occurrence rule", got)
	}
}
