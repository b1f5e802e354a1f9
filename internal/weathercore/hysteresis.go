package weathercore

import "time"

// hysteresis.go implements the Hysteresis Filter (spec §4.9): a
// time-windowed condition history with adjacent/non-adjacent delta
// thresholds and a "major change" exemption list that always bypasses the
// filter.

// majorChangeSideA/B partition the conditions that, paired across sides,
// bypass hysteresis unconditionally.
var majorChangeSideA = map[Condition]bool{
	ConditionSunny: true, ConditionClearNight: true, ConditionFog: true,
}

var majorChangeSideB = map[Condition]bool{
	ConditionLightningRainy: true, ConditionPouring: true, ConditionSnowy: true,
	ConditionLightning: true, ConditionWindy: true,
}

// isMajorChange reports whether (prev, candidate) is a bidirectional major
// change that always bypasses hysteresis.
func isMajorChange(prev, candidate Condition) bool {
	if majorChangeSideA[prev] && majorChangeSideB[candidate] {
		return true
	}
	if majorChangeSideB[prev] && majorChangeSideA[candidate] {
		return true
	}
	return false
}

// cloudTier orders the three daytime cloud-cover conditions (and their
// nighttime counterparts) for the adjacent/non-adjacent delta rule.
var cloudTier = map[Condition]int{
	ConditionSunny: 0, ConditionClearNight: 0,
	ConditionPartlyCloudy: 1, ConditionPartlyCloudyNight: 1,
	ConditionCloudy: 2,
}

// isAdjacentCloudTransition reports whether prev and candidate are adjacent
// cloud-cover tiers (sunny<->partly_cloudy, partly_cloudy<->cloudy).
func isAdjacentCloudTransition(prev, candidate Condition) (adjacent bool, inTierSpace bool) {
	pt, pok := cloudTier[prev]
	ct, cok := cloudTier[candidate]
	if !pok || !cok {
		return false, false
	}
	diff := pt - ct
	if diff < 0 {
		diff = -diff
	}
	return diff == 1, true
}

// applyHysteresis is pipeline step 10 (spec §4.9/§4.11). cloudCoverDeltaAbs
// is |current cloud_cover_pct - previous cloud_cover_pct| for this update.
func applyHysteresis(candidate Condition, cloudCoverDeltaAbs float64, store TrendsStore, now time.Time) Condition {
	prev, hasPrev := store.lastCondition()
	if !hasPrev {
		return candidate
	}
	if candidate == prev {
		return candidate
	}

	if store.recentConditionCount(now, hysteresisRecentWindowHours*time.Hour, candidate) >= 1 {
		return candidate
	}

	if isMajorChange(prev, candidate) {
		return candidate
	}

	delta := cloudCoverDeltaAbs
	if delta < 0 {
		delta = -delta
	}

	// Every remaining pair requires a minimum cloud-cover delta: the
	// adjacent-tier threshold when prev/candidate are neighboring cloud
	// tiers, otherwise the non-adjacent threshold (this also covers pairs
	// where one or both sides aren't cloud-tier conditions at all, e.g.
	// partly_cloudy<->rainy — spec §4.9's final "else" is unconditional).
	threshold := hysteresisNonAdjacentDeltaMin
	if adjacent, inSpace := isAdjacentCloudTransition(prev, candidate); inSpace && adjacent {
		threshold = hysteresisAdjacentDeltaMin
	}
	if delta < threshold {
		return prev
	}

	if delta > cloudCoverMaxDeltaPerUpdate {
		return prev
	}

	return candidate
}
