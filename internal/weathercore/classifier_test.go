package weathercore

import "testing"

func TestClassifySnowyColdPrecipitation(t *testing.T) {
	in := classifierInputs{cs: canonicalSnapshot{outdoorTempF: 28, rainRateValid: true, rainRateInPerHour: 0.2}}
	if got := classifyCondition(in); got != ConditionSnowy {
		t.Errorf("got %v, want snowy", got)
	}
}

func TestClassifyPouringHeavyRain(t *testing.T) {
	in := classifierInputs{cs: canonicalSnapshot{outdoorTempF: 60, rainRateValid: true, rainRateInPerHour: 0.3}}
	if got := classifyCondition(in); got != ConditionPouring {
		t.Errorf("got %v, want pouring", got)
	}
}

func TestClassifyRainyLightRain(t *testing.T) {
	in := classifierInputs{cs: canonicalSnapshot{outdoorTempF: 60, rainRateValid: true, rainRateInPerHour: 0.08}}
	if got := classifyCondition(in); got != ConditionRainy {
		t.Errorf("got %v, want rainy", got)
	}
}

func TestClassifyFogTakesPriorityOverClearPrecip(t *testing.T) {
	in := classifierInputs{
		cs:       canonicalSnapshot{outdoorTempF: 60, rainState: RainStateWet, rainRateValid: true, rainRateInPerHour: 0.01},
		fogClass: FogModerate,
	}
	if got := classifyCondition(in); got != ConditionFog {
		t.Errorf("got %v, want fog", got)
	}
}

func TestClassifySevereGaleWind(t *testing.T) {
	in := classifierInputs{cs: canonicalSnapshot{windSpeedValid: true, windSpeedMph: 35}, daytime: true, cloudCoverPct: 10}
	if got := classifyCondition(in); got != ConditionWindy {
		t.Errorf("got %v, want windy", got)
	}
}

func TestClassifyDaytimeSunny(t *testing.T) {
	in := classifierInputs{daytime: true, cloudCoverPct: 10}
	if got := classifyCondition(in); got != ConditionSunny {
		t.Errorf("got %v, want sunny", got)
	}
}

func TestClassifyDaytimeSunnyWithClearSkyWindOverride(t *testing.T) {
	in := classifierInputs{
		daytime: true, cloudCoverPct: 5,
		cs: canonicalSnapshot{windSpeedValid: true, windSpeedMph: 20},
	}
	if got := classifyCondition(in); got != ConditionWindy {
		t.Errorf("got %v, want windy override of sunny", got)
	}
}

func TestClassifyPartlyCloudy(t *testing.T) {
	in := classifierInputs{daytime: true, cloudCoverPct: 45}
	if got := classifyCondition(in); got != ConditionPartlyCloudy {
		t.Errorf("got %v, want partly_cloudy", got)
	}
}

func TestClassifyCloudy(t *testing.T) {
	in := classifierInputs{daytime: true, cloudCoverPct: 90}
	if got := classifyCondition(in); got != ConditionCloudy {
		t.Errorf("got %v, want cloudy", got)
	}
}

func TestClassifyTwilightPartlyCloudy(t *testing.T) {
	in := classifierInputs{
		daytime: false,
		cs:      canonicalSnapshot{solarLuxValid: true, solarLux: 60},
		pw:      pressureWindResult{System: PressureNormal},
	}
	if got := classifyCondition(in); got != ConditionPartlyCloudy {
		t.Errorf("got %v, want partly_cloudy at twilight", got)
	}
}

func TestClassifyNighttimeClearNight(t *testing.T) {
	in := classifierInputs{
		daytime: false,
		cs:      canonicalSnapshot{humidityValid: true, humidityPct: 60, windSpeedValid: true, windSpeedMph: 0.5},
		pw:      pressureWindResult{System: PressureVeryHigh},
	}
	if got := classifyCondition(in); got != ConditionClearNight {
		t.Errorf("got %v, want clear_night", got)
	}
}

func TestClassifyNighttimeFallthroughPartlyCloudyNight(t *testing.T) {
	in := classifierInputs{
		daytime: false,
		cs:      canonicalSnapshot{},
		pw:      pressureWindResult{System: PressureNormal},
	}
	if got := classifyCondition(in); got != ConditionPartlyCloudyNight {
		t.Errorf("got %v, want partly_cloudy_night", got)
	}
}
