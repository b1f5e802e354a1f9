package weathercore

import (
	"math"
	"time"
)

// forecast.go implements the Forecast Engine (spec §4.10): a meteorological
// state snapshot evolves along a trajectory score that advances a condition
// "ladder" position, producing deterministic daily and hourly projections.

// conditionLadder orders the progression sunny <-> partly_cloudy <-> cloudy
// <-> rainy <-> pouring/lightning_rainy used by the evolution trajectory.
var conditionLadder = []Condition{
	ConditionSunny, ConditionPartlyCloudy, ConditionCloudy, ConditionRainy, ConditionPouring,
}

func ladderIndex(c Condition) float64 {
	for i, lc := range conditionLadder {
		if lc == c {
			return float64(i)
		}
	}
	return 0
}

func ladderAt(pos float64) Condition {
	idx := int(math.Round(clamp(pos, 0, float64(len(conditionLadder)-1))))
	return conditionLadder[idx]
}

// forecastStateSnapshot bundles the meteorological state the forecast
// engine advances forward in time (spec §4.10.1).
type forecastStateSnapshot struct {
	pressureTrend3h       float64
	pressureTrend24h      float64
	stormProbability      float64
	pressureSystem        PressureSystem
	cloudCoverPct         float64
	windDirectionStability float64
	gustFactor            float64
	pressureGradientProxy float64
	humidityPct           float64
	dewpointSpreadF       float64
	condensationPotential float64
	atmosphericStability  float64

	currentTempF  float64
	currentWindMph float64
	currentWindDirDeg float64
	dayOfYear int
	ladderPosition float64
}

// condensationPotential maps dewpoint spread to a [0,1] moisture-transport
// proxy: a near-zero spread means the air is near saturation.
func condensationPotentialFromSpread(spreadF float64) float64 {
	return clamp(1-spreadF/20, 0, 1)
}

// atmosphericStability implements spec §4.10.1's baseline-plus-adjustments
// formula.
func atmosphericStability(trend24h float64, trend24hValid bool, windMph float64, windValid bool, humidityPct float64, humidityValid bool) float64 {
	s := 0.5
	if trend24hValid && math.Abs(trend24h) < 2 {
		s += 0.2
	}
	if windValid {
		if windMph < 5 {
			s += 0.15
		} else if windMph > 15 {
			s -= 0.15
		}
	}
	if humidityValid && humidityPct > 70 {
		s += 0.1
	}
	return clamp(s, 0, 1)
}

// buildForecastStateSnapshot derives the full state bundle from the
// pipeline's current derived state and canonical snapshot.
func buildForecastStateSnapshot(derived DerivedState, cs canonicalSnapshot, pw pressureWindResult) forecastStateSnapshot {
	condensation := condensationPotentialFromSpread(derived.DewpointSpreadF)
	stability := atmosphericStability(
		pw.Trend24h.Slope, !pw.Trend24h.Insufficient,
		cs.windSpeedMph, cs.windSpeedValid,
		cs.humidityPct, cs.humidityValid,
	)

	return forecastStateSnapshot{
		pressureTrend3h:        pw.Trend3h.Slope,
		pressureTrend24h:       pw.Trend24h.Slope,
		stormProbability:       derived.StormProbability,
		pressureSystem:         derived.PressureSystem,
		cloudCoverPct:          derived.CloudCoverPct,
		windDirectionStability: pw.DirectionStability,
		gustFactor:             pw.GustFactor,
		pressureGradientProxy:  math.Abs(pw.Trend3h.Slope) * 10,
		humidityPct:            cs.humidityPct,
		dewpointSpreadF:        derived.DewpointSpreadF,
		condensationPotential:  condensation,
		atmosphericStability:   stability,
		currentTempF:           cs.outdoorTempF,
		currentWindMph:         cs.windSpeedMph,
		currentWindDirDeg:      cs.windDirectionDeg,
		dayOfYear:              cs.timestamp.YearDay(),
		ladderPosition:         ladderIndex(derived.Condition),
	}
}

// evolutionResult is the trajectory score plus the step size it implies.
type evolutionResult struct {
	TrajectoryScore float64 // [-100, 100]; negative deteriorating, positive improving
	Confidence      float64
	StepPerHour     float64
}

// computeEvolutionTrajectory implements spec §4.10.2.
func computeEvolutionTrajectory(s forecastStateSnapshot) evolutionResult {
	// Falling pressure and low stability both push the trajectory negative
	// (deteriorating); rising pressure and high stability push it positive.
	pressureComponent := s.pressureTrend24h * 1000
	stabilityComponent := (s.atmosphericStability - 0.5) * 100
	trajectory := clamp(pressureComponent+stabilityComponent, -100, 100)

	// trend equivalent over 24h in inHg, used to bucket step size.
	trendMagnitude24h := math.Abs(s.pressureTrend24h) * 24

	var step float64
	switch {
	case trendMagnitude24h > 1:
		step = 0.5
	case trendMagnitude24h > 0.3:
		step = 0.1
	default:
		step = 0.02
	}
	// The ladder runs from sunny (0) to pouring (4): a deteriorating
	// trajectory advances toward pouring, an improving one moves back.
	if trajectory > 0 {
		step = -step
	}

	const confidenceK = 20.0
	confidence := clamp(1-math.Abs(s.pressureTrend3h-s.pressureTrend24h)*confidenceK, 0, 1)

	return evolutionResult{TrajectoryScore: trajectory, Confidence: confidence, StepPerHour: step}
}

// seasonalAdjustment is a deterministic sinusoidal seasonal offset (°F)
// peaking at day 172 (late June) and troughing near day 355 (late December).
func seasonalAdjustment(dayOfYear int) float64 {
	return 8 * math.Cos(2*math.Pi*(float64(dayOfYear)-172)/365.25)
}

// dailyPrecipBase returns the canonical precipitation amount (in/h-equivalent
// daily total, in inches) a condition implies before scaling.
func dailyPrecipBaseIn(c Condition) float64 {
	// Canonical daily totals converted from the spec's example mm figures.
	mm := map[Condition]float64{
		ConditionRainy:         2,
		ConditionPouring:       8,
		ConditionLightningRainy: 10,
		ConditionSnowy:         4,
	}[c]
	return MmPerHourToInPerHour(mm)
}

// computeDailyForecast is spec §4.10.3 for one day offset d in [0,4].
func computeDailyForecast(d int, base forecastStateSnapshot, evo evolutionResult, history TrendsStore, now time.Time) DailyForecast {
	dayOfYear := base.dayOfYear + d
	seasonal := seasonalAdjustment(dayOfYear)

	pressureInfluence := clamp(evo.TrajectoryScore/100*5, -5, 5)
	tempVolatility := volatility(history.Samples, func(s TrendSample) float64 { return s.TemperatureF })
	noise := clamp(evo.StepPerHour*float64(d)*tempVolatility, -5, 5)

	uncertainty := 1 - float64(d)/8
	tempBase := base.currentTempF + seasonal
	temp := tempBase + (pressureInfluence+noise)*base.atmosphericStability*uncertainty

	diurnalSwing := 10 * base.atmosphericStability * (1 - base.windDirectionStability*0.3)
	high := temp + diurnalSwing/2
	low := temp - diurnalSwing/2

	ladderPos := base.ladderPosition + evo.StepPerHour*24*float64(d+1)
	condition := ladderAt(ladderPos)
	if d == 0 && base.stormProbability >= 70 {
		condition = ConditionLightningRainy
	}

	storm := 1 + base.stormProbability/100
	moisture := 1 + base.condensationPotential*clamp(1-base.atmosphericStability, 0, 1)
	stabilityFactor := 1 + (1-base.atmosphericStability)*0.5
	humidityTrendFactor := 1.0
	if base.humidityPct > 70 {
		humidityTrendFactor = 1.5
	}
	pressureAmplifier := 1.0
	if base.pressureTrend24h < 0 {
		pressureAmplifier = 1 + math.Abs(base.pressureTrend24h)*10
	}

	precip := dailyPrecipBaseIn(condition) * storm * moisture * stabilityFactor * humidityTrendFactor * pressureAmplifier

	precipProb := clamp(
		math.Abs(base.pressureTrend3h)*2000+
			maxFloat(base.humidityPct-50, 0)+
			base.stormProbability*0.5,
		0, 100)

	windSpeed := base.currentWindMph * conditionWindFactor(condition) * pressureSystemWindFactor(base.pressureSystem)
	windSpeed += base.pressureGradientProxy
	windSpeed = base.currentWindMph*base.windDirectionStability + windSpeed*(1-base.windDirectionStability)

	targetHumidity := conditionTargetHumidity(condition)
	humidity := convergeTo(base.humidityPct, targetHumidity, 0.30*24)

	return DailyForecast{
		DateTime:                 now.AddDate(0, 0, d),
		Condition:                condition,
		TempHigh:                 high,
		TempLow:                  low,
		Precipitation:            precip,
		PrecipitationProbability: precipProb,
		WindSpeed:                windSpeed,
		WindBearing:              base.currentWindDirDeg,
		Humidity:                 humidity,
	}
}

// conditionWindFactor scales base wind by how windy the evolved condition
// implies.
func conditionWindFactor(c Condition) float64 {
	switch c {
	case ConditionWindy, ConditionLightning, ConditionLightningRainy:
		return 1.6
	case ConditionPouring, ConditionSnowy:
		return 1.2
	case ConditionRainy:
		return 1.1
	default:
		return 1.0
	}
}

func pressureSystemWindFactor(p PressureSystem) float64 {
	switch p {
	case PressureVeryLow, PressureExtremelyLow:
		return 1.4
	case PressureLow:
		return 1.15
	default:
		return 1.0
	}
}

// conditionTargetHumidity is the humidity a condition's regime tends toward.
func conditionTargetHumidity(c Condition) float64 {
	switch c {
	case ConditionSunny, ConditionClearNight:
		return 45
	case ConditionPartlyCloudy, ConditionPartlyCloudyNight:
		return 60
	case ConditionFog:
		return 97
	case ConditionRainy, ConditionPouring, ConditionLightningRainy, ConditionLightning, ConditionSnowy:
		return 85
	default:
		return 70
	}
}

// convergeTo moves current toward target at ratePerHour*hours, clamped to
// [0,100].
func convergeTo(current, target, fraction float64) float64 {
	fraction = clamp(fraction, 0, 1)
	return clamp(current+(target-current)*fraction, 0, 100)
}

// computeHourlyForecast is spec §4.10.4 for one hour offset h in [0,23].
func computeHourlyForecast(h int, base forecastStateSnapshot, evo evolutionResult, sun sunWindow, now time.Time) HourlyForecast {
	at := now.Add(time.Duration(h) * time.Hour)
	daytime := isDaytimeAt(at, sun)

	// Diurnal sine anchored at 06:00 local, amplitude = half the day's
	// expected diurnal swing, modulated by the trajectory and scaled by the
	// actual solar-elevation arc (astronomical context, spec §4.10.4) so the
	// swing is sharpest at solar noon and damped on short/low-elevation days.
	amplitude := 5 * base.atmosphericStability
	hourOfDay := float64(at.Hour()) + float64(at.Minute())/60
	phase := 2 * math.Pi * (hourOfDay - 6) / 24
	elevationFactor := 0.5 + 0.5*(interpolatedElevation(at, sun)/90)
	diurnal := amplitude * math.Sin(phase) * elevationFactor
	trendAdj := evo.TrajectoryScore / 100 * 3
	temp := base.currentTempF + diurnal + trendAdj

	cadence := 6
	if math.Abs(base.pressureTrend3h)*3 > 1 {
		cadence = 3
	} else if base.stormProbability > 30 {
		cadence = 4
	}
	// The ladder position only advances at cadence boundaries; within a
	// cadence window the condition holds steady.
	cadenceMark := float64((h / cadence) * cadence)
	ladderPos := base.ladderPosition + evo.StepPerHour*cadenceMark
	condition := remapDiurnalCondition(ladderAt(ladderPos), daytime, base, at.Hour())

	storm := 1 + base.stormProbability/100
	moisture := 1 + base.condensationPotential*clamp(1-base.atmosphericStability, 0, 1)
	precip := dailyPrecipBaseIn(condition) / 24 * storm * moisture

	precipProb := clamp(math.Abs(base.pressureTrend3h)*2000+maxFloat(base.humidityPct-50, 0)*0.5, 0, 100)

	windSpeed := base.currentWindMph * conditionWindFactor(condition) * pressureSystemWindFactor(base.pressureSystem)
	humidity := convergeTo(base.humidityPct, conditionTargetHumidity(condition), 0.30)

	return HourlyForecast{
		DateTime:                 at,
		Condition:                condition,
		Temperature:              temp,
		Precipitation:            precip,
		PrecipitationProbability: precipProb,
		WindSpeed:                windSpeed,
		WindBearing:              base.currentWindDirDeg,
		Humidity:                 humidity,
	}
}

// sunWindow carries the sunrise/sunset (or default) bounds used to derive
// per-hour daytime/elevation context.
type sunWindow struct {
	Sunrise time.Time
	Sunset  time.Time
}

func isDaytimeAt(t time.Time, sun sunWindow) bool {
	return !t.Before(sun.Sunrise) && !t.After(sun.Sunset)
}

// interpolatedElevation linearly interpolates a 0->peak->0 elevation arc
// across the daylight window; returns 0 outside it.
func interpolatedElevation(t time.Time, sun sunWindow) float64 {
	if !isDaytimeAt(t, sun) {
		return 0
	}
	total := sun.Sunset.Sub(sun.Sunrise).Hours()
	if total <= 0 {
		return 0
	}
	elapsed := t.Sub(sun.Sunrise).Hours()
	fraction := elapsed / total
	return 90 * math.Sin(math.Pi*fraction)
}

// remapDiurnalCondition applies spec §4.10.4's diurnal remapping without
// changing the underlying ladder position, plus the night sunny/partly_cloudy
// rewrite.
func remapDiurnalCondition(c Condition, daytime bool, base forecastStateSnapshot, hour int) Condition {
	morning := hour >= 5 && hour < 10
	afternoon := hour >= 12 && hour < 18
	night := hour >= 20 || hour < 5

	switch {
	case morning && c == ConditionCloudy && base.pressureTrend3h > 0:
		c = ConditionPartlyCloudy
	case afternoon && c == ConditionSunny && base.pressureTrend3h < 0:
		c = ConditionPartlyCloudy
	case night && c == ConditionCloudy && base.pressureTrend24h > 0.02:
		c = ConditionPartlyCloudy
	}

	if !daytime {
		switch c {
		case ConditionSunny:
			return ConditionClearNight
		case ConditionPartlyCloudy:
			return ConditionPartlyCloudyNight
		}
	}
	return c
}
