package weathercore

import "time"

// Condition is the closed vocabulary the classifier and hysteresis filter
// produce. No other string value is ever emitted as a condition.
type Condition string

const (
	ConditionSunny              Condition = "sunny"
	ConditionPartlyCloudy       Condition = "partly_cloudy"
	ConditionCloudy             Condition = "cloudy"
	ConditionClearNight         Condition = "clear_night"
	ConditionPartlyCloudyNight  Condition = "partly_cloudy_night"
	ConditionFog                Condition = "fog"
	ConditionRainy              Condition = "rainy"
	ConditionPouring            Condition = "pouring"
	ConditionSnowy              Condition = "snowy"
	ConditionLightning          Condition = "lightning"
	ConditionLightningRainy     Condition = "lightning_rainy"
	ConditionWindy              Condition = "windy"
)

// conditions lists the closed vocabulary for membership checks and ladder
// indexing; keep in sync with the constants above.
var conditions = []Condition{
	ConditionSunny, ConditionPartlyCloudy, ConditionCloudy,
	ConditionClearNight, ConditionPartlyCloudyNight, ConditionFog,
	ConditionRainy, ConditionPouring, ConditionSnowy,
	ConditionLightning, ConditionLightningRainy, ConditionWindy,
}

// Valid reports whether c belongs to the closed condition vocabulary.
func (c Condition) Valid() bool {
	for _, known := range conditions {
		if c == known {
			return true
		}
	}
	return false
}

// RainState is the binary moisture-sensor reading distinct from rain rate.
type RainState string

const (
	RainStateWet RainState = "wet"
	RainStateDry RainState = "dry"
)

// TemperatureUnit, PressureUnit, SpeedUnit and RateUnit tag the native unit
// a caller supplied a scalar in, so units.go can canonicalize to Imperial
// before any analysis runs.
type TemperatureUnit string

const (
	TemperatureFahrenheit TemperatureUnit = "F"
	TemperatureCelsius    TemperatureUnit = "C"
)

type PressureUnit string

const (
	PressureInHg    PressureUnit = "inHg"
	PressureHPa     PressureUnit = "hPa"
	PressureMillibar PressureUnit = "mbar"
)

type SpeedUnit string

const (
	SpeedMph  SpeedUnit = "mph"
	SpeedKmh  SpeedUnit = "kmh"
	SpeedMs   SpeedUnit = "ms"
)

type RateUnit string

const (
	RateInPerHour RateUnit = "in_h"
	RateMmPerHour RateUnit = "mm_h"
)

// UnitSystem names a unit family. Config.UnitsOut carries one, but Observe
// and Forecast do not read it: Inference and Forecast values are always in
// the Imperial canonical units.
type UnitSystem string

const (
	UnitsMetric   UnitSystem = "metric"
	UnitsImperial UnitSystem = "imperial"
)

// Measurement is a unit-tagged scalar, the wire shape every optional
// snapshot field uses (spec §6.2).
type Measurement[U ~string] struct {
	Value float64
	Unit  U
	// Valid distinguishes an explicitly-absent field (zero Measurement)
	// from a legitimate zero reading.
	Valid bool
}

// M constructs a valid Measurement.
func M[U ~string](value float64, unit U) Measurement[U] {
	return Measurement[U]{Value: value, Unit: unit, Valid: true}
}

// Snapshot is one raw sensor reading cycle, spec §3.2. Every field besides
// OutdoorTemp/Humidity/Timestamp is optional; analyzers branch on the Valid
// flag rather than on a sentinel value.
type Snapshot struct {
	OutdoorTemp Measurement[TemperatureUnit]
	Humidity    float64 // percent, 0 if absent; HumidityValid distinguishes
	HumidityValid bool

	Dewpoint Measurement[TemperatureUnit]

	Pressure           Measurement[PressureUnit]
	PressureIsSeaLevel bool

	WindSpeed        Measurement[SpeedUnit]
	WindGust         Measurement[SpeedUnit]
	WindDirectionDeg float64
	WindDirectionValid bool

	RainRate  Measurement[RateUnit]
	RainState RainState // "" if absent

	SolarRadiationWm2  float64
	SolarRadiationValid bool
	SolarLux           float64
	SolarLuxValid      bool
	UVIndex            float64
	UVIndexValid       bool
	SolarElevationDeg  float64
	SolarElevationValid bool

	AltitudeM float64 // 0 means "do not correct"

	Timestamp time.Time
}

// Config parametrizes NewState per spec §6.1.
type Config struct {
	AltitudeM              float64
	PressureIsSeaLevelHint bool
	LuminanceMultiplier    float64 // clamped to [0.1, 5.0]; default 1.0
	ZenithMaxRadiationWm2  float64 // default 1000; values outside [800, 2000] fall back to 1000
	UnitsOut               UnitSystem
	SunriseDefault         time.Duration // time-of-day offset, default 06:00
	SunsetDefault          time.Duration // time-of-day offset, default 18:00
	SolarAvgWindowMinutes  int           // default 15
}

// WithDefaults fills zero-valued fields with the spec-mandated defaults.
func (c Config) WithDefaults() Config {
	if c.LuminanceMultiplier == 0 {
		c.LuminanceMultiplier = 1.0
	}
	c.LuminanceMultiplier = clamp(c.LuminanceMultiplier, 0.1, 5.0)

	if c.ZenithMaxRadiationWm2 == 0 {
		c.ZenithMaxRadiationWm2 = 1000
	}
	if c.ZenithMaxRadiationWm2 < 800 || c.ZenithMaxRadiationWm2 > 2000 {
		c.ZenithMaxRadiationWm2 = 1000
	}

	if c.UnitsOut == "" {
		c.UnitsOut = UnitsMetric
	}
	if c.SunriseDefault == 0 {
		c.SunriseDefault = 6 * time.Hour
	}
	if c.SunsetDefault == 0 {
		c.SunsetDefault = 18 * time.Hour
	}
	if c.SolarAvgWindowMinutes == 0 {
		c.SolarAvgWindowMinutes = 15
	}
	return c
}

// DerivedState is the internal, per-update bundle of computed atmospheric
// quantities (spec §3.3). All temperatures/pressures/speeds are in Imperial
// canonical units.
type DerivedState struct {
	DewpointF       float64
	DewpointSpreadF float64
	Degraded        bool // true if dewpoint was clamped to temp

	SeaLevelPressureInHg float64

	CloudCoverPct       float64
	ExpectedClearSkyWm2 float64

	FogScore int
	FogClass FogClass

	PressureSystem    PressureSystem
	PressureTrend3h    float64
	PressureTrend24h   float64
	StormProbability  float64

	WindClass WindClass
	GustFactor float64
	GustClass  GustClass

	IsDaytime         bool
	SolarElevationDeg float64

	ConditionRaw Condition
	Condition    Condition
}

// FogClass classifies the fog score into the bands §4.5 names.
type FogClass string

const (
	FogNone     FogClass = "none"
	FogLight    FogClass = "light"
	FogModerate FogClass = "moderate"
	FogDense    FogClass = "dense"
)

// PressureSystem bands sea-level pressure per §4.7.
type PressureSystem string

const (
	PressureVeryHigh     PressureSystem = "very_high"
	PressureHigh         PressureSystem = "high"
	PressureNormal       PressureSystem = "normal"
	PressureLow          PressureSystem = "low"
	PressureVeryLow      PressureSystem = "very_low"
	PressureExtremelyLow PressureSystem = "extremely_low"
)

// WindClass bands sustained wind speed (mph) per §4.7.
type WindClass string

const (
	WindCalm   WindClass = "calm"
	WindLight  WindClass = "light"
	WindStrong WindClass = "strong"
	WindGale   WindClass = "gale"
)

// GustClass bands gust_factor/gust speed per §4.7.
type GustClass string

const (
	GustNone             GustClass = "none"
	GustGusty            GustClass = "gusty"
	GustVeryGusty        GustClass = "very_gusty"
	GustSevereTurbulence GustClass = "severe_turbulence"
)

// WarningCode is the non-fatal half of the error taxonomy (spec §6.5):
// attached to an Inference rather than returned as an error.
type WarningCode string

const (
	WarningCalibration    WarningCode = "CalibrationWarning"
	WarningDegradedSensor WarningCode = "DegradedSensor"
	WarningInsufficientHistory WarningCode = "InsufficientHistory"
)

// Warning is data, not an error: the core attaches it to an Inference so
// callers may log or display it, per spec §7.
type Warning struct {
	Code    WarningCode
	Message string
}

// Inference is the programmatic output of Observe (spec §6.3).
type Inference struct {
	Condition         Condition
	DewpointF         float64
	CloudCoverPct     float64
	FogScore          int
	Visibility        VisibilityClass
	PressureSeaLevel  float64
	PressureSystem    PressureSystem
	StormProbability  float64
	WindClass         WindClass
	GustClass         GustClass
	IsDaytime         bool
	SolarElevationDeg float64
	Warnings          []Warning
}

// VisibilityClass is derived from fog class and precipitation per the
// scenario table in spec §8.3.
type VisibilityClass string

const (
	VisibilityClear    VisibilityClass = "clear"
	VisibilityReduced  VisibilityClass = "reduced"
	VisibilityLow      VisibilityClass = "low"
	VisibilityVeryLow  VisibilityClass = "very_low"
)

// TrendSample is one entry in the trends store (spec §3.4).
type TrendSample struct {
	Timestamp         time.Time
	TemperatureF      float64
	HumidityPct       float64
	PressureInHg      float64
	WindSpeedMph      float64
	WindDirectionDeg  float64
	SolarRadiationWm2 float64
	Condition         Condition
}

// DailyForecast is one daily record, spec §3.5.
type DailyForecast struct {
	DateTime                 time.Time
	Condition                Condition
	TempHigh                 float64
	TempLow                  float64
	Precipitation            float64
	PrecipitationProbability float64
	WindSpeed                float64
	WindBearing              float64
	Humidity                 float64
}

// HourlyForecast is one hourly record, spec §3.5.
type HourlyForecast struct {
	DateTime                 time.Time
	Condition                Condition
	Temperature              float64
	Precipitation            float64
	PrecipitationProbability float64
	WindSpeed                float64
	WindBearing              float64
	Humidity                 float64
}

// Forecast bundles the daily and hourly horizons produced by Forecast().
type Forecast struct {
	Daily  [5]DailyForecast
	Hourly [24]HourlyForecast
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
