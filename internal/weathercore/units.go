package weathercore

import (
	"math"
	"time"
)

// units.go implements the bidirectional scalar conversions spec §4.1 lists.
// All internal analysis runs in Imperial (F, inHg, mph, in/h, feet); these
// helpers canonicalize a tagged Measurement to that system. The pipeline
// does not re-encode its results; Inference and Forecast stay in Imperial.

const (
	inHgPerHPa = 1.0 / 33.8639
	kmhPerMph  = 1.60934
	msPerMph   = 0.44704
	mmPerIn    = 25.4
	feetPerMeter = 3.28084
)

// FahrenheitToCelsius converts °F to °C.
func FahrenheitToCelsius(f float64) float64 { return (f - 32) * 5 / 9 }

// CelsiusToFahrenheit converts °C to °F.
func CelsiusToFahrenheit(c float64) float64 { return c*9/5 + 32 }

// InHgToHPa converts inches of mercury to hectopascals.
func InHgToHPa(inHg float64) float64 { return inHg / inHgPerHPa }

// HPaToInHg converts hectopascals to inches of mercury.
func HPaToInHg(hPa float64) float64 { return hPa * inHgPerHPa }

// MphToKmh converts miles per hour to kilometers per hour.
func MphToKmh(mph float64) float64 { return mph * kmhPerMph }

// KmhToMph converts kilometers per hour to miles per hour.
func KmhToMph(kmh float64) float64 { return kmh / kmhPerMph }

// MphToMs converts miles per hour to meters per second.
func MphToMs(mph float64) float64 { return mph * msPerMph }

// MsToMph converts meters per second to miles per hour.
func MsToMph(ms float64) float64 { return ms / msPerMph }

// InPerHourToMmPerHour converts inches/hour to millimeters/hour.
func InPerHourToMmPerHour(inH float64) float64 { return inH * mmPerIn }

// MmPerHourToInPerHour converts millimeters/hour to inches/hour.
func MmPerHourToInPerHour(mmH float64) float64 { return mmH / mmPerIn }

// MetersToFeet converts meters to feet.
func MetersToFeet(m float64) float64 { return m * feetPerMeter }

// FeetToMeters converts feet to meters.
func FeetToMeters(ft float64) float64 { return ft / feetPerMeter }

// sinDeg is sin() over a degree argument, used throughout the solar and
// cloud-cover formulas which are specified in degrees.
func sinDeg(deg float64) float64 { return math.Sin(deg * math.Pi / 180) }

// maxFloat returns the larger of a, b.
func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// temperatureToF canonicalizes a tagged temperature to Fahrenheit.
func temperatureToF(m Measurement[TemperatureUnit]) float64 {
	if m.Unit == TemperatureCelsius {
		return CelsiusToFahrenheit(m.Value)
	}
	return m.Value
}

// pressureToInHg canonicalizes a tagged pressure to inches of mercury.
func pressureToInHg(m Measurement[PressureUnit]) float64 {
	switch m.Unit {
	case PressureHPa, PressureMillibar:
		return HPaToInHg(m.Value)
	default:
		return m.Value
	}
}

// speedToMph canonicalizes a tagged speed to miles per hour.
func speedToMph(m Measurement[SpeedUnit]) float64 {
	switch m.Unit {
	case SpeedKmh:
		return KmhToMph(m.Value)
	case SpeedMs:
		return MsToMph(m.Value)
	default:
		return m.Value
	}
}

// rateToInPerHour canonicalizes a tagged precipitation rate to in/h.
func rateToInPerHour(m Measurement[RateUnit]) float64 {
	if m.Unit == RateMmPerHour {
		return MmPerHourToInPerHour(m.Value)
	}
	return m.Value
}

// canonicalSnapshot is the Imperial-unit view of a Snapshot's scalar
// fields, built once at the top of Observe (spec §4.11 step 1) and threaded
// through every downstream analyzer.
type canonicalSnapshot struct {
	outdoorTempF float64

	humidityPct      float64
	humidityValid    bool

	dewpointF      float64
	dewpointValid  bool

	pressureInHg       float64
	pressureValid      bool
	pressureIsSeaLevel bool

	windSpeedMph  float64
	windSpeedValid bool
	windGustMph   float64
	windGustValid bool
	windDirectionDeg float64
	windDirectionValid bool

	rainRateInPerHour float64
	rainRateValid     bool
	rainState         RainState

	solarRadiationWm2   float64
	solarRadiationValid bool
	solarLux            float64
	solarLuxValid       bool
	uvIndex             float64
	uvIndexValid        bool
	solarElevationDeg   float64
	solarElevationValid bool

	altitudeM float64

	timestamp time.Time
}

func canonicalize(s Snapshot) canonicalSnapshot {
	cs := canonicalSnapshot{
		outdoorTempF: temperatureToF(s.OutdoorTemp),

		humidityPct:   s.Humidity,
		humidityValid: s.HumidityValid,

		pressureIsSeaLevel: s.PressureIsSeaLevel,

		windDirectionDeg:   s.WindDirectionDeg,
		windDirectionValid: s.WindDirectionValid,

		rainState: s.RainState,

		solarRadiationWm2:   s.SolarRadiationWm2,
		solarRadiationValid: s.SolarRadiationValid,
		solarLux:            s.SolarLux,
		solarLuxValid:       s.SolarLuxValid,
		uvIndex:             s.UVIndex,
		uvIndexValid:        s.UVIndexValid,
		solarElevationDeg:   s.SolarElevationDeg,
		solarElevationValid: s.SolarElevationValid,

		altitudeM: s.AltitudeM,
		timestamp: s.Timestamp,
	}

	if s.Dewpoint.Valid {
		cs.dewpointF = temperatureToF(s.Dewpoint)
		cs.dewpointValid = true
	}
	if s.Pressure.Valid {
		cs.pressureInHg = pressureToInHg(s.Pressure)
		cs.pressureValid = true
	}
	if s.WindSpeed.Valid {
		cs.windSpeedMph = speedToMph(s.WindSpeed)
		cs.windSpeedValid = true
	}
	if s.WindGust.Valid {
		cs.windGustMph = speedToMph(s.WindGust)
		cs.windGustValid = true
	}
	if s.RainRate.Valid {
		cs.rainRateInPerHour = rateToInPerHour(s.RainRate)
		cs.rainRateValid = true
	}

	return cs
}
