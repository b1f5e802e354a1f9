package weathercore

// constants.go freezes the threshold tables spec §2.2 calls for: pressure
// bands, wind scale, fog scoring weights, precipitation intensities,
// cloud-cover bands, hysteresis limits. Everything here is a literal from
// spec §4; changing a value changes classifier behavior, so these are never
// derived at runtime.

const (
	// Barometric formula constants, spec §4.1.
	barometricLapseRate   = 0.0065   // L, K/m
	barometricRefTempK    = 288.15   // T0, K
	barometricGravity     = 9.80665  // g, m/s^2
	barometricMolarMass   = 0.0289644 // M, kg/mol
	barometricGasConstant = 8.31432  // R, J/(mol*K)

	// Pressure-threshold shift per meter of altitude, ~1 hPa per 8 m.
	pressureShiftHPaPerMeter = 1.0 / 8.0

	// Magnus-Tetens constants, spec §4.2.
	magnusA = 17.27
	magnusB = 237.7

	// Solar constant and Earth-Sun variation, spec §4.3.
	solarConstantWm2 = 1366.0

	// Gueymard-2003 extinction coefficients, spec §4.3: Rayleigh, ozone,
	// water vapor, aerosol.
	extinctionRayleigh   = 0.1
	extinctionOzone      = 0.02
	extinctionWaterVapor = 0.05
	extinctionAerosol    = 0.1

	// RainActiveThresholdInPerHour resolves spec §9 open question 2: the
	// source used two thresholds (0.01 and 0.05); this core uses 0.05
	// uniformly for "active precipitation."
	RainActiveThresholdInPerHour = 0.05

	// epsilon guards every division the spec requires never panic.
	epsilon = 1e-9
)

// Pressure system bands (sea-level inHg), spec §4.7.
const (
	pressureBandVeryHigh = 30.20
	pressureBandHigh     = 30.00
	pressureBandNormalLo = 29.80
	pressureBandLow      = 29.80
	pressureBandVeryLow  = 29.50
	pressureBandExtreme  = 29.20
)

// Wind class bands (mph), spec §4.7.
const (
	windBandCalmMax   = 1.0
	windBandLightMax  = 7.0
	windBandStrongLo  = 19.0
	windBandGaleMin   = 32.0
)

// Fog scoring factor caps, spec §4.5.
const (
	fogHumidityMax = 40
	fogSpreadMax   = 30
	fogWindMax     = 15
	fogWindMin     = -10
	fogSolarDayMax = 15
	fogSolarNightMax = 10
	fogSolarNightMin = -5
	fogEvapBonus   = 5

	fogDenseThreshold    = 70
	fogModerateThreshold = 55
	fogLightThreshold    = 45
	fogLightHumidityMin  = 95
	fogScoringHumidityMin = 88
)

// Hysteresis limits, spec §4.9.
const (
	hysteresisHistoryWindowHours  = 24
	hysteresisRecentWindowHours   = 1
	hysteresisAdjacentDeltaMin    = 15.0
	hysteresisNonAdjacentDeltaMin = 25.0
	cloudCoverMaxDeltaPerUpdate   = 30.0
)

// Trends store retention, spec §3.4/§5.
const (
	trendsRetentionHours = 168
)
