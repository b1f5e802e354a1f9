// Package observe provides the observe command, a one-shot CLI analogue of
// the HTTP API's POST /api/v2/observe endpoint.
package observe

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/clearsky/wxcore/internal/conf"
	"github.com/clearsky/wxcore/internal/suncalc"
	"github.com/clearsky/wxcore/internal/weathercore"
)

// parseTimestamp parses an RFC 3339 timestamp from the snapshot input.
func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// nowUTC returns the current time, used when a snapshot omits its timestamp.
func nowUTC() time.Time {
	return time.Now().UTC()
}

// snapshotInput is the wire shape accepted on stdin or as a file argument.
// It mirrors the HTTP API's observeRequest: every field is optional, an
// omitted Timestamp defaults to the current time, and any other omitted
// field leaves the corresponding measurement invalid.
type snapshotInput struct {
	Timestamp string `json:"timestamp"`

	OutdoorTempF *float64 `json:"outdoor_temp_f"`
	OutdoorTempC *float64 `json:"outdoor_temp_c"`
	HumidityPct  *float64 `json:"humidity_pct"`
	DewpointF    *float64 `json:"dewpoint_f"`

	PressureInHg       *float64 `json:"pressure_inhg"`
	PressureHPa        *float64 `json:"pressure_hpa"`
	PressureIsSeaLevel bool     `json:"pressure_is_sea_level"`

	WindSpeedMph     *float64 `json:"wind_speed_mph"`
	WindGustMph      *float64 `json:"wind_gust_mph"`
	WindDirectionDeg *float64 `json:"wind_direction_deg"`

	RainRateInH *float64 `json:"rain_rate_in_h"`
	RainState   string   `json:"rain_state"`

	SolarRadiationWm2 *float64 `json:"solar_radiation_wm2"`
	SolarLux          *float64 `json:"solar_lux"`
	UVIndex           *float64 `json:"uv_index"`
	SolarElevationDeg *float64 `json:"solar_elevation_deg"`
}

// toSnapshot converts the parsed input into a weathercore.Snapshot.
func (r snapshotInput) toSnapshot(altitudeM float64) (weathercore.Snapshot, error) {
	snap := weathercore.Snapshot{
		PressureIsSeaLevel: r.PressureIsSeaLevel,
		AltitudeM:          altitudeM,
		RainState:          weathercore.RainState(r.RainState),
	}

	if r.Timestamp != "" {
		ts, err := parseTimestamp(r.Timestamp)
		if err != nil {
			return snap, fmt.Errorf("invalid timestamp: %w", err)
		}
		snap.Timestamp = ts
	}

	switch {
	case r.OutdoorTempF != nil:
		snap.OutdoorTemp = weathercore.M(*r.OutdoorTempF, weathercore.TemperatureFahrenheit)
	case r.OutdoorTempC != nil:
		snap.OutdoorTemp = weathercore.M(*r.OutdoorTempC, weathercore.TemperatureCelsius)
	}

	if r.DewpointF != nil {
		snap.Dewpoint = weathercore.M(*r.DewpointF, weathercore.TemperatureFahrenheit)
	}

	switch {
	case r.PressureInHg != nil:
		snap.Pressure = weathercore.M(*r.PressureInHg, weathercore.PressureInHg)
	case r.PressureHPa != nil:
		snap.Pressure = weathercore.M(*r.PressureHPa, weathercore.PressureHPa)
	}

	if r.HumidityPct != nil {
		snap.Humidity = *r.HumidityPct
		snap.HumidityValid = true
	}

	if r.WindSpeedMph != nil {
		snap.WindSpeed = weathercore.M(*r.WindSpeedMph, weathercore.SpeedMph)
	}
	if r.WindGustMph != nil {
		snap.WindGust = weathercore.M(*r.WindGustMph, weathercore.SpeedMph)
	}
	if r.WindDirectionDeg != nil {
		snap.WindDirectionDeg = *r.WindDirectionDeg
		snap.WindDirectionValid = true
	}

	if r.RainRateInH != nil {
		snap.RainRate = weathercore.M(*r.RainRateInH, weathercore.RateInPerHour)
	}

	if r.SolarRadiationWm2 != nil {
		snap.SolarRadiationWm2 = *r.SolarRadiationWm2
		snap.SolarRadiationValid = true
	}
	if r.SolarLux != nil {
		snap.SolarLux = *r.SolarLux
		snap.SolarLuxValid = true
	}
	if r.UVIndex != nil {
		snap.UVIndex = *r.UVIndex
		snap.UVIndexValid = true
	}
	if r.SolarElevationDeg != nil {
		snap.SolarElevationDeg = *r.SolarElevationDeg
		snap.SolarElevationValid = true
	}

	return snap, nil
}

// Command creates a new command that runs a single sensor reading through
// the weather inference pipeline and prints the resulting inference.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "observe [snapshot.json]",
		Short: "Run a single sensor reading through the inference pipeline",
		Long: "Reads one JSON sensor snapshot (from a file argument, or stdin " +
			"when no argument is given), runs it through the weather " +
			"inference pipeline and prints the resulting inference as JSON.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(settings, args)
		},
	}

	cmd.SilenceUsage = true

	return cmd
}

func run(settings *conf.Settings, args []string) error {
	var reader io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open snapshot file: %w", err)
		}
		defer f.Close()
		reader = f
	}

	var input snapshotInput
	if err := json.NewDecoder(reader).Decode(&input); err != nil {
		return fmt.Errorf("failed to parse snapshot: %w", err)
	}

	station := settings.Station
	units := weathercore.UnitsImperial
	if station.UnitsOut == "metric" {
		units = weathercore.UnitsMetric
	}

	snapshot, err := input.toSnapshot(station.AltitudeM)
	if err != nil {
		return err
	}
	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = nowUTC()
	}

	sc := suncalc.NewSunCalc(station.Latitude, station.Longitude)
	if !snapshot.SolarElevationValid {
		snapshot.SolarElevationDeg = sc.Elevation(snapshot.Timestamp)
		snapshot.SolarElevationValid = true
	}

	cfg := weathercore.Config{
		AltitudeM:              station.AltitudeM,
		PressureIsSeaLevelHint: station.PressureIsSeaLevel,
		LuminanceMultiplier:    station.LuminanceMultiplier,
		ZenithMaxRadiationWm2:  station.ZenithMaxRadiationWm2,
		UnitsOut:               units,
		SolarAvgWindowMinutes:  station.SolarAvgWindowMinutes,
	}
	if times, sunErr := sc.GetSunEventTimes(snapshot.Timestamp); sunErr == nil {
		midnight := time.Date(snapshot.Timestamp.Year(), snapshot.Timestamp.Month(), snapshot.Timestamp.Day(), 0, 0, 0, 0, snapshot.Timestamp.Location())
		cfg.SunriseDefault = times.Sunrise.Sub(midnight)
		cfg.SunsetDefault = times.Sunset.Sub(midnight)
	}
	cfg = cfg.WithDefaults()

	state := weathercore.NewState(cfg)
	inference, _, err := weathercore.Observe(snapshot, state)
	if err != nil {
		return fmt.Errorf("observation rejected: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(inference)
}
