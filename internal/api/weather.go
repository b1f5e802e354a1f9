package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/clearsky/wxcore/internal/conf"
	"github.com/clearsky/wxcore/internal/datastore"
	"github.com/clearsky/wxcore/internal/suncalc"
	"github.com/clearsky/wxcore/internal/weathercore"
)

// stationConfigFrom translates a station's configuration into the weather
// core's pipeline Config. When sc is non-nil, the station's actual
// sunrise/sunset for now's calendar day replace the spec's fixed 06:00/18:00
// fallback (spec §4.10.4's hourly stage uses whichever sun window the
// Config carries).
func stationConfigFrom(station conf.StationConfig, sc *suncalc.SunCalc, now time.Time) weathercore.Config {
	units := weathercore.UnitsImperial
	if station.UnitsOut == "metric" {
		units = weathercore.UnitsMetric
	}

	cfg := weathercore.Config{
		AltitudeM:              station.AltitudeM,
		PressureIsSeaLevelHint: station.PressureIsSeaLevel,
		LuminanceMultiplier:    station.LuminanceMultiplier,
		ZenithMaxRadiationWm2:  station.ZenithMaxRadiationWm2,
		UnitsOut:               units,
		SolarAvgWindowMinutes:  station.SolarAvgWindowMinutes,
	}

	if sc != nil {
		if times, err := sc.GetSunEventTimes(now); err == nil {
			midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
			cfg.SunriseDefault = times.Sunrise.Sub(midnight)
			cfg.SunsetDefault = times.Sunset.Sub(midnight)
		}
	}

	return cfg
}

// observeRequest is the wire shape for a single sensor reading cycle.
// Every field is optional: an omitted Timestamp defaults to the current
// time, and any other omitted field leaves the corresponding
// weathercore.Measurement invalid.
type observeRequest struct {
	Timestamp time.Time `json:"timestamp"`

	OutdoorTempF *float64 `json:"outdoor_temp_f,omitempty"`
	OutdoorTempC *float64 `json:"outdoor_temp_c,omitempty"`
	HumidityPct  *float64 `json:"humidity_pct,omitempty"`
	DewpointF    *float64 `json:"dewpoint_f,omitempty"`

	PressureInHg       *float64 `json:"pressure_inhg,omitempty"`
	PressureHPa        *float64 `json:"pressure_hpa,omitempty"`
	PressureIsSeaLevel bool     `json:"pressure_is_sea_level,omitempty"`

	WindSpeedMph     *float64 `json:"wind_speed_mph,omitempty"`
	WindGustMph      *float64 `json:"wind_gust_mph,omitempty"`
	WindDirectionDeg *float64 `json:"wind_direction_deg,omitempty"`

	RainRateInH *float64 `json:"rain_rate_in_h,omitempty"`
	RainState   string   `json:"rain_state,omitempty"`

	SolarRadiationWm2 *float64 `json:"solar_radiation_wm2,omitempty"`
	SolarLux          *float64 `json:"solar_lux,omitempty"`
	UVIndex           *float64 `json:"uv_index,omitempty"`
	SolarElevationDeg *float64 `json:"solar_elevation_deg,omitempty"`
}

// toSnapshot converts the wire request into a weathercore.Snapshot.
func (r observeRequest) toSnapshot(altitudeM float64) weathercore.Snapshot {
	snap := weathercore.Snapshot{
		Timestamp:          r.Timestamp,
		PressureIsSeaLevel: r.PressureIsSeaLevel,
		AltitudeM:          altitudeM,
		RainState:          weathercore.RainState(r.RainState),
	}

	switch {
	case r.OutdoorTempF != nil:
		snap.OutdoorTemp = weathercore.M(*r.OutdoorTempF, weathercore.TemperatureFahrenheit)
	case r.OutdoorTempC != nil:
		snap.OutdoorTemp = weathercore.M(*r.OutdoorTempC, weathercore.TemperatureCelsius)
	}

	if r.HumidityPct != nil {
		snap.Humidity = *r.HumidityPct
		snap.HumidityValid = true
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

	return snap
}

// handleObserve accepts one sensor reading cycle, runs it through the
// weather inference pipeline, persists the resulting inference (and the
// freshly recomputed forecast) and returns the inference as JSON.
func (s *Server) handleObserve(c echo.Context) error {
	var req observeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Timestamp.IsZero() {
		req.Timestamp = time.Now()
	}

	snapshot := req.toSnapshot(s.stationCfg.AltitudeM)
	if !snapshot.SolarElevationValid && s.sunCalc != nil {
		snapshot.SolarElevationDeg = s.sunCalc.Elevation(req.Timestamp)
		snapshot.SolarElevationValid = true
	}

	s.stateMu.Lock()
	inf, nextState, err := weathercore.Observe(snapshot, s.stationState)
	if err == nil {
		s.stationState = nextState
	}
	forecast := s.stationState.Forecast()
	s.stateMu.Unlock()

	if err != nil {
		s.slogger.Error("observation rejected", "error", err)
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	nodeID := s.settings.Station.NodeID
	ctx := c.Request().Context()

	if s.dataStore != nil {
		if saveErr := s.dataStore.SaveInference(ctx, nodeID, req.Timestamp, inf); saveErr != nil {
			s.slogger.Error("failed to persist inference", "error", saveErr)
		}
		if saveErr := s.dataStore.SaveForecast(ctx, nodeID, req.Timestamp, forecast); saveErr != nil {
			s.slogger.Error("failed to persist forecast", "error", saveErr)
		}
	}

	s.publishInference(ctx, nodeID, inf)

	return c.JSON(http.StatusOK, inf)
}

// publishInference best-effort publishes inf to the configured MQTT broker.
// A disconnected or unconfigured broker never fails the observe request;
// persistence to the datastore is the durable path, MQTT is a live feed.
func (s *Server) publishInference(ctx context.Context, nodeID string, inf weathercore.Inference) {
	if s.mqttClient == nil || !s.mqttClient.IsConnected() {
		return
	}

	payload, err := json.Marshal(inf)
	if err != nil {
		s.slogger.Error("failed to marshal inference for MQTT", "error", err)
		return
	}

	topic := strings.TrimSuffix(s.settings.MQTT.Topic, "/") + "/" + nodeID + "/inference"
	if pubErr := s.mqttClient.PublishWithRetain(ctx, topic, string(payload), s.settings.MQTT.Retain); pubErr != nil {
		s.slogger.Error("failed to publish inference", "error", pubErr, "topic", topic)
	}
}

// forecastResponse bundles daily and hourly rows into the wire shape the
// forecast endpoint returns.
type forecastResponse struct {
	NodeID string                          `json:"node_id"`
	Daily  []datastore.ForecastDailyRecord  `json:"daily"`
	Hourly []datastore.ForecastHourlyRecord `json:"hourly"`
}

// handleForecast returns the most recently generated 5-day/24-hour forecast.
func (s *Server) handleForecast(c echo.Context) error {
	nodeID := c.QueryParam("node_id")
	if nodeID == "" {
		nodeID = s.settings.Station.NodeID
	}
	if s.dataStore == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "datastore not configured")
	}

	ctx := c.Request().Context()

	daily, err := s.dataStore.LatestForecastDaily(ctx, nodeID)
	if err != nil {
		if errors.Is(err, datastore.ErrForecastNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "no forecast available")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	hourly, err := s.dataStore.LatestForecastHourly(ctx, nodeID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, forecastResponse{NodeID: nodeID, Daily: daily, Hourly: hourly})
}

// handleListInferences returns a paginated window of past inferences.
func (s *Server) handleListInferences(c echo.Context) error {
	if s.dataStore == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "datastore not configured")
	}

	nodeID := c.QueryParam("node_id")
	if nodeID == "" {
		nodeID = s.settings.Station.NodeID
	}

	until := time.Now()
	since := until.Add(-24 * time.Hour)
	if v := c.QueryParam("since"); v != "" {
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			since = parsed
		}
	}
	if v := c.QueryParam("until"); v != "" {
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			until = parsed
		}
	}

	limit := 100
	if v := c.QueryParam("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	offset := 0
	if v := c.QueryParam("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	ctx := c.Request().Context()
	records, err := s.dataStore.ListInferences(ctx, nodeID, since, until, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	count, err := s.dataStore.CountInferences(ctx, nodeID, since, until)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"node_id": nodeID,
		"total":   count,
		"records": records,
	})
}
