// model.go this code defines the data model for the application
package datastore

import "time"

// InferenceRecord persists one emitted weathercore.Inference. It is the
// durable analogue of the core's in-memory trends store, giving a restarted
// station its condition history back and giving the API/backup stack
// something to review (spec §3.4/§6.3).
type InferenceRecord struct {
	ID        uint      `gorm:"primaryKey"`
	NodeID    string    `gorm:"index:idx_inference_node_time,priority:1"`
	Timestamp time.Time `gorm:"index:idx_inference_node_time,priority:2"`

	Condition         string
	DewpointF         float64
	CloudCoverPct     float64
	FogScore          int
	Visibility        string
	PressureSeaLevel  float64
	PressureSystem    string
	StormProbability  float64
	WindClass         string
	GustClass         string
	IsDaytime         bool
	SolarElevationDeg float64

	// Warnings holds the JSON-encoded []weathercore.Warning attached to the
	// Inference (spec §6.5). Written once and read back whole, so it is
	// stored as text rather than normalized into a join table.
	Warnings string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"index"`
}

// TableName keeps the table name stable and readable independent of any
// future Go identifier rename.
func (InferenceRecord) TableName() string { return "inference_records" }

// ForecastDailyRecord persists one day of a weathercore.Forecast.Daily run
// (spec §3.5/§4.10).
type ForecastDailyRecord struct {
	ID          uint      `gorm:"primaryKey"`
	NodeID      string    `gorm:"index:idx_forecast_daily_node_gen,priority:1"`
	GeneratedAt time.Time `gorm:"index:idx_forecast_daily_node_gen,priority:2"`
	DateTime    time.Time `gorm:"index"`

	Condition                string
	TempHigh                 float64
	TempLow                  float64
	Precipitation            float64
	PrecipitationProbability float64
	WindSpeed                float64
	WindBearing              float64
	Humidity                 float64
}

func (ForecastDailyRecord) TableName() string { return "forecast_daily_records" }

// ForecastHourlyRecord persists one hour of a weathercore.Forecast.Hourly
// run (spec §3.5/§4.10).
type ForecastHourlyRecord struct {
	ID          uint      `gorm:"primaryKey"`
	NodeID      string    `gorm:"index:idx_forecast_hourly_node_gen,priority:1"`
	GeneratedAt time.Time `gorm:"index:idx_forecast_hourly_node_gen,priority:2"`
	DateTime    time.Time `gorm:"index"`

	Condition                string
	Temperature              float64
	Precipitation            float64
	PrecipitationProbability float64
	WindSpeed                float64
	WindBearing              float64
	Humidity                 float64
}

func (ForecastHourlyRecord) TableName() string { return "forecast_hourly_records" }
