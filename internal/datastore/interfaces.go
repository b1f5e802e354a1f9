// interfaces.go: this code defines the interface for the database operations
package datastore

//go:generate mockery

// The go:generate directive above runs mockery. This tree contains no
// .mockery.yaml and no generated mocks (there is no internal/datastore/mocks/
// directory); the package's tests use the real SQLite store instead.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/clearsky/wxcore/internal/conf"
	"github.com/clearsky/wxcore/internal/errors"
	"github.com/clearsky/wxcore/internal/weathercore"
	"gorm.io/gorm"
)

// Database dialect constants.
const (
	DialectUnknown = "unknown"
	DialectSQLite  = "sqlite"
	DialectMySQL   = "mysql"
)

// Sentinel errors for not found cases.
var (
	// ErrInferenceNotFound indicates no inference record exists for the request.
	ErrInferenceNotFound = errors.Newf("inference record not found").Component("datastore").Category(errors.CategoryNotFound).Build()
	// ErrForecastNotFound indicates no forecast run exists for the request.
	ErrForecastNotFound = errors.Newf("forecast not found").Component("datastore").Category(errors.CategoryNotFound).Build()
	// ErrDBNotConnected indicates the database is not connected, but partial stats may be available.
	ErrDBNotConnected = errors.Newf("database not connected").Component("datastore").Category(errors.CategorySystem).Build()
)

// DatabaseStats contains basic runtime statistics about the database.
type DatabaseStats struct {
	Type             string `json:"type"` // "sqlite" or "mysql"
	SizeBytes        int64  `json:"size_bytes"`
	InferenceRecords int64  `json:"inference_records"`
	Connected        bool   `json:"connected"`
	Location         string `json:"location"` // file path for SQLite, host:port/database for MySQL
}

// Interface abstracts the underlying database implementation for the
// weather inference core's durable history: emitted Inferences and the
// daily/hourly Forecast runs produced alongside them (spec §3.4/§3.5/§6.3).
//
// Optional methods:
//   - CheckpointWAL() error - implemented by stores with Write-Ahead Logging (SQLite).
//     Call via type assertion: if s, ok := store.(*SQLiteStore); ok { s.CheckpointWAL() }
type Interface interface {
	Open() error
	Close() error
	SetMetrics(m *Metrics)
	Optimize(ctx context.Context) error
	GetDatabaseStats() (*DatabaseStats, error)

	// SaveInference persists one emitted Inference for nodeID at timestamp.
	SaveInference(ctx context.Context, nodeID string, timestamp time.Time, inf weathercore.Inference) error
	// LatestInference returns the most recently saved inference for nodeID.
	LatestInference(ctx context.Context, nodeID string) (*InferenceRecord, error)
	// ListInferences returns inferences for nodeID within [since, until), newest first.
	ListInferences(ctx context.Context, nodeID string, since, until time.Time, limit, offset int) ([]InferenceRecord, error)
	// CountInferences returns how many inference rows fall within [since, until).
	CountInferences(ctx context.Context, nodeID string, since, until time.Time) (int64, error)

	// SaveForecast persists one Forecast run (all daily and hourly rows) for nodeID.
	SaveForecast(ctx context.Context, nodeID string, generatedAt time.Time, fc weathercore.Forecast) error
	// LatestForecastDaily returns the daily rows from the most recent forecast run.
	LatestForecastDaily(ctx context.Context, nodeID string) ([]ForecastDailyRecord, error)
	// LatestForecastHourly returns the hourly rows from the most recent forecast run.
	LatestForecastHourly(ctx context.Context, nodeID string) ([]ForecastHourlyRecord, error)

	// PruneOlderThan deletes inference and forecast rows older than cutoff,
	// implementing the retention policy in conf.OutputConfig.RetentionDays.
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	Transaction(fc func(tx *gorm.DB) error) error
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB       *gorm.DB // GORM database instance
	metrics  *Metrics // metrics instance for tracking operations
	filePath string   // on-disk database file path, set by SQLiteStore.Open; empty for MySQL

	// Monitoring lifecycle management
	monitoringCtx    context.Context    // context for monitoring goroutines
	monitoringCancel context.CancelFunc // function to cancel monitoring
}

// New creates a store implementation based on the provided configuration.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{Settings: settings}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{Settings: settings}
	default:
		return nil
	}
}

// SetMetrics sets the metrics instance for the datastore.
func (ds *DataStore) SetMetrics(m *Metrics) {
	ds.metrics = m
}

// Transaction runs fc inside a GORM transaction, committing on success and
// rolling back if fc returns an error.
func (ds *DataStore) Transaction(fc func(tx *gorm.DB) error) error {
	return ds.DB.Transaction(fc)
}

// SaveInference persists one emitted Inference as an InferenceRecord.
func (ds *DataStore) SaveInference(ctx context.Context, nodeID string, timestamp time.Time, inf weathercore.Inference) error {
	warningsJSON, err := json.Marshal(inf.Warnings)
	if err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryValidation).
			Context("operation", "save_inference").
			Context("node_id", nodeID).
			Build()
	}

	record := InferenceRecord{
		NodeID:            nodeID,
		Timestamp:         timestamp,
		Condition:         string(inf.Condition),
		DewpointF:         inf.DewpointF,
		CloudCoverPct:     inf.CloudCoverPct,
		FogScore:          inf.FogScore,
		Visibility:        string(inf.Visibility),
		PressureSeaLevel:  inf.PressureSeaLevel,
		PressureSystem:    string(inf.PressureSystem),
		StormProbability:  inf.StormProbability,
		WindClass:         string(inf.WindClass),
		GustClass:         string(inf.GustClass),
		IsDaytime:         inf.IsDaytime,
		SolarElevationDeg: inf.SolarElevationDeg,
		Warnings:          string(warningsJSON),
		CreatedAt:         timestamp,
	}

	if err := ds.DB.WithContext(ctx).Create(&record).Error; err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "save_inference").
			Context("node_id", nodeID).
			Build()
	}

	if ds.metrics != nil {
		ds.metrics.RecordDbOperation("insert", InferenceRecord{}.TableName(), "success")
	}

	return nil
}

// LatestInference returns the most recently saved inference for nodeID.
func (ds *DataStore) LatestInference(ctx context.Context, nodeID string) (*InferenceRecord, error) {
	var record InferenceRecord
	err := ds.DB.WithContext(ctx).
		Where("node_id = ?", nodeID).
		Order("timestamp DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInferenceNotFound
		}
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "latest_inference").
			Context("node_id", nodeID).
			Build()
	}
	return &record, nil
}

// ListInferences returns inferences for nodeID within [since, until), newest
// first, honoring limit/offset pagination (limit <= 0 means no limit).
func (ds *DataStore) ListInferences(ctx context.Context, nodeID string, since, until time.Time, limit, offset int) ([]InferenceRecord, error) {
	var records []InferenceRecord
	q := ds.DB.WithContext(ctx).
		Where("node_id = ? AND timestamp >= ? AND timestamp < ?", nodeID, since, until).
		Order("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "list_inferences").
			Context("node_id", nodeID).
			Build()
	}
	return records, nil
}

// CountInferences returns how many inference rows fall within [since, until).
func (ds *DataStore) CountInferences(ctx context.Context, nodeID string, since, until time.Time) (int64, error) {
	var count int64
	err := ds.DB.WithContext(ctx).Model(&InferenceRecord{}).
		Where("node_id = ? AND timestamp >= ? AND timestamp < ?", nodeID, since, until).
		Count(&count).Error
	if err != nil {
		return 0, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "count_inferences").
			Context("node_id", nodeID).
			Build()
	}
	return count, nil
}

// SaveForecast persists every daily and hourly row of one Forecast run inside
// a single transaction.
func (ds *DataStore) SaveForecast(ctx context.Context, nodeID string, generatedAt time.Time, fc weathercore.Forecast) error {
	dailyRows := make([]ForecastDailyRecord, 0, len(fc.Daily))
	for _, d := range fc.Daily {
		dailyRows = append(dailyRows, ForecastDailyRecord{
			NodeID:                   nodeID,
			GeneratedAt:              generatedAt,
			DateTime:                 d.DateTime,
			Condition:                string(d.Condition),
			TempHigh:                 d.TempHigh,
			TempLow:                  d.TempLow,
			Precipitation:            d.Precipitation,
			PrecipitationProbability: d.PrecipitationProbability,
			WindSpeed:                d.WindSpeed,
			WindBearing:              d.WindBearing,
			Humidity:                 d.Humidity,
		})
	}

	hourlyRows := make([]ForecastHourlyRecord, 0, len(fc.Hourly))
	for _, h := range fc.Hourly {
		hourlyRows = append(hourlyRows, ForecastHourlyRecord{
			NodeID:                   nodeID,
			GeneratedAt:              generatedAt,
			DateTime:                 h.DateTime,
			Condition:                string(h.Condition),
			Temperature:              h.Temperature,
			Precipitation:            h.Precipitation,
			PrecipitationProbability: h.PrecipitationProbability,
			WindSpeed:                h.WindSpeed,
			WindBearing:              h.WindBearing,
			Humidity:                 h.Humidity,
		})
	}

	err := ds.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(dailyRows) > 0 {
			if err := tx.Create(&dailyRows).Error; err != nil {
				return err
			}
		}
		if len(hourlyRows) > 0 {
			if err := tx.Create(&hourlyRows).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "save_forecast").
			Context("node_id", nodeID).
			Build()
	}

	if ds.metrics != nil {
		ds.metrics.RecordDbOperation("insert", ForecastDailyRecord{}.TableName(), "success")
		ds.metrics.RecordDbOperation("insert", ForecastHourlyRecord{}.TableName(), "success")
	}

	return nil
}

// LatestForecastDaily returns the daily rows from the most recent forecast run.
func (ds *DataStore) LatestForecastDaily(ctx context.Context, nodeID string) ([]ForecastDailyRecord, error) {
	var generatedAt time.Time
	err := ds.DB.WithContext(ctx).Model(&ForecastDailyRecord{}).
		Where("node_id = ?", nodeID).
		Order("generated_at DESC").
		Limit(1).
		Pluck("generated_at", &generatedAt).Error
	if err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "latest_forecast_daily").
			Build()
	}
	if generatedAt.IsZero() {
		return nil, ErrForecastNotFound
	}

	var rows []ForecastDailyRecord
	if err := ds.DB.WithContext(ctx).
		Where("node_id = ? AND generated_at = ?", nodeID, generatedAt).
		Order("date_time ASC").
		Find(&rows).Error; err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "latest_forecast_daily").
			Build()
	}
	return rows, nil
}

// LatestForecastHourly returns the hourly rows from the most recent forecast run.
func (ds *DataStore) LatestForecastHourly(ctx context.Context, nodeID string) ([]ForecastHourlyRecord, error) {
	var generatedAt time.Time
	err := ds.DB.WithContext(ctx).Model(&ForecastHourlyRecord{}).
		Where("node_id = ?", nodeID).
		Order("generated_at DESC").
		Limit(1).
		Pluck("generated_at", &generatedAt).Error
	if err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "latest_forecast_hourly").
			Build()
	}
	if generatedAt.IsZero() {
		return nil, ErrForecastNotFound
	}

	var rows []ForecastHourlyRecord
	if err := ds.DB.WithContext(ctx).
		Where("node_id = ? AND generated_at = ?", nodeID, generatedAt).
		Order("date_time ASC").
		Find(&rows).Error; err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "latest_forecast_hourly").
			Build()
	}
	return rows, nil
}

// PruneOlderThan deletes inference and forecast rows older than cutoff. It
// implements the retention policy driven by conf.OutputConfig.RetentionDays
// and returns the total number of rows removed across all three tables.
func (ds *DataStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var total int64

	err := ds.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("timestamp < ?", cutoff).Delete(&InferenceRecord{})
		if res.Error != nil {
			return res.Error
		}
		total += res.RowsAffected

		res = tx.Where("generated_at < ?", cutoff).Delete(&ForecastDailyRecord{})
		if res.Error != nil {
			return res.Error
		}
		total += res.RowsAffected

		res = tx.Where("generated_at < ?", cutoff).Delete(&ForecastHourlyRecord{})
		if res.Error != nil {
			return res.Error
		}
		total += res.RowsAffected

		return nil
	})
	if err != nil {
		return 0, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "prune_older_than").
			Context("cutoff", fmt.Sprintf("%v", cutoff)).
			Build()
	}

	return total, nil
}

// GetDatabaseStats reports basic runtime statistics. Implementations
// (SQLiteStore/MySQLStore) fill in Type/Location; this shared helper counts
// inference rows and reports the connection state.
func (ds *DataStore) countInferenceRows(ctx context.Context) (int64, error) {
	if ds.DB == nil {
		return 0, ErrDBNotConnected
	}
	var count int64
	if err := ds.DB.WithContext(ctx).Model(&InferenceRecord{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
