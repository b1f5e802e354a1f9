package datastore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/clearsky/wxcore/internal/weathercore"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestStore opens an in-memory SQLite database migrated with the weather schema.
func newTestStore(t *testing.T) *DataStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&InferenceRecord{}, &ForecastDailyRecord{}, &ForecastHourlyRecord{}))

	return &DataStore{DB: db}
}

func sampleInference() weathercore.Inference {
	return weathercore.Inference{
		Condition:         weathercore.ConditionSunny,
		DewpointF:         52.3,
		CloudCoverPct:     10,
		FogScore:          0,
		Visibility:        weathercore.VisibilityClear,
		PressureSeaLevel:  1015.2,
		PressureSystem:    weathercore.PressureNormal,
		StormProbability:  0.02,
		WindClass:         weathercore.WindLight,
		GustClass:         weathercore.GustNone,
		IsDaytime:         true,
		SolarElevationDeg: 41.5,
		Warnings:          nil,
	}
}

func TestSaveAndLatestInference(t *testing.T) {
	ds := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 7, 31, 15, 0, 0, 0, time.UTC)

	require.NoError(t, ds.SaveInference(ctx, "node-1", now.Add(-time.Hour), sampleInference()))
	require.NoError(t, ds.SaveInference(ctx, "node-1", now, sampleInference()))

	latest, err := ds.LatestInference(ctx, "node-1")
	require.NoError(t, err)
	require.Equal(t, now.Unix(), latest.Timestamp.Unix())
	require.Equal(t, string(weathercore.ConditionSunny), latest.Condition)
}

func TestLatestInferenceNotFound(t *testing.T) {
	ds := newTestStore(t)

	_, err := ds.LatestInference(context.Background(), "node-unknown")
	require.ErrorIs(t, err, ErrInferenceNotFound)
}

func TestListInferencesHonorsWindowAndPagination(t *testing.T) {
	ds := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)

	for i := range 5 {
		require.NoError(t, ds.SaveInference(ctx, "node-1", base.Add(time.Duration(i)*time.Hour), sampleInference()))
	}

	records, err := ds.ListInferences(ctx, "node-1", base.Add(time.Hour), base.Add(4*time.Hour), 2, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	// newest first
	require.True(t, records[0].Timestamp.After(records[1].Timestamp))

	count, err := ds.CountInferences(ctx, "node-1", base, base.Add(5*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(5), count)
}

func TestSaveForecastAndLatest(t *testing.T) {
	ds := newTestStore(t)
	ctx := context.Background()
	generatedAt := time.Date(2026, 7, 31, 6, 0, 0, 0, time.UTC)

	var fc weathercore.Forecast
	for i := range fc.Daily {
		fc.Daily[i].DateTime = generatedAt.AddDate(0, 0, i)
		fc.Daily[i].Condition = weathercore.ConditionSunny
		fc.Daily[i].TempHigh = 70 + float64(i)
	}
	for i := range fc.Hourly {
		fc.Hourly[i].DateTime = generatedAt.Add(time.Duration(i) * time.Hour)
		fc.Hourly[i].Condition = weathercore.ConditionSunny
		fc.Hourly[i].Temperature = 60 + float64(i)
	}

	require.NoError(t, ds.SaveForecast(ctx, "node-1", generatedAt, fc))

	daily, err := ds.LatestForecastDaily(ctx, "node-1")
	require.NoError(t, err)
	require.Len(t, daily, len(fc.Daily))

	hourly, err := ds.LatestForecastHourly(ctx, "node-1")
	require.NoError(t, err)
	require.Len(t, hourly, len(fc.Hourly))
}

func TestPruneOlderThan(t *testing.T) {
	ds := newTestStore(t)
	ctx := context.Background()
	cutoff := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, ds.SaveInference(ctx, "node-1", cutoff.AddDate(0, 0, -10), sampleInference()))
	require.NoError(t, ds.SaveInference(ctx, "node-1", cutoff.AddDate(0, 0, 10), sampleInference()))

	removed, err := ds.PruneOlderThan(ctx, cutoff)
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)

	count, err := ds.CountInferences(ctx, "node-1", cutoff.AddDate(-1, 0, 0), cutoff.AddDate(1, 0, 0))
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}
