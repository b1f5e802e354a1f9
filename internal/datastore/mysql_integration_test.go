//go:build integration

package datastore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mysql"

	"github.com/clearsky/wxcore/internal/conf"
	"github.com/clearsky/wxcore/internal/weathercore"
)

// TestMySQLStore_Integration spins up a disposable MySQL container and
// exercises MySQLStore.Open against it, confirming the weather schema
// migrates and an inference round-trips through a real MySQL backend
// rather than SQLite. Skipped unless run with -tags=integration (requires
// a working Docker daemon).
func TestMySQLStore_Integration(t *testing.T) {
	ctx := context.Background()

	container, err := mysql.Run(ctx, "mysql:8.0",
		mysql.WithDatabase("wxcore_test"),
		mysql.WithUsername("wxcore"),
		mysql.WithPassword("wxcore"),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "3306/tcp")
	require.NoError(t, err)

	settings := &conf.Settings{}
	settings.Output.MySQL.Host = host
	settings.Output.MySQL.Port = port.Port()
	settings.Output.MySQL.Username = "wxcore"
	settings.Output.MySQL.Password = "wxcore"
	settings.Output.MySQL.Database = "wxcore_test"

	store := &MySQLStore{Settings: settings}
	require.NoError(t, store.Open())
	t.Cleanup(func() { _ = store.Close() })

	now := time.Now().UTC()
	inference := weathercore.Inference{
		Condition:         weathercore.ConditionCloudy,
		DewpointF:         48.1,
		CloudCoverPct:     72,
		FogScore:          0,
		Visibility:        weathercore.VisibilityClear,
		PressureSeaLevel:  29.94,
		PressureSystem:    weathercore.PressureNormal,
		StormProbability:  5,
		WindClass:         weathercore.WindLight,
		GustClass:         weathercore.GustNone,
		IsDaytime:         true,
		SolarElevationDeg: 30.2,
	}

	const nodeID = "station-integration"
	require.NoError(t, store.SaveInference(ctx, nodeID, now, inference))

	latest, err := store.LatestInference(ctx, nodeID)
	require.NoError(t, err)
	require.Equal(t, string(weathercore.ConditionCloudy), latest.Condition)
}
