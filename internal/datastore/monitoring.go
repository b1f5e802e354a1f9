package datastore

import (
	"context"
	"os"
	"time"
)

// StartMonitoring launches a background goroutine that periodically samples
// the connection pool (every poolInterval) and the database file size (every
// statsInterval), recording both to the store's *Metrics. It is a no-op if
// metrics were never attached via SetMetrics. Safe to call once per store;
// a second call replaces the previous monitoring goroutine.
func (ds *DataStore) StartMonitoring(poolInterval, statsInterval time.Duration) {
	if ds.metrics == nil || ds.DB == nil {
		return
	}

	if ds.monitoringCancel != nil {
		ds.monitoringCancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	ds.monitoringCtx = ctx
	ds.monitoringCancel = cancel

	go ds.monitorConnectionPool(ctx, poolInterval)
	go ds.monitorDatabaseStats(ctx, statsInterval)
}

// StopMonitoring stops the monitoring goroutines started by StartMonitoring.
// Safe to call even if monitoring was never started.
func (ds *DataStore) StopMonitoring() {
	if ds.monitoringCancel != nil {
		ds.monitoringCancel()
		ds.monitoringCancel = nil
	}
}

func (ds *DataStore) monitorConnectionPool(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sqlDB, err := ds.DB.DB()
			if err != nil {
				continue
			}
			stats := sqlDB.Stats()
			ds.metrics.SetConnectionPoolStats(stats.InUse, stats.Idle)
		}
	}
}

func (ds *DataStore) monitorDatabaseStats(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ds.sampleDatabaseFileSize()
		}
	}
}

// sampleDatabaseFileSize records the current on-disk size for file-backed
// stores (SQLite, via filePath). MySQL reports no local file and is skipped.
func (ds *DataStore) sampleDatabaseFileSize() {
	if ds.filePath == "" {
		return
	}
	info, err := os.Stat(ds.filePath)
	if err != nil {
		return
	}
	ds.metrics.SetDatabaseSizeBytes(info.Size())
}
