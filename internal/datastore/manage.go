package datastore

import (
	"log/slog"
	"slices"
	"time"

	"github.com/clearsky/wxcore/internal/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	// DefaultSlowQueryThreshold defines the duration after which a query is considered slow.
	// 200ms is chosen based on common industry practices and to catch queries that may
	// impact user experience. This threshold helps identify queries that need optimization
	// while avoiding false positives from typical database operations.
	DefaultSlowQueryThreshold = 200 * time.Millisecond

	// MaxColumnsForDetailedDisplay defines the maximum number of columns to display
	// in detailed logs. When more columns are present, only the count is shown to
	// keep log output concise and readable.
	MaxColumnsForDetailedDisplay = 5
)

// createGormLogger configures and returns a new GORM logger instance.
func createGormLogger() logger.Interface {
	return NewGormLogger(DefaultSlowQueryThreshold, logger.Warn, nil)
}

// performAutoMigration automates database migrations with error handling.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	migrationStart := time.Now()
	migrationLogger := getLogger().With("db_type", dbType)

	migrationLogger.Info("Starting database migration")

	successCount, err := migrateTables(db, dbType, migrationLogger)
	if err != nil {
		return err
	}

	migrationLogger.Info("Database migration completed successfully",
		"db_type", dbType,
		"total_duration", time.Since(migrationStart),
		"tables_migrated", successCount)

	return nil
}

// migrateTables performs the actual table migrations for the weather schema.
func migrateTables(db *gorm.DB, dbType string, lgr *slog.Logger) (int, error) {
	tableMappings := []struct {
		model any
		name  string
	}{
		{&InferenceRecord{}, InferenceRecord{}.TableName()},
		{&ForecastDailyRecord{}, ForecastDailyRecord{}.TableName()},
		{&ForecastHourlyRecord{}, ForecastHourlyRecord{}.TableName()},
	}

	lgr.Info("Starting table migrations", "table_count", len(tableMappings))

	successCount := 0
	for _, table := range tableMappings {
		if err := migrateTable(db, table.model, table.name, dbType, lgr); err != nil {
			return successCount, err
		}
		successCount++
	}

	return successCount, nil
}

// migrateTable migrates a single table with detailed logging.
func migrateTable(db *gorm.DB, model any, tableName, dbType string, lgr *slog.Logger) error {
	tableStart := time.Now()

	tableExists := db.Migrator().HasTable(model)

	lgr.Debug("Migrating table", "table", tableName, "exists", tableExists)

	columnsBefore := getTableColumns(db, model, tableExists)

	if err := db.AutoMigrate(model); err != nil {
		enhancedErr := errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "auto_migrate_table").
			Context("db_type", dbType).
			Context("table", tableName).
			Build()

		lgr.Error("Table migration failed", "table", tableName, "error", enhancedErr)
		return enhancedErr
	}

	action, addedColumns := determineTableChanges(db, model, tableExists, columnsBefore)

	logTableMigration(lgr, tableName, action, addedColumns, time.Since(tableStart))

	return nil
}

// getTableColumns retrieves column names for a table.
func getTableColumns(db *gorm.DB, model any, tableExists bool) []string {
	var columns []string
	if tableExists {
		if cols, err := db.Migrator().ColumnTypes(model); err == nil {
			for _, col := range cols {
				columns = append(columns, col.Name())
			}
		}
	}
	return columns
}

// determineTableChanges checks what changed after migration.
func determineTableChanges(db *gorm.DB, model any, tableExists bool, columnsBefore []string) (action string, addedColumns []string) {
	action = "updated"

	if !tableExists {
		action = "created"
		if cols, err := db.Migrator().ColumnTypes(model); err == nil {
			for _, col := range cols {
				addedColumns = append(addedColumns, col.Name())
			}
		}
	} else {
		addedColumns = findNewColumns(db, model, columnsBefore)
		if len(addedColumns) == 0 {
			action = "unchanged"
		}
	}

	return action, addedColumns
}

// findNewColumns identifies columns added during migration.
func findNewColumns(db *gorm.DB, model any, columnsBefore []string) []string {
	var addedColumns []string

	if cols, err := db.Migrator().ColumnTypes(model); err == nil {
		for _, col := range cols {
			colName := col.Name()
			if !slices.Contains(columnsBefore, colName) {
				addedColumns = append(addedColumns, colName)
			}
		}
	}

	return addedColumns
}

// logTableMigration logs the result of a table migration.
func logTableMigration(lgr *slog.Logger, tableName, action string, addedColumns []string, duration time.Duration) {
	logFields := []any{
		"table", tableName,
		"action", action,
		"duration", duration,
	}

	if len(addedColumns) > 0 {
		logFields = append(logFields, "columns_added", len(addedColumns))
		if len(addedColumns) <= MaxColumnsForDetailedDisplay {
			logFields = append(logFields, "new_columns", addedColumns)
		}
	}

	lgr.Info("Table migration completed", logFields...)
}
