package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/kankavli/greenarea/internal/contract"
	"github.com/kankavli/greenarea/schema"
	_ "modernc.org/sqlite" // SQLite driver
)

// Table names for lookup history.
const (
	lookupRunsTable    = "greenarea_lookup_runs"
	lookupSamplesTable = "greenarea_lookup_samples"
)

// HistoryTables lists the history tables in creation order.
var HistoryTables = []string{lookupRunsTable, lookupSamplesTable}

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
	connStr    string
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// openDB opens and pings the database for the backend. SQLite falls back to the
// default history file when connStr is empty.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, string, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetHistoryDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// A single connection avoids "database is locked" errors and keeps :memory: databases shared
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		driverName = "mysql"
		dsn, dsnErr := withParseTime(connStr)
		if dsnErr != nil {
			return nil, "", fmt.Errorf("invalid MySQL connection string: %w. Expected format: user:password@tcp(host:port)/dbname", dsnErr)
		}
		db, err = sql.Open(driverName, dsn)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... user=... dbname=...", err)
		}

	default:
		return nil, "", fmt.Errorf("unsupported backend: %s", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file is accessible."
		}
		return nil, "", fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}
	return db, driverName, nil
}

// withParseTime makes the MySQL driver return DATETIME columns as time.Time.
func withParseTime(connStr string) (string, error) {
	cfg, err := mysql.ParseDSN(connStr)
	if err != nil {
		return "", err
	}
	cfg.ParseTime = true
	if cfg.Loc == nil {
		cfg.Loc = time.UTC
	}
	return cfg.FormatDSN(), nil
}

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend || backend == "" {
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: schema.NoneBackend}, nil
	}

	db, driverName, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
		connStr:    connStr,
	}, nil
}

// createHistoryTables creates the history tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{lookupRunsTable, getCreateLookupRunsQuery(backend)},
		{lookupSamplesTable, getCreateLookupSamplesQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateLookupRunsQuery returns the CREATE TABLE query for greenarea_lookup_runs.
func getCreateLookupRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(lookupRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_lookups INT NOT NULL DEFAULT 0,
				total_found INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_lookups INT NOT NULL DEFAULT 0,
				total_found INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_lookups INTEGER NOT NULL DEFAULT 0,
				total_found INTEGER NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateLookupSamplesQuery returns the CREATE TABLE query for greenarea_lookup_samples.
func getCreateLookupSamplesQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(lookupSamplesTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				lookup_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				run_id BIGINT NOT NULL,
				sample_id VARCHAR(36),
				input_name VARCHAR(255) NOT NULL,
				village VARCHAR(255) NOT NULL,
				found BOOLEAN NOT NULL,
				lookup_time DATETIME(6) NOT NULL,
				cnn DOUBLE,
				ndvi DOUBLE,
				gndvi DOUBLE,
				evi DOUBLE,
				savi DOUBLE
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				lookup_id BIGSERIAL PRIMARY KEY,
				run_id BIGINT NOT NULL,
				sample_id TEXT,
				input_name TEXT NOT NULL,
				village TEXT NOT NULL,
				found BOOLEAN NOT NULL,
				lookup_time TIMESTAMPTZ NOT NULL,
				cnn DOUBLE PRECISION,
				ndvi DOUBLE PRECISION,
				gndvi DOUBLE PRECISION,
				evi DOUBLE PRECISION,
				savi DOUBLE PRECISION
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				lookup_id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_id INTEGER NOT NULL,
				sample_id TEXT,
				input_name TEXT NOT NULL,
				village TEXT NOT NULL,
				found INTEGER NOT NULL,
				lookup_time TEXT NOT NULL,
				cnn REAL,
				ndvi REAL,
				gndvi REAL,
				evi REAL,
				savi REAL
			);
		`, quotedTableName)
	}
}

// disabled reports whether the store is a no-op.
func (hs *HistoryStoreImpl) disabled() bool {
	return hs.backend == schema.NoneBackend || hs.db == nil
}

// BeginRun creates a new lookup run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	if hs.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(lookupRunsTable, hs.backend)

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES ($1, $2) RETURNING run_id`, quotedTableName)
		err = hs.db.QueryRow(query, startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES (?, ?)`, quotedTableName)
		var result sql.Result
		result, err = hs.db.Exec(query, formatTime(startTime, hs.backend), string(configJSON))
		if err != nil {
			return 0, fmt.Errorf("failed to insert lookup run: %w", err)
		}
		runID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert lookup run: %w", err)
	}
	return runID, nil
}

// RecordLookup stores the outcome of one lookup.
func (hs *HistoryStoreImpl) RecordLookup(runID int64, result schema.LookupResult, at time.Time) error {
	if hs.disabled() {
		return nil
	}

	rec := schema.NewLookupSampleRecord(runID, result, at)
	var sampleID *string
	if rec.SampleID != "" {
		sampleID = &rec.SampleID
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, sample_id, input_name, village, found, lookup_time, cnn, ndvi, gndvi, evi, savi)
		VALUES (%s)
	`, quoteTableName(lookupSamplesTable, hs.backend), placeholders(hs.backend, 11))
	args := []any{
		rec.RunID, sampleID, rec.Input, rec.Village, rec.Found, formatTime(rec.LookupTime, hs.backend),
		rec.CNN, rec.NDVI, rec.GNDVI, rec.EVI, rec.SAVI,
	}

	if _, err := hs.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert lookup sample: %w", err)
	}
	return nil
}

// EndRun updates the run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, totalLookups, totalFound int) error {
	if hs.disabled() {
		return nil
	}

	quotedTableName := quoteTableName(lookupRunsTable, hs.backend)
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, placeholders(hs.backend, 1))
	startTime, err := scanTime(hs.db.QueryRow(query, runID), hs.backend)
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	var updateQuery string
	switch hs.backend {
	case schema.PostgreSQLBackend:
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = $1, run_duration_ms = $2, total_lookups = $3, total_found = $4 WHERE run_id = $5`, quotedTableName)
	default: // SQLite and MySQL
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, total_lookups = ?, total_found = ? WHERE run_id = ?`, quotedTableName)
	}

	if _, err := hs.db.Exec(updateQuery, formatTime(endTime, hs.backend), durationMs, totalLookups, totalFound, runID); err != nil {
		return fmt.Errorf("failed to update lookup run: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if hs.disabled() {
		return status, nil
	}

	runsTable := quoteTableName(lookupRunsTable, hs.backend)

	row := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable))
	if err := row.Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		lastRunQuery := fmt.Sprintf("SELECT run_id FROM %s ORDER BY run_id DESC LIMIT 1", runsTable)
		if err := hs.db.QueryRow(lastRunQuery).Scan(&status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}

		lastTimeQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id DESC LIMIT 1", runsTable)
		lastRunTime, err := scanTime(hs.db.QueryRow(lastTimeQuery), hs.backend)
		if err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		status.LastRunTime = lastRunTime

		oldestQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runsTable)
		oldestRunTime, err := scanTime(hs.db.QueryRow(oldestQuery), hs.backend)
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestRunTime

		lookupsQuery := fmt.Sprintf("SELECT COALESCE(SUM(total_lookups), 0) FROM %s", runsTable)
		if err := hs.db.QueryRow(lookupsQuery).Scan(&status.TotalLookups); err != nil {
			return status, fmt.Errorf("failed to get total lookups: %w", err)
		}
	}

	for _, table := range HistoryTables {
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))
		var count int64
		if err := hs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all lookup runs from the store.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.LookupRunRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, start_time, end_time, run_duration_ms, total_lookups, total_found, config_params
		FROM %s ORDER BY run_id`, quoteTableName(lookupRunsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query lookup runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.LookupRunRecord
	for rows.Next() {
		var record schema.LookupRunRecord

		switch hs.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &startTimeStr, &endTimeStr, &record.RunDurationMs,
				&record.TotalLookups, &record.TotalFound, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan lookup run: %w", err)
			}
			startTime, err := time.Parse(time.RFC3339Nano, startTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			record.StartTime = startTime
			if endTimeStr != nil {
				endTime, err := time.Parse(time.RFC3339Nano, *endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.StartTime, &record.EndTime, &record.RunDurationMs,
				&record.TotalLookups, &record.TotalFound, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan lookup run: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lookup runs: %w", err)
	}
	return results, nil
}

// GetAllSamples retrieves all recorded lookups from the store.
func (hs *HistoryStoreImpl) GetAllSamples() ([]schema.LookupSampleRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, sample_id, input_name, village, found, lookup_time, cnn, ndvi, gndvi, evi, savi
		FROM %s ORDER BY run_id, lookup_id`, quoteTableName(lookupSamplesTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query lookup samples: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.LookupSampleRecord
	for rows.Next() {
		var record schema.LookupSampleRecord
		var sampleID *string

		switch hs.backend {
		case schema.SQLiteBackend:
			var lookupTimeStr string
			if err := rows.Scan(&record.RunID, &sampleID, &record.Input, &record.Village, &record.Found, &lookupTimeStr,
				&record.CNN, &record.NDVI, &record.GNDVI, &record.EVI, &record.SAVI); err != nil {
				return nil, fmt.Errorf("failed to scan lookup sample: %w", err)
			}
			lookupTime, err := time.Parse(time.RFC3339Nano, lookupTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse lookup_time: %w", err)
			}
			record.LookupTime = lookupTime
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &sampleID, &record.Input, &record.Village, &record.Found, &record.LookupTime,
				&record.CNN, &record.NDVI, &record.GNDVI, &record.EVI, &record.SAVI); err != nil {
				return nil, fmt.Errorf("failed to scan lookup sample: %w", err)
			}
		}
		if sampleID != nil {
			record.SampleID = *sampleID
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lookup samples: %w", err)
	}
	return results, nil
}

// scanTime reads a single time column, parsing the SQLite text representation.
func scanTime(row *sql.Row, backend schema.DatabaseBackend) (time.Time, error) {
	if backend == schema.SQLiteBackend {
		var s string
		if err := row.Scan(&s); err != nil {
			return time.Time{}, err
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse time %q: %w", s, err)
		}
		return t, nil
	}
	var t time.Time
	err := row.Scan(&t)
	return t, err
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return t.UTC()
	}
}

// placeholders returns n comma-separated bind variables for the backend.
func placeholders(backend schema.DatabaseBackend, n int) string {
	vars := make([]string, n)
	for i := range vars {
		if backend == schema.PostgreSQLBackend {
			vars[i] = fmt.Sprintf("$%d", i+1)
		} else {
			vars[i] = "?"
		}
	}
	return strings.Join(vars, ", ")
}
