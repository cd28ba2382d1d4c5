package cmd

import (
	"fmt"
	"os"

	"github.com/kankavli/greenarea/internal/contract"
	"github.com/kankavli/greenarea/internal/iocache"
	"github.com/kankavli/greenarea/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loadHistoryBackend reads and validates the history backend settings without the full setup.
func loadHistoryBackend() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Empty backend is treated as NoneBackend
	backend, err := contract.ParseBackend(viper.GetString("history-backend"))
	if err != nil {
		return err
	}
	connStr := viper.GetString("history-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need store access without full shared setup.
func historySetup() error {
	if err := loadHistoryBackend(); err != nil {
		return err
	}
	if err := contract.SetupLogger(viper.GetBool("verbose")); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	// Get output-related config values (used by export command)
	cfg.OutputFile = viper.GetString("output-file")

	if err := iocache.InitStores(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// It does NOT initialize stores or create tables, so migrations run on a fresh database.
func historyMigrateSetup() error {
	if err := loadHistoryBackend(); err != nil {
		return err
	}
	// For SQLite backend with empty connection string, use default path
	if cfg.HistoryBackend == schema.SQLiteBackend {
		cfg.HistoryDBConnect = iocache.HistoryDBPath(cfg.HistoryDBConnect)
	}
	return nil
}

// historyMigrateSetupWrapper wraps historyMigrateSetup to provide PreRunE for migrate command.
func historyMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return historyMigrateSetup()
}

// historyCmd focused on lookup history management.
//
// History subcommands use minimal initialization (historySetup) instead of sharedSetup,
// which skips reference-set and simulation config processing.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recorded lookup history and exports",
	Long: `Manage the optional record of lookup runs.

When --history-backend is set, greenarea records every search and batch run:
- Run metadata (timestamp, configuration, duration)
- Each lookup input, the matched village and its simulated values

Supported backends: SQLite, MySQL, PostgreSQL, or None (default, disabled)

Subcommands:
  status  - Show history statistics
  export  - Export history to Parquet
  clear   - Remove all history
  migrate - Run database schema migrations

Examples:
  # Record lookups in the default SQLite file
  greenarea search berle --history-backend sqlite

  # Check what has been recorded
  greenarea history status --history-backend sqlite`,
}

// historyClearCmd clears the lookup history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded lookup history",
	Long: `Delete all stored lookup runs and their samples.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  greenarea history export --history-backend sqlite --output-file backup
  greenarea history clear --history-backend sqlite`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear lookup history", err)
		}
		fmt.Println("Lookup history cleared successfully.")
	},
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display lookup history statistics and connection details",
	Long: `Show information about the recorded lookup history.

Displays:
- Backend type and connection status
- Total number of lookup runs stored
- Last and oldest run timestamps
- Database table sizes

Examples:
  greenarea history status --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := storeManager.GetHistoryStore()
		if store == nil {
			contract.LogFatal("Failed to get history status", fmt.Errorf("history store is not initialized"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyExportCmd exports lookup history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export lookup history to Parquet for analytics",
	Long: `Export all recorded lookup history to Parquet.

Exports two datasets named after --output-file:
- <file>.lookup_runs.parquet    - metadata about each run
- <file>.lookup_samples.parquet - every lookup with its simulated values

Examples:
  greenarea history export --history-backend sqlite --output-file history
  duckdb -c "SELECT village, avg(cnn) FROM read_parquet('history.lookup_samples.parquet') GROUP BY 1"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(storeManager.GetHistoryStore(), cfg.OutputFile, os.Stdout); err != nil {
			contract.LogFatal("Failed to export lookup history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the lookup history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  greenarea history migrate --history-backend sqlite

  # Rollback to the initial state
  greenarea history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion, os.Stdout); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
