package cmd

import (
	"errors"
	"fmt"

	"github.com/sahajm/bidscope/internal/contract"
	"github.com/sahajm/bidscope/internal/parquet"
	"github.com/sahajm/bidscope/internal/refdata"
	"github.com/sahajm/bidscope/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// exportRowLimit caps how many score rows a single export reads.
const exportRowLimit = 1_000_000

// resultsSetup loads minimal configuration needed for result store operations.
// This is used by commands that need store access without full shared setup.
func resultsSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get result-related config values
	backendStr := viper.GetString("result-backend")
	connStr := viper.GetString("result-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.ResultBackend = backend
	cfg.ResultDBConnect = connStr

	// Get output-related config values (used by export command)
	cfg.OutputFile = viper.GetString("output-file")

	store, err := refdata.NewResultStore(backend, connStr)
	if err != nil {
		return fmt.Errorf("failed to initialize result store: %w", err)
	}
	resultStore = store

	return nil
}

// resultsSetupWrapper wraps resultsSetup to provide PreRunE for results commands.
func resultsSetupWrapper(_ *cobra.Command, _ []string) error {
	return resultsSetup()
}

// resultsMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT open the store or create tables,
// allowing migrations to run on a fresh database.
func resultsMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get result-related config values
	backendStr := viper.GetString("result-backend")
	connStr := viper.GetString("result-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetResultsDBFilePath()
	}

	cfg.ResultBackend = backend
	cfg.ResultDBConnect = connStr

	return nil
}

// resultsMigrateSetupWrapper wraps resultsMigrateSetup to provide PreRunE for migrate command.
func resultsMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return resultsMigrateSetup()
}

// resultsCmd focused on evaluation run data management.
//
// Note: Results subcommands use minimal initialization (resultsSetup) instead
// of the full sharedSetup used by evaluation commands. This avoids loading
// reference data for simple store operations.
var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Manage historical evaluation tracking and exports",
	Long: `Manage historical evaluation data used for trend tracking and reporting.

When enabled, bidscope tracks every evaluation run, storing:
- Run metadata (timestamp, configuration, duration)
- Per-tender scores across all factors (technical, price, delivery, compliance, risk)
- Commercial figures (grand total, line item counts, best pick)

This enables longitudinal analysis of bid decisions and data export for BI tools.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show evaluation tracking statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  bidscope results status --result-backend sqlite

  # Export for analysis in pandas/DuckDB
  bidscope results export --result-backend sqlite --output-file scores.parquet`,
}

// resultsStatusCmd shows result store status.
var resultsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display evaluation tracking statistics and connection details",
	Long: `Show detailed information about historical evaluation tracking.

Displays:
- Backend type and connection status
- Total number of evaluation runs stored
- Last and oldest run timestamps
- Total tenders evaluated across all runs
- Database table sizes

Examples:
  # Check evaluation tracking status
  bidscope results status --result-backend sqlite`,
	PreRunE: resultsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := resultStore.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get results status", err)
		}
		refdata.PrintResultsStatus(status)
	},
}

// resultsClearCmd clears the stored evaluation data.
var resultsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all historical evaluation tracking data",
	Long: `Delete all stored evaluation runs and tender score history.

This removes:
- All evaluation run metadata
- Historical tender scores across all runs

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  bidscope results export --result-backend sqlite --output-file backup.parquet
  bidscope results clear --result-backend sqlite`,
	PreRunE: resultsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		removed, err := resultStore.ClearRuns()
		if err != nil {
			contract.LogFatal("Failed to clear results data", err)
		}
		fmt.Printf("Results data cleared successfully (%d runs removed).\n", removed)
	},
}

// resultsExportCmd exports evaluation data to a Parquet file.
var resultsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export historical scores to Parquet for BI tools and analytics",
	Long: `Export all stored tender scores to Parquet format for use with
analytics tools.

Parquet format enables:
- Fast querying with DuckDB, Apache Spark, pandas
- Efficient storage with columnar compression
- Direct import into BI tools (Tableau, Metabase, etc.)

Requires: --output-file parameter

Examples:
  # Export all data
  bidscope results export --result-backend sqlite --output-file scores.parquet

  # Use with DuckDB for analysis
  duckdb -c "SELECT * FROM read_parquet('scores.parquet') LIMIT 10"`,
	PreRunE: resultsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := executeResultsExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export results data", err)
		}
	},
}

// executeResultsExport reads all stored scores and writes them to Parquet.
func executeResultsExport(outputFile string) error {
	if outputFile == "" {
		return errors.New("export requires --output-file")
	}

	records, err := resultStore.ListTenderScores(exportRowLimit)
	if err != nil {
		return fmt.Errorf("failed to read tender scores: %w", err)
	}
	if len(records) == 0 {
		return errors.New("no stored scores to export")
	}

	converted := parquet.ConvertTenderScoreRecords(records)
	if err := parquet.WriteTenderScoresParquet(converted, outputFile); err != nil {
		return err
	}

	fmt.Printf("Exported %d tender scores to %s\n", len(records), outputFile)
	return nil
}

// resultsMigrateCmd runs database migrations for the result store.
var resultsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the evaluation tracking store.

Migrations allow:
- Upgrading to new schema versions when bidscope is updated
- Safely modifying database structure without data loss
- Rolling back schema changes if needed

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  bidscope results migrate --result-backend sqlite

  # Migrate to specific version
  bidscope results migrate --result-backend sqlite --target-version 1

  # Rollback to previous version
  bidscope results migrate --result-backend sqlite --target-version 0`,
	PreRunE: resultsMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := refdata.MigrateResults(cfg.ResultBackend, cfg.ResultDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
