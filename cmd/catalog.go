package cmd

import (
	"github.com/sahajm/bidscope/internal/contract"
	"github.com/sahajm/bidscope/internal/refdata"
	"github.com/sahajm/bidscope/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// catalogSetup loads minimal configuration needed for catalog operations.
// This is used by commands that need catalog access without full shared setup.
func catalogSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get catalog-related config values
	backendStr := viper.GetString("catalog-backend")
	connStr := viper.GetString("catalog-db-connect")

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

	cfg.CatalogBackend = backend
	cfg.CatalogDBConnect = connStr
	cfg.CatalogPath = viper.GetString("catalog")
	cfg.DiscountsPath = viper.GetString("discounts")
	cfg.TestsPath = viper.GetString("tests")

	ref, err := loadReferenceData()
	if err != nil {
		return err
	}
	refTables = ref

	return nil
}

// catalogSetupWrapper wraps catalogSetup to provide PreRunE for catalog commands.
func catalogSetupWrapper(_ *cobra.Command, _ []string) error {
	return catalogSetup()
}

// catalogCmd groups commands for inspecting the reference data.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the product catalog and reference tables",
	Long: `Inspect the reference data bidscope matches and prices against.

The reference data consists of three tables:
- Product catalog - cable SKUs with specs, prices, MOQs and lead times
- Volume discounts - quantity bands with discounted unit prices
- Test services - compliance tests with flat prices and durations

Tables load from CSV files by default, or from a database when
--catalog-backend is set.

Subcommands:
  status - Show table sizes and product categories

Examples:
  # Check what is loaded from CSV files
  bidscope catalog status --catalog catalog.csv --discounts discounts.csv

  # Check a database-backed catalog
  bidscope catalog status --catalog-backend sqlite`,
}

// catalogStatusCmd shows the loaded reference data summary.
var catalogStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display reference data statistics",
	Long: `Show a summary of the loaded reference data.

Displays:
- Number of catalog products and their categories
- Number of volume discount bands
- Number of test services

Use this to verify the reference tables load cleanly before evaluating
tenders against them.

Examples:
  # Check catalog health
  bidscope catalog status --catalog catalog.csv`,
	PreRunE: catalogSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		refdata.PrintCatalogStatus(refTables.Status())
	},
}
