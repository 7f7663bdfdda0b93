// Package cmd defines the command-line interface for bidscope.
package cmd

import (
	"github.com/sahajm/bidscope/internal/contract"
	"github.com/sahajm/bidscope/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the catalog subcommands to the parent catalog command
	catalogCmd.AddCommand(catalogStatusCmd)

	// Add the results subcommands to the parent results command
	resultsCmd.AddCommand(resultsStatusCmd)
	resultsCmd.AddCommand(resultsClearCmd)
	resultsCmd.AddCommand(resultsExportCmd)
	resultsCmd.AddCommand(resultsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().Bool("detail", false, "Print per-target detail columns (components, attributes, costs)")
	rootCmd.PersistentFlags().Float64("min-score", 0, "Minimum match score threshold (0 = default)")
	rootCmd.PersistentFlags().String("catalog", "", "Path to the product catalog CSV file")
	rootCmd.PersistentFlags().String("discounts", "", "Path to the volume discounts CSV file")
	rootCmd.PersistentFlags().String("tests", "", "Path to the test services CSV file")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored grades in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("catalog-backend", string(schema.NoneBackend), "Catalog backend: sqlite or mysql or postgresql or none (none = CSV files)")
	rootCmd.PersistentFlags().String("catalog-db-connect", "", "Database connection string for the catalog backend")
	rootCmd.PersistentFlags().String("result-backend", string(schema.NoneBackend), "Result tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("result-db-connect", "", "Database connection string for result tracking (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of evaluateCmd to Viper
	evaluateCmd.Flags().String("within", "", "Only evaluate tenders with deadlines inside this window (e.g. '45d', '6w', '2m')")
	evaluateCmd.Flags().Bool("explain", false, "Print the top factors driving each composite score")
	if err := viper.BindPFlags(evaluateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding evaluate flags", err)
	}

	// Bind all flags of resultsMigrateCmd to Viper
	resultsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(resultsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding results migrate flags", err)
	}
}
