package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sahajm/bidscope/internal/contract"
	"github.com/sahajm/bidscope/internal/refdata"
	"github.com/sahajm/bidscope/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// refTables holds the reference data loaded during shared setup.
var refTables contract.ReferenceData

// resultStore holds the run-tracking store opened during shared setup.
var resultStore contract.ResultStore

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "bidscope",
	Short:              "Evaluate procurement tenders against a supplier catalog.",
	Long:               `Bidscope parses tender documents, matches line items against your product catalog, prices the order and ranks tenders by bid-worthiness.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Set config file name and paths
		viper.SetConfigName(".bidscope") // Name of config file (without extension)
		viper.SetConfigType("yaml")      // We'll use YAML format
		viper.AddConfigPath(".")         // Look in the current directory
		viper.AddConfigPath("$HOME")     // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("BIDSCOPE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("limit", contract.DefaultResultLimit)
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("catalog-backend", schema.NoneBackend)
	viper.SetDefault("catalog-db-connect", "")
	viper.SetDefault("result-backend", schema.NoneBackend)
	viper.SetDefault("result-db-connect", "")
	viper.SetDefault("color", "yes")
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, _ *cobra.Command, args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	if len(args) == 1 {
		input.TendersPathStr = args[0]
	}

	// 4. Run all validation and complex parsing.
	// This function now populates the global 'cfg' from 'input'.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 5. Load reference data with the validated config.
	ref, err := loadReferenceData()
	if err != nil {
		return fmt.Errorf("failed to load reference data: %w", err)
	}
	refTables = ref

	// 6. Open the result store for run tracking.
	store, err := refdata.NewResultStore(cfg.ResultBackend, cfg.ResultDBConnect)
	if err != nil {
		return fmt.Errorf("failed to initialize result store: %w", err)
	}
	resultStore = store

	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// loadReferenceData loads the catalog, discount and test-service tables from
// either the configured database backend or the CSV files.
func loadReferenceData() (contract.ReferenceData, error) {
	if cfg.CatalogBackend != schema.NoneBackend {
		return refdata.LoadTablesDB(cfg.CatalogBackend, cfg.CatalogDBConnect)
	}
	if cfg.CatalogPath == "" {
		return nil, errors.New("no catalog configured: pass --catalog or set --catalog-backend")
	}
	return refdata.LoadTablesCSV(cfg.CatalogPath, cfg.DiscountsPath, cfg.TestsPath)
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	// Handle config file
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".bidscope")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	// Load config file if present
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
