package contract

import (
	"fmt"
	"maps"
	"runtime"
	"strings"
	"time"

	"github.com/sahajm/bidscope/core/match"
	"github.com/sahajm/bidscope/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 10
	MaxResultLimit     = 100
	DefaultPrecision   = 1
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ScoreWeightsRaw holds custom composite score weights from the YAML config
// file. Use float64 pointers so absent fields keep their defaults.
type ScoreWeightsRaw struct {
	Technical  *float64 `mapstructure:"technical"`
	Price      *float64 `mapstructure:"price"`
	Delivery   *float64 `mapstructure:"delivery"`
	Compliance *float64 `mapstructure:"compliance"`
	Risk       *float64 `mapstructure:"risk"`
}

// SpecWeightsRaw holds custom specification match weights from the YAML
// config file.
type SpecWeightsRaw struct {
	Voltage     *float64 `mapstructure:"voltage"`
	Material    *float64 `mapstructure:"material"`
	Insulation  *float64 `mapstructure:"insulation"`
	Cores       *float64 `mapstructure:"cores"`
	Armoring    *float64 `mapstructure:"armoring"`
	Size        *float64 `mapstructure:"size"`
	Temperature *float64 `mapstructure:"temperature"`
	Standards   *float64 `mapstructure:"standards"`
}

// Config holds the runtime configuration for an evaluation run.
// This struct remains the "final, validated" config.
type Config struct {
	TendersPath   string
	CatalogPath   string
	DiscountsPath string
	TestsPath     string

	ResultLimit int
	Workers     int
	MinScore    float64
	Within      time.Duration // only evaluate tenders whose deadline falls inside this window (0 = all)

	Detail     bool
	Explain    bool
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	CatalogBackend   schema.DatabaseBackend
	CatalogDBConnect string

	ResultBackend   schema.DatabaseBackend
	ResultDBConnect string // Please use env var as this is plaintext

	// ComputedScoreWeights is the final composite weight map, computed
	// from defaults plus any config file overrides.
	ComputedScoreWeights map[schema.ScoreFactor]float64

	// ComputedSpecWeights is the final attribute weight map for matching.
	ComputedSpecWeights map[schema.AttributeKey]float64
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	TendersPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Catalog          string `mapstructure:"catalog"`
	Discounts        string `mapstructure:"discounts"`
	Tests            string `mapstructure:"tests"`
	Limit            int    `mapstructure:"limit"`
	Workers          int    `mapstructure:"workers"`
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	CatalogBackend   string `mapstructure:"catalog-backend"`
	CatalogDBConnect string `mapstructure:"catalog-db-connect"`
	ResultBackend    string `mapstructure:"result-backend"`
	ResultDBConnect  string `mapstructure:"result-db-connect"`

	// --- Fields from evaluateCmd.Flags() ---
	MinScore float64 `mapstructure:"min-score"`
	Within   string  `mapstructure:"within"`
	Detail   bool    `mapstructure:"detail"`
	Explain  bool    `mapstructure:"explain"`

	// --- Custom weights from config file ---
	Weights     ScoreWeightsRaw `mapstructure:"weights"`
	SpecWeights SpecWeightsRaw  `mapstructure:"spec_weights"`
}

// ProcessAndValidate performs all complex parsing and validation on the raw
// inputs and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processWithinWindow(cfg, input); err != nil {
		return err
	}
	if err := processScoreWeights(cfg, input); err != nil {
		return err
	}
	if err := processSpecWeights(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates all scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.TendersPath = input.TendersPathStr
	cfg.CatalogPath = input.Catalog
	cfg.DiscountsPath = input.Discounts
	cfg.TestsPath = input.Tests
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Explain = input.Explain
	cfg.Width = input.Width

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. MinScore Validation ---
	if input.MinScore < 0 || input.MinScore > 100 {
		return fmt.Errorf("min-score must be between 0 and 100 (received %.2f)", input.MinScore)
	}
	cfg.MinScore = input.MinScore
	if cfg.MinScore == 0 {
		cfg.MinScore = match.DefaultMinScore
	}

	// --- 4. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}

	// --- 5. Backend Validation ---
	cfg.CatalogBackend = schema.DatabaseBackend(strings.ToLower(input.CatalogBackend))
	if _, ok := schema.ValidResultBackends[cfg.CatalogBackend]; !ok {
		return fmt.Errorf("invalid catalog backend '%s'. must be sqlite, mysql, postgresql, none", input.CatalogBackend)
	}
	cfg.CatalogDBConnect = input.CatalogDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CatalogBackend, cfg.CatalogDBConnect); err != nil {
		return err
	}

	cfg.ResultBackend = schema.DatabaseBackend(strings.ToLower(input.ResultBackend))
	if _, ok := schema.ValidResultBackends[cfg.ResultBackend]; !ok {
		return fmt.Errorf("invalid result backend '%s'. must be sqlite, mysql, postgresql, none", input.ResultBackend)
	}
	cfg.ResultDBConnect = input.ResultDBConnect
	if err := ValidateDatabaseConnectionString(cfg.ResultBackend, cfg.ResultDBConnect); err != nil {
		return err
	}

	return nil
}

// processWithinWindow parses the deadline window filter (e.g. "45d", "6w").
func processWithinWindow(cfg *Config, input *ConfigRawInput) error {
	if input.Within == "" {
		cfg.Within = 0
		return nil
	}
	window, err := ParseWindow(input.Within)
	if err != nil {
		return fmt.Errorf("invalid --within value: %w", err)
	}
	cfg.Within = window
	return nil
}

// processScoreWeights merges config file overrides onto the default
// composite weights and validates that the result sums to 1.0.
func processScoreWeights(cfg *Config, input *ConfigRawInput) error {
	weights := schema.GetDefaultScoreWeights()

	overrides := map[schema.ScoreFactor]*float64{
		schema.FactorTechnical:  input.Weights.Technical,
		schema.FactorPrice:      input.Weights.Price,
		schema.FactorDelivery:   input.Weights.Delivery,
		schema.FactorCompliance: input.Weights.Compliance,
		schema.FactorRisk:       input.Weights.Risk,
	}
	for factor, override := range overrides {
		if override != nil {
			weights[factor] = *override
		}
	}

	sum := 0.0
	for factor, w := range weights {
		if w < 0 {
			return fmt.Errorf("score weight for %s must be non-negative (received %.3f)", factor, w)
		}
		sum += w
	}
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("score weights must sum to 1.0, got %.3f", sum)
	}

	cfg.ComputedScoreWeights = weights
	return nil
}

// processSpecWeights merges config file overrides onto the default
// attribute match weights.
func processSpecWeights(cfg *Config, input *ConfigRawInput) error {
	weights := schema.GetDefaultSpecWeights()

	overrides := map[schema.AttributeKey]*float64{
		schema.AttrVoltage:    input.SpecWeights.Voltage,
		schema.AttrMaterial:   input.SpecWeights.Material,
		schema.AttrInsulation: input.SpecWeights.Insulation,
		schema.AttrCores:      input.SpecWeights.Cores,
		schema.AttrArmoring:   input.SpecWeights.Armoring,
		schema.AttrSize:       input.SpecWeights.Size,
		schema.AttrTemp:       input.SpecWeights.Temperature,
		schema.AttrStandards:  input.SpecWeights.Standards,
	}
	for key, override := range overrides {
		if override != nil {
			if *override < 0 {
				return fmt.Errorf("spec weight for %s must be non-negative (received %.3f)", key, *override)
			}
			weights[key] = *override
		}
	}

	cfg.ComputedSpecWeights = weights
	return nil
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("result-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("result-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.ComputedScoreWeights != nil {
		clone.ComputedScoreWeights = make(map[schema.ScoreFactor]float64)
		maps.Copy(clone.ComputedScoreWeights, c.ComputedScoreWeights)
	}
	if c.ComputedSpecWeights != nil {
		clone.ComputedSpecWeights = make(map[schema.AttributeKey]float64)
		maps.Copy(clone.ComputedSpecWeights, c.ComputedSpecWeights)
	}
	return &clone
}
