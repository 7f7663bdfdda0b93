package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahajm/bidscope/schema"
)

func validRawInput() *ConfigRawInput {
	return &ConfigRawInput{
		TendersPathStr: "testdata/tenders.json",
		Catalog:        "refdata/catalog.csv",
		Discounts:      "refdata/discounts.csv",
		Tests:          "refdata/tests.csv",
		Limit:          DefaultResultLimit,
		Workers:        4,
		Precision:      DefaultPrecision,
		Output:         "text",
		Color:          "yes",
		CatalogBackend: "none",
		ResultBackend:  "none",
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validRawInput()))

	assert.Equal(t, "testdata/tenders.json", cfg.TendersPath)
	assert.Equal(t, DefaultResultLimit, cfg.ResultLimit)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.UseColors)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.NoneBackend, cfg.ResultBackend)
	assert.Equal(t, time.Duration(0), cfg.Within)

	// Unset min-score falls back to the matcher default.
	assert.Equal(t, 30.0, cfg.MinScore)

	assert.InDelta(t, 0.35, cfg.ComputedScoreWeights[schema.FactorTechnical], 1e-9)
	assert.InDelta(t, 3.0, cfg.ComputedSpecWeights[schema.AttrSize], 1e-9)
}

func TestProcessAndValidateErrors(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*ConfigRawInput)
	}{
		{"zero limit", func(in *ConfigRawInput) { in.Limit = 0 }},
		{"limit over max", func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 }},
		{"zero workers", func(in *ConfigRawInput) { in.Workers = 0 }},
		{"negative min-score", func(in *ConfigRawInput) { in.MinScore = -1 }},
		{"min-score over 100", func(in *ConfigRawInput) { in.MinScore = 101 }},
		{"bad precision", func(in *ConfigRawInput) { in.Precision = 3 }},
		{"bad output", func(in *ConfigRawInput) { in.Output = "xml" }},
		{"bad color", func(in *ConfigRawInput) { in.Color = "maybe" }},
		{"bad backend", func(in *ConfigRawInput) { in.ResultBackend = "oracle" }},
		{"bad catalog backend", func(in *ConfigRawInput) { in.CatalogBackend = "oracle" }},
		{"catalog mysql without connect", func(in *ConfigRawInput) { in.CatalogBackend = "mysql" }},
		{"bad window", func(in *ConfigRawInput) { in.Within = "45y" }},
		{"mysql without connect", func(in *ConfigRawInput) { in.ResultBackend = "mysql" }},
		{"postgres without connect", func(in *ConfigRawInput) { in.ResultBackend = "postgresql" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			input := validRawInput()
			tc.mutate(input)
			assert.Error(t, ProcessAndValidate(&Config{}, input))
		})
	}
}

func TestProcessWithinWindow(t *testing.T) {
	input := validRawInput()
	input.Within = "45d"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, 45*24*time.Hour, cfg.Within)
}

func TestProcessScoreWeightOverrides(t *testing.T) {
	half := 0.5
	fifth := 0.2
	tenth := 0.1

	input := validRawInput()
	input.Weights = ScoreWeightsRaw{
		Technical:  &half,
		Price:      &fifth,
		Delivery:   &tenth,
		Compliance: &tenth,
		Risk:       &tenth,
	}

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.InDelta(t, 0.5, cfg.ComputedScoreWeights[schema.FactorTechnical], 1e-9)
	assert.InDelta(t, 0.2, cfg.ComputedScoreWeights[schema.FactorPrice], 1e-9)
}

func TestProcessScoreWeightsBadSum(t *testing.T) {
	half := 0.5

	input := validRawInput()
	input.Weights = ScoreWeightsRaw{Technical: &half} // 0.5 + 0.25 + 0.15 + 0.15 + 0.10 > 1

	assert.Error(t, ProcessAndValidate(&Config{}, input))
}

func TestProcessSpecWeightOverrides(t *testing.T) {
	five := 5.0
	input := validRawInput()
	input.SpecWeights = SpecWeightsRaw{Size: &five}

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.InDelta(t, 5.0, cfg.ComputedSpecWeights[schema.AttrSize], 1e-9)
	assert.InDelta(t, 1.0, cfg.ComputedSpecWeights[schema.AttrVoltage], 1e-9)

	negative := -1.0
	input.SpecWeights = SpecWeightsRaw{Cores: &negative}
	assert.Error(t, ProcessAndValidate(&Config{}, input))
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	assert.NoError(t, ValidateDatabaseConnectionString(schema.SQLiteBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.NoneBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pass@tcp(localhost:3306)/bidscope"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost dbname=bidscope user=bid"))

	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, ""))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pass@localhost/bidscope"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "dbname=bidscope"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost"))
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validRawInput()))

	clone := cfg.Clone()
	clone.ComputedScoreWeights[schema.FactorTechnical] = 0.99
	clone.ComputedSpecWeights[schema.AttrSize] = 9.0

	assert.InDelta(t, 0.35, cfg.ComputedScoreWeights[schema.FactorTechnical], 1e-9)
	assert.InDelta(t, 3.0, cfg.ComputedSpecWeights[schema.AttrSize], 1e-9)
}
