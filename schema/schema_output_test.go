package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrichEvaluationsRanking(t *testing.T) {
	evals := []TenderEvaluation{
		{
			Tender:  Tender{ProjectID: "TND-LOW"},
			Score:   ScoreBreakdown{Composite: 42.0, Grade: "Poor"},
			Pricing: PricingSummary{GrandTotal: 100000},
		},
		{
			Tender:  Tender{ProjectID: "TND-HIGH"},
			Score:   ScoreBreakdown{Composite: 88.5, Grade: "Excellent"},
			Pricing: PricingSummary{GrandTotal: 900000},
		},
		{
			Tender:  Tender{ProjectID: "TND-MID"},
			Score:   ScoreBreakdown{Composite: 61.2, Grade: "Satisfactory"},
			Pricing: PricingSummary{GrandTotal: 450000},
		},
	}

	rows := EnrichEvaluations(evals, 1)
	require.Len(t, rows, 3)

	assert.Equal(t, "TND-HIGH", rows[0].Project)
	assert.Equal(t, 1, rows[0].Rank)
	assert.True(t, rows[0].Best)
	assert.Equal(t, 1, rows[0].Index)

	assert.Equal(t, "TND-MID", rows[1].Project)
	assert.Equal(t, 2, rows[1].Rank)
	assert.False(t, rows[1].Best)

	assert.Equal(t, "TND-LOW", rows[2].Project)
	assert.Equal(t, 3, rows[2].Rank)
	assert.Equal(t, 100000.0, rows[2].Total)
}

func TestEnrichEvaluationsStableTies(t *testing.T) {
	evals := []TenderEvaluation{
		{Tender: Tender{ProjectID: "TND-A"}, Score: ScoreBreakdown{Composite: 50}},
		{Tender: Tender{ProjectID: "TND-B"}, Score: ScoreBreakdown{Composite: 50}},
	}

	rows := EnrichEvaluations(evals, 0)
	require.Len(t, rows, 2)
	assert.Equal(t, "TND-A", rows[0].Project)
	assert.Equal(t, "TND-B", rows[1].Project)
}

func TestEnrichEvaluationsEmpty(t *testing.T) {
	rows := EnrichEvaluations(nil, -1)
	assert.Empty(t, rows)
}
