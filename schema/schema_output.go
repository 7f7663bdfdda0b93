package schema

import "sort"

// EnrichedTenderResult adds presentation data to a TenderEvaluation.
type EnrichedTenderResult struct {
	Rank    int     `json:"rank"`
	Best    bool    `json:"best"`
	Project string  `json:"project"`
	Score   float64 `json:"score"`
	Grade   string  `json:"grade"`
	Total   float64 `json:"total"`

	// Index points back into the source evaluation slice.
	Index int `json:"-"`
}

// GetGrade returns the discrete grade label for a composite score.
// Thresholds are inclusive lower bounds.
func GetGrade(score float64) string {
	switch {
	case score >= 85:
		return "Excellent"
	case score >= 75:
		return "Very Good"
	case score >= 65:
		return "Good"
	case score >= 55:
		return "Satisfactory"
	case score >= 45:
		return "Marginal"
	default:
		return "Poor"
	}
}

// EnrichEvaluations builds ranked presentation rows from evaluations.
// Rows are ordered by composite score descending; ties keep evaluation
// order (stable sort), so ranking is deterministic for a given input.
func EnrichEvaluations(evals []TenderEvaluation, bestIndex int) []EnrichedTenderResult {
	order := make([]int, len(evals))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return evals[order[a]].Score.Composite > evals[order[b]].Score.Composite
	})

	output := make([]EnrichedTenderResult, len(evals))
	for rank, idx := range order {
		e := evals[idx]
		output[rank] = EnrichedTenderResult{
			Rank:    rank + 1,
			Best:    idx == bestIndex,
			Project: e.Tender.ProjectID,
			Score:   e.Score.Composite,
			Grade:   e.Score.Grade,
			Total:   e.Pricing.GrandTotal,
			Index:   idx,
		}
	}
	return output
}
