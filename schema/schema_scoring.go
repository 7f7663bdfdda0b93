package schema

// ScoreBreakdown holds the composite evaluation score for one tender.
// It is recomputed in full on every scoring pass, never patched.
type ScoreBreakdown struct {
	Components     map[ScoreFactor]float64 `json:"components"`     // Raw component scores (0-100)
	Contributions  map[ScoreFactor]float64 `json:"contributions"`  // Weighted contribution of each component
	Composite      float64                 `json:"composite"`      // Weighted composite score (0-100)
	Normalized     float64                 `json:"normalized"`     // Composite / 100 (0-1)
	Grade          string                  `json:"grade"`          // Discrete grade label
	Recommendation string                  `json:"recommendation"` // Human-readable recommendation text
}

// TenderEvaluation bundles the full pipeline output for one tender.
type TenderEvaluation struct {
	Tender  Tender                   `json:"tender"`
	Items   []LineItem               `json:"items"`
	Attrs   []AttributeSet           `json:"attrs"`
	Matches map[int][]MatchCandidate `json:"matches"` // Line item position -> ranked candidates
	Pricing PricingSummary           `json:"pricing"`
	Score   ScoreBreakdown           `json:"score"`
}

// EvaluationResult is the cross-tender output: every evaluation plus the
// index of the best tender by normalized composite score.
type EvaluationResult struct {
	Evaluations []TenderEvaluation `json:"evaluations"`
	BestIndex   int                `json:"best_index"` // -1 when no tenders were evaluated
}

// Best returns the best tender evaluation, or nil when none were evaluated.
func (r *EvaluationResult) Best() *TenderEvaluation {
	if r.BestIndex < 0 || r.BestIndex >= len(r.Evaluations) {
		return nil
	}
	return &r.Evaluations[r.BestIndex]
}
