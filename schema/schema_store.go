package schema

import "time"

// EvaluationRunRecord represents a row from the bidscope_evaluation_runs table.
type EvaluationRunRecord struct {
	RunID            int64
	StartTime        time.Time
	EndTime          *time.Time
	RunDurationMs    *int32
	TendersEvaluated int32
	ConfigParams     *string
}

// TenderScoreRecord represents a row from the bidscope_tender_scores table.
type TenderScoreRecord struct {
	RunID           int64
	ProjectID       string
	EvaluationTime  time.Time
	ScoreTechnical  float64
	ScorePrice      float64
	ScoreDelivery   float64
	ScoreCompliance float64
	ScoreRisk       float64
	Composite       float64
	Grade           string
	GrandTotal      float64
	LineItems       int32
	BestPick        bool
}
