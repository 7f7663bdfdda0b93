// Package parquet provides data structures and functions for exporting
// evaluation data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/sahajm/bidscope/schema"
)

// TenderScore represents the scored outcome for a single tender.
// This struct maps to the bidscope_tender_scores database table.
type TenderScore struct {
	// RunID references the parent evaluation run
	RunID int64 `parquet:"run_id,snappy"`

	// ProjectID is the tender identifier assigned by the issuing authority
	ProjectID string `parquet:"project_id,snappy"`

	// EvaluationTime is when this tender was evaluated
	EvaluationTime time.Time `parquet:"evaluation_time,snappy"`

	// Component scores (0-100)
	ScoreTechnical  float64 `parquet:"score_technical,snappy"`
	ScorePrice      float64 `parquet:"score_price,snappy"`
	ScoreDelivery   float64 `parquet:"score_delivery,snappy"`
	ScoreCompliance float64 `parquet:"score_compliance,snappy"`
	ScoreRisk       float64 `parquet:"score_risk,snappy"`

	// Composite is the weighted composite score (0-100)
	Composite float64 `parquet:"composite,snappy"`

	// Grade is the discrete grade label for the composite score
	Grade string `parquet:"grade,snappy"`

	// GrandTotal is the quoted grand total for the tender
	GrandTotal float64 `parquet:"grand_total,snappy"`

	// LineItems is the number of line items parsed from the tender
	LineItems int32 `parquet:"line_items,snappy"`

	// BestPick marks the winning tender of the run
	BestPick bool `parquet:"best_pick,snappy"`
}

// WriteTenderScoresParquet writes a slice of TenderScore structs to a Parquet file.
func WriteTenderScoresParquet(data []TenderScore, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the TenderScore struct tags
	writer := parquet.NewGenericWriter[TenderScore](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertTenderScoreRecords converts schema.TenderScoreRecord to TenderScore for Parquet export.
func ConvertTenderScoreRecords(records []schema.TenderScoreRecord) []TenderScore {
	result := make([]TenderScore, len(records))
	for i, record := range records {
		result[i] = TenderScore{
			RunID:           record.RunID,
			ProjectID:       record.ProjectID,
			EvaluationTime:  record.EvaluationTime,
			ScoreTechnical:  record.ScoreTechnical,
			ScorePrice:      record.ScorePrice,
			ScoreDelivery:   record.ScoreDelivery,
			ScoreCompliance: record.ScoreCompliance,
			ScoreRisk:       record.ScoreRisk,
			Composite:       record.Composite,
			Grade:           record.Grade,
			GrandTotal:      record.GrandTotal,
			LineItems:       record.LineItems,
			BestPick:        record.BestPick,
		}
	}
	return result
}

// ConvertEvaluations builds TenderScore rows directly from in-memory
// evaluations so a run can be exported without a result store.
func ConvertEvaluations(result schema.EvaluationResult, evaluationTime time.Time) []TenderScore {
	rows := make([]TenderScore, len(result.Evaluations))
	for i, e := range result.Evaluations {
		rows[i] = TenderScore{
			ProjectID:       e.Tender.ProjectID,
			EvaluationTime:  evaluationTime,
			ScoreTechnical:  e.Score.Components[schema.FactorTechnical],
			ScorePrice:      e.Score.Components[schema.FactorPrice],
			ScoreDelivery:   e.Score.Components[schema.FactorDelivery],
			ScoreCompliance: e.Score.Components[schema.FactorCompliance],
			ScoreRisk:       e.Score.Components[schema.FactorRisk],
			Composite:       e.Score.Composite,
			Grade:           e.Score.Grade,
			GrandTotal:      e.Pricing.GrandTotal,
			LineItems:       int32(len(e.Items)),
			BestPick:        i == result.BestIndex,
		}
	}
	return rows
}
