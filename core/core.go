// Package core has core logic for parsing, matching, pricing and scoring.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/sahajm/bidscope/internal/contract"
	"github.com/sahajm/bidscope/internal/outwriter"
	"github.com/sahajm/bidscope/schema"
)

// ExecuteEvaluate runs the full evaluation over all tenders and prints the
// ranked results. It serves as the main entry point for the 'evaluate' mode.
func ExecuteEvaluate(ctx context.Context, cfg *contract.Config, source contract.TenderSource, ref contract.ReferenceData, store contract.ResultStore) error {
	start := time.Now()

	tenders, err := source.Load()
	if err != nil {
		return err
	}
	tenders = FilterTendersByWindow(tenders, cfg.Within, start)
	if len(tenders) == 0 {
		return fmt.Errorf("no tenders to evaluate")
	}

	// --- Begin run tracking (if configured) ---
	var runID int64
	if store != nil {
		configParams := map[string]any{
			"workers":   cfg.Workers,
			"limit":     cfg.ResultLimit,
			"min_score": cfg.MinScore,
			"within":    cfg.Within.String(),
		}
		runID, err = store.BeginRun(start, configParams)
		if err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
		}
	}

	result := EvaluateTenders(ctx, cfg, ref, tenders, start)

	// --- Record scores and finalize tracking ---
	if store != nil && runID > 0 {
		for i, e := range result.Evaluations {
			record := schema.TenderScoreRecord{
				ProjectID:       e.Tender.ProjectID,
				EvaluationTime:  start,
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
			if err := store.RecordTenderScore(runID, record); err != nil {
				contract.LogWarn("Failed to record tender score", err)
			}
		}
		if err := store.EndRun(runID, time.Now(), len(result.Evaluations)); err != nil {
			contract.LogWarn("Failed to finalize run tracking", err)
		}
	}

	duration := time.Since(start)
	return outwriter.WriteEvaluationResults(result, cfg, duration)
}

// ExecuteMatch runs parsing, extraction and matching for all tenders and
// prints per-line-item candidates. It serves as the entry point for the
// 'match' mode.
func ExecuteMatch(ctx context.Context, cfg *contract.Config, source contract.TenderSource, ref contract.ReferenceData) error {
	start := time.Now()

	tenders, err := source.Load()
	if err != nil {
		return err
	}
	if len(tenders) == 0 {
		return fmt.Errorf("no tenders to match")
	}

	result := EvaluateTenders(ctx, cfg, ref, tenders, start)
	duration := time.Since(start)
	return outwriter.WriteMatchResults(result.Evaluations, cfg, duration)
}

// ExecuteQuote runs the pipeline through pricing and prints the quote view
// per tender. It serves as the entry point for the 'quote' mode.
func ExecuteQuote(ctx context.Context, cfg *contract.Config, source contract.TenderSource, ref contract.ReferenceData) error {
	start := time.Now()

	tenders, err := source.Load()
	if err != nil {
		return err
	}
	if len(tenders) == 0 {
		return fmt.Errorf("no tenders to quote")
	}

	result := EvaluateTenders(ctx, cfg, ref, tenders, start)
	duration := time.Since(start)
	return outwriter.WriteQuoteResults(result.Evaluations, cfg, duration)
}
