package core

import (
	"context"
	"sync"
	"time"

	"github.com/sahajm/bidscope/core/lineitem"
	"github.com/sahajm/bidscope/core/match"
	"github.com/sahajm/bidscope/core/pricing"
	"github.com/sahajm/bidscope/core/scoring"
	"github.com/sahajm/bidscope/core/specs"
	"github.com/sahajm/bidscope/internal/contract"
	"github.com/sahajm/bidscope/schema"
)

// Pipeline bundles the per-stage components for one evaluation run.
// All components are read-only after construction, so a single Pipeline
// is shared by all workers.
type Pipeline struct {
	parser    *lineitem.Parser
	extractor *specs.Extractor
	matcher   *match.Matcher
	engine    *pricing.Engine
	scorer    *scoring.Scorer
	catalog   []schema.CatalogProduct
	minScore  float64
}

// NewPipeline builds a pipeline from validated config and loaded reference
// data.
func NewPipeline(cfg *contract.Config, ref contract.ReferenceData) *Pipeline {
	products := ref.Products()
	byID := make(map[string]schema.CatalogProduct, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	return &Pipeline{
		parser:    lineitem.NewParser(nil),
		extractor: specs.NewExtractor(nil),
		matcher:   match.NewMatcher(cfg.ComputedSpecWeights),
		engine:    pricing.NewEngine(byID, ref.DiscountBands(), ref.TestServices()),
		scorer:    scoring.NewScorer(cfg.ComputedScoreWeights),
		catalog:   products,
		minScore:  cfg.MinScore,
	}
}

// EvaluateTenders runs the full pipeline over all tenders using a worker
// pool. Output order follows input order regardless of which worker
// finishes first.
func EvaluateTenders(ctx context.Context, cfg *contract.Config, ref contract.ReferenceData, tenders []schema.Tender, now time.Time) schema.EvaluationResult {
	p := NewPipeline(cfg, ref)

	type indexedTender struct {
		index  int
		tender schema.Tender
	}

	tenderCh := make(chan indexedTender, len(tenders))
	evaluations := make([]schema.TenderEvaluation, len(tenders))
	var wg sync.WaitGroup

	// Start worker pool
	for range cfg.Workers {
		wg.Go(func() {
			for t := range tenderCh {
				// Each worker writes to its own slot, no locking needed
				evaluations[t.index] = p.EvaluateTender(t.tender, now)
			}
		})
	}

	// Send tenders to worker channel, bailing out on cancellation
	for i, t := range tenders {
		if ctx.Err() != nil {
			break
		}
		tenderCh <- indexedTender{index: i, tender: t}
	}
	close(tenderCh)
	wg.Wait()

	breakdowns := make([]schema.ScoreBreakdown, len(evaluations))
	for i, e := range evaluations {
		breakdowns[i] = e.Score
	}

	return schema.EvaluationResult{
		Evaluations: evaluations,
		BestIndex:   scoring.BestIndex(breakdowns),
	}
}

// EvaluateTender runs all pipeline stages for a single tender.
func (p *Pipeline) EvaluateTender(tender schema.Tender, now time.Time) schema.TenderEvaluation {
	items := p.parser.Parse(tender.ScopeOfSupply)

	attrs := make([]schema.AttributeSet, len(items))
	matches := make(map[int][]schema.MatchCandidate, len(items))
	pooled := make(map[int][]schema.MatchCandidate, len(items))
	priced := make([]schema.PricedLineItem, len(items))

	for i, item := range items {
		attrs[i] = p.extractor.Extract(item.Text)

		// Match once with the broad pool; the detailed view is its prefix
		// since candidates are already in descending score order.
		candidates := p.matcher.Match(attrs[i], p.catalog, p.minScore, match.PoolResults)
		pooled[item.Position] = candidates
		detailed := candidates
		if len(detailed) > match.DetailedResults {
			detailed = detailed[:match.DetailedResults]
		}
		matches[item.Position] = detailed

		var selected *schema.MatchCandidate
		if len(candidates) > 0 {
			selected = &candidates[0]
		}
		priced[i] = p.engine.Price(item, attrs[i], selected, tender.TestingRequirement)
	}

	summary := pricing.Summarize(priced)
	pool := poolCandidates(items, pooled)
	score := p.scorer.Score(pool, summary.GrandTotal, tender.Deadline, now)

	return schema.TenderEvaluation{
		Tender:  tender,
		Items:   items,
		Attrs:   attrs,
		Matches: matches,
		Pricing: summary,
		Score:   score,
	}
}

// poolCandidates flattens the per-item candidate lists into a tender-level
// pool for scoring, deduplicated by product so one catalog row that matches
// several line items does not dominate the technical score.
func poolCandidates(items []schema.LineItem, matches map[int][]schema.MatchCandidate) []schema.MatchCandidate {
	seen := make(map[string]bool)
	var pool []schema.MatchCandidate
	for _, item := range items {
		for _, c := range matches[item.Position] {
			if seen[c.ProductID] {
				continue
			}
			seen[c.ProductID] = true
			pool = append(pool, c)
		}
	}
	return pool
}

// FilterTendersByWindow keeps tenders whose deadline falls inside the next
// window duration from now. A zero window disables filtering; tenders
// without a deadline are always kept.
func FilterTendersByWindow(tenders []schema.Tender, window time.Duration, now time.Time) []schema.Tender {
	if window == 0 {
		return tenders
	}
	cutoff := now.Add(window)
	kept := make([]schema.Tender, 0, len(tenders))
	for _, t := range tenders {
		if t.Deadline.IsZero() {
			kept = append(kept, t)
			continue
		}
		if t.Deadline.Before(now) || t.Deadline.After(cutoff) {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}
