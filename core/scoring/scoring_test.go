package scoring

import (
	"testing"
	"time"

	"github.com/sahajm/bidscope/schema"
	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func strongMatches() []schema.MatchCandidate {
	return []schema.MatchCandidate{
		{ProductID: "A", Category: "MV Power Cables", Score: 95, UnitPrice: 500, MOQ: 1000, LeadTimeDays: 20, BISCertified: true, Standards: "IS 7098, IEC 60502", WarrantyYears: 3},
		{ProductID: "B", Category: "MV Power Cables", Score: 80, UnitPrice: 480, MOQ: 500, LeadTimeDays: 25, BISCertified: true, Standards: "IS 7098", WarrantyYears: 2},
		{ProductID: "C", Category: "Control Cables", Score: 72, UnitPrice: 120, MOQ: 200, LeadTimeDays: 15, BISCertified: false, Standards: "", WarrantyYears: 1},
	}
}

func TestTechnicalScore(t *testing.T) {
	// Decayed weighted average of 95/80/72 is ~84.63; all three clear the
	// good-match threshold so the 10% diversity bonus lifts it to ~93.1.
	matches := strongMatches()
	score := technicalScore(matches)
	assert.InDelta(t, 93.10, score, 0.05)

	// A lone candidate gets no diversity bonus.
	assert.InDelta(t, 95.0, technicalScore(matches[:1]), 1e-9)

	assert.Zero(t, technicalScore(nil))
	assert.Zero(t, technicalScore([]schema.MatchCandidate{{Score: 0}}))
}

func TestTechnicalScoreCap(t *testing.T) {
	matches := []schema.MatchCandidate{
		{Score: 100}, {Score: 100}, {Score: 100}, {Score: 100}, {Score: 100},
	}
	assert.Equal(t, 100.0, technicalScore(matches))
}

func TestPriceScore(t *testing.T) {
	matches := strongMatches()
	// Estimated cost = 500*1000 + 480*500 + 120*200 = 764000.
	estimated := 764000.0

	// A quote at the ideal 25% margin peaks the sigmoid.
	ideal := estimated / (1 - 0.25)
	scoreIdeal := priceScore(ideal, matches)
	assert.Greater(t, scoreIdeal, 70.0)

	// Suspiciously cheap: margin below 5% halves the score.
	scoreCheap := priceScore(estimated*1.01, matches)
	assert.Less(t, scoreCheap, scoreIdeal)

	// Overpriced: margin above 50% takes the 40% penalty.
	scoreHigh := priceScore(estimated*4, matches)
	assert.Less(t, scoreHigh, scoreIdeal)

	assert.Zero(t, priceScore(0, matches))
	assert.Zero(t, priceScore(100000, nil))
}

func TestPriceScoreFallbackCost(t *testing.T) {
	// Candidates without commercial snapshots: cost assumed at 70% of the
	// quote, implying a 30% margin near the ideal.
	matches := []schema.MatchCandidate{{ProductID: "A", Score: 90}}
	score := priceScore(100000, matches)
	assert.Greater(t, score, 50.0)
	assert.LessOrEqual(t, score, 100.0)
}

func TestDeliveryScore(t *testing.T) {
	fast := []schema.MatchCandidate{{Score: 90, LeadTimeDays: 15}}
	assert.Equal(t, 100.0, deliveryScore(fast, time.Time{}, testNow))

	slow := []schema.MatchCandidate{{Score: 90, LeadTimeDays: 90}}
	assert.Equal(t, 40.0, deliveryScore(slow, time.Time{}, testNow))

	assert.Zero(t, deliveryScore(nil, time.Time{}, testNow))
}

func TestDeliveryScoreDeadlinePenalty(t *testing.T) {
	matches := []schema.MatchCandidate{{Score: 90, LeadTimeDays: 30}}

	// 100 days of headroom: 30 <= 70, no penalty.
	relaxed := testNow.AddDate(0, 0, 100)
	base := deliveryScore(matches, relaxed, testNow)
	assert.Equal(t, 88.0, base)

	// 30 days of headroom: lead time exceeds 70% of the window.
	tight := testNow.AddDate(0, 0, 30)
	penalized := deliveryScore(matches, tight, testNow)
	assert.InDelta(t, base*0.7, penalized, 1e-9)
}

func TestComplianceScore(t *testing.T) {
	matches := strongMatches()
	// 2/3 certified (26.67) + 2/3 standards (26.67) + avg 2y warranty (8).
	score := complianceScore(matches)
	assert.InDelta(t, 2.0/3*40+2.0/3*40+(3.0+2+1)/3/5*20, score, 1e-9)

	assert.Zero(t, complianceScore(nil))

	perfect := []schema.MatchCandidate{{BISCertified: true, Standards: "IS 7098", WarrantyYears: 10}}
	assert.Equal(t, 100.0, complianceScore(perfect))
}

func TestRiskScore(t *testing.T) {
	matches := strongMatches()
	// 3 matches (50 capped) + 2 categories (30) + one MOQ above 500 (15).
	assert.Equal(t, 95.0, riskScore(matches))

	assert.Zero(t, riskScore(nil))

	one := []schema.MatchCandidate{{Category: "MV Power Cables", MOQ: 100}}
	// 20 availability + 15 diversity + 20 consistency.
	assert.Equal(t, 55.0, riskScore(one))
}

func TestScoreBreakdown(t *testing.T) {
	s := NewScorer(nil)
	breakdown := s.Score(strongMatches(), 1000000, time.Time{}, testNow)

	assert.Len(t, breakdown.Components, len(schema.AllScoreFactors))
	for factor, score := range breakdown.Components {
		assert.GreaterOrEqual(t, score, 0.0, "component %s", factor)
		assert.LessOrEqual(t, score, 100.0, "component %s", factor)
	}
	assert.GreaterOrEqual(t, breakdown.Composite, 0.0)
	assert.LessOrEqual(t, breakdown.Composite, 100.0)
	assert.GreaterOrEqual(t, breakdown.Normalized, 0.0)
	assert.LessOrEqual(t, breakdown.Normalized, 1.0)
	assert.Equal(t, schema.GetGrade(breakdown.Composite), breakdown.Grade)
	assert.NotEmpty(t, breakdown.Recommendation)

	// Recomputed in full, deterministically.
	again := s.Score(strongMatches(), 1000000, time.Time{}, testNow)
	assert.Equal(t, breakdown, again)
}

func TestScoreEmptyMatches(t *testing.T) {
	breakdown := NewScorer(nil).Score(nil, 0, time.Time{}, testNow)
	assert.Zero(t, breakdown.Composite)
	assert.Equal(t, "Poor", breakdown.Grade)
	for factor, score := range breakdown.Components {
		assert.Zero(t, score, "component %s", factor)
	}
}

func TestRecommendation(t *testing.T) {
	tests := []struct {
		name      string
		composite float64
		technical float64
		price     float64
		contains  string
	}{
		{"strong", 80, 90, 85, "STRONGLY RECOMMEND"},
		{"technical gap", 65, 50, 85, "Technical gaps"},
		{"price gap", 65, 80, 50, "Pricing optimization"},
		{"good", 65, 80, 80, "RECOMMEND - Good opportunity"},
		{"caution", 50, 50, 50, "CAUTION"},
		{"do not pursue", 30, 30, 30, "DO NOT PURSUE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, recommendation(tt.composite, tt.technical, tt.price), tt.contains)
		})
	}
}

func TestBestIndex(t *testing.T) {
	breakdowns := []schema.ScoreBreakdown{
		{Normalized: 0.55},
		{Normalized: 0.81},
		{Normalized: 0.81}, // tie resolves to the earlier index
		{Normalized: 0.40},
	}
	assert.Equal(t, 1, BestIndex(breakdowns))
	assert.Equal(t, -1, BestIndex(nil))
}
