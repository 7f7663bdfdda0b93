package scoring

import (
	"testing"
	"time"

	"github.com/sahajm/bidscope/schema"
	"github.com/stretchr/testify/assert"
)

// FuzzScore fuzzes the composite scorer with arbitrary candidate fields.
// Every component and the composite must stay within bounds and never panic.
func FuzzScore(f *testing.F) {
	seeds := []struct {
		score    float64
		price    float64
		moq      float64
		leadDays int
		warranty float64
		quoted   float64
	}{
		{95, 500, 1000, 30, 3, 1000000},
		{0, 0, 0, 0, 0, 0},
		{-50, -10, -100, -5, -1, -999},
		{1e12, 1e12, 1e12, 1 << 30, 1e6, 1e18},
	}
	for _, seed := range seeds {
		f.Add(seed.score, seed.price, seed.moq, seed.leadDays, seed.warranty, seed.quoted)
	}

	s := NewScorer(nil)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	f.Fuzz(func(t *testing.T, score, price, moq float64, leadDays int, warranty, quoted float64) {
		matches := []schema.MatchCandidate{
			{ProductID: "A", Category: "X", Score: score, UnitPrice: price, MOQ: moq, LeadTimeDays: leadDays, WarrantyYears: warranty, BISCertified: true, Standards: "IS 7098"},
			{ProductID: "B", Category: "Y", Score: 50, UnitPrice: 100, MOQ: 200, LeadTimeDays: 20, WarrantyYears: 2},
		}

		breakdown := s.Score(matches, quoted, now.AddDate(0, 1, 0), now)
		for factor, component := range breakdown.Components {
			if isFinite(component) {
				assert.GreaterOrEqual(t, component, 0.0, "component %s", factor)
				assert.LessOrEqual(t, component, 100.0, "component %s", factor)
			}
		}
	})
}

func isFinite(v float64) bool {
	return v == v && v < 1e308 && v > -1e308
}
