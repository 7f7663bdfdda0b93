// Package scoring combines technical, price, delivery, compliance and risk
// signals into one weighted composite score per tender.
package scoring

import (
	"math"
	"strings"
	"time"

	"github.com/sahajm/bidscope/schema"
)

const (
	idealMargin     = 0.25 // profit margin benchmark
	marginTolerance = 0.10 // acceptable deviation before the sigmoid falls off

	topMatchesForTechnical = 5
	decayRate              = 0.3
	goodMatchThreshold     = 70.0
	maxDiversityBonus      = 1.15

	defaultLeadTimeDays = 30.0
	highMOQThreshold    = 500.0
)

// complianceKeywords mark a candidate's standards text as standards-compliant.
var complianceKeywords = []string{"is", "iec", "ieee", "iso"}

// Scorer computes composite score breakdowns. Weights are injected at
// construction so alternate weighting schemes can be tested without
// global state.
type Scorer struct {
	weights map[schema.ScoreFactor]float64
}

// NewScorer returns a scorer using the given factor weights. A nil map
// falls back to schema.GetDefaultScoreWeights.
func NewScorer(weights map[schema.ScoreFactor]float64) *Scorer {
	if weights == nil {
		weights = schema.GetDefaultScoreWeights()
	}
	return &Scorer{weights: weights}
}

// Score computes the full breakdown for one tender from its pooled match
// candidates and quoted grand total. A zero deadline means no deadline
// constraint; now anchors the days-remaining calculation so scoring stays
// reproducible in tests.
func (s *Scorer) Score(matches []schema.MatchCandidate, quotedPrice float64, deadline, now time.Time) schema.ScoreBreakdown {
	components := map[schema.ScoreFactor]float64{
		schema.FactorTechnical:  schema.Round2(technicalScore(matches)),
		schema.FactorPrice:      schema.Round2(priceScore(quotedPrice, matches)),
		schema.FactorDelivery:   schema.Round2(deliveryScore(matches, deadline, now)),
		schema.FactorCompliance: schema.Round2(complianceScore(matches)),
		schema.FactorRisk:       schema.Round2(riskScore(matches)),
	}

	// Fixed factor order keeps the float sum reproducible.
	contributions := make(map[schema.ScoreFactor]float64, len(components))
	composite := 0.0
	for _, factor := range schema.AllScoreFactors {
		contribution := components[factor] * s.weights[factor]
		contributions[factor] = schema.Round2(contribution)
		composite += contribution
	}
	composite = schema.Round2(composite)

	return schema.ScoreBreakdown{
		Components:     components,
		Contributions:  contributions,
		Composite:      composite,
		Normalized:     math.Round(composite/100*10000) / 10000,
		Grade:          schema.GetGrade(composite),
		Recommendation: recommendation(composite, components[schema.FactorTechnical], components[schema.FactorPrice]),
	}
}

// technicalScore is the exponentially decayed weighted average of the top
// candidates' match percentages, with a diversity bonus when several
// candidates clear the good-match threshold.
func technicalScore(matches []schema.MatchCandidate) float64 {
	valid := validMatches(matches)
	if len(valid) == 0 {
		return 0
	}

	totalScore := 0.0
	totalWeight := 0.0
	for i, m := range valid {
		if i >= topMatchesForTechnical {
			break
		}
		weight := math.Exp(-decayRate * float64(i))
		totalScore += m.Score * weight
		totalWeight += weight
	}
	weightedAvg := totalScore / totalWeight

	goodMatches := 0
	for _, m := range valid {
		if m.Score >= goodMatchThreshold {
			goodMatches++
		}
	}
	diversityMultiplier := math.Min(1.0+float64(goodMatches-1)*0.05, maxDiversityBonus)

	return math.Min(weightedAvg*diversityMultiplier, 100)
}

// priceScore evaluates the implied margin against the ideal benchmark with
// a sigmoid falloff, penalizing suspiciously cheap and overpriced bids.
func priceScore(quotedPrice float64, matches []schema.MatchCandidate) float64 {
	if quotedPrice <= 0 || len(matches) == 0 {
		return 0
	}

	// Estimated cost assumes the minimum order quantity per candidate.
	estimatedCost := 0.0
	for _, m := range matches {
		estimatedCost += m.UnitPrice * m.MOQ
	}
	if estimatedCost <= 0 {
		estimatedCost = quotedPrice * 0.70 // assume a 30% margin
	}

	margin := (quotedPrice - estimatedCost) / quotedPrice
	deviation := math.Abs(margin - idealMargin)
	score := 100 / (1 + math.Exp(10*(deviation-marginTolerance)))

	if margin < 0.05 {
		score *= 0.5 // too cheap, suspicious
	} else if margin > 0.50 {
		score *= 0.6 // too expensive
	}
	return clamp(score, 0, 100)
}

// deliveryScore rates the match-weighted average lead time, with a penalty
// when that lead time threatens the submission deadline.
func deliveryScore(matches []schema.MatchCandidate, deadline, now time.Time) float64 {
	if len(matches) == 0 {
		return 0
	}

	totalLeadTime := 0.0
	totalWeight := 0.0
	for _, m := range matches {
		totalLeadTime += float64(m.LeadTimeDays) * m.Score
		totalWeight += m.Score
	}
	avgLeadTime := defaultLeadTimeDays
	if totalWeight > 0 {
		avgLeadTime = totalLeadTime / totalWeight
	}

	// 15 days rates 100 points, 90 days rates 40.
	score := math.Max(40, 100-(avgLeadTime-15)*0.8)

	if !deadline.IsZero() {
		daysUntil := deadline.Sub(now).Hours() / 24
		if avgLeadTime > daysUntil*0.7 {
			score *= 0.7
		}
	}
	return clamp(score, 0, 100)
}

// complianceScore blends certification coverage (40%), standards keyword
// coverage (40%) and warranty years capped at 5 (20%).
func complianceScore(matches []schema.MatchCandidate) float64 {
	if len(matches) == 0 {
		return 0
	}

	certified := 0
	compliant := 0
	warrantySum := 0.0
	for _, m := range matches {
		if m.BISCertified {
			certified++
		}
		standards := strings.ToLower(m.Standards)
		for _, kw := range complianceKeywords {
			if strings.Contains(standards, kw) {
				compliant++
				break
			}
		}
		warrantySum += math.Min(m.WarrantyYears, 5)
	}

	n := float64(len(matches))
	certScore := float64(certified) / n * 40
	standardsScore := float64(compliant) / n * 40
	warrantyScore := warrantySum / n / 5 * 20

	return clamp(certScore+standardsScore+warrantyScore, 0, 100)
}

// riskScore rewards availability (more candidates), category diversity and
// the absence of high-MOQ products. Higher means lower risk.
func riskScore(matches []schema.MatchCandidate) float64 {
	if len(matches) == 0 {
		return 0
	}

	availabilityScore := math.Min(float64(len(matches))*20, 50)

	categories := make(map[string]struct{})
	for _, m := range matches {
		categories[m.Category] = struct{}{}
	}
	diversityScore := math.Min(float64(len(categories))*15, 30)

	highMOQ := 0
	for _, m := range matches {
		if m.MOQ > highMOQThreshold {
			highMOQ++
		}
	}
	consistencyScore := math.Max(20-float64(highMOQ)*5, 0)

	return math.Min(availabilityScore+diversityScore+consistencyScore, 100)
}

// recommendation derives the actionable recommendation text from the
// composite and its technical and price sub-scores.
func recommendation(composite, technical, price float64) string {
	switch {
	case composite >= 75:
		return "STRONGLY RECOMMEND - Proceed with bid preparation"
	case composite >= 60:
		if technical < 60 {
			return "CONDITIONAL - Technical gaps identified, assess feasibility"
		}
		if price < 60 {
			return "CONDITIONAL - Pricing optimization needed, review cost structure"
		}
		return "RECOMMEND - Good opportunity with minor optimization potential"
	case composite >= 45:
		return "CAUTION - Significant gaps exist, evaluate strategic value before proceeding"
	default:
		return "DO NOT PURSUE - Poor fit, resources better allocated elsewhere"
	}
}

// BestIndex returns the index of the highest normalized composite score,
// resolving ties to the first-encountered index. Returns -1 for an empty
// slice.
func BestIndex(breakdowns []schema.ScoreBreakdown) int {
	best := -1
	bestScore := math.Inf(-1)
	for i, b := range breakdowns {
		if b.Normalized > bestScore {
			best = i
			bestScore = b.Normalized
		}
	}
	return best
}

func validMatches(matches []schema.MatchCandidate) []schema.MatchCandidate {
	var valid []schema.MatchCandidate
	for _, m := range matches {
		if m.Score > 0 {
			valid = append(valid, m)
		}
	}
	return valid
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
