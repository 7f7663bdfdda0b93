// Package match scores catalog products against extracted specification
// attributes using weighted, synonym-tolerant comparison.
package match

import (
	"sort"
	"strconv"
	"strings"

	"github.com/sahajm/bidscope/schema"
)

// Result pool sizes used by callers. The detailed pool feeds per-attribute
// comparison reports; the broad pool feeds composite scoring.
const (
	DetailedResults = 3
	PoolResults     = 30
	DefaultMinScore = 30.0
)

// materialSynonyms maps canonical conductor materials to catalog text
// variants that satisfy them.
var materialSynonyms = map[schema.ConductorMaterial][]string{
	schema.MaterialCopper:   {"copper", "cu"},
	schema.MaterialAluminum: {"aluminum", "aluminium", "al"},
}

// insulationSynonyms maps canonical insulation types to catalog text
// variants that satisfy them.
var insulationSynonyms = map[schema.InsulationType][]string{
	schema.InsulationXLPE: {"xlpe", "cross-linked polyethylene", "cross linked polyethylene"},
	schema.InsulationPVC:  {"pvc", "polyvinyl chloride"},
	schema.InsulationEPR:  {"epr", "ethylene propylene rubber"},
}

// Matcher scores catalog products against attribute sets. Weights are
// injected at construction so alternate weighting schemes can be tested
// without global state.
type Matcher struct {
	weights map[schema.AttributeKey]float64
}

// NewMatcher returns a matcher using the given attribute weights.
// A nil map falls back to schema.GetDefaultSpecWeights.
func NewMatcher(weights map[schema.AttributeKey]float64) *Matcher {
	if weights == nil {
		weights = schema.GetDefaultSpecWeights()
	}
	return &Matcher{weights: weights}
}

// Match scores every catalog product against the attribute set, discards
// candidates below minScore, and returns up to maxResults candidates in
// descending score order. Ties keep catalog iteration order (stable sort),
// so results are deterministic for a given catalog.
func (m *Matcher) Match(attrs schema.AttributeSet, catalog []schema.CatalogProduct, minScore float64, maxResults int) []schema.MatchCandidate {
	var candidates []schema.MatchCandidate
	for _, product := range catalog {
		cand := m.scoreProduct(attrs, product)
		if cand.Score >= minScore {
			candidates = append(candidates, cand)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if maxResults > 0 && len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}
	return candidates
}

// scoreProduct builds the full candidate for one product, including the
// per-attribute comparison rows. Attributes absent from the requirement are
// excluded from both numerator and denominator: the tender is never
// penalized for what it did not specify.
func (m *Matcher) scoreProduct(attrs schema.AttributeSet, product schema.CatalogProduct) schema.MatchCandidate {
	var comparisons []schema.AttributeComparison
	var hitWeight, totalWeight float64

	add := func(key schema.AttributeKey, required, catalog string, matched bool) {
		w := m.weights[key]
		comparisons = append(comparisons, schema.AttributeComparison{
			Key:      key,
			Required: required,
			Catalog:  catalog,
			Matched:  matched,
			Weight:   w,
		})
		totalWeight += w
		if matched {
			hitWeight += w
		}
	}

	if attrs.Voltage != "" {
		add(schema.AttrVoltage, attrs.Voltage, product.Voltage, voltageMatches(attrs.Voltage, product.Voltage))
	}
	if attrs.Material != schema.MaterialUnknown {
		add(schema.AttrMaterial, string(attrs.Material), product.Material, synonymMatches(materialSynonyms[attrs.Material], product.Material))
	}
	if attrs.Insulation != schema.InsulationUnknown {
		add(schema.AttrInsulation, string(attrs.Insulation), product.Insulation, synonymMatches(insulationSynonyms[attrs.Insulation], product.Insulation))
	}
	if attrs.Cores != nil {
		req := strconv.Itoa(*attrs.Cores)
		add(schema.AttrCores, req, product.Cores, strings.Contains(schema.Normalize(product.Cores), req))
	}
	if attrs.Armoring != schema.ArmoringUnknown {
		add(schema.AttrArmoring, string(attrs.Armoring), product.Armoring, armoringMatches(attrs.Armoring, product.Armoring))
	}
	if attrs.SizeSqMM != nil {
		add(schema.AttrSize, formatNumber(*attrs.SizeSqMM), product.SizeSqMM, sizeMatches(*attrs.SizeSqMM, product.SizeSqMM))
	}
	if attrs.TempC != nil {
		add(schema.AttrTemp, formatNumber(*attrs.TempC), product.TempRating, tempMatches(*attrs.TempC, product.TempRating))
	}
	if len(attrs.Standards) > 0 {
		req := strings.Join(attrs.Standards, ", ")
		add(schema.AttrStandards, req, product.Standards, standardsMatch(attrs.Standards, product.Standards))
	}

	score := 0.0
	if totalWeight > 0 {
		score = 100 * hitWeight / totalWeight
	}

	return schema.MatchCandidate{
		ProductID:     product.ID,
		ProductName:   product.Name,
		Category:      product.Category,
		Score:         score,
		Comparisons:   comparisons,
		UnitPrice:     product.UnitPrice,
		MOQ:           product.MOQ,
		LeadTimeDays:  product.LeadTimeDays,
		BISCertified:  product.BISCertified,
		Standards:     product.Standards,
		WarrantyYears: product.WarrantyYears,
	}
}

// voltageMatches compares numeric tokens so "11kV" satisfies "11 kV"
// regardless of spacing.
func voltageMatches(required, catalog string) bool {
	reqTokens := schema.NumericTokens(required)
	if len(reqTokens) == 0 {
		return false
	}
	catTokens := schema.NumericTokens(catalog)
	for _, ct := range catTokens {
		if ct == reqTokens[0] {
			return true
		}
	}
	return false
}

func synonymMatches(variants []string, catalog string) bool {
	norm := schema.Normalize(catalog)
	if norm == "" {
		return false
	}
	for _, v := range variants {
		if strings.Contains(norm, v) {
			return true
		}
	}
	return false
}

// armoringMatches treats an empty catalog field as unarmoured. The
// unarmoured substring is checked first so "Unarmoured" catalog text never
// satisfies an armoured requirement.
func armoringMatches(required schema.ArmoringState, catalog string) bool {
	norm := schema.Normalize(catalog)
	explicitUnarmoured := strings.Contains(norm, "unarmour") || strings.Contains(norm, "unarmor")
	switch required {
	case schema.Unarmoured:
		return norm == "" || explicitUnarmoured
	case schema.Armoured:
		if explicitUnarmoured {
			return false
		}
		for _, cue := range []string{"steel", "swa", "armour", "armor"} {
			if strings.Contains(norm, cue) {
				return true
			}
		}
	}
	return false
}

// sizeMatches requires exact numeric equality. No tolerance band: an
// undersized conductor is a fire-safety risk and an oversized one is
// wasted cost, so partial credit is disallowed.
func sizeMatches(required float64, catalog string) bool {
	v, ok := firstNumber(catalog)
	return ok && v == required
}

// tempMatches treats the catalog rating as a floor, not an exact target.
func tempMatches(required float64, catalog string) bool {
	v, ok := firstNumber(catalog)
	return ok && v >= required
}

func standardsMatch(required []string, catalog string) bool {
	norm := schema.Normalize(catalog)
	for _, code := range required {
		if strings.Contains(norm, strings.ToLower(code)) {
			return true
		}
	}
	return false
}

func firstNumber(s string) (float64, bool) {
	tokens := schema.NumericTokens(s)
	if len(tokens) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(tokens[0], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
