package match

import (
	"testing"

	"github.com/sahajm/bidscope/schema"
	"github.com/stretchr/testify/assert"
)

func ptrInt(v int) *int           { return &v }
func ptrFloat(v float64) *float64 { return &v }

func mvCableProduct() schema.CatalogProduct {
	return schema.CatalogProduct{
		ID:            "CBL-MV-11-CU-XLPE-3C",
		Name:          "11kV MV Power Cable",
		Category:      "MV Power Cables",
		Voltage:       "11 kV",
		Material:      "Copper",
		Insulation:    "XLPE",
		Cores:         "3C",
		Armoring:      "Steel Wire Armoured",
		SizeSqMM:      "185 mm2",
		TempRating:    "90 C",
		Standards:     "IS 7098, IEC 60502",
		UnitPrice:     500,
		MOQ:           1000,
		LeadTimeDays:  30,
		BISCertified:  true,
		WarrantyYears: 3,
	}
}

func TestMatchFullSpecification(t *testing.T) {
	attrs := schema.AttributeSet{
		Voltage:    "11kV",
		Material:   schema.MaterialCopper,
		Insulation: schema.InsulationXLPE,
		Cores:      ptrInt(3),
		Armoring:   schema.Armoured,
	}

	results := NewMatcher(nil).Match(attrs, []schema.CatalogProduct{mvCableProduct()}, 0, PoolResults)
	if assert.Len(t, results, 1) {
		assert.Equal(t, "CBL-MV-11-CU-XLPE-3C", results[0].ProductID)
		assert.InDelta(t, 100.0, results[0].Score, 1e-9, "all specified attributes hit")
		assert.Len(t, results[0].Comparisons, 5)
	}
}

func TestMatchAbsentAttributeNeutrality(t *testing.T) {
	// Only voltage specified: denominator is the voltage weight alone,
	// regardless of what the catalog says for other attributes.
	attrs := schema.AttributeSet{Voltage: "11kV"}

	product := mvCableProduct()
	product.Material = "Aluminium" // would miss a copper requirement, but none exists

	results := NewMatcher(nil).Match(attrs, []schema.CatalogProduct{product}, 0, PoolResults)
	if assert.Len(t, results, 1) {
		assert.InDelta(t, 100.0, results[0].Score, 1e-9)
		assert.Len(t, results[0].Comparisons, 1)
		assert.Equal(t, schema.AttrVoltage, results[0].Comparisons[0].Key)
	}
}

func TestMatchExactSizeGate(t *testing.T) {
	// Conductor size is exact-match only and triple-weighted: a 70 mm2
	// product gets zero credit on that attribute against a 185 mm2
	// requirement even when everything else matches.
	attrs := schema.AttributeSet{
		Voltage:  "11kV",
		Material: schema.MaterialCopper,
		SizeSqMM: ptrFloat(185),
	}

	exact := mvCableProduct()
	undersized := mvCableProduct()
	undersized.ID = "CBL-MV-11-CU-XLPE-3C-70"
	undersized.SizeSqMM = "70 mm2"

	results := NewMatcher(nil).Match(attrs, []schema.CatalogProduct{undersized, exact}, 0, PoolResults)
	if assert.Len(t, results, 2) {
		assert.Equal(t, "CBL-MV-11-CU-XLPE-3C", results[0].ProductID)
		assert.InDelta(t, 100.0, results[0].Score, 1e-9)
		// 1+1 of 1+1+3 weight: the size miss costs 60 points.
		assert.InDelta(t, 40.0, results[1].Score, 1e-9)
	}
}

func TestMatchTemperatureFloor(t *testing.T) {
	attrs := schema.AttributeSet{TempC: ptrFloat(70)}

	product := mvCableProduct() // rated 90 C, above the 70 C floor
	results := NewMatcher(nil).Match(attrs, []schema.CatalogProduct{product}, 0, PoolResults)
	if assert.Len(t, results, 1) {
		assert.InDelta(t, 100.0, results[0].Score, 1e-9)
	}

	attrs.TempC = ptrFloat(105) // above the catalog rating
	results = NewMatcher(nil).Match(attrs, []schema.CatalogProduct{product}, 0, PoolResults)
	assert.Empty(t, results, "a 0-score candidate is below any positive threshold")

	results = NewMatcher(nil).Match(attrs, []schema.CatalogProduct{product}, -1, PoolResults)
	if assert.Len(t, results, 1) {
		assert.InDelta(t, 0.0, results[0].Score, 1e-9)
	}
}

func TestMatchArmoring(t *testing.T) {
	tests := []struct {
		name     string
		required schema.ArmoringState
		catalog  string
		want     bool
	}{
		{"armoured vs steel wire", schema.Armoured, "Steel Wire Armoured", true},
		{"armoured vs swa", schema.Armoured, "SWA", true},
		{"armoured vs unarmoured text", schema.Armoured, "Unarmoured", false},
		{"armoured vs empty", schema.Armoured, "", false},
		{"unarmoured vs empty", schema.Unarmoured, "", true},
		{"unarmoured vs explicit", schema.Unarmoured, "Unarmoured", true},
		{"unarmoured vs steel", schema.Unarmoured, "Steel Wire Armoured", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, armoringMatches(tt.required, tt.catalog))
		})
	}
}

func TestMatchMinScoreAndTruncation(t *testing.T) {
	attrs := schema.AttributeSet{
		Voltage:  "11kV",
		Material: schema.MaterialCopper,
	}

	full := mvCableProduct()
	half := mvCableProduct()
	half.ID = "CBL-MV-11-AL-XLPE-3C"
	half.Material = "Aluminium"
	miss := mvCableProduct()
	miss.ID = "CBL-LV-1100-AL-PVC-4C"
	miss.Voltage = "1.1 kV"
	miss.Material = "Aluminium"

	catalog := []schema.CatalogProduct{miss, half, full}

	results := NewMatcher(nil).Match(attrs, catalog, DefaultMinScore, PoolResults)
	if assert.Len(t, results, 2) {
		assert.Equal(t, "CBL-MV-11-CU-XLPE-3C", results[0].ProductID)
		assert.Equal(t, "CBL-MV-11-AL-XLPE-3C", results[1].ProductID)
	}

	results = NewMatcher(nil).Match(attrs, catalog, DefaultMinScore, 1)
	if assert.Len(t, results, 1) {
		assert.Equal(t, "CBL-MV-11-CU-XLPE-3C", results[0].ProductID)
	}
}

func TestMatchDeterministicTieBreak(t *testing.T) {
	attrs := schema.AttributeSet{Voltage: "11kV"}

	a := mvCableProduct()
	a.ID = "CBL-A"
	b := mvCableProduct()
	b.ID = "CBL-B"
	catalog := []schema.CatalogProduct{a, b}

	for range 10 {
		results := NewMatcher(nil).Match(attrs, catalog, 0, PoolResults)
		if assert.Len(t, results, 2) {
			assert.Equal(t, "CBL-A", results[0].ProductID, "ties keep catalog iteration order")
			assert.Equal(t, "CBL-B", results[1].ProductID)
		}
	}
}

func TestMatchEmptyInputs(t *testing.T) {
	// Empty catalog yields no candidates without raising.
	attrs := schema.AttributeSet{Voltage: "11kV"}
	assert.Empty(t, NewMatcher(nil).Match(attrs, nil, 0, PoolResults))

	// No specified attributes scores zero against any product.
	results := NewMatcher(nil).Match(schema.AttributeSet{}, []schema.CatalogProduct{mvCableProduct()}, -1, PoolResults)
	if assert.Len(t, results, 1) {
		assert.InDelta(t, 0.0, results[0].Score, 1e-9)
		assert.Empty(t, results[0].Comparisons)
	}
}

func TestMatchStandards(t *testing.T) {
	attrs := schema.AttributeSet{Standards: []string{"IS 1554", "IEC 60502"}}

	// One of the requested codes appearing in the compliance text is enough.
	results := NewMatcher(nil).Match(attrs, []schema.CatalogProduct{mvCableProduct()}, 0, PoolResults)
	if assert.Len(t, results, 1) {
		assert.InDelta(t, 100.0, results[0].Score, 1e-9)
	}
}

func BenchmarkMatch(b *testing.B) {
	attrs := schema.AttributeSet{
		Voltage:    "11kV",
		Material:   schema.MaterialCopper,
		Insulation: schema.InsulationXLPE,
		Cores:      ptrInt(3),
		Armoring:   schema.Armoured,
		SizeSqMM:   ptrFloat(185),
	}
	catalog := make([]schema.CatalogProduct, 0, 500)
	for i := range 500 {
		p := mvCableProduct()
		if i%3 == 0 {
			p.Material = "Aluminium"
		}
		if i%5 == 0 {
			p.SizeSqMM = "70 mm2"
		}
		catalog = append(catalog, p)
	}
	m := NewMatcher(nil)

	b.ResetTimer()
	for b.Loop() {
		m.Match(attrs, catalog, DefaultMinScore, PoolResults)
	}
}

func TestMatchCustomWeights(t *testing.T) {
	weights := map[schema.AttributeKey]float64{
		schema.AttrVoltage:  2,
		schema.AttrMaterial: 1,
	}
	attrs := schema.AttributeSet{
		Voltage:  "33kV", // miss
		Material: schema.MaterialCopper,
	}

	results := NewMatcher(weights).Match(attrs, []schema.CatalogProduct{mvCableProduct()}, 0, PoolResults)
	if assert.Len(t, results, 1) {
		// 1 of 3 total weight hit.
		assert.InDelta(t, 100.0/3, results[0].Score, 1e-9)
	}
}
