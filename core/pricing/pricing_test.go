package pricing

import (
	"testing"

	"github.com/sahajm/bidscope/schema"
	"github.com/stretchr/testify/assert"
)

func ptrFloat(v float64) *float64 { return &v }

func testCatalog() map[string]schema.CatalogProduct {
	return map[string]schema.CatalogProduct{
		"CBL-MV-11-CU-XLPE-3C": {
			ID:        "CBL-MV-11-CU-XLPE-3C",
			Name:      "11kV MV Power Cable",
			Voltage:   "11 kV",
			UnitPrice: 500,
			MOQ:       1000,
		},
		"CBL-LV-1100-AL-PVC-4C": {
			ID:        "CBL-LV-1100-AL-PVC-4C",
			Name:      "1.1kV LV Power Cable",
			Voltage:   "1.1 kV",
			UnitPrice: 120,
			MOQ:       200,
		},
	}
}

func testServices() map[string]schema.TestService {
	return map[string]schema.TestService{
		"TST-COND-RES":        {Code: "TST-COND-RES", Name: "Conductor Resistance Test", Price: 5000, DurationDays: 2},
		"TST-INS-RES":         {Code: "TST-INS-RES", Name: "Insulation Resistance Test", Price: 4000, DurationDays: 1},
		"TST-DIM":             {Code: "TST-DIM", Name: "Dimensional Verification", Price: 2500, DurationDays: 1},
		"TST-ROUTINE-LV":      {Code: "TST-ROUTINE-LV", Name: "LV Routine Insulation Test", Price: 3000, DurationDays: 1},
		"TST-WITHSTAND-1.1KV": {Code: "TST-WITHSTAND-1.1KV", Name: "1.1kV Voltage Withstand Test", Price: 6000, DurationDays: 2},
		"TST-WITHSTAND-11KV":  {Code: "TST-WITHSTAND-11KV", Name: "11kV Voltage Withstand Test", Price: 12000, DurationDays: 3},
		"TST-ACCEPT-ADV":      {Code: "TST-ACCEPT-ADV", Name: "Advanced Acceptance Test", Price: 15000, DurationDays: 5},
		"TST-TENSILE":         {Code: "TST-TENSILE", Name: "Tensile Strength Test", Price: 7000, DurationDays: 2},
	}
}

func mvCandidate() *schema.MatchCandidate {
	return &schema.MatchCandidate{
		ProductID:   "CBL-MV-11-CU-XLPE-3C",
		ProductName: "11kV MV Power Cable",
		Score:       100,
		UnitPrice:   500,
		MOQ:         1000,
	}
}

func TestClassifyVoltage(t *testing.T) {
	tests := []struct {
		voltage string
		want    schema.VoltageClass
	}{
		{"415V", schema.ClassLV},
		{"1.1 kV", schema.ClassLV},
		{"3.3 kV", schema.ClassMV},
		{"6.6kV", schema.ClassMV},
		{"11 kV", schema.ClassHV},
		{"33kV", schema.ClassHV},
		{"", schema.ClassLV},        // missing defaults to LV
		{"unknown", schema.ClassLV}, // unparseable defaults to LV
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyVoltage(tt.voltage), "ClassifyVoltage(%q)", tt.voltage)
	}
}

func TestPriceOrderQuantity(t *testing.T) {
	tests := []struct {
		name      string
		requested float64
		moq       float64
		want      float64
	}{
		{"requested above MOQ", 1900, 200, 1900},
		{"requested below MOQ", 100, 500, 500},
		{"no requested quantity", 0, 1000, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := map[string]schema.CatalogProduct{
				"P": {ID: "P", Voltage: "1.1 kV", UnitPrice: 100, MOQ: tt.moq},
			}
			e := NewEngine(catalog, nil, testServices())
			attrs := schema.AttributeSet{QuantityM: ptrFloat(tt.requested)}
			if tt.requested == 0 {
				attrs.QuantityM = nil
			}
			priced := e.Price(schema.LineItem{}, attrs, &schema.MatchCandidate{ProductID: "P"}, "")
			assert.Equal(t, tt.want, priced.OrderQty)
		})
	}
}

func TestPriceDiscountBands(t *testing.T) {
	discounts := map[string][]schema.VolumeDiscount{
		"CBL-MV-11-CU-XLPE-3C": {
			{ProductID: "CBL-MV-11-CU-XLPE-3C", MinQty: 0, MaxQty: 999, UnitPrice: 500},
			{ProductID: "CBL-MV-11-CU-XLPE-3C", MinQty: 1000, MaxQty: 4999, UnitPrice: 475},
			{ProductID: "CBL-MV-11-CU-XLPE-3C", MinQty: 5000, MaxQty: 9999, UnitPrice: 450},
		},
	}
	e := NewEngine(testCatalog(), discounts, testServices())

	// Order quantity inside the second band.
	attrs := schema.AttributeSet{QuantityM: ptrFloat(1900)}
	priced := e.Price(schema.LineItem{}, attrs, mvCandidate(), "")
	assert.Equal(t, 475.0, priced.UnitPrice)
	assert.Equal(t, 5.0, priced.DiscountPct)
	assert.Equal(t, schema.Round2(475*1900), priced.MaterialCost)

	// Order quantity beyond every band falls into the highest-minimum band.
	attrs = schema.AttributeSet{QuantityM: ptrFloat(50000)}
	priced = e.Price(schema.LineItem{}, attrs, mvCandidate(), "")
	assert.Equal(t, 450.0, priced.UnitPrice)
	assert.Equal(t, 10.0, priced.DiscountPct)
}

func TestPriceNoDiscountTable(t *testing.T) {
	e := NewEngine(testCatalog(), nil, testServices())

	attrs := schema.AttributeSet{QuantityM: ptrFloat(1900)}
	priced := e.Price(schema.LineItem{}, attrs, mvCandidate(), "")
	assert.Equal(t, 500.0, priced.UnitPrice)
	assert.Equal(t, 0.0, priced.DiscountPct)
}

func TestPriceVoltageClassTestSets(t *testing.T) {
	e := NewEngine(testCatalog(), nil, testServices())

	// 11 kV is above the MV boundary: HV set, never the LV routine test.
	priced := e.Price(schema.LineItem{}, schema.AttributeSet{QuantityM: ptrFloat(1900)}, mvCandidate(), "")
	assert.Equal(t, schema.ClassHV, priced.VoltageClass)
	codes := testCodes(priced.Tests)
	assert.Contains(t, codes, "TST-WITHSTAND-11KV")
	assert.Contains(t, codes, "TST-ACCEPT-ADV")
	assert.Contains(t, codes, "TST-COND-RES")
	assert.NotContains(t, codes, "TST-ROUTINE-LV")

	// LV product gets the routine insulation and 1.1kV withstand tests.
	lv := &schema.MatchCandidate{ProductID: "CBL-LV-1100-AL-PVC-4C"}
	priced = e.Price(schema.LineItem{}, schema.AttributeSet{}, lv, "")
	assert.Equal(t, schema.ClassLV, priced.VoltageClass)
	codes = testCodes(priced.Tests)
	assert.Contains(t, codes, "TST-ROUTINE-LV")
	assert.Contains(t, codes, "TST-WITHSTAND-1.1KV")
	assert.NotContains(t, codes, "TST-WITHSTAND-11KV")
}

func TestPriceKeywordTests(t *testing.T) {
	e := NewEngine(testCatalog(), nil, testServices())
	testingText := "Vendor shall demonstrate tensile strength and submit type testing reports."

	priced := e.Price(schema.LineItem{}, schema.AttributeSet{QuantityM: ptrFloat(1900)}, mvCandidate(), testingText)
	codes := testCodes(priced.Tests)
	assert.Contains(t, codes, "TST-TENSILE")
	assert.Contains(t, codes, "TST-TYPE")

	// TST-TYPE is absent from the reference table: estimated placeholder.
	for _, tst := range priced.Tests {
		if tst.Code == "TST-TYPE" {
			assert.True(t, tst.Estimated)
			assert.Equal(t, estimatedTestPrice, tst.Price)
		}
	}
}

func TestPriceTotals(t *testing.T) {
	e := NewEngine(testCatalog(), nil, testServices())

	priced := e.Price(schema.LineItem{}, schema.AttributeSet{QuantityM: ptrFloat(1900)}, mvCandidate(), "")
	assert.Equal(t, schema.Round2(500*1900), priced.MaterialCost)

	// Universal + HV set: 5000+4000+2500+12000+15000.
	assert.Equal(t, 38500.0, priced.TestCost)
	assert.Equal(t, priced.MaterialCost+priced.TestCost, priced.LineTotal)
}

func TestPriceNoSelectedCandidate(t *testing.T) {
	e := NewEngine(testCatalog(), nil, testServices())

	priced := e.Price(schema.LineItem{Position: 2, Text: "obscure item"}, schema.AttributeSet{}, nil, "")
	assert.Equal(t, 2, priced.Position)
	assert.Empty(t, priced.ProductID)
	assert.Zero(t, priced.LineTotal)
	assert.NotEmpty(t, priced.Note)
}

func TestPriceFallbacks(t *testing.T) {
	e := NewEngine(nil, nil, testServices())

	// Catalog row missing: price from the candidate snapshot.
	priced := e.Price(schema.LineItem{}, schema.AttributeSet{Voltage: "11kV", QuantityM: ptrFloat(1900)}, mvCandidate(), "")
	assert.Equal(t, 500.0, priced.UnitPrice)
	assert.Equal(t, schema.ClassHV, priced.VoltageClass, "voltage class from extracted attributes")
	assert.Contains(t, priced.Note, "candidate snapshot")

	// Snapshot empty too: fixed estimates.
	bare := &schema.MatchCandidate{ProductID: "GHOST"}
	priced = e.Price(schema.LineItem{}, schema.AttributeSet{QuantityM: ptrFloat(100)}, bare, "")
	assert.Equal(t, estimatedUnitPrice, priced.UnitPrice)
	assert.Equal(t, estimatedMOQ, priced.OrderQty)
	assert.Contains(t, priced.Note, "fixed estimates")
}

func TestSummarize(t *testing.T) {
	items := []schema.PricedLineItem{
		{MaterialCost: 950000, TestCost: 38500, LineTotal: 988500},
		{MaterialCost: 24000.555, TestCost: 20500.555, LineTotal: 44501.11},
	}

	summary := Summarize(items)
	assert.Equal(t, schema.Round2(950000+24000.555), summary.TotalMaterialCost)
	assert.Equal(t, schema.Round2(38500+20500.555), summary.TotalTestCost)
	assert.Equal(t, schema.Round2(summary.TotalMaterialCost+summary.TotalTestCost), summary.GrandTotal)

	empty := Summarize(nil)
	assert.Zero(t, empty.GrandTotal)
}

func testCodes(tests []schema.ComplianceTest) []string {
	codes := make([]string, len(tests))
	for i, tst := range tests {
		codes[i] = tst.Code
	}
	return codes
}
