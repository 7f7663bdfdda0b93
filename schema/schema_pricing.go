package schema

// VolumeDiscount is one [MinQty, MaxQty] band of the volume discount table
// mapping order quantity ranges to discounted unit prices.
type VolumeDiscount struct {
	ProductID string  // Product the band applies to
	MinQty    float64 // Inclusive lower bound of the band
	MaxQty    float64 // Inclusive upper bound of the band
	UnitPrice float64 // Discounted unit price within the band
}

// TestService is a row of the test-services reference table.
type TestService struct {
	Code         string  // Test code (e.g. "HV-TEST-11KV")
	Name         string  // Human-readable test name
	Price        float64 // Flat price per test
	DurationDays int     // Expected duration in days
}

// ComplianceTest is one resolved compliance test on a priced line item.
type ComplianceTest struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	DurationDays int     `json:"duration_days"`
	Estimated    bool    `json:"estimated,omitempty"` // True when the code was absent from the reference table
}

// PricedLineItem is a line item plus its selected candidate and the
// computed commercial figures.
type PricedLineItem struct {
	Position     int              `json:"position"`
	Text         string           `json:"text"`
	ProductID    string           `json:"product_id"` // Empty when no candidate cleared the match threshold
	ProductName  string           `json:"product_name"`
	MatchScore   float64          `json:"match_score"`
	RequestedQty float64          `json:"requested_qty"`
	OrderQty     float64          `json:"order_qty"` // max(RequestedQty, MOQ)
	UnitPrice    float64          `json:"unit_price"`
	DiscountPct  float64          `json:"discount_pct"` // Discount relative to base price, 0 if none
	MaterialCost float64          `json:"material_cost"`
	VoltageClass VoltageClass     `json:"voltage_class"`
	Tests        []ComplianceTest `json:"tests"`
	TestCost     float64          `json:"test_cost"`
	LineTotal    float64          `json:"line_total"`
	Note         string           `json:"note,omitempty"` // Degradation note (fallback estimate, no SKU, etc.)
}

// PricingSummary consolidates the priced line items of one tender.
type PricingSummary struct {
	Items             []PricedLineItem `json:"items"`
	TotalMaterialCost float64          `json:"total_material_cost"`
	TotalTestCost     float64          `json:"total_test_cost"`
	GrandTotal        float64          `json:"grand_total"`
}
