package schema

// AttributeComparison is one row of the per-attribute hit/miss breakdown
// for a match candidate, used in detailed comparison reports.
type AttributeComparison struct {
	Key      AttributeKey `json:"key"`      // Attribute being compared
	Required string       `json:"required"` // Requirement value as extracted from the tender
	Catalog  string       `json:"catalog"`  // Catalog value for the candidate product
	Matched  bool         `json:"matched"`  // Whether the catalog value satisfies the requirement
	Weight   float64      `json:"weight"`   // Weight this attribute carried in the score
}

// MatchCandidate pairs one extracted attribute set against one catalog
// product. It snapshots the product's commercial fields so downstream
// pricing and scoring keep working even if the catalog row disappears.
type MatchCandidate struct {
	ProductID     string                `json:"product_id"`
	ProductName   string                `json:"product_name"`
	Category      string                `json:"category"`
	Score         float64               `json:"score"` // Weighted match percentage (0-100)
	Comparisons   []AttributeComparison `json:"comparisons,omitempty"`
	UnitPrice     float64               `json:"unit_price"`
	MOQ           float64               `json:"moq"`
	LeadTimeDays  int                   `json:"lead_time_days"`
	BISCertified  bool                  `json:"bis_certified"`
	Standards     string                `json:"standards"`
	WarrantyYears float64               `json:"warranty_years"`
}
