// Package schema has configs, models and global variables for all parts of bidscope.
package schema

import "time"

// Tender represents one procurement request ingested from an upstream source.
// It is immutable once loaded; the pipeline only reads from it.
type Tender struct {
	ProjectID          string    `json:"project_id"`          // Unique identifier assigned by the issuing authority
	Authority          string    `json:"authority"`           // Issuing authority or organization
	Category           string    `json:"category"`            // Procurement category (e.g. "Power Cables")
	Deadline           time.Time `json:"deadline"`            // Submission deadline; zero value means no deadline constraint
	Overview           string    `json:"overview"`            // Free-text project overview
	ScopeOfSupply      string    `json:"scope_of_supply"`     // Free-text scope listing the products required
	TechnicalSpecs     string    `json:"technical_specs"`     // Free-text technical specification section
	TestingRequirement string    `json:"testing_requirement"` // Free-text testing requirements section
	DeliveryTimeline   string    `json:"delivery_timeline"`   // Free-text delivery timeline section
	Pricing            string    `json:"pricing"`             // Free-text pricing instructions
	EvaluationCriteria string    `json:"evaluation_criteria"` // Free-text evaluation criteria section
	SubmissionFormat   string    `json:"submission_format"`   // Free-text submission format section
}

// LineItem is a single product requirement parsed from a tender's
// scope-of-supply text.
type LineItem struct {
	Text     string // Raw source text for this requirement
	Position int    // Ordinal position within the tender (0-based)
}

// AttributeSet is the canonical specification extracted from a LineItem.
// Nil pointer fields and zero-valued enums mean "not specified" and are
// excluded from match scoring denominators.
type AttributeSet struct {
	Voltage    string            // Voltage rating as written (e.g. "11kV"); empty = absent
	Material   ConductorMaterial // Conductor material; MaterialUnknown = absent
	Insulation InsulationType    // Insulation type; InsulationUnknown = absent
	Cores      *int              // Core count
	Armoring   ArmoringState     // Armoring state; ArmoringUnknown = absent
	SizeSqMM   *float64          // Conductor cross-section in mm2
	TempC      *float64          // Temperature rating in degrees Celsius
	QuantityM  *float64          // Required quantity in meters
	Standards  []string          // Applicable standard codes, in detection order
}

// CatalogProduct is a row in the supplier's product catalog. Read-only
// reference data, loaded once per run.
type CatalogProduct struct {
	ID            string  // Unique product identifier (SKU)
	Name          string  // Product name
	Category      string  // Product category
	Voltage       string  // Voltage rating text (e.g. "11 kV")
	Material      string  // Conductor material text
	Insulation    string  // Insulation type text
	Cores         string  // Core count text
	Armoring      string  // Armoring description text; empty = unarmoured
	SizeSqMM      string  // Conductor size text
	TempRating    string  // Temperature rating text
	Standards     string  // Standards compliance text
	UnitPrice     float64 // Base unit price per meter
	MOQ           float64 // Minimum order quantity in meters
	LeadTimeDays  int     // Delivery lead time in days
	BISCertified  bool    // Third-party certification flag
	WarrantyYears float64 // Warranty period in years
}
