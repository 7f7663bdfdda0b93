package schema

// Custom string types for type safety.
type (
	// ConductorMaterial represents the conductor material of a cable.
	ConductorMaterial string

	// InsulationType represents the insulation material of a cable.
	InsulationType string

	// ArmoringState represents whether a cable is armoured.
	ArmoringState string

	// VoltageClass represents the voltage classification band.
	VoltageClass string

	// AttributeKey represents keys used in specification matching.
	AttributeKey string

	// ScoreFactor represents keys used in composite score breakdowns.
	ScoreFactor string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for result storage.
	DatabaseBackend string
)

// Conductor materials recognized by the extractor.
const (
	MaterialCopper   ConductorMaterial = "copper"
	MaterialAluminum ConductorMaterial = "aluminum"
	MaterialUnknown  ConductorMaterial = "" // not specified
)

// Insulation types recognized by the extractor.
const (
	InsulationXLPE    InsulationType = "xlpe"
	InsulationPVC     InsulationType = "pvc"
	InsulationEPR     InsulationType = "epr"
	InsulationUnknown InsulationType = "" // not specified
)

// Armoring states recognized by the extractor.
const (
	Armoured        ArmoringState = "armoured"
	Unarmoured      ArmoringState = "unarmoured"
	ArmoringUnknown ArmoringState = "" // not specified
)

// Voltage classification bands used for compliance test selection.
const (
	ClassLV VoltageClass = "LV" // <= 1.1 kV, also the fallback for unparseable voltages
	ClassMV VoltageClass = "MV" // <= 6.6 kV
	ClassHV VoltageClass = "HV" // above 6.6 kV
)

// Attribute keys used in specification match scoring.
const (
	AttrVoltage    AttributeKey = "voltage"
	AttrMaterial   AttributeKey = "material"
	AttrInsulation AttributeKey = "insulation"
	AttrCores      AttributeKey = "cores"
	AttrArmoring   AttributeKey = "armoring"
	AttrSize       AttributeKey = "size"
	AttrTemp       AttributeKey = "temperature"
	AttrStandards  AttributeKey = "standards"
)

// Score factors used in the composite scoring logic.
const (
	FactorTechnical  ScoreFactor = "technical"  // weighted top-candidate match quality
	FactorPrice      ScoreFactor = "price"      // margin-based price competitiveness
	FactorDelivery   ScoreFactor = "delivery"   // lead time vs deadline feasibility
	FactorCompliance ScoreFactor = "compliance" // certification, standards and warranty coverage
	FactorRisk       ScoreFactor = "risk"       // availability and concentration risk (higher = lower risk)
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All result store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllScoreFactors lists the composite score factors in report order.
var AllScoreFactors = []ScoreFactor{
	FactorTechnical,
	FactorPrice,
	FactorDelivery,
	FactorCompliance,
	FactorRisk,
}

// AllAttributeKeys lists the specification attributes in report order.
var AllAttributeKeys = []AttributeKey{
	AttrVoltage,
	AttrMaterial,
	AttrInsulation,
	AttrCores,
	AttrArmoring,
	AttrSize,
	AttrTemp,
	AttrStandards,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidResultBackends lists all valid result store backends.
var ValidResultBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// GetDefaultScoreWeights returns the default weight map for composite scoring.
func GetDefaultScoreWeights() map[ScoreFactor]float64 {
	return map[ScoreFactor]float64{
		FactorTechnical:  0.35,
		FactorPrice:      0.25,
		FactorDelivery:   0.15,
		FactorCompliance: 0.15,
		FactorRisk:       0.10,
	}
}

// GetDefaultSpecWeights returns the default weight map for specification
// matching. Conductor size carries triple weight: an undersized conductor is
// a fire-safety risk and an oversized one is wasted cost, so a wrong size is
// a safety-critical mismatch rather than a soft preference.
func GetDefaultSpecWeights() map[AttributeKey]float64 {
	return map[AttributeKey]float64{
		AttrVoltage:    1,
		AttrMaterial:   1,
		AttrInsulation: 1,
		AttrCores:      1,
		AttrArmoring:   1,
		AttrSize:       3,
		AttrTemp:       1,
		AttrStandards:  1,
	}
}
