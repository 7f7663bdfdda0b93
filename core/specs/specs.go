// Package specs extracts canonical specification attributes from line item
// text. Extraction is pure, deterministic and case-insensitive: the same
// text always yields the same attribute set, and a failed pattern yields
// an absent field rather than an error.
package specs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sahajm/bidscope/schema"
)

// minTemperature guards against misclassifying low-magnitude voltage
// numerals (e.g. "1.1 kV" fragments) as temperature ratings.
const minTemperature = 50

// DefaultStandardCodes is the fixed list of standard codes recognized by
// substring match against line item text.
var DefaultStandardCodes = []string{
	"IS 1554",
	"IS 7098",
	"IS 8130",
	"IS 5831",
	"IS 3975",
	"IS 694",
	"IS 10810",
	"IEC 60502",
	"IEC 60228",
	"IEC 60332",
	"IEC 60811",
	"BS 5467",
}

var (
	voltagePattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(kv|v)\b`)

	copperPattern   = regexp.MustCompile(`(?i)\b(?:cu|copper)\b`)
	aluminumPattern = regexp.MustCompile(`(?i)\b(?:al|aluminium|aluminum)\b`)

	xlpePattern = regexp.MustCompile(`(?i)\bxlpe\b|cross[\s-]?linked\s+polyethylene`)
	pvcPattern  = regexp.MustCompile(`(?i)\bpvc\b|polyvinyl\s+chloride`)
	eprPattern  = regexp.MustCompile(`(?i)\bepr\b|ethylene\s+propylene\s+rubber`)

	coresPattern = regexp.MustCompile(`(?i)\b(\d+)[\s-]*(?:cores?|c)\b`)

	unarmouredPattern = regexp.MustCompile(`(?i)\bunarmou?red\b`)
	armouredPattern   = regexp.MustCompile(`(?i)\barmou?red\b|\bswa\b|steel\s+(?:wire|tape)`)

	sizeUnitPattern  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:mm²|mm2|sq\.?\s*mm)`)
	sizeLabelPattern = regexp.MustCompile(`(?i)conductor\s+size\s*:?\s*(\d+(?:\.\d+)?)`)

	tempPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*°?\s*c\b`)

	qtyLabelPattern = regexp.MustCompile(`(?i)(?:quantity|qty)\s*[:\-]?\s*(\d[\d,]*(?:\.\d+)?)`)
	qtyUnitPattern  = regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s*(?:meters?|metres?|m)\b`)
)

// Extractor derives attribute sets from line item text. The recognized
// standard codes are injected so sector-specific lists can extend them.
type Extractor struct {
	standardCodes []string
}

// NewExtractor returns an extractor recognizing the given standard codes.
// A nil or empty list falls back to DefaultStandardCodes.
func NewExtractor(standardCodes []string) *Extractor {
	if len(standardCodes) == 0 {
		standardCodes = DefaultStandardCodes
	}
	return &Extractor{standardCodes: standardCodes}
}

// Extract derives the canonical attribute set from line item text. Each
// rule is an independent extractor evaluated in a fixed sequence; absence
// of a pattern leaves the field unset.
func (e *Extractor) Extract(text string) schema.AttributeSet {
	var attrs schema.AttributeSet
	attrs.Voltage = extractVoltage(text)
	attrs.Material = extractMaterial(text)
	attrs.Insulation = extractInsulation(text)
	attrs.Cores = extractCores(text)
	attrs.Armoring = extractArmoring(text)
	attrs.SizeSqMM = extractSize(text)
	attrs.TempC = extractTemperature(text)
	attrs.QuantityM = extractQuantity(text)
	attrs.Standards = e.extractStandards(text)
	return attrs
}

// extractVoltage takes the first number followed by a kV or V token and
// renders it in canonical "NkV"/"NV" form.
func extractVoltage(text string) string {
	m := voltagePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	unit := "V"
	if strings.EqualFold(m[2], "kv") {
		unit = "kV"
	}
	return m[1] + unit
}

// extractMaterial matches copper before aluminum; first hit wins.
func extractMaterial(text string) schema.ConductorMaterial {
	if copperPattern.MatchString(text) {
		return schema.MaterialCopper
	}
	if aluminumPattern.MatchString(text) {
		return schema.MaterialAluminum
	}
	return schema.MaterialUnknown
}

func extractInsulation(text string) schema.InsulationType {
	switch {
	case xlpePattern.MatchString(text):
		return schema.InsulationXLPE
	case pvcPattern.MatchString(text):
		return schema.InsulationPVC
	case eprPattern.MatchString(text):
		return schema.InsulationEPR
	default:
		return schema.InsulationUnknown
	}
}

func extractCores(text string) *int {
	m := coresPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

// extractArmoring checks the explicit unarmoured form first, since
// "unarmoured" also contains the armoured keyword.
func extractArmoring(text string) schema.ArmoringState {
	if unarmouredPattern.MatchString(text) {
		return schema.Unarmoured
	}
	if armouredPattern.MatchString(text) {
		return schema.Armoured
	}
	return schema.ArmoringUnknown
}

// extractSize prefers a unit-suffixed number over a labeled value.
func extractSize(text string) *float64 {
	if m := sizeUnitPattern.FindStringSubmatch(text); m != nil {
		return parseFloat(m[1])
	}
	if m := sizeLabelPattern.FindStringSubmatch(text); m != nil {
		return parseFloat(m[1])
	}
	return nil
}

// extractTemperature only accepts values at or above minTemperature so
// voltage numerals and core counts never masquerade as temperatures.
func extractTemperature(text string) *float64 {
	for _, m := range tempPattern.FindAllStringSubmatch(text, -1) {
		v := parseFloat(m[1])
		if v != nil && *v >= minTemperature {
			return v
		}
	}
	return nil
}

// extractQuantity prefers an explicit "quantity:"/"qty:" label over a bare
// unit-suffixed numeral when both appear.
func extractQuantity(text string) *float64 {
	if m := qtyLabelPattern.FindStringSubmatch(text); m != nil {
		return parseFloat(strings.ReplaceAll(m[1], ",", ""))
	}
	if m := qtyUnitPattern.FindStringSubmatch(text); m != nil {
		return parseFloat(strings.ReplaceAll(m[1], ",", ""))
	}
	return nil
}

func (e *Extractor) extractStandards(text string) []string {
	norm := schema.Normalize(text)
	var found []string
	for _, code := range e.standardCodes {
		if strings.Contains(norm, strings.ToLower(code)) {
			found = append(found, code)
		}
	}
	return found
}

func parseFloat(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Describe renders an attribute set as a compact display string for
// reports and logs.
func Describe(attrs schema.AttributeSet) string {
	var parts []string
	if attrs.Voltage != "" {
		parts = append(parts, attrs.Voltage)
	}
	if attrs.Material != schema.MaterialUnknown {
		parts = append(parts, string(attrs.Material))
	}
	if attrs.Insulation != schema.InsulationUnknown {
		parts = append(parts, strings.ToUpper(string(attrs.Insulation)))
	}
	if attrs.Cores != nil {
		parts = append(parts, fmt.Sprintf("%dC", *attrs.Cores))
	}
	if attrs.Armoring != schema.ArmoringUnknown {
		parts = append(parts, string(attrs.Armoring))
	}
	if attrs.SizeSqMM != nil {
		parts = append(parts, fmt.Sprintf("%g mm2", *attrs.SizeSqMM))
	}
	if attrs.QuantityM != nil {
		parts = append(parts, fmt.Sprintf("%g m", *attrs.QuantityM))
	}
	if len(parts) == 0 {
		return "(unspecified)"
	}
	return strings.Join(parts, " / ")
}
