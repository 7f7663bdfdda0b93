package schema

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Round2 rounds a monetary value to 2 decimal places. Applied at every
// monetary step so float drift never compounds across line items.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Normalize lowercases and trims text for case-insensitive comparison.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NumericTokens returns all numeric tokens in a string, in order.
// "11 kV / 3 core" yields ["11", "3"].
func NumericTokens(s string) []string {
	return numberPattern.FindAllString(s, -1)
}

// ParseVoltageKV parses a voltage rating like "11 kV", "11kV" or "415V"
// into kilovolts. Returns false when no numeric value is present.
func ParseVoltageKV(s string) (float64, bool) {
	norm := Normalize(s)
	tok := numberPattern.FindString(norm)
	if tok == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	// A bare "V" unit means volts; "kV" or no unit at all means kilovolts.
	if strings.Contains(norm, "kv") {
		return val, true
	}
	if strings.Contains(norm, "v") {
		return val / 1000, true
	}
	return val, true
}

// FormatQuantity renders a quantity in meters without trailing zeros.
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64) + " m"
}
