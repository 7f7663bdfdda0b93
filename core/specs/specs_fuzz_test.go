package specs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// FuzzExtract fuzzes the extractor with arbitrary line item text. It must
// never panic and must stay idempotent on identical input.
func FuzzExtract(f *testing.F) {
	seeds := []string{
		"MV Power Cable 11kV 3-core copper XLPE armoured, Quantity: 1900 meters",
		"Control Cable 1.1kV 12c PVC unarmoured 2.5 mm2",
		"HV cable 33 kV AL cross-linked polyethylene, 90°C, conforming to IS 7098",
		"",
		"   \n\t  ",
		"415V; qty: 1,200; conductor size: 95",
		"no electrical content at all",
		"999999999999999999999 kV 999999999 core",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	e := NewExtractor(nil)
	f.Fuzz(func(t *testing.T, text string) {
		first := e.Extract(text)
		second := e.Extract(text)
		assert.Equal(t, first, second, "extraction should be idempotent for %q", text)

		if first.TempC != nil {
			assert.GreaterOrEqual(t, *first.TempC, 50.0, "temperature guard for %q", text)
		}
	})
}
