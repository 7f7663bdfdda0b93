// Package pricing computes quantity-aware, discount-aware commercial
// figures for matched line items, including voltage-class-dependent
// compliance test selection.
//
// Pricing never fails: missing reference data degrades to the candidate's
// own commercial snapshot or to fixed conservative estimates, with the
// degradation recorded on the line item note.
package pricing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sahajm/bidscope/schema"
)

// Voltage class boundaries in kV.
const (
	lvMaxKV = 1.1
	mvMaxKV = 6.6
)

// Fixed estimates used when both the catalog row and the candidate
// snapshot are unavailable.
const (
	estimatedUnitPrice = 250.0
	estimatedMOQ       = 500.0
	estimatedTestPrice = 10000.0
	estimatedTestDays  = 7
)

// DefaultUniversalTests lists test codes required on every line item.
var DefaultUniversalTests = []string{
	"TST-COND-RES",
	"TST-INS-RES",
	"TST-DIM",
}

// DefaultClassTests maps each voltage class to its mandatory test codes.
var DefaultClassTests = map[schema.VoltageClass][]string{
	schema.ClassLV: {"TST-ROUTINE-LV", "TST-WITHSTAND-1.1KV"},
	schema.ClassMV: {"TST-WITHSTAND-3.5KV", "TST-ACCEPT-T1"},
	schema.ClassHV: {"TST-WITHSTAND-11KV", "TST-ACCEPT-ADV"},
}

// KeywordTest triggers extra test codes when its pattern appears in the
// tender's testing-requirements text. Keyword matching is independent of
// voltage class and purely additive.
type KeywordTest struct {
	Pattern *regexp.Regexp
	Codes   []string
}

// DefaultKeywordTests lists the keyword-triggered test rules.
var DefaultKeywordTests = []KeywordTest{
	{regexp.MustCompile(`(?i)tensile\s+strength`), []string{"TST-TENSILE"}},
	{regexp.MustCompile(`(?i)mechanical\s+installation`), []string{"TST-MECH-INSTALL"}},
	{regexp.MustCompile(`(?i)documentation`), []string{"TST-DOC-REVIEW"}},
	{regexp.MustCompile(`(?i)type\s+test`), []string{"TST-TYPE"}},
}

// Engine prices line items against injected reference tables.
type Engine struct {
	catalog   map[string]schema.CatalogProduct
	discounts map[string][]schema.VolumeDiscount
	tests     map[string]schema.TestService

	universal    []string
	classTests   map[schema.VoltageClass][]string
	keywordTests []KeywordTest
}

// NewEngine returns a pricing engine over the given reference tables. Any
// nil table is treated as empty; test selection rules fall back to the
// package defaults.
func NewEngine(catalog map[string]schema.CatalogProduct, discounts map[string][]schema.VolumeDiscount, tests map[string]schema.TestService) *Engine {
	if catalog == nil {
		catalog = map[string]schema.CatalogProduct{}
	}
	if discounts == nil {
		discounts = map[string][]schema.VolumeDiscount{}
	}
	if tests == nil {
		tests = map[string]schema.TestService{}
	}
	return &Engine{
		catalog:      catalog,
		discounts:    discounts,
		tests:        tests,
		universal:    DefaultUniversalTests,
		classTests:   DefaultClassTests,
		keywordTests: DefaultKeywordTests,
	}
}

// ClassifyVoltage maps a voltage rating to its class band. Unparseable or
// missing voltages default to LV.
func ClassifyVoltage(voltage string) schema.VoltageClass {
	kv, ok := schema.ParseVoltageKV(voltage)
	switch {
	case !ok, kv <= lvMaxKV:
		return schema.ClassLV
	case kv <= mvMaxKV:
		return schema.ClassMV
	default:
		return schema.ClassHV
	}
}

// Price computes the commercial figures for one line item. A nil selected
// candidate means no product cleared the match threshold: the line item is
// zeroed and noted, never dropped.
func (e *Engine) Price(item schema.LineItem, attrs schema.AttributeSet, selected *schema.MatchCandidate, testingText string) schema.PricedLineItem {
	priced := schema.PricedLineItem{
		Position: item.Position,
		Text:     item.Text,
	}
	if attrs.QuantityM != nil {
		priced.RequestedQty = *attrs.QuantityM
	}

	if selected == nil {
		priced.VoltageClass = ClassifyVoltage(attrs.Voltage)
		priced.Note = "no catalog product cleared the match threshold"
		return priced
	}

	priced.ProductID = selected.ProductID
	priced.ProductName = selected.ProductName
	priced.MatchScore = selected.Score

	basePrice, moq, voltage, note := e.resolveCommercials(selected, attrs)
	priced.Note = note

	// Order quantity never drops below the catalog minimum and never
	// below the requested quantity.
	priced.OrderQty = max(priced.RequestedQty, moq)

	unitPrice, discountPct := e.resolveUnitPrice(selected.ProductID, basePrice, priced.OrderQty)
	priced.UnitPrice = unitPrice
	priced.DiscountPct = discountPct
	priced.MaterialCost = schema.Round2(unitPrice * priced.OrderQty)

	priced.VoltageClass = ClassifyVoltage(voltage)
	priced.Tests = e.selectTests(priced.VoltageClass, testingText)
	for _, tst := range priced.Tests {
		priced.TestCost += tst.Price
	}
	priced.TestCost = schema.Round2(priced.TestCost)
	priced.LineTotal = schema.Round2(priced.MaterialCost + priced.TestCost)
	return priced
}

// resolveCommercials returns the base price, MOQ and voltage rating for the
// selected product, falling back from the catalog row to the candidate
// snapshot to fixed estimates.
func (e *Engine) resolveCommercials(selected *schema.MatchCandidate, attrs schema.AttributeSet) (basePrice, moq float64, voltage, note string) {
	if product, ok := e.catalog[selected.ProductID]; ok {
		return product.UnitPrice, product.MOQ, product.Voltage, ""
	}
	if selected.UnitPrice > 0 || selected.MOQ > 0 {
		return selected.UnitPrice, selected.MOQ, attrs.Voltage, "catalog row missing; priced from candidate snapshot"
	}
	return estimatedUnitPrice, estimatedMOQ, attrs.Voltage, "catalog row missing; priced from fixed estimates"
}

// resolveUnitPrice finds the discount band containing the order quantity.
// An order exceeding every defined band qualifies for the band with the
// highest minimum threshold; a product without bands keeps its base price.
func (e *Engine) resolveUnitPrice(productID string, basePrice, orderQty float64) (unitPrice, discountPct float64) {
	bands := e.discounts[productID]
	if len(bands) == 0 {
		return schema.Round2(basePrice), 0
	}

	var best *schema.VolumeDiscount
	for i := range bands {
		b := &bands[i]
		if orderQty >= b.MinQty && orderQty <= b.MaxQty {
			best = b
			break
		}
	}
	if best == nil {
		for i := range bands {
			b := &bands[i]
			if best == nil || b.MinQty > best.MinQty {
				best = b
			}
		}
	}

	unitPrice = schema.Round2(best.UnitPrice)
	if basePrice > 0 && unitPrice < basePrice {
		discountPct = schema.Round2(100 * (basePrice - unitPrice) / basePrice)
	}
	return unitPrice, discountPct
}

// selectTests builds the required test set: universal tests, the voltage
// class set, and any keyword-triggered additions, in that order, deduped
// by code.
func (e *Engine) selectTests(class schema.VoltageClass, testingText string) []schema.ComplianceTest {
	codes := make([]string, 0, len(e.universal)+4)
	codes = append(codes, e.universal...)
	codes = append(codes, e.classTests[class]...)
	for _, kt := range e.keywordTests {
		if kt.Pattern.MatchString(testingText) {
			codes = append(codes, kt.Codes...)
		}
	}

	seen := make(map[string]struct{}, len(codes))
	var tests []schema.ComplianceTest
	for _, code := range codes {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		tests = append(tests, e.resolveTest(code))
	}
	return tests
}

// resolveTest looks up a test code in the reference table. Unknown codes
// still produce an entry with an estimated placeholder price.
func (e *Engine) resolveTest(code string) schema.ComplianceTest {
	if svc, ok := e.tests[code]; ok {
		return schema.ComplianceTest{
			Code:         svc.Code,
			Name:         svc.Name,
			Price:        schema.Round2(svc.Price),
			DurationDays: svc.DurationDays,
		}
	}
	return schema.ComplianceTest{
		Code:         code,
		Name:         fmt.Sprintf("%s (estimated)", strings.TrimSpace(code)),
		Price:        estimatedTestPrice,
		DurationDays: estimatedTestDays,
		Estimated:    true,
	}
}

// Summarize consolidates priced line items into per-tender totals, with
// rounding applied at each monetary step.
func Summarize(items []schema.PricedLineItem) schema.PricingSummary {
	summary := schema.PricingSummary{Items: items}
	for _, item := range items {
		summary.TotalMaterialCost += item.MaterialCost
		summary.TotalTestCost += item.TestCost
	}
	summary.TotalMaterialCost = schema.Round2(summary.TotalMaterialCost)
	summary.TotalTestCost = schema.Round2(summary.TotalTestCost)
	summary.GrandTotal = schema.Round2(summary.TotalMaterialCost + summary.TotalTestCost)
	return summary
}
