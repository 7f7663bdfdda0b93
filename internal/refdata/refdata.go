// Package refdata loads and serves the reference tables used for matching
// and pricing: the product catalog, volume discount bands and test services.
package refdata

import (
	"sort"

	"github.com/sahajm/bidscope/internal/contract"
	"github.com/sahajm/bidscope/schema"
)

// Tables is the in-memory implementation of the reference data contract.
// All fields are populated at load time and read-only afterwards, so the
// struct is safe for concurrent reads without locking.
type Tables struct {
	products  []schema.CatalogProduct
	byID      map[string]schema.CatalogProduct
	discounts map[string][]schema.VolumeDiscount
	services  map[string]schema.TestService
}

var _ contract.ReferenceData = &Tables{} // Compile-time check

// NewTables builds the reference tables from already-loaded rows.
// Discount bands are sorted by minimum quantity per product so the pricing
// engine can rely on band order.
func NewTables(products []schema.CatalogProduct, discounts []schema.VolumeDiscount, services []schema.TestService) *Tables {
	byID := make(map[string]schema.CatalogProduct, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	bands := make(map[string][]schema.VolumeDiscount)
	for _, d := range discounts {
		bands[d.ProductID] = append(bands[d.ProductID], d)
	}
	for id := range bands {
		sort.SliceStable(bands[id], func(i, j int) bool {
			return bands[id][i].MinQty < bands[id][j].MinQty
		})
	}

	byCode := make(map[string]schema.TestService, len(services))
	for _, s := range services {
		byCode[s.Code] = s
	}

	return &Tables{
		products:  products,
		byID:      byID,
		discounts: bands,
		services:  byCode,
	}
}

// Products returns the catalog rows in load order.
func (t *Tables) Products() []schema.CatalogProduct {
	return t.products
}

// ProductByID returns the catalog row for an identifier.
func (t *Tables) ProductByID(id string) (schema.CatalogProduct, bool) {
	p, ok := t.byID[id]
	return p, ok
}

// DiscountBands returns the volume discount bands per product.
func (t *Tables) DiscountBands() map[string][]schema.VolumeDiscount {
	return t.discounts
}

// TestServices returns the test-services table keyed by code.
func (t *Tables) TestServices() map[string]schema.TestService {
	return t.services
}

// Status summarizes the loaded reference data.
func (t *Tables) Status() schema.CatalogStatus {
	seen := make(map[string]bool)
	var categories []string
	for _, p := range t.products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	sort.Strings(categories)

	bandCount := 0
	for _, bands := range t.discounts {
		bandCount += len(bands)
	}

	return schema.CatalogStatus{
		Products:      len(t.products),
		Categories:    categories,
		DiscountBands: bandCount,
		TestServices:  len(t.services),
	}
}
