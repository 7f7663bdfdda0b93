package refdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahajm/bidscope/schema"
)

func sampleProducts() []schema.CatalogProduct {
	return []schema.CatalogProduct{
		{ID: "CBL-MV-11-CU-XLPE-3C", Name: "MV Cable 11kV", Category: "MV Power Cable", UnitPrice: 500, MOQ: 1000},
		{ID: "CBL-LV-1.1-AL-PVC-4C", Name: "LV Cable 1.1kV", Category: "LV Power Cable", UnitPrice: 120, MOQ: 500},
		{ID: "CBL-CTRL-1.1-CU-PVC-12C", Name: "Control Cable", Category: "LV Power Cable", UnitPrice: 95, MOQ: 500},
	}
}

func TestTablesLookup(t *testing.T) {
	tables := NewTables(sampleProducts(), nil, nil)

	assert.Len(t, tables.Products(), 3)

	p, ok := tables.ProductByID("CBL-MV-11-CU-XLPE-3C")
	require.True(t, ok)
	assert.Equal(t, "MV Cable 11kV", p.Name)

	_, ok = tables.ProductByID("CBL-UNKNOWN")
	assert.False(t, ok)
}

func TestTablesDiscountBandsSorted(t *testing.T) {
	discounts := []schema.VolumeDiscount{
		{ProductID: "CBL-MV-11-CU-XLPE-3C", MinQty: 5000, MaxQty: 10000, UnitPrice: 450},
		{ProductID: "CBL-MV-11-CU-XLPE-3C", MinQty: 1000, MaxQty: 4999, UnitPrice: 475},
	}
	tables := NewTables(sampleProducts(), discounts, nil)

	bands := tables.DiscountBands()["CBL-MV-11-CU-XLPE-3C"]
	require.Len(t, bands, 2)
	assert.Equal(t, 1000.0, bands[0].MinQty)
	assert.Equal(t, 5000.0, bands[1].MinQty)
}

func TestTablesStatus(t *testing.T) {
	discounts := []schema.VolumeDiscount{
		{ProductID: "CBL-MV-11-CU-XLPE-3C", MinQty: 1000, MaxQty: 4999, UnitPrice: 475},
	}
	services := []schema.TestService{
		{Code: "TST-COND-RES", Name: "Conductor Resistance", Price: 5000, DurationDays: 2},
	}
	tables := NewTables(sampleProducts(), discounts, services)

	status := tables.Status()
	assert.Equal(t, 3, status.Products)
	assert.Equal(t, []string{"LV Power Cable", "MV Power Cable"}, status.Categories)
	assert.Equal(t, 1, status.DiscountBands)
	assert.Equal(t, 1, status.TestServices)
}

func TestTablesEmpty(t *testing.T) {
	tables := NewTables(nil, nil, nil)

	assert.Empty(t, tables.Products())
	assert.Empty(t, tables.DiscountBands())
	assert.Empty(t, tables.TestServices())

	status := tables.Status()
	assert.Equal(t, 0, status.Products)
	assert.Empty(t, status.Categories)
}
