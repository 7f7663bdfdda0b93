package refdata

import (
	"database/sql"
	"fmt"

	"github.com/sahajm/bidscope/internal/contract"
	"github.com/sahajm/bidscope/schema"
)

// Table names for the database-backed catalog.
const (
	catalogProductsTable = "bidscope_catalog_products"
	volumeDiscountsTable = "bidscope_volume_discounts"
	testServicesTable    = "bidscope_test_services"
)

// LoadTablesDB loads the reference tables from a catalog database.
// The connection is one-shot: rows are read into memory and the
// connection is closed before returning. Missing discount or test
// tables degrade to empty tables with a warning; a missing product
// table is an error.
func LoadTablesDB(backend schema.DatabaseBackend, connStr string) (*Tables, error) {
	db, err := openDatabase(backend, connStr)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	products, err := queryProducts(db, backend)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog products: %w", err)
	}

	discounts, err := queryDiscounts(db, backend)
	if err != nil {
		contract.LogWarn("volume discounts unavailable", err)
		discounts = nil
	}

	services, err := queryTestServices(db, backend)
	if err != nil {
		contract.LogWarn("test services unavailable", err)
		services = nil
	}

	return NewTables(products, discounts, services), nil
}

func queryProducts(db *sql.DB, backend schema.DatabaseBackend) ([]schema.CatalogProduct, error) {
	query := fmt.Sprintf(`SELECT id, name, category, voltage, material, insulation,
    cores, armoring, size_sqmm, temp_rating, standards,
    unit_price, moq, lead_time_days, bis_certified, warranty_years
    FROM %s ORDER BY id`, quoteTableName(catalogProductsTable, backend))

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var products []schema.CatalogProduct
	for rows.Next() {
		var p schema.CatalogProduct
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Voltage, &p.Material, &p.Insulation,
			&p.Cores, &p.Armoring, &p.SizeSqMM, &p.TempRating, &p.Standards,
			&p.UnitPrice, &p.MOQ, &p.LeadTimeDays, &p.BISCertified, &p.WarrantyYears); err != nil {
			return nil, fmt.Errorf("failed to scan catalog product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func queryDiscounts(db *sql.DB, backend schema.DatabaseBackend) ([]schema.VolumeDiscount, error) {
	query := fmt.Sprintf(`SELECT product_id, min_qty, max_qty, unit_price
    FROM %s ORDER BY product_id, min_qty`, quoteTableName(volumeDiscountsTable, backend))

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var discounts []schema.VolumeDiscount
	for rows.Next() {
		var d schema.VolumeDiscount
		if err := rows.Scan(&d.ProductID, &d.MinQty, &d.MaxQty, &d.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan volume discount: %w", err)
		}
		discounts = append(discounts, d)
	}
	return discounts, rows.Err()
}

func queryTestServices(db *sql.DB, backend schema.DatabaseBackend) ([]schema.TestService, error) {
	query := fmt.Sprintf(`SELECT code, name, price, duration_days
    FROM %s ORDER BY code`, quoteTableName(testServicesTable, backend))

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var services []schema.TestService
	for rows.Next() {
		var s schema.TestService
		if err := rows.Scan(&s.Code, &s.Name, &s.Price, &s.DurationDays); err != nil {
			return nil, fmt.Errorf("failed to scan test service: %w", err)
		}
		services = append(services, s)
	}
	return services, rows.Err()
}
