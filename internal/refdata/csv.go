package refdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sahajm/bidscope/internal/contract"
	"github.com/sahajm/bidscope/schema"
)

// Column names for the catalog CSV file.
var catalogColumns = []string{
	"id", "name", "category", "voltage", "material", "insulation",
	"cores", "armoring", "size_sqmm", "temp_rating", "standards",
	"unit_price", "moq", "lead_time_days", "bis_certified", "warranty_years",
}

// Column names for the volume discounts CSV file.
var discountColumns = []string{"product_id", "min_qty", "max_qty", "unit_price"}

// Column names for the test services CSV file.
var testColumns = []string{"code", "name", "price", "duration_days"}

// LoadTablesCSV loads all three reference tables from CSV files.
// Discount and test paths may be empty, in which case pricing proceeds
// without volume discounts or test catalog lookups.
func LoadTablesCSV(catalogPath, discountsPath, testsPath string) (*Tables, error) {
	products, err := LoadCatalogCSV(catalogPath)
	if err != nil {
		return nil, err
	}

	var discounts []schema.VolumeDiscount
	if discountsPath != "" {
		if discounts, err = LoadDiscountsCSV(discountsPath); err != nil {
			return nil, err
		}
	}

	var services []schema.TestService
	if testsPath != "" {
		if services, err = LoadTestServicesCSV(testsPath); err != nil {
			return nil, err
		}
	}

	return NewTables(products, discounts, services), nil
}

// LoadCatalogCSV reads catalog products from a header-mapped CSV file.
func LoadCatalogCSV(path string) ([]schema.CatalogProduct, error) {
	rows, cols, err := readCSV(path, catalogColumns)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	products := make([]schema.CatalogProduct, 0, len(rows))
	for i, row := range rows {
		p := schema.CatalogProduct{
			ID:            row[cols["id"]],
			Name:          row[cols["name"]],
			Category:      row[cols["category"]],
			Voltage:       row[cols["voltage"]],
			Material:      row[cols["material"]],
			Insulation:    row[cols["insulation"]],
			Cores:         row[cols["cores"]],
			Armoring:      row[cols["armoring"]],
			SizeSqMM:      row[cols["size_sqmm"]],
			TempRating:    row[cols["temp_rating"]],
			Standards:     row[cols["standards"]],
			UnitPrice:     parseFloatCell(path, i, "unit_price", row[cols["unit_price"]]),
			MOQ:           parseFloatCell(path, i, "moq", row[cols["moq"]]),
			LeadTimeDays:  parseIntCell(path, i, "lead_time_days", row[cols["lead_time_days"]]),
			BISCertified:  parseBoolCell(row[cols["bis_certified"]]),
			WarrantyYears: parseFloatCell(path, i, "warranty_years", row[cols["warranty_years"]]),
		}
		if p.ID == "" {
			contract.LogWarn("catalog row skipped", fmt.Errorf("%s row %d: empty id", path, i+2))
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// LoadDiscountsCSV reads volume discount bands from a header-mapped CSV file.
func LoadDiscountsCSV(path string) ([]schema.VolumeDiscount, error) {
	rows, cols, err := readCSV(path, discountColumns)
	if err != nil {
		return nil, fmt.Errorf("discounts %s: %w", path, err)
	}

	discounts := make([]schema.VolumeDiscount, 0, len(rows))
	for i, row := range rows {
		d := schema.VolumeDiscount{
			ProductID: row[cols["product_id"]],
			MinQty:    parseFloatCell(path, i, "min_qty", row[cols["min_qty"]]),
			MaxQty:    parseFloatCell(path, i, "max_qty", row[cols["max_qty"]]),
			UnitPrice: parseFloatCell(path, i, "unit_price", row[cols["unit_price"]]),
		}
		if d.ProductID == "" {
			contract.LogWarn("discount row skipped", fmt.Errorf("%s row %d: empty product_id", path, i+2))
			continue
		}
		discounts = append(discounts, d)
	}
	return discounts, nil
}

// LoadTestServicesCSV reads test services from a header-mapped CSV file.
func LoadTestServicesCSV(path string) ([]schema.TestService, error) {
	rows, cols, err := readCSV(path, testColumns)
	if err != nil {
		return nil, fmt.Errorf("tests %s: %w", path, err)
	}

	services := make([]schema.TestService, 0, len(rows))
	for i, row := range rows {
		s := schema.TestService{
			Code:         row[cols["code"]],
			Name:         row[cols["name"]],
			Price:        parseFloatCell(path, i, "price", row[cols["price"]]),
			DurationDays: parseIntCell(path, i, "duration_days", row[cols["duration_days"]]),
		}
		if s.Code == "" {
			contract.LogWarn("test service row skipped", fmt.Errorf("%s row %d: empty code", path, i+2))
			continue
		}
		services = append(services, s)
	}
	return services, nil
}

// readCSV reads all data rows from a CSV file and maps the required column
// names to their indices. A missing required column is an error.
func readCSV(path string, required []string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("file is empty")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, nil, fmt.Errorf("missing required column %q", name)
		}
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return rows, cols, nil
}

// parseFloatCell parses a numeric cell, degrading to zero on bad input.
func parseFloatCell(path string, row int, col, cell string) float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		contract.LogWarn("bad numeric cell", fmt.Errorf("%s row %d column %s: %q", path, row+2, col, cell))
		return 0
	}
	return v
}

// parseIntCell parses an integer cell, degrading to zero on bad input.
func parseIntCell(path string, row int, col, cell string) int {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0
	}
	v, err := strconv.Atoi(cell)
	if err != nil {
		contract.LogWarn("bad integer cell", fmt.Errorf("%s row %d column %s: %q", path, row+2, col, cell))
		return 0
	}
	return v
}

// parseBoolCell parses a lenient boolean cell. Unrecognized values are false.
func parseBoolCell(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "yes", "true", "1", "y":
		return true
	default:
		return false
	}
}
