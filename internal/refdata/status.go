package refdata

import (
	"fmt"
	"strings"

	"github.com/sahajm/bidscope/schema"
)

// PrintCatalogStatus prints reference data status information.
func PrintCatalogStatus(status schema.CatalogStatus) {
	fmt.Printf("Products: %d\n", status.Products)
	if len(status.Categories) > 0 {
		fmt.Printf("Categories: %s\n", strings.Join(status.Categories, ", "))
	}
	fmt.Printf("Discount Bands: %d\n", status.DiscountBands)
	fmt.Printf("Test Services: %d\n", status.TestServices)
}

// PrintResultsStatus prints result store status information.
func PrintResultsStatus(status schema.ResultsStatus) {
	fmt.Printf("Results Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		fmt.Printf("Last Run ID: %d\n", status.LastRunID)
		fmt.Printf("Last Run: %s\n", status.LastRunTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Run: %s\n", status.OldestRunTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Tenders Evaluated: %d\n", status.TendersEvaluated)
	}
	fmt.Println("Table Sizes:")
	for table, size := range status.TableSizes {
		fmt.Printf("  %s: %d rows\n", table, size)
	}
}
