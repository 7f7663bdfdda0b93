package schema

import "time"

// CatalogStatus summarizes the loaded reference data for status reporting.
type CatalogStatus struct {
	Products      int      `json:"products"`
	Categories    []string `json:"categories"`
	DiscountBands int      `json:"discount_bands"`
	TestServices  int      `json:"test_services"`
}

// ResultsStatus represents the status of the result store.
type ResultsStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	TotalRuns        int              `json:"total_runs"`
	LastRunID        int64            `json:"last_run_id"`
	LastRunTime      time.Time        `json:"last_run_time"`
	OldestRunTime    time.Time        `json:"oldest_run_time"`
	TendersEvaluated int              `json:"tenders_evaluated"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}
